package source

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SlyMarbo/rss"
	"github.com/kovalyov-valentin/deadline-bot/internal/model"
	"github.com/samber/lo"
)

// Формат, в котором время уходит дальше в парсер
const feedTimeLayout = "02 Jan 2006 15:04:05 -0700"

// RSS клиент. Каждый item ленты превращается в дедлайн.
type RSSSource struct {
	URL    string
	client *http.Client
}

func NewRSSSource(url string, timeout time.Duration) RSSSource {
	return RSSSource{
		URL:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s RSSSource) Name() string {
	return "rss"
}

func (s RSSSource) Fetch(ctx context.Context) ([]model.RawEntry, error) {
	feed, err := s.loadFeed(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(feed.Items, func(item *rss.Item, _ int) model.RawEntry {
		return model.RawEntry{
			Name: itemName(item),
			Time: item.Date.Format(feedTimeLayout),
			URL:  item.Link,
		}
	}), nil
}

func (s RSSSource) loadFeed(ctx context.Context) (*rss.Feed, error) {
	body, err := get(ctx, s.client, s.URL)
	if err != nil {
		return nil, err
	}

	feed, err := rss.Parse(withItemGUIDs(body))
	if err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}

	return feed, nil
}

// Если в заголовке нет тега, первая категория item становится тегом
func itemName(item *rss.Item) string {
	title := strings.TrimSpace(item.Title)
	if strings.HasPrefix(title, "[") || len(item.Categories) == 0 {
		return title
	}

	category := strings.TrimSpace(item.Categories[0])
	if category == "" {
		return title
	}

	return "[" + category + "] " + title
}

// rss.Parse выбрасывает item без guid и link и склеивает item с одинаковой
// ссылкой. У дедлайна ссылки может не быть, поэтому каждому item без guid
// дописываем свой guid по порядковому номеру.
func withItemGUIDs(data []byte) []byte {
	var (
		decoder = xml.NewDecoder(bytes.NewReader(data))
		out     bytes.Buffer
		copied  int64
		index   int
		inItem  bool
		hasGUID bool
	)

	decoder.Strict = false

	for {
		start := decoder.InputOffset()
		token, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Пусть ошибку разбора вернет сам rss.Parse
			return data
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "item":
				inItem, hasGUID = true, false
			case inItem && t.Name.Local == "guid":
				hasGUID = true
			}
		case xml.EndElement:
			if t.Name.Local != "item" || !inItem {
				continue
			}
			inItem = false
			index++
			if hasGUID {
				continue
			}
			out.Write(data[copied:start])
			fmt.Fprintf(&out, "<guid>deadline-item-%d</guid>", index)
			copied = start
		}
	}

	if copied == 0 {
		return data
	}

	out.Write(data[copied:])
	return out.Bytes()
}
