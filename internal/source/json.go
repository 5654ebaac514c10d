package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kovalyov-valentin/deadline-bot/internal/model"
)

// Максимальный размер тела ответа, больше лента не бывает
const maxBodySize = 4 << 20

// JSON лента вида {"deadlines": [{"name": ..., "time": ..., "url": ...}]}
type JSONSource struct {
	URL    string
	client *http.Client
}

func NewJSONSource(url string, timeout time.Duration) JSONSource {
	return JSONSource{
		URL:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s JSONSource) Name() string {
	return "json"
}

func (s JSONSource) Fetch(ctx context.Context) ([]model.RawEntry, error) {
	body, err := get(ctx, s.client, s.URL)
	if err != nil {
		return nil, err
	}

	// Указатель, чтобы отличить отсутствующий ключ от пустого списка
	var doc struct {
		Deadlines *[]model.RawEntry `json:"deadlines"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	if doc.Deadlines == nil {
		return nil, errors.New("decode feed: no deadlines key")
	}

	return *doc.Deadlines, nil
}

// Общий GET для всех источников
func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}
