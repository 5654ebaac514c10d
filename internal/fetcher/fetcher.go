package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/kovalyov-valentin/deadline-bot/internal/model"
	"github.com/tomakado/containers/set"
)

// Любая ошибка источника заворачивается в ErrFetchFailure,
// дальше по коду причины не различаются
var ErrFetchFailure = errors.New("fetch failure")

// Интерфейс источника
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.RawEntry, error)
}

// Структура сборщика
type Fetcher struct {
	source Source
	// Фильтрация дедлайнов по ключевым словам
	filterKeywords []string
}

func NewFetcher(source Source, filterKeywords []string) *Fetcher {
	keywords := make([]string, 0, len(filterKeywords))
	for _, keyword := range filterKeywords {
		if keyword = strings.ToLower(strings.TrimSpace(keyword)); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}

	return &Fetcher{
		source:         source,
		filterKeywords: keywords,
	}
}

// Забирает записи из источника. Кэша нет, каждый вызов идет в сеть
func (f *Fetcher) Fetch(ctx context.Context) ([]model.RawEntry, error) {
	entries, err := f.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: source %s: %v", ErrFetchFailure, f.source.Name(), err)
	}

	kept := entries[:0:0]
	for _, entry := range entries {
		if f.entryShouldBeSkipped(entry) {
			log.Printf("[INFO] skipping deadline %q: matches filter keyword", entry.Name)
			continue
		}
		kept = append(kept, entry)
	}

	return kept, nil
}

// Запись пропускается, если ключевое слово совпадает с ее тегом
// или содержится в названии
func (f *Fetcher) entryShouldBeSkipped(entry model.RawEntry) bool {
	if len(f.filterKeywords) == 0 {
		return false
	}

	var (
		name    = strings.ToLower(entry.Name)
		tagsSet = set.New(entryTags(name)...)
	)

	for _, keyword := range f.filterKeywords {
		if tagsSet.Contains(keyword) || strings.Contains(name, keyword) {
			return true
		}
	}

	return false
}

// Теги записи - все значения в квадратных скобках в начале имени
func entryTags(name string) []string {
	var tags []string
	rest := strings.TrimSpace(name)

	for strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			break
		}
		tags = append(tags, strings.TrimSpace(rest[1:end]))
		rest = strings.TrimSpace(rest[end+1:])
	}

	return tags
}
