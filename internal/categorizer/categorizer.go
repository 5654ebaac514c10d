package categorizer

import (
	"cmp"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/kovalyov-valentin/deadline-bot/internal/model"
	"github.com/kovalyov-valentin/deadline-bot/internal/timeparse"
	"github.com/samber/lo"
)

// Дедлайны одной категории, отсортированные по времени
type Bucket struct {
	Spec   model.CategorySpec
	Events []model.Event
}

type Categorizer struct {
	parser *timeparse.Parser
	table  model.CategoryTable
}

func New(parser *timeparse.Parser, table model.CategoryTable) *Categorizer {
	return &Categorizer{
		parser: parser,
		table:  table,
	}
}

// Classify определяет категорию только по имени записи.
// Возвращает категорию и имя без тега.
func (c *Categorizer) Classify(name string) (model.Category, string) {
	trimmed := strings.TrimSpace(name)
	if !strings.HasPrefix(trimmed, "[") {
		return model.CategoryPrimary, trimmed
	}

	end := strings.Index(trimmed, "]")
	if end < 0 {
		return model.CategoryPrimary, trimmed
	}

	spec, ok := c.table.ByTag(trimmed[1:end])
	if !ok {
		// Тег есть, но в таблице его нет. В основную категорию такие записи не попадают
		return model.CategoryOther, trimmed
	}

	return spec.Key, strings.TrimSpace(trimmed[end+1:])
}

// Event строит нормализованный дедлайн из записи ленты
func (c *Categorizer) Event(entry model.RawEntry) (model.Event, error) {
	instant, err := c.parser.Parse(entry.Time)
	if err != nil {
		return model.Event{}, err
	}

	category, displayName := c.Classify(entry.Name)

	return model.Event{
		DisplayName: displayName,
		Category:    category,
		Instant:     instant,
		Link:        strings.TrimSpace(entry.URL),
	}, nil
}

// Categorize раскладывает записи по категориям в порядке таблицы.
// Возвращаются все категории, в том числе пустые: рендер сам решает, что выводить.
func (c *Categorizer) Categorize(entries []model.RawEntry, now time.Time) []Bucket {
	events := make([]model.Event, 0, len(entries))

	for _, entry := range entries {
		event, err := c.Event(entry)
		if err != nil {
			log.Printf("[WARN] dropping deadline %q: %v", entry.Name, err)
			continue
		}

		// Прошедшие дедлайны не показываем
		if event.Instant.Before(now) {
			continue
		}

		events = append(events, event)
	}

	grouped := lo.GroupBy(events, func(event model.Event) model.Category {
		return event.Category
	})

	return lo.Map(c.table, func(spec model.CategorySpec, _ int) Bucket {
		bucket := grouped[spec.Key]
		// Стабильная сортировка, при равном времени сохраняется порядок ленты
		slices.SortStableFunc(bucket, func(a, b model.Event) int {
			return cmp.Compare(timeparse.SortKey(a.Instant), timeparse.SortKey(b.Instant))
		})

		return Bucket{Spec: spec, Events: bucket}
	})
}

// Основная категория есть в таблице всегда, это проверяет Validate
func Primary(buckets []Bucket) Bucket {
	bucket, _ := lo.Find(buckets, func(b Bucket) bool {
		return b.Spec.Key == model.CategoryPrimary
	})
	return bucket
}
