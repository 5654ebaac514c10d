package model

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Строка таблицы категорий
type CategorySpec struct {
	Key Category `yaml:"key"`
	// Тег без скобок, например "Тест". У основной категории тег пустой
	Tag   string `yaml:"tag"`
	Title string `yaml:"title"`
	Emoji string `yaml:"emoji"`
}

// Упорядоченная таблица категорий. Порядок строк - это порядок вывода в сообщении
type CategoryTable []CategorySpec

// Таблица по умолчанию
func DefaultCategories() CategoryTable {
	return CategoryTable{
		{Key: CategoryPrimary, Title: "Дедлайны", Emoji: "🔥️️"},
		{Key: CategoryTest, Tag: "Тест", Title: "Тесты", Emoji: "🧑‍💻"},
		{Key: CategoryLecture, Tag: "Лекция", Title: "Лекции", Emoji: "📚"},
		{Key: CategoryDefense, Tag: "Защита", Title: "Защиты", Emoji: "🛡"},
		{Key: CategoryExam, Tag: "Экзамен", Title: "Экзамены", Emoji: "🎓"},
		{Key: CategoryConsultation, Tag: "Консультация", Title: "Консультации", Emoji: "💬"},
		{Key: CategoryOther, Title: "Прочее", Emoji: "📌"},
	}
}

// Ищет категорию по тегу без учета регистра
func (t CategoryTable) ByTag(tag string) (CategorySpec, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return CategorySpec{}, false
	}

	return lo.Find(t, func(spec CategorySpec) bool {
		return spec.Tag != "" && strings.EqualFold(spec.Tag, tag)
	})
}

func (t CategoryTable) ByKey(key Category) (CategorySpec, bool) {
	return lo.Find(t, func(spec CategorySpec) bool {
		return spec.Key == key
	})
}

func (t CategoryTable) Validate() error {
	if len(t) == 0 {
		return errors.New("category table is empty")
	}

	if _, ok := t.ByKey(CategoryPrimary); !ok {
		return errors.New("category table has no primary row")
	}

	if _, ok := t.ByKey(CategoryOther); !ok {
		return errors.New("category table has no other row")
	}

	keys := lo.Map(t, func(spec CategorySpec, _ int) Category { return spec.Key })
	if dup := lo.FindDuplicates(keys); len(dup) > 0 {
		return fmt.Errorf("duplicate category keys: %v", dup)
	}

	tags := lo.FilterMap(t, func(spec CategorySpec, _ int) (string, bool) {
		return strings.ToLower(spec.Tag), spec.Tag != ""
	})
	if dup := lo.FindDuplicates(tags); len(dup) > 0 {
		return fmt.Errorf("duplicate category tags: %v", dup)
	}

	for _, spec := range t {
		switch spec.Key {
		case CategoryPrimary, CategoryOther:
			if spec.Tag != "" {
				return fmt.Errorf("category %q must not have a tag", spec.Key)
			}
		default:
			if spec.Tag == "" {
				return fmt.Errorf("category %q has no tag", spec.Key)
			}
		}
	}

	return nil
}

// Загружает таблицу категорий из yaml файла вида
//
//	categories:
//	  - key: primary
//	    title: Дедлайны
//	  - key: test
//	    tag: Тест
//	    title: Тесты
func LoadCategories(path string) (CategoryTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}

	var doc struct {
		Categories CategoryTable `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode categories file: %w", err)
	}

	if err := doc.Categories.Validate(); err != nil {
		return nil, err
	}

	return doc.Categories, nil
}
