package model

import "time"

// Запись дедлайна в том виде, в котором она пришла из ленты
type RawEntry struct {
	Name string `json:"name"`
	// Время в формате "02 Jan 2006 15:04:05 GMT+3"
	Time string `json:"time"`
	URL  string `json:"url,omitempty"`
}

// Нормализованный дедлайн.
// Передается по значению, поэтому после создания его никто не меняет.
type Event struct {
	// Имя без тега категории
	DisplayName string
	Category    Category
	Instant     time.Time
	// Ссылка может быть пустой
	Link string
}

// Ключ категории, например "test" или "primary"
type Category string

const (
	CategoryPrimary      Category = "primary"
	CategoryTest         Category = "test"
	CategoryLecture      Category = "lecture"
	CategoryDefense      Category = "defense"
	CategoryExam         Category = "exam"
	CategoryConsultation Category = "consultation"
	// Сюда попадают записи с тегом, которого нет в таблице
	CategoryOther Category = "other"
)
