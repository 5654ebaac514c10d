package timeparse

import (
	"fmt"
	"time"
)

// Словарь для вывода дат. Передается явно, глобальную локаль не трогаем
type Vocabulary struct {
	// Индекс - time.Weekday
	Weekdays [7]string
	// Индекс - time.Month-1, в родительном падеже
	Months [12]string
	// Связка между датой и временем
	At string
}

var Russian = Vocabulary{
	Weekdays: [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"},
	Months: [12]string{
		"января", "февраля", "марта", "апреля", "мая", "июня",
		"июля", "августа", "сентября", "октября", "ноября", "декабря",
	},
	At: "в",
}

// RelativeLabel возвращает грубую оценку оставшегося времени.
// Отрицательная разница считается нулевой: дедлайн может наступить
// между фильтрацией прошедших записей и отрисовкой.
func RelativeLabel(instant, now time.Time) string {
	total := int64(instant.Sub(now) / time.Second)
	if total < 0 {
		total = 0
	}

	var (
		days    = total / (24 * 3600)
		hours   = (total % (24 * 3600)) / 3600
		minutes = (total % 3600) / 60
	)

	switch {
	case days >= 5:
		return fmt.Sprintf("%d дней", days)
	case days >= 2:
		return fmt.Sprintf("%d дня", days)
	case days == 1:
		return fmt.Sprintf("1 день %dч %dм", hours, minutes)
	default:
		return fmt.Sprintf("%dч %dм", hours, minutes)
	}
}

// AbsoluteLabel форматирует время как "Чт, 01 января в 23:59"
func AbsoluteLabel(instant time.Time, voc Vocabulary) string {
	return fmt.Sprintf(
		"%s, %02d %s %s %02d:%02d",
		voc.Weekdays[instant.Weekday()],
		instant.Day(),
		voc.Months[instant.Month()-1],
		voc.At,
		instant.Hour(),
		instant.Minute(),
	)
}

// Время последнего обновления для заголовка сообщения
func ClockLabel(t time.Time) string {
	return t.Format("15:04")
}
