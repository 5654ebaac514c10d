package render

import (
	"net/url"
	"strings"
	"time"
)

const (
	calendarBaseURL = "https://calendar.google.com/calendar/u/0/r/eventedit"
	calendarLayout  = "20060102T150405-0700"
	// Цвет события в Google Calendar
	calendarColor = "6"
)

// CalendarLink строит ссылку на создание события в Google Calendar.
// Начало и конец события совпадают с дедлайном.
func CalendarLink(title string, instant time.Time, details string) string {
	stamp := quote(instant.Format(calendarLayout))

	var sb strings.Builder
	sb.WriteString(calendarBaseURL)
	sb.WriteString("?text=")
	sb.WriteString(quote(title))
	sb.WriteString("&dates=")
	sb.WriteString(stamp + "/" + stamp)
	if details != "" {
		sb.WriteString("&details=")
		sb.WriteString(quote(details))
	}
	sb.WriteString("&color=" + calendarColor)

	return sb.String()
}

// Процентное кодирование, пробел кодируется как %20
func quote(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
