package markup

import "strings"

var (
	replacer = strings.NewReplacer(
		"&",
		"&amp;",
		"<",
		"&lt;",
		">",
		"&gt;",
		`"`,
		"&quot;",
	)
)

// Функция которая делает escape спец символов для HTML режима телеграма
func EscapeForHTML(src string) string {
	return replacer.Replace(src)
}

func Bold(text string) string {
	return "<b>" + text + "</b>"
}

func Italic(text string) string {
	return "<i>" + text + "</i>"
}

// Ссылка. text должен быть уже экранирован, href экранируется здесь
func Link(href, text string) string {
	return `<a href="` + EscapeForHTML(href) + `">` + text + "</a>"
}
