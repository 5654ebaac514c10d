package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kovalyov-valentin/deadline-bot/internal/botkit/markup"
	"github.com/kovalyov-valentin/deadline-bot/internal/categorizer"
	"github.com/kovalyov-valentin/deadline-bot/internal/model"
	"github.com/kovalyov-valentin/deadline-bot/internal/timeparse"
)

const (
	nothingDueLine   = "Дедлайнов нет)"
	addDeadlineTitle = "Добавить дедлайн/тест"
)

// Эмодзи для позиций 1-10, нулевой элемент не используется
var numberEmojis = [...]string{"0.", "1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

type Options struct {
	Vocabulary timeparse.Vocabulary
	// Зона, в которой выводится время обновления
	Location *time.Location
	// Оборачивать абсолютное время в ссылку на добавление в календарь
	CalendarLinks  bool
	AddDeadlineURL string
	BotName        string
	BotUsername    string
}

// Готовое сообщение.
// Body - все, что идет после заголовка со временем обновления. Его и сравниваем между циклами.
type Message struct {
	Text string
	Body string
}

type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	if opts.Location == nil {
		opts.Location = timeparse.FixedZone(3 * time.Hour)
	}
	return &Renderer{opts: opts}
}

// Render собирает текст сообщения. При одинаковых корзинах и now результат побайтно совпадает
func (r *Renderer) Render(buckets []categorizer.Bucket, now time.Time) Message {
	primary := categorizer.Primary(buckets)

	var header strings.Builder
	header.WriteString(emojiPrefix(primary.Spec.Emoji))
	header.WriteString(markup.Bold(markup.EscapeForHTML(primary.Spec.Title)))
	header.WriteString(" (")
	header.WriteString(markup.Italic("Обновлено в " + timeparse.ClockLabel(now.In(r.opts.Location)) + " 🔄"))
	header.WriteString("):\n\n")

	var body strings.Builder
	if len(primary.Events) == 0 {
		body.WriteString(nothingDueLine + "\n\n")
	} else {
		r.writeEvents(&body, primary.Events, now)
	}

	for _, bucket := range buckets {
		if bucket.Spec.Key == model.CategoryPrimary || len(bucket.Events) == 0 {
			continue
		}

		body.WriteString("\n")
		body.WriteString(emojiPrefix(bucket.Spec.Emoji))
		body.WriteString(markup.Bold(markup.EscapeForHTML(bucket.Spec.Title)))
		body.WriteString(":\n\n")
		r.writeEvents(&body, bucket.Events, now)
	}

	if r.opts.AddDeadlineURL != "" {
		body.WriteString("\n🆕 ")
		body.WriteString(markup.Link(r.opts.AddDeadlineURL, addDeadlineTitle))
	}

	return Message{
		Text: header.String() + body.String(),
		Body: body.String(),
	}
}

func (r *Renderer) writeEvents(sb *strings.Builder, events []model.Event, now time.Time) {
	for i, event := range events {
		title := markup.EscapeForHTML(event.DisplayName)
		if event.Link != "" {
			title = markup.Link(event.Link, title)
		}

		absolute := markup.EscapeForHTML(timeparse.AbsoluteLabel(event.Instant, r.opts.Vocabulary))
		if r.opts.CalendarLinks {
			absolute = markup.Link(CalendarLink(event.DisplayName, event.Instant, r.details()), absolute)
		}

		sb.WriteString(Enumerate(i + 1))
		sb.WriteString(markup.Bold(title))
		sb.WriteString(" — ")
		sb.WriteString(timeparse.RelativeLabel(event.Instant, now))
		sb.WriteString("\n(")
		sb.WriteString(absolute)
		sb.WriteString(")\n\n")
	}
}

func (r *Renderer) details() string {
	if r.opts.BotName == "" {
		return ""
	}
	if r.opts.BotUsername == "" {
		return fmt.Sprintf("Дедлайн добавлен ботом %s", r.opts.BotName)
	}
	return fmt.Sprintf("Дедлайн добавлен ботом %s (https://t.me/%s)", r.opts.BotName, r.opts.BotUsername)
}

// Enumerate возвращает префикс записи по ее позиции, начиная с 1
func Enumerate(position int) string {
	if position >= 1 && position < len(numberEmojis) {
		return numberEmojis[position] + " "
	}
	return strconv.Itoa(position) + ". "
}

func emojiPrefix(emoji string) string {
	if emoji == "" {
		return ""
	}
	return emoji + " "
}
