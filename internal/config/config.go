package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
	"github.com/robfig/cron/v3"
)

const (
	FeedFormatJSON = "json"
	FeedFormatRSS  = "rss"
)

// Хранить в файле мы будем в формате hcl.
// Также указываем ключ для переменных окружения
type Config struct {
	TelegramBotToken string `hcl:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN" required:"true"`
	TelegramChatID   int64  `hcl:"telegram_chat_id" env:"TELEGRAM_CHAT_ID" required:"true"`
	// Если задан, бот редактирует это сообщение и никогда его не удаляет
	TelegramMessageID int `hcl:"telegram_message_id" env:"TELEGRAM_MESSAGE_ID"`

	FeedURL        string        `hcl:"feed_url" env:"FEED_URL" required:"true"`
	FeedFormat     string        `hcl:"feed_format" env:"FEED_FORMAT" default:"json"`
	FetchTimeout   time.Duration `hcl:"fetch_timeout" env:"FETCH_TIMEOUT" default:"15s"`
	FilterKeywords []string      `hcl:"filter_keywords" env:"FILTER_KEYWORDS"`

	// Расписание в формате cron, например "@every 1m" или "*/5 * * * *"
	RefreshSchedule string `hcl:"refresh_schedule" env:"REFRESH_SCHEDULE" default:"@every 1m"`
	// Через сколько созданное сообщение удаляется. 0 - никогда
	Lifetime  time.Duration `hcl:"lifetime" env:"LIFETIME" default:"24h"`
	UTCOffset time.Duration `hcl:"utc_offset" env:"UTC_OFFSET" default:"3h"`

	CalendarLinks  bool   `hcl:"calendar_links" env:"CALENDAR_LINKS" default:"true"`
	AddDeadlineURL string `hcl:"add_deadline_url" env:"ADD_DEADLINE_URL" default:"https://m3102.nawinds.dev/deadlines-editing-instructions/"`
	BotName        string `hcl:"bot_name" env:"BOT_NAME" default:"Дединсайдер"`
	BotUsername    string `hcl:"bot_username" env:"BOT_USERNAME"`
	// yaml файл с таблицей категорий, по умолчанию встроенная таблица
	CategoriesFile string `hcl:"categories_file" env:"CATEGORIES_FILE"`
}

// Файлы, где могут лежать конфиги
var DefaultFiles = []string{"./config.hcl", "./config.local.hcl"}

// Load читает конфиг из файлов и переменных окружения с префиксом DLB.
// Переменные окружения важнее файлов.
func Load(files ...string) (Config, error) {
	var cfg Config

	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "DLB",
		Files:     files,
		// Флаги разбирает cli
		SkipFlags: true,
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.TelegramChatID == 0 {
		errs = append(errs, errors.New("telegram_chat_id is required"))
	}
	if c.TelegramMessageID < 0 {
		errs = append(errs, errors.New("telegram_message_id must not be negative"))
	}
	if c.FeedURL == "" {
		errs = append(errs, errors.New("feed_url is required"))
	}
	if c.FeedFormat != FeedFormatJSON && c.FeedFormat != FeedFormatRSS {
		errs = append(errs, fmt.Errorf("unknown feed_format %q", c.FeedFormat))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("fetch_timeout must be positive"))
	}
	if c.Lifetime < 0 {
		errs = append(errs, errors.New("lifetime must not be negative"))
	}
	if _, err := c.Schedule(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Persistent - режим постоянного сообщения
func (c Config) Persistent() bool {
	return c.TelegramMessageID != 0
}

func (c Config) Schedule() (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(c.RefreshSchedule)
	if err != nil {
		return nil, fmt.Errorf("parse refresh_schedule %q: %w", c.RefreshSchedule, err)
	}
	return schedule, nil
}
