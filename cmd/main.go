package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/kovalyov-valentin/deadline-bot/internal/botkit"
	"github.com/kovalyov-valentin/deadline-bot/internal/categorizer"
	"github.com/kovalyov-valentin/deadline-bot/internal/config"
	"github.com/kovalyov-valentin/deadline-bot/internal/fetcher"
	"github.com/kovalyov-valentin/deadline-bot/internal/model"
	"github.com/kovalyov-valentin/deadline-bot/internal/notifier"
	"github.com/kovalyov-valentin/deadline-bot/internal/render"
	"github.com/kovalyov-valentin/deadline-bot/internal/source"
	"github.com/kovalyov-valentin/deadline-bot/internal/timeparse"
	"github.com/urfave/cli"
)

func main() {
	app := cli.App{
		Name:      "deadline-bot",
		HelpName:  "deadline-bot",
		Usage:     "keeps a telegram message in sync with a deadlines feed",
		UsageText: "deadline-bot [--config file] [run|preview]",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "config",
				Usage: "additional hcl config file",
			},
		},
		Commands: []cli.Command{
			{
				Name:   "run",
				Usage:  "publish the message and keep it updated",
				Action: run,
			},
			{
				Name:   "preview",
				Usage:  "render the message once and print it",
				Action: preview,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	return loadConfigFile(c.GlobalString("config"))
}

func loadConfigFile(path string) (config.Config, error) {
	files := config.DefaultFiles
	if path != "" {
		// Файлы по умолчанию необязательны, а явно указанный должен существовать
		if _, err := os.Stat(path); err != nil {
			return config.Config{}, fmt.Errorf("config file: %w", err)
		}
		files = append(files[:len(files):len(files)], path)
	}
	return config.Load(files...)
}

// Зависимости, общие для run и preview
type pipeline struct {
	fetcher     *fetcher.Fetcher
	categorizer *categorizer.Categorizer
	renderer    *render.Renderer
	location    *time.Location
}

func buildPipeline(cfg config.Config) (*pipeline, error) {
	table := model.DefaultCategories()
	if cfg.CategoriesFile != "" {
		loaded, err := model.LoadCategories(cfg.CategoriesFile)
		if err != nil {
			return nil, err
		}
		table = loaded
	}

	var src fetcher.Source
	switch cfg.FeedFormat {
	case config.FeedFormatRSS:
		src = source.NewRSSSource(cfg.FeedURL, cfg.FetchTimeout)
	default:
		src = source.NewJSONSource(cfg.FeedURL, cfg.FetchTimeout)
	}

	loc := timeparse.FixedZone(cfg.UTCOffset)

	return &pipeline{
		fetcher:     fetcher.NewFetcher(src, cfg.FilterKeywords),
		categorizer: categorizer.New(timeparse.NewParser(loc), table),
		renderer: render.New(render.Options{
			Vocabulary:     timeparse.Russian,
			Location:       loc,
			CalendarLinks:  cfg.CalendarLinks,
			AddDeadlineURL: cfg.AddDeadlineURL,
			BotName:        cfg.BotName,
			BotUsername:    cfg.BotUsername,
		}),
		location: loc,
	}, nil
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	schedule, err := cfg.Schedule()
	if err != nil {
		return err
	}

	// Создаем бота, используя токен из конфига
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	lifetime := cfg.Lifetime
	if cfg.Persistent() {
		lifetime = 0
	}

	n := notifier.New(
		p.fetcher,
		p.categorizer,
		p.renderer,
		botkit.New(botAPI),
		notifier.Config{
			ChatID:    cfg.TelegramChatID,
			MessageID: cfg.TelegramMessageID,
			Lifetime:  lifetime,
			Schedule:  schedule,
		},
	)

	//Graceful Shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := n.Start(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			return fmt.Errorf("notifier: %w", err)
		}
	}

	log.Println("notifier stopped")
	return nil
}

func preview(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	entries, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return err
	}

	now := time.Now().In(p.location)
	msg := p.renderer.Render(p.categorizer.Categorize(entries, now), now)

	fmt.Fprintln(c.App.Writer, msg.Text)
	return nil
}
