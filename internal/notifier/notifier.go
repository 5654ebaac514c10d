package notifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kovalyov-valentin/deadline-bot/internal/categorizer"
	"github.com/kovalyov-valentin/deadline-bot/internal/model"
	"github.com/kovalyov-valentin/deadline-bot/internal/render"
	"github.com/robfig/cron/v3"
)

// Сколько ждем удаления сообщения после отмены контекста
const shutdownTimeout = 30 * time.Second

type EntryFetcher interface {
	Fetch(ctx context.Context) ([]model.RawEntry, error)
}

type Categorizer interface {
	Categorize(entries []model.RawEntry, now time.Time) []categorizer.Bucket
}

type Renderer interface {
	Render(buckets []categorizer.Bucket, now time.Time) render.Message
}

type Messenger interface {
	CreateMessage(ctx context.Context, chatID int64, text string) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) (int, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) (bool, error)
}

type Config struct {
	ChatID int64
	// Существующее сообщение. Если задано, сообщение только редактируется
	// и никогда не удаляется, срок жизни не действует
	MessageID int
	// Сколько живет созданное сообщение. 0 - бесконечно
	Lifetime time.Duration
	// Расписание обновлений, по умолчанию раз в минуту
	Schedule cron.Schedule
	Retry    RetryPolicy
	Now      func() time.Time
	Sleep    SleepFunc
}

// Notifier держит одно сообщение в чате в актуальном состоянии
type Notifier struct {
	fetcher     EntryFetcher
	categorizer Categorizer
	renderer    Renderer
	messenger   Messenger
	cfg         Config
}

func New(
	fetcher EntryFetcher,
	categorizer Categorizer,
	renderer Renderer,
	messenger Messenger,
	cfg Config,
) *Notifier {
	if cfg.Schedule == nil {
		cfg.Schedule = cron.Every(time.Minute)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Sleep == nil {
		cfg.Sleep = Sleep
	}
	if cfg.Retry.Backoff == nil {
		cfg.Retry = DefaultRetryPolicy()
		cfg.Retry.Sleep = cfg.Sleep
	}
	if cfg.Retry.Sleep == nil {
		cfg.Retry.Sleep = cfg.Sleep
	}

	return &Notifier{
		fetcher:     fetcher,
		categorizer: categorizer,
		renderer:    renderer,
		messenger:   messenger,
		cfg:         cfg,
	}
}

// Состояние одного запуска. Живет только внутри Start
type SyncSession struct {
	RunID string
	// Выдается один раз при публикации и больше не меняется
	MessageID int
	// Тело последнего отправленного текста, без времени обновления
	LastBody string
	// Попытки последней операции с сообщением
	RetryCount int
	// Нулевое значение - без срока
	Deadline   time.Time
	Persistent bool
}

func (s *SyncSession) expired(now time.Time) bool {
	return !s.Deadline.IsZero() && !now.Before(s.Deadline)
}

func (n *Notifier) newSession() *SyncSession {
	session := &SyncSession{
		RunID:      uuid.NewString(),
		MessageID:  n.cfg.MessageID,
		Persistent: n.cfg.MessageID != 0,
	}

	if !session.Persistent && n.cfg.Lifetime > 0 {
		session.Deadline = n.cfg.Now().Add(n.cfg.Lifetime)
	}

	return session
}

// Start крутит цикл синхронизации до истечения срока или отмены контекста.
// Прерывает цикл только ошибка первой публикации.
func (n *Notifier) Start(ctx context.Context) error {
	session := n.newSession()
	n.logf(session, "INFO", "starting, chat=%d persistent=%v deadline=%s",
		n.cfg.ChatID, session.Persistent, formatDeadline(session.Deadline))

	msg, err := n.initialRender(ctx, session)
	if err != nil {
		if errors.Is(err, errExpired) {
			n.logf(session, "INFO", "expired before the first publish")
			return nil
		}
		return err
	}

	if err := n.publish(ctx, session, msg); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n.logf(session, "ERROR", "failed to publish: %v", err)
		return fmt.Errorf("publish: %w", err)
	}

	for {
		if err := n.wait(ctx); err != nil {
			n.shutdown(ctx, session)
			return err
		}

		if session.expired(n.cfg.Now()) {
			return n.expire(ctx, session)
		}

		if err := n.refresh(ctx, session); err != nil {
			n.shutdown(ctx, session)
			return ctx.Err()
		}
	}
}

var errExpired = errors.New("session expired")

// Первый текст. Пока лента не отдается, ждем следующего периода
func (n *Notifier) initialRender(ctx context.Context, session *SyncSession) (render.Message, error) {
	for {
		msg, err := n.cycle(ctx)
		if err == nil {
			return msg, nil
		}

		if ctx.Err() != nil {
			return render.Message{}, ctx.Err()
		}

		n.logf(session, "ERROR", "initial fetch failed, waiting for the next period: %v", err)

		if err := n.wait(ctx); err != nil {
			return render.Message{}, err
		}

		if session.expired(n.cfg.Now()) {
			return render.Message{}, errExpired
		}
	}
}

// Один цикл: лента -> категории -> текст
func (n *Notifier) cycle(ctx context.Context) (render.Message, error) {
	entries, err := n.fetcher.Fetch(ctx)
	if err != nil {
		return render.Message{}, err
	}

	now := n.cfg.Now()
	return n.renderer.Render(n.categorizer.Categorize(entries, now), now), nil
}

func (n *Notifier) publish(ctx context.Context, session *SyncSession, msg render.Message) error {
	var (
		messageID int
		attempts  int
		err       error
	)

	if session.Persistent {
		attempts, err = n.cfg.Retry.Do(ctx, "edit", func(ctx context.Context) error {
			id, editErr := n.messenger.EditMessage(ctx, n.cfg.ChatID, session.MessageID, msg.Text)
			messageID = id
			return editErr
		})
	} else {
		attempts, err = n.cfg.Retry.Do(ctx, "send", func(ctx context.Context) error {
			id, sendErr := n.messenger.CreateMessage(ctx, n.cfg.ChatID, msg.Text)
			messageID = id
			return sendErr
		})
	}

	session.RetryCount = attempts
	if err != nil {
		return err
	}

	session.MessageID = messageID
	session.LastBody = msg.Body
	n.logf(session, "INFO", "message published, attempts=%d", session.RetryCount)

	return nil
}

// Обновление сообщения. Nil, если цикл пропущен или прошел успешно
func (n *Notifier) refresh(ctx context.Context, session *SyncSession) error {
	msg, err := n.cycle(ctx)
	if err != nil {
		n.logf(session, "ERROR", "update skipped, fetch failed: %v", err)
		return nil
	}

	if msg.Body == session.LastBody {
		n.logf(session, "INFO", "update skipped, nothing changed")
		return nil
	}

	attempts, err := n.cfg.Retry.Do(ctx, "edit", func(ctx context.Context) error {
		_, err := n.messenger.EditMessage(ctx, n.cfg.ChatID, session.MessageID, msg.Text)
		return err
	})
	session.RetryCount = attempts

	switch {
	case err == nil:
		session.LastBody = msg.Body
		n.logf(session, "INFO", "message updated, attempts=%d", session.RetryCount)
		return nil
	case ctx.Err() != nil:
		return err
	default:
		// И исчерпанные попытки, и отказ платформы пропускают цикл.
		// LastBody не меняем, следующий цикл попробует снова
		n.logf(session, "ERROR", "update skipped, attempts=%d: %v", session.RetryCount, err)
		return nil
	}
}

func (n *Notifier) wait(ctx context.Context) error {
	now := n.cfg.Now()
	return n.cfg.Sleep(ctx, n.cfg.Schedule.Next(now).Sub(now))
}

// Удаляет сообщение. В режиме постоянного сообщения ничего не делает
func (n *Notifier) expire(ctx context.Context, session *SyncSession) error {
	if session.Persistent {
		n.logf(session, "INFO", "stopped, persistent message kept")
		return nil
	}

	attempts, err := n.cfg.Retry.Do(ctx, "delete", func(ctx context.Context) error {
		_, err := n.messenger.DeleteMessage(ctx, n.cfg.ChatID, session.MessageID)
		return err
	})
	session.RetryCount = attempts

	if err != nil {
		n.logf(session, "ERROR", "failed to delete message, attempts=%d: %v", session.RetryCount, err)
		return fmt.Errorf("delete: %w", err)
	}

	n.logf(session, "INFO", "message deleted, attempts=%d", session.RetryCount)
	return nil
}

// При остановке процесса удаляем сообщение уже с отдельным контекстом
func (n *Notifier) shutdown(ctx context.Context, session *SyncSession) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	_ = n.expire(shutdownCtx, session)
}

func (n *Notifier) logf(session *SyncSession, level, format string, args ...any) {
	log.Printf("[%s] run=%s message=%d "+format, append([]any{level, session.RunID, session.MessageID}, args...)...)
}

func formatDeadline(deadline time.Time) string {
	if deadline.IsZero() {
		return "none"
	}
	return deadline.Format(time.RFC3339)
}
