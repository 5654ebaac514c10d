package notifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kovalyov-valentin/deadline-bot/internal/botkit"
	"github.com/sethvargo/go-retry"
)

var ErrRetriesExhausted = errors.New("retries exhausted")

// Функция ожидания. В тестах подменяется, чтобы не спать по-настоящему
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryPolicy повторяет временные ошибки платформы.
// После каждой неудачной попытки ждет следующую задержку из Backoff,
// отказ платформы возвращается сразу.
type RetryPolicy struct {
	MaxAttempts int
	// Новая последовательность задержек на каждый вызов Do
	Backoff func() retry.Backoff
	Sleep   SleepFunc
}

// 3 попытки с задержками 1s, 2s, 4s
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func() retry.Backoff {
			return retry.NewExponential(time.Second)
		},
		Sleep: Sleep,
	}
}

// Do возвращает число сделанных попыток и ошибку последней из них
func (p RetryPolicy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) (int, error) {
	var (
		backoff = p.Backoff()
		lastErr error
	)

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return attempt, nil
		}

		if !botkit.IsTransient(lastErr) {
			return attempt, lastErr
		}

		delay, stop := backoff.Next()
		if stop {
			return attempt, fmt.Errorf("%w: %s: %v", ErrRetriesExhausted, op, lastErr)
		}

		log.Printf("[WARN] %s attempt %d/%d failed, retrying in %s: %v", op, attempt, p.MaxAttempts, delay, lastErr)

		if err := p.Sleep(ctx, delay); err != nil {
			return attempt, err
		}
	}

	return p.MaxAttempts, fmt.Errorf("%w: %s: %v", ErrRetriesExhausted, op, lastErr)
}

func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
