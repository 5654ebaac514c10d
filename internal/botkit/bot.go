package botkit

import (
	"context"
	"errors"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Часть клиента телеграма, которая нам нужна. *tgbotapi.BotAPI ей удовлетворяет
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Телеграм отвечает так, если текст при редактировании не поменялся
const notModifiedDescription = "message is not modified"

// Bot отправляет, редактирует и удаляет сообщения в HTML режиме
// без предпросмотра ссылок
type Bot struct {
	api API
}

func New(api API) *Bot {
	return &Bot{api: api}
}

func (b *Bot) CreateMessage(ctx context.Context, chatID int64, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, classify("send", err)
	}

	return sent.MessageID, nil
}

func (b *Bot) EditMessage(ctx context.Context, chatID int64, messageID int, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true

	if _, err := b.api.Send(edit); err != nil {
		if isNotModified(err) {
			return messageID, nil
		}
		return 0, classify("edit", err)
	}

	return messageID, nil
}

func (b *Bot) DeleteMessage(ctx context.Context, chatID int64, messageID int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	resp, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	if err != nil {
		return false, classify("delete", err)
	}

	return resp.Ok, nil
}

func isNotModified(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Message, notModifiedDescription)
}

// Ошибки API с кодом 429 и 5xx временные, остальные ответы API - отказ.
// Все, что не дошло до API (сеть, таймауты), считаем временным
func classify(op string, err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		transient := apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
		return &PlatformError{Op: op, Transient: transient, Err: err}
	}

	if errors.Is(err, context.Canceled) {
		return &PlatformError{Op: op, Transient: false, Err: err}
	}

	return &PlatformError{Op: op, Transient: true, Err: err}
}
