package services

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"skyview-backend/config"
)

// TelegramSender is the part of the bot API used for admin alerts.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramService relays admin alerts to a Telegram chat. The zero value is disabled.
type TelegramService struct {
	bot    TelegramSender
	chatID int64
}

// NewTelegramService connects the bot when a token and chat are configured.
func NewTelegramService(cfg config.TelegramConfig) (*TelegramService, error) {
	if cfg.BotToken == "" || cfg.AdminChatID == 0 {
		return &TelegramService{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return &TelegramService{}, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramService{bot: bot, chatID: cfg.AdminChatID}, nil
}

func (s *TelegramService) Enabled() bool {
	return s != nil && s.bot != nil && s.chatID != 0
}

func (s *TelegramService) Recipient() string {
	if s == nil {
		return ""
	}
	return strconv.FormatInt(s.chatID, 10)
}

func (s *TelegramService) Notify(ctx context.Context, text string) error {
	if !s.Enabled() {
		return ErrNotifierDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.DisableWebPagePreview = true
	_, err := s.bot.Send(msg)
	return err
}
