package bot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/hrdesk/internal/app"
)

type Bot struct {
	service *app.Service
	api     *tgbotapi.BotAPI
	admins  map[int64]bool
}

func New(service *app.Service) (*Bot, error) {
	if service.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is not configured")
	}

	api, err := tgbotapi.NewBotAPI(service.Config.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	return &Bot{
		service: service,
		api:     api,
		admins:  adminSet(service.Config.Bot.AdminIDs),
	}, nil
}

func adminSet(ids []int64) map[int64]bool {
	admins := make(map[int64]bool, len(ids))
	for _, id := range ids {
		admins[id] = true
	}
	return admins
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			go b.handleMessage(update.Message)

		case <-sigChan:
			logger.Info.Println("Shutting down bot...")
			b.api.StopReceivingUpdates()
			return nil
		}
	}
}

func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
