// Package telegram delivers campaign notifications over Telegram.
package telegram

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxTelegramMessage = 4096

// Notifier sends campaign notifications to Telegram chats. Targets are
// keyed "telegram:<chatID>".
type Notifier struct {
	bot *tgbotapi.BotAPI
}

// New creates a Telegram notifier.
func New(token string) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Notifier{bot: bot}, nil
}

// SendTo delivers a message to the chat named by target. It satisfies
// the notify registry's Handler signature.
func (n *Notifier) SendTo(target, message string) error {
	chatID, err := parseTarget(target)
	if err != nil {
		return err
	}
	n.send(chatID, message)
	return nil
}

func (n *Notifier) send(chatID int64, text string) {
	parts := splitMessage(text)
	for _, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := n.bot.Send(msg); err != nil {
			// Retry without markdown if it fails
			msg.ParseMode = ""
			if _, err := n.bot.Send(msg); err != nil {
				log.Printf("send message error: %v", err)
			}
		}
	}
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}

func parseTarget(target string) (int64, error) {
	raw, ok := strings.CutPrefix(target, "telegram:")
	if !ok {
		return 0, fmt.Errorf("not a telegram target: %s", target)
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id in target %q: %w", target, err)
	}
	return chatID, nil
}
