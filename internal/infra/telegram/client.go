package telegram

import (
	"gopkg.in/telebot.v3"
)

// TelebotAdapter wraps the gopkg.in/telebot.v3 bot so outbound sends go
// through one narrow seam.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message to the given chat.
func (a *TelebotAdapter) SendMessage(chatID int64, text string, opts *telebot.SendOptions) error {
	_, err := a.bot.Send(&telebot.Chat{ID: chatID}, text, opts)
	return err
}
