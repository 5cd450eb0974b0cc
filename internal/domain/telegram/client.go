package telegram

import "gopkg.in/telebot.v3"

// Client is the outbound messaging seam for components that push messages
// to the owner without handling an incoming update, such as the
// recurring-reminder scheduler.
type Client interface {
	SendMessage(chatID int64, text string, opts *telebot.SendOptions) error
}
