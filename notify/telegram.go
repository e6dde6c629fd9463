package notify

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers workflow notifications over the live bot
// channel. Callers treat delivery as best-effort; errors are returned
// for logging only.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

// NewTelegramNotifier wraps a bot API client.
func NewTelegramNotifier(api *tgbotapi.BotAPI) *TelegramNotifier {
	return &TelegramNotifier{api: api}
}

// Notify sends a plain text message to a chat.
func (n *TelegramNotifier) Notify(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := n.api.Send(msg)
	return err
}

// NotifyPhoto sends a previously-uploaded photo (by file id) with a
// caption. Used to forward payment proof to the admin.
func (n *TelegramNotifier) NotifyPhoto(chatID int64, fileID, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	_, err := n.api.Send(photo)
	return err
}
