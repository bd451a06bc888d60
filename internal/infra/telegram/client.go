// internal/infra/telegram/client.go
package telegram

import (
	"fmt"

	"gopkg.in/telebot.v3"
)

// TelebotNotifier implements the notify.Notifier port by delivering
// titled alerts to a fixed chat through gopkg.in/telebot.v3. This keeps
// the engine decoupled from the bot library.
type TelebotNotifier struct {
	bot         *telebot.Bot
	alertChatID int64
}

func NewTelebotNotifier(b *telebot.Bot, alertChatID int64) *TelebotNotifier {
	return &TelebotNotifier{bot: b, alertChatID: alertChatID}
}

// Show sends the alert as a bold-titled message to the alert chat.
func (n *TelebotNotifier) Show(title, body string) error {
	recipient := &telebot.User{ID: n.alertChatID}
	text := fmt.Sprintf("*%s*\n%s", title, body)
	_, err := n.bot.Send(recipient, text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	return err
}
