// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"strings"
	"visaguard_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands wires /start and /help. Only the configured admin
// gets the command reference; everyone else gets a short notice.
func RegisterBotCommands(
	b *telebot.Bot,
	cfg *config.AppConfig, // For AdminTelegramID
	baseLogger *logrus.Entry,
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID == cfg.AdminTelegramID {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Hello, %s! VisaGuard is watching your tracked documents. Use /help for the command list.", c.Sender().FirstName))
		}

		logCtx.Info("User is unknown")
		return c.Send("Hello! I track visa and permit expiration dates for my operator. There is nothing here for other users.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if senderID != cfg.AdminTelegramID {
			logCtx.Info("User is unknown, sending restricted help.")
			return c.Send("No commands are available for you. This bot serves a single operator.")
		}

		logCtx.Info("User identified as Admin, sending admin help.")
		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("`/add_person <FirstName> <LastName> <Country> <YYYY-MM-DD> [DocumentType] [PhoneNumber]`\n - Track a new person's document.\n\n")
		helpText.WriteString("`/remove_person <ID>`\n - Stop tracking a person (ids shown by /list_persons).\n\n")
		helpText.WriteString("`/list_persons`\n - Show all tracked persons with their countdowns.\n\n")
		helpText.WriteString("`/stats`\n - Safe / expiring / expired counters.\n\n")
		helpText.WriteString("`/check_now`\n - Run the expiration check immediately.\n\n")
		helpText.WriteString("`/test_notify`\n - Send a test notification.\n\n")
		helpText.WriteString("`/help`\n - Show this message.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}
