package telegram

import (
	"context"
	"fmt"
	"strings"
	"visaguard_bot/internal/app"
	"visaguard_bot/internal/domain/notify"
	"visaguard_bot/internal/domain/record"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterAdminHandlers registers the admin command surface: record
// CRUD, stats, forced checks and the notification self-test. Every
// command is gated on the configured admin Telegram ID.
func RegisterAdminHandlers(
	ctx context.Context,
	b *telebot.Bot,
	personService *app.PersonService,
	expirationService app.ExpirationService,
	notifier notify.Notifier,
	adminTelegramID int64,
	baseLogger *logrus.Entry,
) {
	b.Handle("/add_person", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add_person",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not authorized to use this command.")
		}

		args := c.Args()
		// Expected format: /add_person <First> <Last> <Country> <YYYY-MM-DD> [DocType] [Phone]
		if len(args) < 4 || len(args) > 6 {
			handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
			return c.Send("Invalid format. Use: /add_person <FirstName> <LastName> <Country> <YYYY-MM-DD> [DocumentType] [PhoneNumber]")
		}

		input := app.PersonInput{
			FirstName:      args[0],
			LastName:       args[1],
			Country:        args[2],
			ExpirationDate: args[3],
		}
		if len(args) >= 5 {
			input.DocumentType = args[4]
		}
		if len(args) == 6 {
			input.PhoneNumber = args[5]
		}

		handlerLogger = handlerLogger.WithFields(logrus.Fields{
			"first_name":      input.FirstName,
			"last_name":       input.LastName,
			"expiration_date": input.ExpirationDate,
		})

		newPerson, err := personService.AddPerson(ctx, c.Sender().ID, input)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("Error: you are not authorized to use this command.")
			case app.ErrMissingRequiredField:
				logWithError.Warn("Missing required field")
				return c.Send("Error: first name, last name, country and expiration date are all required.")
			case app.ErrInvalidExpirationDate:
				logWithError.Warn("Invalid expiration date")
				return c.Send("Error: the expiration date must look like 2026-12-31.")
			default:
				logWithError.Error("Failed to add person")
				return c.Send(fmt.Sprintf("Something went wrong while adding the person: %s", err.Error()))
			}
		}

		handlerLogger.WithField("person_id", newPerson.ID).Info("Person added successfully")
		return c.Send(fmt.Sprintf("%s added. %s expires %s.\nID: %s",
			newPerson.FullName(), newPerson.DocumentLabel(), record.FormatDate(newPerson.ExpirationDate), newPerson.ID))
	})

	b.Handle("/remove_person", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/remove_person",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not authorized to use this command.")
		}

		args := c.Args()
		// Expected format: /remove_person <ID>
		if len(args) != 1 {
			return c.Send("Invalid format. Use: /remove_person <ID> (ids are shown by /list_persons)")
		}
		handlerLogger = handlerLogger.WithField("person_id", args[0])

		removed, err := personService.RemovePerson(ctx, c.Sender().ID, args[0])
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("Error: you are not authorized to use this command.")
			case app.ErrPersonNotFound:
				logWithError.Warn("Person to remove not found")
				return c.Send("No tracked person with that ID was found.")
			default:
				logWithError.Error("Failed to remove person")
				return c.Send(fmt.Sprintf("Something went wrong while removing the person: %s", err.Error()))
			}
		}

		handlerLogger.Info("Person removed successfully")
		return c.Send(fmt.Sprintf("%s removed.", removed.FullName()))
	})

	b.Handle("/list_persons", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/list_persons",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not authorized to use this command.")
		}

		views, err := personService.ListPersons(ctx, c.Sender().ID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list persons")
			return c.Send(fmt.Sprintf("Something went wrong while listing persons: %s", err.Error()))
		}

		if len(views) == 0 {
			handlerLogger.Info("No persons tracked")
			return c.Send("No persons tracked yet. Add one with /add_person.")
		}

		handlerLogger.WithField("person_count", len(views)).Info("Successfully retrieved person list")

		var response strings.Builder
		response.WriteString("--- Tracked persons ---\n")
		for _, v := range views {
			countdown := "no expiration date"
			if v.HasDate {
				countdown = fmt.Sprintf("%s, %s", record.DaysLabel(v.DaysLeft), v.Status)
			}
			response.WriteString(fmt.Sprintf("%s - %s (%s), expires %s (%s)\nID: %s\n",
				v.FullName(), v.DocumentLabel(), v.Country,
				record.FormatDate(v.ExpirationDate), countdown, v.ID))
		}
		return c.Send(response.String())
	})

	b.Handle("/stats", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/stats",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not authorized to use this command.")
		}

		stats, err := personService.Stats(ctx, c.Sender().ID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to compute stats")
			return c.Send(fmt.Sprintf("Something went wrong while computing stats: %s", err.Error()))
		}

		handlerLogger.Info("Stats computed")
		return c.Send(fmt.Sprintf("Safe: %d\nExpiring within 30 days: %d\nExpired: %d",
			stats.Safe, stats.Warning, stats.Expired))
	})

	b.Handle("/check_now", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/check_now",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not authorized to use this command.")
		}

		// Explicit operator request bypasses the once-per-day guard.
		if err := expirationService.CheckExpirations(ctx, true); err != nil {
			handlerLogger.WithError(err).Error("Forced expiration check failed")
			return c.Send(fmt.Sprintf("The expiration check failed: %s", err.Error()))
		}
		handlerLogger.Info("Forced expiration check complete")
		return c.Send("Expiration check complete.")
	})

	b.Handle("/test_notify", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/test_notify",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not authorized to use this command.")
		}

		if err := notifier.Show("VisaGuard", "Notification system is working correctly!"); err != nil {
			handlerLogger.WithError(err).Error("Test notification failed")
			return c.Send(fmt.Sprintf("Test notification failed: %s", err.Error()))
		}
		handlerLogger.Info("Test notification sent")
		return c.Send("Test notification sent.")
	})
}
