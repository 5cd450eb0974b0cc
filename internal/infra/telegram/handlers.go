package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"donation_assistant_bot/internal/app"
	"donation_assistant_bot/internal/domain/goal"
	idb "donation_assistant_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterHandlers wires the bot commands and the free-text chat flow.
// The bot is single-user: every handler is gated on the configured owner ID.
func RegisterHandlers(
	ctx context.Context,
	b *telebot.Bot,
	records *app.RecordService,
	assistant *app.AssistantService,
	ownerTelegramID int64,
	baseLogger *logrus.Entry,
) {
	ownerOnly := func(handler telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if c.Sender().ID != ownerTelegramID {
				baseLogger.WithField("sender_id", c.Sender().ID).Warn("Ignoring message from unknown sender")
				return nil
			}
			return handler(c)
		}
	}

	b.Handle("/start", ownerOnly(func(c telebot.Context) error {
		baseLogger.WithField("command", "/start").Info("Command received")
		return c.Send("Hi! I track your donations. Send me a message like " +
			"\"Donation of $50 from Alice for school supplies\", ask a question, " +
			"or use /help for the command list.")
	}))

	b.Handle("/help", ownerOnly(func(c telebot.Context) error {
		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("`/record <text>`\n - Record a donation described in plain text.\n\n")
		helpText.WriteString("`/total [category]`\n - Show total donations, optionally for one category.\n\n")
		helpText.WriteString("`/recent [n]`\n - Show the n most recent donations (default 5, max 20).\n\n")
		helpText.WriteString("`/breakdown`\n - Show donation totals per category.\n\n")
		helpText.WriteString("`/stats`\n - Show donor statistics.\n\n")
		helpText.WriteString("`/donors`\n - List donor profiles.\n\n")
		helpText.WriteString("`/category <name>`\n - Register a new donation category.\n\n")
		helpText.WriteString("`/goals`\n - List active fundraising goals.\n\n")
		helpText.WriteString("`/goal add <category> <target>`\n - Create a fundraising goal. `/goal done <id>` and `/goal cancel <id>` close one.\n\n")
		helpText.WriteString("Anything else is handled by the assistant.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}))

	b.Handle("/record", ownerOnly(func(c telebot.Context) error {
		logCtx := baseLogger.WithFields(logrus.Fields{"command": "/record", "sender_id": c.Sender().ID})
		text := strings.TrimSpace(c.Message().Payload)
		if text == "" {
			return c.Send("Usage: /record <donation description>, e.g. /record $50 from Alice for school supplies")
		}

		msg, err := records.RecordFromText(ctx, text)
		if err != nil {
			logCtx.WithError(err).Warn("Free-text donation not recorded")
		} else {
			logCtx.Info("Free-text donation recorded")
		}
		return c.Send(msg)
	}))

	b.Handle("/total", ownerOnly(func(c telebot.Context) error {
		categoryName := strings.TrimSpace(c.Message().Payload)
		total := records.TotalDonations(ctx, categoryName)
		if categoryName != "" {
			return c.Send(fmt.Sprintf("Total donations in %s: $%.2f", categoryName, total))
		}
		return c.Send(fmt.Sprintf("Total donations: $%.2f", total))
	}))

	b.Handle("/recent", ownerOnly(func(c telebot.Context) error {
		limit := 0
		if payload := strings.TrimSpace(c.Message().Payload); payload != "" {
			if n, err := strconv.Atoi(payload); err == nil {
				limit = n
			}
		}
		// Reuse the free-text renderer so the output format stays in one place.
		return c.Send(records.AnswerQuery(ctx, fmt.Sprintf("recent %d", limit)))
	}))

	b.Handle("/breakdown", ownerOnly(func(c telebot.Context) error {
		return c.Send(records.AnswerQuery(ctx, "category breakdown"))
	}))

	b.Handle("/stats", ownerOnly(func(c telebot.Context) error {
		logCtx := baseLogger.WithField("command", "/stats")
		stats, err := records.DonorStatistics(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to compute donor statistics")
			return c.Send("Failed to retrieve donor statistics")
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Total number of donors: %d\n", stats.TotalDonors)
		fmt.Fprintf(&b, "Average donation amount: $%.2f\n", stats.AverageDonation)
		if len(stats.TopDonors) > 0 {
			b.WriteString("\nTop donors:\n")
			for _, t := range stats.TopDonors {
				fmt.Fprintf(&b, "- %s: $%.2f (%d donations)\n", t.Name, t.TotalAmount, t.DonationCount)
			}
		}
		return c.Send(b.String())
	}))

	b.Handle("/donors", ownerOnly(func(c telebot.Context) error {
		logCtx := baseLogger.WithField("command", "/donors")
		profiles, err := records.Donors(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to list donor profiles")
			return c.Send("Failed to retrieve donor profiles")
		}
		if len(profiles) == 0 {
			return c.Send("No donor profiles yet.")
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%d donor profile(s):\n", len(profiles))
		for _, p := range profiles {
			fmt.Fprintf(&b, "- %s", p.Name)
			if p.PreferredCategory.Valid {
				fmt.Fprintf(&b, " (prefers %s)", p.PreferredCategory.String)
			}
			b.WriteString("\n")
		}
		return c.Send(b.String())
	}))

	b.Handle("/category", ownerOnly(func(c telebot.Context) error {
		logCtx := baseLogger.WithField("command", "/category")
		name := strings.TrimSpace(c.Message().Payload)
		if name == "" {
			return c.Send("Usage: /category <name>")
		}
		if err := records.AddCategory(ctx, name); err != nil {
			logCtx.WithError(err).Error("Failed to add category")
			return c.Send("Failed to add category")
		}
		return c.Send(fmt.Sprintf("Category %s registered.", name))
	}))

	b.Handle("/goals", ownerOnly(func(c telebot.Context) error {
		logCtx := baseLogger.WithField("command", "/goals")
		goals, err := records.ActiveGoals(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to list goals")
			return c.Send("Failed to retrieve goals")
		}
		if len(goals) == 0 {
			return c.Send("No active donation goals.")
		}

		var b strings.Builder
		b.WriteString("Active goals:\n")
		for _, g := range goals {
			fmt.Fprintf(&b, "- #%d %s: $%.2f of $%.2f\n", g.ID, g.Category, g.CurrentAmount, g.TargetAmount)
		}
		return c.Send(b.String())
	}))

	b.Handle("/goal", ownerOnly(func(c telebot.Context) error {
		logCtx := baseLogger.WithField("command", "/goal")
		const usage = "Usage: /goal add <category> <target>, /goal done <id>, /goal cancel <id>"

		args := strings.Fields(c.Message().Payload)
		if len(args) == 0 {
			return c.Send(usage)
		}

		switch args[0] {
		case "add":
			if len(args) < 3 {
				return c.Send(usage)
			}
			target, err := strconv.ParseFloat(strings.TrimPrefix(args[len(args)-1], "$"), 64)
			if err != nil {
				return c.Send(usage)
			}
			g := &goal.Goal{
				Category:     strings.Join(args[1:len(args)-1], " "),
				TargetAmount: target,
			}
			if err := records.CreateGoal(ctx, g); err != nil {
				logCtx.WithError(err).Error("Failed to create goal")
				return c.Send("Failed to create goal")
			}
			return c.Send(fmt.Sprintf("Goal #%d created: $%.2f for %s", g.ID, g.TargetAmount, g.Category))

		case "done", "cancel":
			if len(args) != 2 {
				return c.Send(usage)
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return c.Send(usage)
			}
			var g *goal.Goal
			if args[0] == "done" {
				g, err = records.CompleteGoal(ctx, id)
			} else {
				g, err = records.CancelGoal(ctx, id)
			}
			if err == idb.ErrGoalNotFound {
				return c.Send("Goal not found")
			}
			if err != nil {
				logCtx.WithError(err).Error("Failed to update goal status")
				return c.Send("Failed to update goal")
			}
			return c.Send(fmt.Sprintf("Goal #%d for %s is now %s", g.ID, g.Category, g.Status))
		}
		return c.Send(usage)
	}))

	b.Handle(telebot.OnText, ownerOnly(func(c telebot.Context) error {
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "chat", "sender_id": c.Sender().ID})
		logCtx.Info("Chat message received")
		reply := assistant.Respond(ctx, c.Text())
		return c.Send(reply)
	}))
}
