package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"donation_assistant_bot/internal/domain/donation"
	"donation_assistant_bot/internal/domain/donor"
	idb "donation_assistant_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Command is the structured payload handed over by the conversational front
// end: an "action" key plus action-specific parameters, decoded from JSON.
type Command map[string]any

// Action returns the command's action name, or "" when absent.
func (c Command) Action() string {
	action, _ := c["action"].(string)
	return action
}

func (c Command) stringParam(key string) (string, bool) {
	v, ok := c[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// floatParam accepts JSON numbers (which decode as float64) and numeric
// strings the model occasionally produces.
func (c Command) floatParam(key string) (float64, bool) {
	switch v := c[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimPrefix(strings.TrimSpace(v), "$"), "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func (c Command) optionalString(key string) *string {
	if s, ok := c.stringParam(key); ok {
		return &s
	}
	return nil
}

// Dispatcher translates one Command into one RecordService call and renders
// a user-facing confirmation string. Stateless per call; unknown actions
// yield a fixed reply rather than an error.
type Dispatcher struct {
	records *RecordService
	logger  *logrus.Entry
}

func NewDispatcher(records *RecordService, logger *logrus.Entry) *Dispatcher {
	return &Dispatcher{records: records, logger: logger}
}

// Replies that are part of the front-end contract.
const (
	replyUnknownCommand = "Unknown database command"
	replyNoDonations    = "There are currently no donations in the system."
	replyNoFields       = "No fields to update"
)

func missingParam(name string) string {
	return fmt.Sprintf("Missing required parameter: %s", name)
}

// Dispatch executes the command and returns the confirmation text. Every
// failure is reported as a message; nothing escapes as a fault.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) string {
	action := cmd.Action()
	logCtx := d.logger.WithField("action", action)

	switch action {
	case "add_donation":
		return d.addDonation(ctx, cmd, logCtx)
	case "update_donation":
		return d.updateDonation(ctx, cmd, logCtx)
	case "get_donations":
		return d.getDonations(ctx, cmd, logCtx)
	case "get_donor_statistics":
		return d.getDonorStatistics(ctx, logCtx)
	case "get_donor_info":
		return d.getDonorInfo(ctx, cmd, logCtx)
	case "add_donor":
		return d.addDonor(ctx, cmd, logCtx)
	case "update_donor":
		return d.updateDonor(ctx, cmd, logCtx)
	case "remove_donor":
		return d.removeDonor(ctx, cmd, logCtx)
	}
	logCtx.Warn("Unknown command action")
	return replyUnknownCommand
}

func (d *Dispatcher) addDonation(ctx context.Context, cmd Command, logCtx *logrus.Entry) string {
	donorName, ok := cmd.stringParam("donor_name")
	if !ok {
		return missingParam("donor_name")
	}
	amount, ok := cmd.floatParam("amount")
	if !ok {
		return missingParam("amount")
	}
	categoryName, ok := cmd.stringParam("category")
	if !ok {
		return missingParam("category")
	}

	in := AddDonationInput{
		DonorName: donorName,
		Amount:    amount,
		Category:  categoryName,
	}
	if notes, ok := cmd.stringParam("notes"); ok {
		in.Notes = notes
	}
	if recurring, ok := cmd["is_recurring"].(bool); ok && recurring {
		in.IsRecurring = true
		interval, ok := cmd.stringParam("recurring_interval")
		if !ok {
			return missingParam("recurring_interval")
		}
		in.RecurringInterval = interval
	}

	if _, err := d.records.AddDonation(ctx, in); err != nil {
		logCtx.WithError(err).Error("Failed to add donation")
		return "Failed to add donation"
	}
	return "Donation added successfully"
}

func (d *Dispatcher) updateDonation(ctx context.Context, cmd Command, logCtx *logrus.Entry) string {
	id, ok := cmd.floatParam("donation_id")
	if !ok {
		return missingParam("donation_id")
	}

	fields := donation.UpdateFields{
		Category: cmd.optionalString("category"),
		Notes:    cmd.optionalString("notes"),
	}
	if amount, ok := cmd.floatParam("amount"); ok {
		fields.Amount = &amount
	}

	err := d.records.UpdateDonation(ctx, int64(id), fields)
	switch {
	case err == nil:
		return "Donation updated successfully"
	case err == idb.ErrNoFieldsToUpdate:
		return replyNoFields
	case err == idb.ErrDonationNotFound:
		return "Donation not found"
	case err == ErrNonPositiveAmount:
		return "Failed to update donation: amount must be a positive number"
	default:
		logCtx.WithError(err).Error("Failed to update donation")
		return "Failed to update donation"
	}
}

func (d *Dispatcher) getDonations(ctx context.Context, cmd Command, logCtx *logrus.Entry) string {
	limit := 0
	if v, ok := cmd.floatParam("limit"); ok {
		limit = int(v)
	}

	donations, err := d.records.RecentDonations(ctx, limit)
	if err != nil {
		logCtx.WithError(err).Error("Failed to list donations")
		return "Failed to retrieve donations"
	}
	if len(donations) == 0 {
		return replyNoDonations
	}

	var b strings.Builder
	fmt.Fprintf(&b, "There are %d recent donations. Here are the details:\n", len(donations))
	for _, dn := range donations {
		fmt.Fprintf(&b, "- %s donated $%.2f for %s\n", dn.DonorName, dn.Amount, dn.Category)
	}
	return b.String()
}

func (d *Dispatcher) getDonorStatistics(ctx context.Context, logCtx *logrus.Entry) string {
	stats, err := d.records.DonorStatistics(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Failed to compute donor statistics")
		return "Failed to retrieve donor statistics"
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
	return b.String()
}

func (d *Dispatcher) getDonorInfo(ctx context.Context, cmd Command, logCtx *logrus.Entry) string {
	name, ok := cmd.stringParam("donor_name")
	if !ok {
		return missingParam("donor_name")
	}

	profile, total, err := d.records.DonorInfo(ctx, name)
	switch {
	case err == nil:
		return fmt.Sprintf("Donor found: %s, Total donations: $%.2f", profile.Name, total)
	case err == idb.ErrDonorNotFound:
		return "Donor not found"
	default:
		logCtx.WithError(err).Error("Failed to get donor info")
		return "Failed to retrieve donor information"
	}
}

func (d *Dispatcher) addDonor(ctx context.Context, cmd Command, logCtx *logrus.Entry) string {
	name, ok := cmd.stringParam("donor_name")
	if !ok {
		return missingParam("donor_name")
	}

	p := &donor.Profile{Name: name}
	if email, ok := cmd.stringParam("email"); ok {
		p.Email = sql.NullString{String: email, Valid: true}
	}
	if phone, ok := cmd.stringParam("phone"); ok {
		p.Phone = sql.NullString{String: phone, Valid: true}
	}
	if address, ok := cmd.stringParam("address"); ok {
		p.Address = sql.NullString{String: address, Valid: true}
	}

	err := d.records.AddDonor(ctx, p)
	switch {
	case err == nil:
		return "Donor added successfully"
	case err == idb.ErrDuplicateDonorName:
		return "Donor already exists"
	default:
		logCtx.WithError(err).Error("Failed to add donor")
		return "Failed to add donor"
	}
}

func (d *Dispatcher) updateDonor(ctx context.Context, cmd Command, logCtx *logrus.Entry) string {
	name, ok := cmd.stringParam("donor_name")
	if !ok {
		return missingParam("donor_name")
	}

	fields := donor.UpdateFields{
		Email:                   cmd.optionalString("email"),
		Phone:                   cmd.optionalString("phone"),
		Address:                 cmd.optionalString("address"),
		PreferredCategory:       cmd.optionalString("preferred_category"),
		NotificationPreferences: cmd.optionalString("notification_preferences"),
	}

	err := d.records.UpdateDonor(ctx, name, fields)
	switch {
	case err == nil:
		return "Donor updated successfully"
	case err == idb.ErrNoFieldsToUpdate:
		return replyNoFields
	case err == idb.ErrDonorNotFound:
		return "Donor not found"
	default:
		logCtx.WithError(err).Error("Failed to update donor")
		return "Failed to update donor"
	}
}

func (d *Dispatcher) removeDonor(ctx context.Context, cmd Command, logCtx *logrus.Entry) string {
	name, ok := cmd.stringParam("donor_name")
	if !ok {
		return missingParam("donor_name")
	}

	err := d.records.RemoveDonor(ctx, name)
	switch {
	case err == nil:
		return "Donor removed successfully"
	case err == idb.ErrDonorNotFound:
		return "Donor not found"
	default:
		logCtx.WithError(err).Error("Failed to remove donor")
		return "Failed to remove donor"
	}
}
