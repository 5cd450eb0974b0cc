package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"donation_assistant_bot/internal/domain/category"
	"donation_assistant_bot/internal/domain/donation"
	"donation_assistant_bot/internal/domain/donor"
	"donation_assistant_bot/internal/domain/goal"
	"donation_assistant_bot/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for the record service
var ErrEmptyDonorName = fmt.Errorf("donor name must not be empty")
var ErrNonPositiveAmount = fmt.Errorf("amount must be a positive number")
var ErrEmptyCategory = fmt.Errorf("category must not be empty")
var ErrInvalidInterval = fmt.Errorf("recurring interval must be one of Weekly, Monthly, Quarterly, Yearly")

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 20
)

// RecordService owns every mutation and aggregate query over the donation
// store: validation, recurring-date arithmetic, the donor profile upsert and
// the large-donation notification side effect.
type RecordService struct {
	db           *sql.DB
	donationRepo donation.Repository
	donorRepo    donor.Repository
	categoryRepo category.Repository
	goalRepo     goal.Repository
	notifRepo    notification.Repository
	logger       *logrus.Entry
}

func NewRecordService(
	db *sql.DB,
	donationRepo donation.Repository,
	donorRepo donor.Repository,
	categoryRepo category.Repository,
	goalRepo goal.Repository,
	notifRepo notification.Repository,
	logger *logrus.Entry,
) *RecordService {
	return &RecordService{
		db:           db,
		donationRepo: donationRepo,
		donorRepo:    donorRepo,
		categoryRepo: categoryRepo,
		goalRepo:     goalRepo,
		notifRepo:    notifRepo,
		logger:       logger,
	}
}

// AddDonationInput carries everything a donation submission may contain.
// Contact fields feed the donor profile upsert and may be blank.
type AddDonationInput struct {
	DonorName         string
	Amount            float64
	Category          string
	Notes             string
	Email             string
	Phone             string
	Address           string
	IsRecurring       bool
	RecurringInterval string
	Date              time.Time // Zero means "now"
}

// AddDonation validates the input, records the donation, refreshes the donor
// profile and enqueues a large_donation notification when the amount meets
// the threshold.
func (s *RecordService) AddDonation(ctx context.Context, in AddDonationInput) (*donation.Donation, error) {
	if strings.TrimSpace(in.DonorName) == "" {
		return nil, ErrEmptyDonorName
	}
	if in.Amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, ErrEmptyCategory
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	d := &donation.Donation{
		DonorName:   strings.TrimSpace(in.DonorName),
		Amount:      in.Amount,
		Category:    strings.TrimSpace(in.Category),
		Date:        date,
		IsRecurring: in.IsRecurring,
	}
	if in.Notes != "" {
		d.Notes = sql.NullString{String: in.Notes, Valid: true}
	}
	if in.IsRecurring {
		interval := donation.Interval(in.RecurringInterval)
		if !interval.Valid() {
			return nil, ErrInvalidInterval
		}
		d.RecurringInterval = sql.NullString{String: string(interval), Valid: true}
		d.NextDonationDate = sql.NullTime{Time: donation.NextDate(date, interval), Valid: true}
	}

	// The profile upsert, the donation row and the notification must land
	// together: a failure on any of them rolls all of them back, so a
	// retried submission never duplicates the donation.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin donation transaction: %w", err)
	}
	defer tx.Rollback()

	dateText := date.Format(donation.DateLayout)
	donorID, err := s.donorRepo.WithTx(tx).Upsert(ctx, d.DonorName, donor.UpsertFields{
		Email:             in.Email,
		Phone:             in.Phone,
		Address:           in.Address,
		PreferredCategory: d.Category,
		LastDonationDate:  dateText,
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to upsert donor profile")
		return nil, fmt.Errorf("failed to upsert donor profile: %w", err)
	}

	if err := s.donationRepo.WithTx(tx).Create(ctx, d); err != nil {
		s.logger.WithError(err).Error("Failed to record donation")
		return nil, fmt.Errorf("failed to record donation: %w", err)
	}

	if d.Amount >= notification.LargeDonationThreshold {
		n := &notification.Notification{
			DonorID:   sql.NullInt64{Int64: donorID, Valid: true},
			Type:      notification.TypeLargeDonation,
			Message:   fmt.Sprintf("Large donation received: $%.2f from %s", d.Amount, d.DonorName),
			CreatedAt: date,
		}
		if err := s.notifRepo.WithTx(tx).Enqueue(ctx, n); err != nil {
			s.logger.WithError(err).Error("Failed to enqueue large donation notification")
			return nil, fmt.Errorf("failed to enqueue large donation notification: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit donation: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"donation_id": d.ID,
		"donor":       d.DonorName,
		"amount":      d.Amount,
		"category":    d.Category,
	}).Info("Donation recorded")
	return d, nil
}

// TotalDonations returns the sum of all donation amounts, optionally
// filtered by exact category. Never fails: storage errors are logged and
// reported as zero.
func (s *RecordService) TotalDonations(ctx context.Context, categoryName string) float64 {
	var total float64
	var err error
	if categoryName != "" {
		total, err = s.donationRepo.TotalByCategory(ctx, categoryName)
	} else {
		total, err = s.donationRepo.Total(ctx)
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to compute donation total")
		return 0
	}
	return total
}

// RecentDonations returns at most limit donations, most recent first.
// A non-positive limit falls back to the default; limits above the cap are
// clamped so free-text-derived limits stay bounded.
func (s *RecordService) RecentDonations(ctx context.Context, limit int) ([]*donation.Donation, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.donationRepo.ListRecent(ctx, limit)
}

func (s *RecordService) CategoryBreakdown(ctx context.Context) (map[string]float64, error) {
	return s.donationRepo.CategoryBreakdown(ctx)
}

func (s *RecordService) DonorStatistics(ctx context.Context) (*donation.Statistics, error) {
	return s.donationRepo.DonorStatistics(ctx)
}

func (s *RecordService) DonorNames(ctx context.Context) ([]string, error) {
	return s.donationRepo.DonorNames(ctx)
}

// Categories returns the registered category names in alphabetical order,
// falling back to the default set when the table is empty or unreadable.
func (s *RecordService) Categories(ctx context.Context) []string {
	names, err := s.categoryRepo.ListNames(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to list categories, using defaults")
		return append([]string(nil), category.Defaults...)
	}
	if len(names) == 0 {
		return append([]string(nil), category.Defaults...)
	}
	return names
}

// AddCategory registers a new category name. Re-adding an existing name is
// a no-op.
func (s *RecordService) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategory
	}
	return s.categoryRepo.Add(ctx, name)
}

func (s *RecordService) UpdateDonation(ctx context.Context, id int64, fields donation.UpdateFields) error {
	if fields.Amount != nil && *fields.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	return s.donationRepo.Update(ctx, id, fields)
}

func (s *RecordService) DeleteDonation(ctx context.Context, id int64) error {
	return s.donationRepo.DeleteByID(ctx, id)
}

// DeleteDonationsByDate removes every donation whose stored date text
// matches exactly. Kept only for compatibility with stores maintained by
// the legacy tool; two donations sharing a timestamp are both removed.
func (s *RecordService) DeleteDonationsByDate(ctx context.Context, dateText string) (int64, error) {
	return s.donationRepo.DeleteByDate(ctx, dateText)
}

// DonorInfo returns a donor profile together with the total they donated.
func (s *RecordService) DonorInfo(ctx context.Context, name string) (*donor.Profile, float64, error) {
	p, err := s.donorRepo.GetByName(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.donationRepo.TotalByDonor(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	return p, total, nil
}

func (s *RecordService) AddDonor(ctx context.Context, p *donor.Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyDonorName
	}
	return s.donorRepo.Create(ctx, p)
}

func (s *RecordService) UpdateDonor(ctx context.Context, name string, fields donor.UpdateFields) error {
	return s.donorRepo.Update(ctx, name, fields)
}

func (s *RecordService) RemoveDonor(ctx context.Context, name string) error {
	return s.donorRepo.DeleteByName(ctx, name)
}

// Donors returns every donor profile, ordered by name.
func (s *RecordService) Donors(ctx context.Context) ([]*donor.Profile, error) {
	return s.donorRepo.List(ctx)
}

func (s *RecordService) CreateGoal(ctx context.Context, g *goal.Goal) error {
	if strings.TrimSpace(g.Category) == "" {
		return ErrEmptyCategory
	}
	if g.TargetAmount <= 0 {
		return ErrNonPositiveAmount
	}
	if g.StartDate == "" {
		g.StartDate = time.Now().Format(donation.DateLayout)
	}
	return s.goalRepo.Create(ctx, g)
}

func (s *RecordService) ActiveGoals(ctx context.Context) ([]*goal.Goal, error) {
	return s.goalRepo.ListByStatus(ctx, goal.StatusActive)
}

// CompleteGoal marks the goal reached and returns its final state.
func (s *RecordService) CompleteGoal(ctx context.Context, id int64) (*goal.Goal, error) {
	return s.setGoalStatus(ctx, id, goal.StatusCompleted)
}

// CancelGoal abandons the goal and returns its final state.
func (s *RecordService) CancelGoal(ctx context.Context, id int64) (*goal.Goal, error) {
	return s.setGoalStatus(ctx, id, goal.StatusCancelled)
}

func (s *RecordService) setGoalStatus(ctx context.Context, id int64, status string) (*goal.Goal, error) {
	g, err := s.goalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.goalRepo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	g.Status = status
	return g, nil
}

// PendingNotifications exposes the queue for the external delivery consumer.
func (s *RecordService) PendingNotifications(ctx context.Context) ([]*notification.Notification, error) {
	return s.notifRepo.ListPending(ctx)
}

func (s *RecordService) MarkNotificationSent(ctx context.Context, id int64) error {
	return s.notifRepo.MarkSent(ctx, id)
}

// EnqueueRecurringReminders creates a recurring_due notification for every
// recurring donation whose next donation date fell inside (now-window, now].
// The window keeps a periodic sweep from re-enqueueing the same donation on
// every run. The donation row itself is never mutated; next_donation_date
// stays exactly one interval after the recorded date.
func (s *RecordService) EnqueueRecurringReminders(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	due, err := s.donationRepo.ListRecurringDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due recurring donations: %w", err)
	}

	cutoff := now.Add(-window)
	enqueued := 0
	for _, d := range due {
		if window > 0 && !d.NextDonationDate.Time.After(cutoff) {
			continue
		}
		profile, err := s.donorRepo.GetByName(ctx, d.DonorName)
		var donorID sql.NullInt64
		if err == nil {
			donorID = sql.NullInt64{Int64: profile.ID, Valid: true}
		}

		n := &notification.Notification{
			DonorID: donorID,
			Type:    notification.TypeRecurringDue,
			Message: fmt.Sprintf("Recurring donation due: $%.2f from %s (%s)",
				d.Amount, d.DonorName, d.RecurringInterval.String),
		}
		if err := s.notifRepo.Enqueue(ctx, n); err != nil {
			s.logger.WithError(err).WithField("donation_id", d.ID).
				Error("Failed to enqueue recurring reminder")
			continue
		}
		enqueued++
	}
	return enqueued, nil
}
