package app

import (
	"context"
	"math"
	"testing"
	"time"

	"donation_assistant_bot/internal/domain/donation"
	"donation_assistant_bot/internal/domain/donor"
	"donation_assistant_bot/internal/domain/goal"
	"donation_assistant_bot/internal/domain/notification"
	idb "donation_assistant_bot/internal/infra/database"
)

func mustAdd(t *testing.T, env *testEnv, in AddDonationInput) *donation.Donation {
	t.Helper()
	d, err := env.records.AddDonation(context.Background(), in)
	if err != nil {
		t.Fatalf("AddDonation(%+v): %v", in, err)
	}
	return d
}

func TestAddDonationValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		in      AddDonationInput
		wantErr error
	}{
		{name: "empty donor", in: AddDonationInput{Amount: 10, Category: "General"}, wantErr: ErrEmptyDonorName},
		{name: "zero amount", in: AddDonationInput{DonorName: "A", Category: "General"}, wantErr: ErrNonPositiveAmount},
		{name: "negative amount", in: AddDonationInput{DonorName: "A", Amount: -5, Category: "General"}, wantErr: ErrNonPositiveAmount},
		{name: "empty category", in: AddDonationInput{DonorName: "A", Amount: 10}, wantErr: ErrEmptyCategory},
		{
			name:    "recurring without interval",
			in:      AddDonationInput{DonorName: "A", Amount: 10, Category: "General", IsRecurring: true},
			wantErr: ErrInvalidInterval,
		},
		{
			name:    "recurring with unknown interval",
			in:      AddDonationInput{DonorName: "A", Amount: 10, Category: "General", IsRecurring: true, RecurringInterval: "Daily"},
			wantErr: ErrInvalidInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.records.AddDonation(ctx, tt.in); err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Nothing should have been written.
	if total := env.records.TotalDonations(ctx, ""); total != 0 {
		t.Fatalf("total after failed submissions = %v, want 0", total)
	}
}

func TestAddDonationFailureLeavesNoPartialState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Without the notification table the last write of a large donation
	// fails; nothing from the earlier statements may survive.
	if _, err := env.db.ExecContext(ctx, `DROP TABLE email_notifications`); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	if _, err := env.records.AddDonation(ctx, AddDonationInput{
		DonorName: "Big", Amount: 1500, Category: "General",
	}); err == nil {
		t.Fatal("expected the submission to fail")
	}

	if total := env.records.TotalDonations(ctx, ""); total != 0 {
		t.Fatalf("total = %v after failed submission, want 0", total)
	}
	if _, err := env.donors.GetByName(ctx, "Big"); err != idb.ErrDonorNotFound {
		t.Fatalf("donor err = %v, want ErrDonorNotFound", err)
	}
}

func TestTotalsAreAdditive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	running := 0.0
	for _, amount := range []float64{50, 19.99, 130.01, 0.01} {
		mustAdd(t, env, AddDonationInput{DonorName: "Alice", Amount: amount, Category: "General"})
		running += amount
		if got := env.records.TotalDonations(ctx, ""); math.Abs(got-running) > 0.01 {
			t.Fatalf("total = %v, want %v within 0.01", got, running)
		}
	}
}

func TestTotalByCategoryIsExactMatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustAdd(t, env, AddDonationInput{DonorName: "Alice", Amount: 100, Category: "General"})
	mustAdd(t, env, AddDonationInput{DonorName: "Bob", Amount: 30, Category: "Project"})
	mustAdd(t, env, AddDonationInput{DonorName: "Cara", Amount: 20, Category: "general"}) // Case-sensitive as stored

	if got := env.records.TotalDonations(ctx, "General"); got != 100 {
		t.Fatalf("General total = %v, want 100", got)
	}
	if got := env.records.TotalDonations(ctx, "general"); got != 20 {
		t.Fatalf("general total = %v, want 20", got)
	}
	if got := env.records.TotalDonations(ctx, "Missing"); got != 0 {
		t.Fatalf("Missing total = %v, want 0", got)
	}
}

func TestLargeDonationNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustAdd(t, env, AddDonationInput{DonorName: "Small", Amount: 999.99, Category: "General"})
	pending, err := env.records.PendingNotifications(ctx)
	if err != nil {
		t.Fatalf("PendingNotifications: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no notifications below threshold, got %d", len(pending))
	}

	mustAdd(t, env, AddDonationInput{DonorName: "Big", Amount: 1000, Category: "Emergency"})
	pending, err = env.records.PendingNotifications(ctx)
	if err != nil {
		t.Fatalf("PendingNotifications: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected exactly one notification at threshold, got %d", len(pending))
	}
	n := pending[0]
	if n.Type != notification.TypeLargeDonation {
		t.Errorf("type = %q, want %q", n.Type, notification.TypeLargeDonation)
	}
	if n.Status != notification.StatusPending {
		t.Errorf("status = %q, want %q", n.Status, notification.StatusPending)
	}
	if !n.DonorID.Valid {
		t.Errorf("notification should reference the donor profile")
	}

	if err := env.records.MarkNotificationSent(ctx, n.ID); err != nil {
		t.Fatalf("MarkNotificationSent: %v", err)
	}
	pending, _ = env.records.PendingNotifications(ctx)
	if len(pending) != 0 {
		t.Fatalf("expected queue drained after MarkSent, got %d", len(pending))
	}

	// The type listing still sees the sent row.
	byType, err := env.notifs.ListByType(ctx, notification.TypeLargeDonation)
	if err != nil {
		t.Fatalf("ListByType: %v", err)
	}
	if len(byType) != 1 || byType[0].Status != notification.StatusSent {
		t.Fatalf("large_donation rows = %+v, want one sent row", byType)
	}
}

func TestRecurringDonationNextDate(t *testing.T) {
	env := newTestEnv(t)

	base := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.Local)
	d := mustAdd(t, env, AddDonationInput{
		DonorName:         "Rita",
		Amount:            25,
		Category:          "General",
		IsRecurring:       true,
		RecurringInterval: "Monthly",
		Date:              base,
	})

	if !d.NextDonationDate.Valid {
		t.Fatal("recurring donation must carry a next donation date")
	}
	want := time.Date(2024, time.February, 15, 12, 0, 0, 0, time.Local)
	if !d.NextDonationDate.Time.Equal(want) {
		t.Fatalf("next date = %v, want %v", d.NextDonationDate.Time, want)
	}

	// The stored row round-trips the same value.
	stored, err := env.donations.GetByID(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.NextDonationDate.Valid || !stored.NextDonationDate.Time.Equal(want) {
		t.Fatalf("stored next date = %+v, want %v", stored.NextDonationDate, want)
	}
}

func TestRecentDonationsOrderingAndCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.Local)
	for i := 0; i < 25; i++ {
		mustAdd(t, env, AddDonationInput{
			DonorName: "Donor",
			Amount:    float64(i + 1),
			Category:  "General",
			Date:      base.Add(time.Duration(i) * time.Hour),
		})
	}

	recent, err := env.records.RecentDonations(ctx, 3)
	if err != nil {
		t.Fatalf("RecentDonations: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].Date.After(recent[i-1].Date) {
			t.Fatalf("results not in descending date order: %v before %v", recent[i-1].Date, recent[i].Date)
		}
	}
	if recent[0].Amount != 25 {
		t.Fatalf("newest donation amount = %v, want 25", recent[0].Amount)
	}

	// Caller-supplied limits are clamped.
	capped, err := env.records.RecentDonations(ctx, 100)
	if err != nil {
		t.Fatalf("RecentDonations: %v", err)
	}
	if len(capped) != 20 {
		t.Fatalf("capped len = %d, want 20", len(capped))
	}

	// Default limit, and idempotence without intervening writes.
	first, err := env.records.RecentDonations(ctx, 0)
	if err != nil {
		t.Fatalf("RecentDonations: %v", err)
	}
	second, err := env.records.RecentDonations(ctx, 0)
	if err != nil {
		t.Fatalf("RecentDonations: %v", err)
	}
	if len(first) != 5 || len(second) != 5 {
		t.Fatalf("default lens = %d, %d, want 5", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("repeated query differs at %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
}

func TestCategoryBreakdown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustAdd(t, env, AddDonationInput{DonorName: "A", Amount: 10, Category: "General"})
	mustAdd(t, env, AddDonationInput{DonorName: "B", Amount: 15, Category: "General"})
	mustAdd(t, env, AddDonationInput{DonorName: "C", Amount: 7.5, Category: "Project"})

	breakdown, err := env.records.CategoryBreakdown(ctx)
	if err != nil {
		t.Fatalf("CategoryBreakdown: %v", err)
	}
	if got := breakdown["General"]; got != 25 {
		t.Errorf("General = %v, want 25", got)
	}
	if got := breakdown["Project"]; got != 7.5 {
		t.Errorf("Project = %v, want 7.5", got)
	}
	if len(breakdown) != 2 {
		t.Errorf("breakdown size = %d, want 2", len(breakdown))
	}
}

func TestDonorStatistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustAdd(t, env, AddDonationInput{DonorName: "Alice", Amount: 100, Category: "General"})
	mustAdd(t, env, AddDonationInput{DonorName: "Alice", Amount: 50, Category: "General"})
	mustAdd(t, env, AddDonationInput{DonorName: "Bob", Amount: 30, Category: "Project"})

	stats, err := env.records.DonorStatistics(ctx)
	if err != nil {
		t.Fatalf("DonorStatistics: %v", err)
	}
	if stats.TotalDonors != 2 {
		t.Errorf("total donors = %d, want 2", stats.TotalDonors)
	}
	if stats.AverageDonation != 60 {
		t.Errorf("average = %v, want 60", stats.AverageDonation)
	}
	if len(stats.TopDonors) != 2 {
		t.Fatalf("top donors = %d, want 2", len(stats.TopDonors))
	}
	if stats.TopDonors[0].Name != "Alice" || stats.TopDonors[0].TotalAmount != 150 || stats.TopDonors[0].DonationCount != 2 {
		t.Errorf("top donor = %+v", stats.TopDonors[0])
	}
}

func TestCategoriesSeededAlphabetically(t *testing.T) {
	env := newTestEnv(t)

	got := env.records.Categories(context.Background())
	want := []string{"Emergency", "General", "Other", "Project"}
	if len(got) != len(want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories = %v, want %v", got, want)
		}
	}
}

func TestDonorUpsertMergePolicy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustAdd(t, env, AddDonationInput{
		DonorName: "Alice", Amount: 20, Category: "General",
		Email: "alice@example.com", Phone: "555-0100",
	})

	// A later donation with blank contact fields must not erase them.
	mustAdd(t, env, AddDonationInput{DonorName: "Alice", Amount: 10, Category: "Project"})

	p, err := env.donors.GetByName(ctx, "Alice")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if !p.Email.Valid || p.Email.String != "alice@example.com" {
		t.Errorf("email was erased: %+v", p.Email)
	}
	if !p.Phone.Valid || p.Phone.String != "555-0100" {
		t.Errorf("phone was erased: %+v", p.Phone)
	}
	if !p.PreferredCategory.Valid || p.PreferredCategory.String != "Project" {
		t.Errorf("preferred category should follow the latest donation: %+v", p.PreferredCategory)
	}

	// A later donation with new contact details overwrites them.
	mustAdd(t, env, AddDonationInput{
		DonorName: "Alice", Amount: 5, Category: "General", Email: "new@example.com",
	})
	p, err = env.donors.GetByName(ctx, "Alice")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if p.Email.String != "new@example.com" {
		t.Errorf("email = %q, want new@example.com", p.Email.String)
	}
}

func TestUpdateDonationOutcomes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d := mustAdd(t, env, AddDonationInput{DonorName: "Alice", Amount: 20, Category: "General"})

	newAmount := 42.0
	if err := env.records.UpdateDonation(ctx, d.ID, donation.UpdateFields{Amount: &newAmount}); err != nil {
		t.Fatalf("UpdateDonation: %v", err)
	}
	updated, err := env.donations.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Amount != 42 {
		t.Errorf("amount = %v, want 42", updated.Amount)
	}

	// No fields supplied is distinct from not found.
	if err := env.records.UpdateDonation(ctx, d.ID, donation.UpdateFields{}); err != idb.ErrNoFieldsToUpdate {
		t.Fatalf("no-fields err = %v, want ErrNoFieldsToUpdate", err)
	}
	if err := env.records.UpdateDonation(ctx, 99999, donation.UpdateFields{Amount: &newAmount}); err != idb.ErrDonationNotFound {
		t.Fatalf("not-found err = %v, want ErrDonationNotFound", err)
	}
}

func TestDeleteDonation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d := mustAdd(t, env, AddDonationInput{DonorName: "Alice", Amount: 20, Category: "General"})

	// Deleting a nonexistent ID reports not found and changes nothing.
	if err := env.records.DeleteDonation(ctx, d.ID+1); err != idb.ErrDonationNotFound {
		t.Fatalf("err = %v, want ErrDonationNotFound", err)
	}
	recent, _ := env.records.RecentDonations(ctx, 0)
	if len(recent) != 1 {
		t.Fatalf("donation count changed after failed delete: %d", len(recent))
	}

	if err := env.records.DeleteDonation(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDonation: %v", err)
	}
	recent, _ = env.records.RecentDonations(ctx, 0)
	if len(recent) != 0 {
		t.Fatalf("donation not deleted")
	}
}

func TestDeleteDonationsByDateMatchesAllSharingTimestamp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shared := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.Local)
	mustAdd(t, env, AddDonationInput{DonorName: "A", Amount: 1, Category: "General", Date: shared})
	mustAdd(t, env, AddDonationInput{DonorName: "B", Amount: 2, Category: "General", Date: shared})
	mustAdd(t, env, AddDonationInput{DonorName: "C", Amount: 3, Category: "General", Date: shared.Add(time.Hour)})

	removed, err := env.records.DeleteDonationsByDate(ctx, shared.Format(donation.DateLayout))
	if err != nil {
		t.Fatalf("DeleteDonationsByDate: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	if _, err := env.records.DeleteDonationsByDate(ctx, "1999-01-01 00:00:00"); err != idb.ErrDonationNotFound {
		t.Fatalf("err = %v, want ErrDonationNotFound", err)
	}
}

func TestUpdateDonorOutcomes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.records.AddDonor(ctx, &donor.Profile{Name: "Carol"}); err != nil {
		t.Fatalf("AddDonor: %v", err)
	}

	email := "carol@example.com"
	if err := env.records.UpdateDonor(ctx, "Carol", donor.UpdateFields{Email: &email}); err != nil {
		t.Fatalf("UpdateDonor: %v", err)
	}
	if err := env.records.UpdateDonor(ctx, "Carol", donor.UpdateFields{}); err != idb.ErrNoFieldsToUpdate {
		t.Fatalf("no-fields err = %v, want ErrNoFieldsToUpdate", err)
	}
	if err := env.records.UpdateDonor(ctx, "Nobody", donor.UpdateFields{Email: &email}); err != idb.ErrDonorNotFound {
		t.Fatalf("not-found err = %v, want ErrDonorNotFound", err)
	}

	if err := env.records.RemoveDonor(ctx, "Carol"); err != nil {
		t.Fatalf("RemoveDonor: %v", err)
	}
	if err := env.records.RemoveDonor(ctx, "Carol"); err != idb.ErrDonorNotFound {
		t.Fatalf("second remove err = %v, want ErrDonorNotFound", err)
	}
}

func TestRecordFromText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	msg, err := env.records.RecordFromText(ctx, "Donation of $250 from John for medical supplies")
	if err != nil {
		t.Fatalf("RecordFromText: %v", err)
	}
	if msg != "Successfully recorded donation of $250.00 from John in General category." {
		t.Fatalf("unexpected message: %q", msg)
	}

	recent, err := env.records.RecentDonations(ctx, 1)
	if err != nil {
		t.Fatalf("RecentDonations: %v", err)
	}
	if len(recent) != 1 || recent[0].DonorName != "John" || recent[0].Amount != 250 {
		t.Fatalf("unexpected stored donation: %+v", recent)
	}
	if !recent[0].Notes.Valid || recent[0].Notes.String != "medical supplies" {
		t.Fatalf("notes = %+v, want medical supplies", recent[0].Notes)
	}

	// Extraction failure writes nothing.
	if _, err := env.records.RecordFromText(ctx, "thanks for everything"); err == nil {
		t.Fatal("expected extraction error")
	}
	recent, _ = env.records.RecentDonations(ctx, 0)
	if len(recent) != 1 {
		t.Fatalf("count after failed extraction = %d, want 1", len(recent))
	}
}

func TestEnqueueRecurringReminders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.Local)
	mustAdd(t, env, AddDonationInput{
		DonorName: "Rita", Amount: 25, Category: "General",
		IsRecurring: true, RecurringInterval: "Weekly", Date: start,
	})
	mustAdd(t, env, AddDonationInput{DonorName: "Sam", Amount: 10, Category: "General", Date: start})

	// Before the next date arrives nothing is due.
	n, err := env.records.EnqueueRecurringReminders(ctx, start.AddDate(0, 0, 6), 24*time.Hour)
	if err != nil {
		t.Fatalf("EnqueueRecurringReminders: %v", err)
	}
	if n != 0 {
		t.Fatalf("enqueued = %d, want 0", n)
	}

	// On the due day exactly one reminder goes out.
	n, err = env.records.EnqueueRecurringReminders(ctx, start.AddDate(0, 0, 7), 24*time.Hour)
	if err != nil {
		t.Fatalf("EnqueueRecurringReminders: %v", err)
	}
	if n != 1 {
		t.Fatalf("enqueued = %d, want 1", n)
	}

	// The next day's sweep must not re-enqueue the same donation.
	n, err = env.records.EnqueueRecurringReminders(ctx, start.AddDate(0, 0, 8), 24*time.Hour)
	if err != nil {
		t.Fatalf("EnqueueRecurringReminders: %v", err)
	}
	if n != 0 {
		t.Fatalf("repeat enqueued = %d, want 0", n)
	}

	reminders, err := env.notifs.ListByType(ctx, notification.TypeRecurringDue)
	if err != nil {
		t.Fatalf("ListByType: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("recurring_due rows = %d, want 1", len(reminders))
	}
}

func TestCreateGoalValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.records.CreateGoal(ctx, &goal.Goal{TargetAmount: 100}); err != ErrEmptyCategory {
		t.Fatalf("empty category err = %v, want ErrEmptyCategory", err)
	}
	if err := env.records.CreateGoal(ctx, &goal.Goal{Category: "General"}); err != ErrNonPositiveAmount {
		t.Fatalf("zero target err = %v, want ErrNonPositiveAmount", err)
	}
}

func TestGoalLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	g := &goal.Goal{Category: "Emergency", TargetAmount: 5000}
	if err := env.records.CreateGoal(ctx, g); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if g.ID == 0 {
		t.Fatal("goal ID not assigned")
	}
	if g.Status != goal.StatusActive {
		t.Fatalf("status = %q, want active", g.Status)
	}
	if g.StartDate == "" {
		t.Fatal("start date not defaulted")
	}

	other := &goal.Goal{Category: "Project", TargetAmount: 200}
	if err := env.records.CreateGoal(ctx, other); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	active, err := env.records.ActiveGoals(ctx)
	if err != nil {
		t.Fatalf("ActiveGoals: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active goals = %d, want 2", len(active))
	}

	done, err := env.records.CompleteGoal(ctx, g.ID)
	if err != nil {
		t.Fatalf("CompleteGoal: %v", err)
	}
	if done.Status != goal.StatusCompleted || done.Category != "Emergency" {
		t.Fatalf("completed goal = %+v", done)
	}

	cancelled, err := env.records.CancelGoal(ctx, other.ID)
	if err != nil {
		t.Fatalf("CancelGoal: %v", err)
	}
	if cancelled.Status != goal.StatusCancelled {
		t.Fatalf("cancelled goal = %+v", cancelled)
	}

	active, err = env.records.ActiveGoals(ctx)
	if err != nil {
		t.Fatalf("ActiveGoals: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active goals after closing = %d, want 0", len(active))
	}

	if _, err := env.records.CompleteGoal(ctx, 99999); err != idb.ErrGoalNotFound {
		t.Fatalf("missing goal err = %v, want ErrGoalNotFound", err)
	}
}

func TestAddCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.records.AddCategory(ctx, "  "); err != ErrEmptyCategory {
		t.Fatalf("blank name err = %v, want ErrEmptyCategory", err)
	}
	if err := env.records.AddCategory(ctx, "Medical"); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	// Re-adding is a no-op.
	if err := env.records.AddCategory(ctx, "Medical"); err != nil {
		t.Fatalf("repeat AddCategory: %v", err)
	}

	got := env.records.Categories(ctx)
	want := []string{"Emergency", "General", "Medical", "Other", "Project"}
	if len(got) != len(want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories = %v, want %v", got, want)
		}
	}
}

func TestDonorsListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustAdd(t, env, AddDonationInput{DonorName: "Bob", Amount: 10, Category: "General"})
	mustAdd(t, env, AddDonationInput{DonorName: "Alice", Amount: 20, Category: "Project"})

	profiles, err := env.records.Donors(ctx)
	if err != nil {
		t.Fatalf("Donors: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("profiles = %d, want 2", len(profiles))
	}
	if profiles[0].Name != "Alice" || profiles[1].Name != "Bob" {
		t.Fatalf("profiles not ordered by name: %s, %s", profiles[0].Name, profiles[1].Name)
	}
}
