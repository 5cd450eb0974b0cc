package app

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	idb "donation_assistant_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// testLogger discards output so test runs stay quiet.
func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("component", "test")
}

type testEnv struct {
	db         *sql.DB
	records    *RecordService
	dispatcher *Dispatcher
	donations  *idb.SQLiteDonationRepository
	donors     *idb.SQLiteDonorRepository
	notifs     *idb.SQLiteNotificationRepository
	chats      *idb.SQLiteChatRepository
}

// newTestEnv opens a fresh on-disk store under t.TempDir, migrates the
// schema and wires the full service stack against it.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := idb.NewSQLiteConnection(filepath.Join(t.TempDir(), "donations.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := idb.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	donations := idb.NewSQLiteDonationRepository(db)
	donors := idb.NewSQLiteDonorRepository(db)
	categories := idb.NewSQLiteCategoryRepository(db)
	goals := idb.NewSQLiteGoalRepository(db)
	notifs := idb.NewSQLiteNotificationRepository(db)
	chats := idb.NewSQLiteChatRepository(db)

	records := NewRecordService(db, donations, donors, categories, goals, notifs, testLogger())
	return &testEnv{
		db:         db,
		records:    records,
		dispatcher: NewDispatcher(records, testLogger()),
		donations:  donations,
		donors:     donors,
		notifs:     notifs,
		chats:      chats,
	}
}
