package actionlog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	entry := Entry{
		ID:         "e-1",
		UserID:     "user-1",
		ActionType: ActionOrgAnalysis,
		Details:    map[string]any{"companyId": "c-1"},
		Timestamp:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO action_logs").
		WithArgs(entry.ID, entry.UserID, entry.ActionType, []byte(`{"companyId":"c-1"}`), entry.Timestamp).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "action_type", "details", "created_at"}).
		AddRow("e-2", "user-1", ActionStyleMirror, []byte(`{"targetType":"email"}`), now).
		AddRow("e-1", "user-1", ActionOrgAnalysis, []byte(`not json`), now.Add(-time.Minute))
	mock.ExpectQuery("SELECT id, user_id, action_type, details, created_at").
		WithArgs("user-1", 50).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.ListByUser(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Details["targetType"] != "email" {
		t.Fatalf("unexpected details %+v", got[0].Details)
	}
	if got[1].Details != nil {
		t.Fatalf("expected undecodable details to be dropped")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
