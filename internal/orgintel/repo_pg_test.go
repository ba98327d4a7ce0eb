package orgintel

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsertReturnsStoredIdentity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)
	m := OrganizationMap{
		ID:        "new-id",
		UserID:    "u",
		CompanyID: "c-1",
		Model:     FallbackModel(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO organizational_maps").
		WithArgs("new-id", "u", "c-1", 3, 0.3, sqlmock.AnyArg(), now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("old-id", created))

	repo := &PGRepo{DB: db}
	saved, err := repo.Upsert(context.Background(), m)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if saved.ID != "old-id" || !saved.CreatedAt.Equal(created) || !saved.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected saved map %+v", saved)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, user_id, company_id, model, created_at, updated_at").
		WithArgs("u", "c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "company_id", "model", "created_at", "updated_at"}).
			AddRow("m-1", "u", "c-1", []byte(`{"companyId":"c-1","hierarchyLevels":2,"departments":[],"decisionMakers":[{"name":"Ann Lee"}],"structureData":{},"confidenceScore":0.7}`), now, now))
	mock.ExpectQuery("SELECT id, user_id, company_id, model, created_at, updated_at").
		WithArgs("u", "missing").
		WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	got, err := repo.Get(context.Background(), "u", "c-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Model.HierarchyLevels != 2 || got.Model.DecisionMakers[0].Name != "Ann Lee" {
		t.Fatalf("unexpected model %+v", got.Model)
	}

	if _, err := repo.Get(context.Background(), "u", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
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
	mock.ExpectQuery("FROM organizational_maps").
		WithArgs("u").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "company_id", "model", "created_at", "updated_at"}).
			AddRow("m-2", "u", "c-2", []byte(`{"hierarchyLevels":3}`), now, now).
			AddRow("m-1", "u", "c-1", []byte(`{"hierarchyLevels":2}`), now, now.Add(-time.Hour)))

	repo := &PGRepo{DB: db}
	got, err := repo.ListByUser(context.Background(), "u")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].CompanyID != "c-2" {
		t.Fatalf("unexpected maps %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
