package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/momonala/ios-health-dump/internal/models"
	"gorm.io/gorm"
)

func newRepositoryTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "health-dumps-test.db")
	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func testDump(date string, steps int) models.HealthDump {
	return models.HealthDump{
		Date:       date,
		Steps:      steps,
		Kcals:      500.5,
		Km:         8.2,
		RecordedAt: time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC),
	}
}

func TestUpsertInsertsThenReplacesInPlace(t *testing.T) {
	t.Parallel()

	repo := NewHealthDumpRepository(newRepositoryTestDatabase(t))

	first := testDump("2026-08-23", 10000)
	first.FlightsClimbed = 50
	if err := repo.Upsert(&first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := testDump("2026-08-23", 12000)
	second.FlightsClimbed = 50
	second.RecordedAt = first.RecordedAt.Add(2 * time.Hour)
	if err := repo.Upsert(&second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one row after same-date upserts, got %d", count)
	}

	stored, found, err := repo.FindByDate("2026-08-23")
	if err != nil {
		t.Fatalf("find by date: %v", err)
	}
	if !found {
		t.Fatal("expected the row to exist")
	}
	if stored.Steps != 12000 {
		t.Fatalf("expected last write to win with steps 12000, got %d", stored.Steps)
	}
	if !stored.RecordedAt.Equal(second.RecordedAt) {
		t.Fatalf("expected recorded_at refreshed to %s, got %s", second.RecordedAt, stored.RecordedAt)
	}
}

func TestUpsertIdenticalResubmissionIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := NewHealthDumpRepository(newRepositoryTestDatabase(t))

	dump := testDump("2026-08-23", 10000)
	if err := repo.Upsert(&dump); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	resubmission := testDump("2026-08-23", 10000)
	if err := repo.Upsert(&resubmission); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row, got %d", count)
	}

	stored, _, err := repo.FindByDate("2026-08-23")
	if err != nil {
		t.Fatalf("find by date: %v", err)
	}
	if stored.Steps != 10000 || stored.Kcals != 500.5 || stored.Km != 8.2 {
		t.Fatalf("expected values unchanged, got %+v", stored)
	}
}

func TestDistinctDatesProduceDistinctRows(t *testing.T) {
	t.Parallel()

	repo := NewHealthDumpRepository(newRepositoryTestDatabase(t))

	dates := []string{"2026-08-20", "2026-08-21", "2026-08-21", "2026-08-22", "2026-08-20"}
	for index, date := range dates {
		dump := testDump(date, 1000*(index+1))
		if err := repo.Upsert(&dump); err != nil {
			t.Fatalf("upsert %s: %v", date, err)
		}
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows for 3 distinct dates, got %d", count)
	}
}

func TestListAllReturnsNewestFirst(t *testing.T) {
	t.Parallel()

	repo := NewHealthDumpRepository(newRepositoryTestDatabase(t))

	for _, date := range []string{"2026-08-21", "2026-08-23", "2026-08-22"} {
		dump := testDump(date, 1000)
		if err := repo.Upsert(&dump); err != nil {
			t.Fatalf("upsert %s: %v", date, err)
		}
	}

	dumps, err := repo.ListAll()
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(dumps) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(dumps))
	}
	for index, wantDate := range []string{"2026-08-23", "2026-08-22", "2026-08-21"} {
		if dumps[index].Date != wantDate {
			t.Fatalf("expected date descending order, got %#v", dumps)
		}
	}
}

func TestWeightRoundTripsIncludingNull(t *testing.T) {
	t.Parallel()

	repo := NewHealthDumpRepository(newRepositoryTestDatabase(t))

	weight := 70.5
	withWeight := testDump("2026-08-22", 1000)
	withWeight.Weight = &weight
	if err := repo.Upsert(&withWeight); err != nil {
		t.Fatalf("upsert with weight: %v", err)
	}
	withoutWeight := testDump("2026-08-23", 1000)
	if err := repo.Upsert(&withoutWeight); err != nil {
		t.Fatalf("upsert without weight: %v", err)
	}

	stored, _, err := repo.FindByDate("2026-08-22")
	if err != nil {
		t.Fatalf("find with weight: %v", err)
	}
	if stored.Weight == nil || *stored.Weight != 70.5 {
		t.Fatalf("expected weight 70.5, got %v", stored.Weight)
	}

	stored, _, err = repo.FindByDate("2026-08-23")
	if err != nil {
		t.Fatalf("find without weight: %v", err)
	}
	if stored.Weight != nil {
		t.Fatalf("expected null weight, got %v", stored.Weight)
	}
}

func TestFindByDateMissingRow(t *testing.T) {
	t.Parallel()

	repo := NewHealthDumpRepository(newRepositoryTestDatabase(t))

	_, found, err := repo.FindByDate("1999-01-01")
	if err != nil {
		t.Fatalf("find by date: %v", err)
	}
	if found {
		t.Fatal("expected no row for an unknown date")
	}
}
