package out

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"jarvis/internal/modules/schedule/domain"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/sqlite"
	"jarvis/internal/platform/tx"
)

func newScheduleStore(t *testing.T) (*SQLiteScheduleStore, tx.Manager) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "jarvis.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store, err := NewSQLiteScheduleStore(db)
	if err != nil {
		t.Fatalf("new schedule store: %v", err)
	}
	return store.(*SQLiteScheduleStore), tx.NewSQLManager(db)
}

func sampleSchedule(id, date string, at time.Time) domain.Schedule {
	return domain.Schedule{
		ID:   id,
		Date: date,
		Entries: []domain.Entry{
			{Start: "09:00", End: "10:00", Task: "Write", Reasoning: "fresh", Energy: "high"},
			{Start: "13:00", End: "13:30", Task: "Walk"},
		},
		Tips:      []string{"hydrate"},
		RawText:   "{}",
		Source:    domain.SourceModel,
		Active:    true,
		CreatedAt: at,
	}
}

func TestScheduleStoreSupersedeKeepsHistory(t *testing.T) {
	t.Parallel()
	store, txm := newScheduleStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	for i, id := range []string{"s1", "s2"} {
		s := sampleSchedule(id, "2026-03-02", base.Add(time.Duration(i)*time.Minute))
		err := txm.Within(ctx, func(ctx context.Context) error {
			if err := store.Supersede(ctx, s.Date); err != nil {
				return err
			}
			return store.Insert(ctx, s)
		})
		if err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
	if err := store.Insert(ctx, sampleSchedule("other", "2026-03-03", base)); err != nil {
		t.Fatalf("insert other: %v", err)
	}

	all, err := store.ListByDate(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != "s2" || !all[0].Active || all[1].Active {
		t.Fatalf("unexpected history: %+v", all)
	}
	active, err := store.Active(ctx, "2026-03-02")
	if err != nil || active.ID != "s2" {
		t.Fatalf("active = %+v, %v", active, err)
	}
	if got := active.Entries[0]; got.Task != "Write" || got.Reasoning != "fresh" || got.Energy != "high" {
		t.Fatalf("entry not round tripped: %+v", got)
	}
	if len(active.Tips) != 1 || !active.CreatedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected schedule: %+v", active)
	}
	other, err := store.Active(ctx, "2026-03-03")
	if err != nil || !other.Active {
		t.Fatalf("other date should stay active: %+v %v", other, err)
	}
}

func TestScheduleStoreNotFound(t *testing.T) {
	t.Parallel()
	store, _ := newScheduleStore(t)
	ctx := context.Background()
	if _, err := store.Active(ctx, "2026-03-02"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.FindByID(ctx, "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Delete(ctx, "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestScheduleStoreRecentAndDelete(t *testing.T) {
	t.Parallel()
	store, _ := newScheduleStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
	for i, date := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		if err := store.Insert(ctx, sampleSchedule(date, date, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "2026-03-03" || recent[1].ID != "2026-03-02" {
		t.Fatalf("unexpected recent: %+v", recent)
	}
	if err := store.Delete(ctx, "2026-03-03"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.FindByID(ctx, "2026-03-03"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected deleted schedule to be gone")
	}
}

func TestScheduleStoreDeleteActivePromotesNewestRemaining(t *testing.T) {
	t.Parallel()
	store, txm := newScheduleStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	for i, id := range []string{"s1", "s2", "s3"} {
		s := sampleSchedule(id, "2026-03-02", base.Add(time.Duration(i)*time.Minute))
		err := txm.Within(ctx, func(ctx context.Context) error {
			if err := store.Supersede(ctx, s.Date); err != nil {
				return err
			}
			return store.Insert(ctx, s)
		})
		if err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	// deleting a superseded schedule leaves the active one alone
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete s1: %v", err)
	}
	if active, err := store.Active(ctx, "2026-03-02"); err != nil || active.ID != "s3" {
		t.Fatalf("active = %+v, %v", active, err)
	}

	if err := store.Delete(ctx, "s3"); err != nil {
		t.Fatalf("delete s3: %v", err)
	}
	active, err := store.Active(ctx, "2026-03-02")
	if err != nil || active.ID != "s2" {
		t.Fatalf("expected s2 to become active, got %+v, %v", active, err)
	}

	if err := store.Delete(ctx, "s2"); err != nil {
		t.Fatalf("delete s2: %v", err)
	}
	if _, err := store.Active(ctx, "2026-03-02"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected no active schedule, got %v", err)
	}
}
