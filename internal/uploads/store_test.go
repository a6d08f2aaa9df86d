package uploads_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/studioanalytics/internal/uploads"
)

func TestStore(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := uploads.NewStore(db)
	ctx := context.Background()

	now := time.Now().Round(time.Millisecond)
	older := uploads.NewUpload("old.zip", now.Add(-time.Hour))
	older.Status = uploads.StatusFailed
	older.Error = "no csv file in archive"
	newer := uploads.NewUpload("new.zip", now)
	newer.Status = uploads.StatusSucceeded
	newer.Rows = 10
	newer.Slots = 3

	for _, upload := range []*uploads.Upload{older, newer} {
		if err := store.Insert(ctx, upload); err != nil {
			t.Fatal(err)
		}
	}

	found, err := store.FindByID(ctx, newer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if found.Status != uploads.StatusSucceeded || found.Rows != 10 || !found.Time.Equal(newer.Time) {
		t.Fatalf("unexpected upload %+v", found)
	}

	listed, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 2 || listed[0].ID != newer.ID {
		t.Fatalf("expected newest first, got %+v", listed)
	}

	failed, err := store.List(ctx, uploads.ByStatus(uploads.StatusFailed))
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 || failed[0].Error != older.Error {
		t.Fatalf("unexpected failed uploads %+v", failed)
	}

	if _, err := store.FindByID(ctx, "missing"); !errors.Is(err, uploads.ErrNotFound) {
		t.Fatalf("expected %q, got %q", uploads.ErrNotFound, err)
	}
}
