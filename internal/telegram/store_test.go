package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStore(t *testing.T) {
	store := NewStore(openDB(t))

	subscribed := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	chats := []Chat{
		{ID: 1, FirstName: "chat1", Subscribed: subscribed},
		{ID: 2, FirstName: "chat2", Subscribed: subscribed},
	}

	ctx := context.Background()

	for _, chat := range chats {
		if err := store.InsertChat(ctx, &chat); err != nil {
			t.Fatalf("failed to insert chat: %v", err)
		}
	}

	listed, err := store.ListChats(ctx)
	if err != nil {
		t.Fatalf("failed to list chats: %v", err)
	}
	if len(listed) != len(chats) {
		t.Fatalf("expected %d chats, got %d", len(chats), len(listed))
	}
	for i, chat := range chats {
		if chat != listed[i] {
			t.Fatalf("expected %v, got %v", chat, listed[i])
		}
	}

	if err := store.DeleteChat(ctx, 1); err != nil {
		t.Fatalf("failed to delete chat: %v", err)
	}
	listed, err = store.ListChats(ctx)
	if err != nil {
		t.Fatalf("failed to list chats: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != 2 {
		t.Fatalf("expected only chat 2, got %v", listed)
	}
}

func TestUpdatesOffset(t *testing.T) {
	store := NewStore(openDB(t))

	ctx := context.Background()

	offset, err := store.GetUpdatesOffset(ctx)
	if err != nil {
		t.Fatalf("failed to get updates offset: %v", err)
	}
	if offset != 0 {
		t.Fatalf("expected 0 before any update, got %d", offset)
	}

	if err := store.SetUpdatesOffset(ctx, 100); err != nil {
		t.Fatalf("failed to set updates offset: %v", err)
	}

	offset, err = store.GetUpdatesOffset(ctx)
	if err != nil {
		t.Fatalf("failed to get updates offset: %v", err)
	}
	if offset != 100 {
		t.Fatalf("expected 100, got %d", offset)
	}
}
