package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/models"
)

func TestVideoRepositoryListFiltersAndPaginates(t *testing.T) {
	db := newTestDatabase(t)
	users := NewUserRepository(db.DB)
	videos := NewVideoRepository(db.DB)
	ctx := context.Background()

	owner := createUser(t, users, "ownerchannel")
	other := createUser(t, users, "otherchannel")

	createVideo(t, videos, owner.ID, "gardening basics")
	createVideo(t, videos, owner.ID, "gardening advanced")
	createVideo(t, videos, other.ID, "cooking basics")
	hidden := createVideo(t, videos, owner.ID, "gardening draft")
	hidden.IsPublished = false
	if err := videos.Update(ctx, hidden); err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	page, total, err := videos.List(ctx, models.VideoFilter{
		Query:         "gardening",
		OnlyPublished: true,
		SortBy:        "title",
		Limit:         1,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 matching videos got %d", total)
	}
	if len(page) != 1 || page[0].Title != "gardening advanced" {
		t.Fatalf("unexpected first page: %+v", page)
	}

	ownerID := other.ID
	mine, total, err := videos.List(ctx, models.VideoFilter{OwnerID: &ownerID, Limit: 10})
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if total != 1 || len(mine) != 1 || mine[0].Title != "cooking basics" {
		t.Fatalf("unexpected owner listing: total=%d videos=%+v", total, mine)
	}
}

func TestVideoRepositoryRecordView(t *testing.T) {
	db := newTestDatabase(t)
	users := NewUserRepository(db.DB)
	videos := NewVideoRepository(db.DB)
	history := NewWatchHistoryRepository(db.DB)
	ctx := context.Background()

	owner := createUser(t, users, "ownerchannel")
	viewer := createUser(t, users, "viewer")
	video := createVideo(t, videos, owner.ID, "counting")

	if err := videos.RecordView(ctx, video.ID, uuid.Nil); err != nil {
		t.Fatalf("anonymous view: %v", err)
	}
	if err := videos.RecordView(ctx, video.ID, viewer.ID); err != nil {
		t.Fatalf("viewer view: %v", err)
	}

	got, err := videos.GetByID(ctx, video.ID)
	if err != nil || got == nil {
		t.Fatalf("get video: %v", err)
	}
	if got.Views != 2 {
		t.Fatalf("expected 2 views got %d", got.Views)
	}

	entries, err := history.ListEntries(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != video.ID {
		t.Fatalf("expected one history entry for the video got %+v", entries)
	}
}

func TestVideoRepositoryRecordViewRollsBackOnHistoryFailure(t *testing.T) {
	db := newTestDatabase(t)
	users := NewUserRepository(db.DB)
	videos := NewVideoRepository(db.DB)
	ctx := context.Background()

	owner := createUser(t, users, "ownerchannel")
	viewer := createUser(t, users, "viewer")
	video := createVideo(t, videos, owner.ID, "atomic")

	if err := db.Migrator().DropTable(&models.WatchHistory{}); err != nil {
		t.Fatalf("drop history table: %v", err)
	}

	if err := videos.RecordView(ctx, video.ID, viewer.ID); err == nil {
		t.Fatalf("expected the history write to fail")
	}

	got, err := videos.GetByID(ctx, video.ID)
	if err != nil || got == nil {
		t.Fatalf("get video: %v", err)
	}
	if got.Views != 0 {
		t.Fatalf("view was counted without a history entry: views=%d", got.Views)
	}
}
