package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/apperr"
	"github.com/videotube/videotube/internal/repository/memory"
	"github.com/videotube/videotube/pkg/logger"
	"github.com/videotube/videotube/pkg/queue"
)

func TestToggleSubscriptionPairRestoresState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bee := env.seedUser(t, "bee")

	first, err := env.channels.ToggleSubscription(ctx, alice.ID.String(), bee.ID.String())
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	second, err := env.channels.ToggleSubscription(ctx, alice.ID.String(), bee.ID.String())
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	if first != StateSubscribed || second != StateUnsubscribed {
		t.Fatalf("expected subscribed then unsubscribed, got %s then %s", first, second)
	}

	subscribers, err := env.channels.ListSubscribers(ctx, bee.ID.String())
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(subscribers) != 0 {
		t.Fatalf("expected edge set to be restored, got %+v", subscribers)
	}

	types := env.publisher.EventTypes()
	if len(types) != 2 || types[0] != queue.EventSubscriptionCreated || types[1] != queue.EventSubscriptionDeleted {
		t.Fatalf("unexpected events %v", types)
	}
}

func TestToggleSubscriptionErrors(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")

	cases := []struct {
		name       string
		subscriber string
		channel    string
		want       apperr.Kind
	}{
		{"malformed channel", alice.ID.String(), "not-an-id", apperr.KindInvalidReference},
		{"malformed subscriber", "nope", alice.ID.String(), apperr.KindInvalidReference},
		{"unknown channel", alice.ID.String(), uuid.NewString(), apperr.KindNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.channels.ToggleSubscription(context.Background(), tc.subscriber, tc.channel)
			if got := apperr.KindOf(err); got != tc.want {
				t.Fatalf("expected %s got %s (%v)", tc.want, got, err)
			}
		})
	}

	if n := len(env.publisher.Messages()); n != 0 {
		t.Fatalf("failed toggles must not publish, got %d events", n)
	}
}

func TestConcurrentTogglesLeaveAtMostOneEdge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bee := env.seedUser(t, "bee")

	const calls = 50
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.channels.ToggleSubscription(ctx, alice.ID.String(), bee.ID.String()); err != nil {
				t.Errorf("toggle: %v", err)
			}
		}()
	}
	wg.Wait()

	profile, err := env.channels.GetChannelProfile(ctx, "bee", alice.ID.String())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	// An even number of toggles ends unsubscribed.
	if profile.SubscriberCount != 0 || profile.IsSubscribed {
		t.Fatalf("expected no edge after %d toggles, got %+v", calls, profile)
	}
}

func TestChannelProfileScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.seedUser(t, "alice")
	bee := env.seedUser(t, "bee")
	outsider := env.seedUser(t, "carol")

	state, err := env.channels.ToggleSubscription(ctx, a.ID.String(), bee.ID.String())
	if err != nil || state != StateSubscribed {
		t.Fatalf("toggle: state=%s err=%v", state, err)
	}

	profile, err := env.channels.GetChannelProfile(ctx, "bee", a.ID.String())
	if err != nil {
		t.Fatalf("profile as subscriber: %v", err)
	}
	if profile.SubscriberCount != 1 || !profile.IsSubscribed {
		t.Fatalf("expected count 1 and subscribed, got %+v", profile)
	}

	profile, err = env.channels.GetChannelProfile(ctx, "bee", outsider.ID.String())
	if err != nil {
		t.Fatalf("profile as outsider: %v", err)
	}
	if profile.SubscriberCount != 1 || profile.IsSubscribed {
		t.Fatalf("expected count 1 and not subscribed, got %+v", profile)
	}

	state, err = env.channels.ToggleSubscription(ctx, a.ID.String(), bee.ID.String())
	if err != nil || state != StateUnsubscribed {
		t.Fatalf("second toggle: state=%s err=%v", state, err)
	}

	profile, err = env.channels.GetChannelProfile(ctx, "bee", a.ID.String())
	if err != nil {
		t.Fatalf("profile after unsubscribe: %v", err)
	}
	if profile.SubscriberCount != 0 || profile.IsSubscribed {
		t.Fatalf("expected count 0 and not subscribed, got %+v", profile)
	}
}

func TestChannelProfileCountsAreViewerIndependent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bee := env.seedUser(t, "bee")
	carol := env.seedUser(t, "carol")
	dave := env.seedUser(t, "dave")

	for _, pair := range [][2]string{
		{alice.ID.String(), bee.ID.String()},
		{carol.ID.String(), bee.ID.String()},
		{bee.ID.String(), dave.ID.String()},
	} {
		if _, err := env.channels.ToggleSubscription(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	viewers := map[string]bool{
		alice.ID.String(): true,
		carol.ID.String(): true,
		dave.ID.String():  false,
		"":                false,
		"not-a-uuid":      false,
	}
	for viewer, wantSubscribed := range viewers {
		profile, err := env.channels.GetChannelProfile(ctx, "BEE", viewer)
		if err != nil {
			t.Fatalf("viewer %q: %v", viewer, err)
		}
		if profile.SubscriberCount != 2 || profile.ChannelSubscribedToCount != 1 {
			t.Fatalf("viewer %q: counts changed %+v", viewer, profile)
		}
		if profile.IsSubscribed != wantSubscribed {
			t.Fatalf("viewer %q: expected isSubscribed=%v", viewer, wantSubscribed)
		}
		if profile.Username != "bee" || profile.Email != "bee@example.com" {
			t.Fatalf("viewer %q: unexpected profile fields %+v", viewer, profile)
		}
	}
}

func TestChannelProfileReflectsToggleDespiteCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bee := env.seedUser(t, "bee")

	if _, err := env.channels.GetChannelProfile(ctx, "bee", ""); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if !env.cache.Has(channelStatsKey(bee.ID)) {
		t.Fatalf("expected stats to be cached")
	}

	if _, err := env.channels.ToggleSubscription(ctx, alice.ID.String(), bee.ID.String()); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if env.cache.Has(channelStatsKey(bee.ID)) || env.cache.Has(channelStatsKey(alice.ID)) {
		t.Fatalf("expected toggle to invalidate both stats entries")
	}

	profile, err := env.channels.GetChannelProfile(ctx, "bee", "")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.SubscriberCount != 1 {
		t.Fatalf("expected fresh count 1 got %d", profile.SubscriberCount)
	}
}

// countHookSubscriptions runs beforeCount once, right before the first
// CountSubscriptions call reaches the store.
type countHookSubscriptions struct {
	SubscriptionStore
	beforeCount func()
	once        sync.Once
}

func (s *countHookSubscriptions) CountSubscriptions(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	s.once.Do(func() {
		if s.beforeCount != nil {
			s.beforeCount()
		}
	})
	return s.SubscriptionStore.CountSubscriptions(ctx, subscriberID)
}

func TestChannelProfileIgnoresCountsComputedAcrossAToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bee := env.seedUser(t, "bee")

	store := &countHookSubscriptions{SubscriptionStore: env.store.Subscriptions()}
	stats := NewStatsCache(env.cache, time.Minute, logger.Discard())
	channels := NewChannelService(env.store.Users(), store, env.store.WatchHistory(), stats, env.publisher, logger.Discard())

	// The subscriber count has already been read when the toggle commits.
	store.beforeCount = func() {
		if _, err := channels.ToggleSubscription(ctx, alice.ID.String(), bee.ID.String()); err != nil {
			t.Errorf("toggle during read: %v", err)
		}
	}

	if _, err := channels.GetChannelProfile(ctx, "bee", ""); err != nil {
		t.Fatalf("racing profile: %v", err)
	}

	profile, err := channels.GetChannelProfile(ctx, "bee", alice.ID.String())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !profile.IsSubscribed {
		t.Fatalf("expected alice to be subscribed")
	}
	if profile.SubscriberCount != 1 {
		t.Fatalf("stale cached count: got %d want 1", profile.SubscriberCount)
	}

	// The fresh counts are cacheable again.
	if _, ok := stats.Get(ctx, bee.ID); !ok {
		t.Fatalf("expected recomputed stats to be cached")
	}
}

func TestStatsCacheDropsEntriesFromOlderGenerations(t *testing.T) {
	ctx := context.Background()
	stats := NewStatsCache(memory.NewCache(), time.Minute, logger.Discard())
	channel := uuid.New()

	generation, ok := stats.Generation(ctx, channel)
	if !ok || generation != 0 {
		t.Fatalf("expected generation 0 got %d (ok=%v)", generation, ok)
	}
	if err := stats.Invalidate(ctx, channel); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	stats.Set(ctx, channel, generation, &ChannelStats{SubscriberCount: 7})
	if _, ok := stats.Get(ctx, channel); ok {
		t.Fatalf("entry from an older generation must not be served")
	}

	current, _ := stats.Generation(ctx, channel)
	stats.Set(ctx, channel, current, &ChannelStats{SubscriberCount: 7})
	got, ok := stats.Get(ctx, channel)
	if !ok || got.SubscriberCount != 7 {
		t.Fatalf("expected current entry to be served got %+v (ok=%v)", got, ok)
	}
}

func TestChannelProfileNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.channels.GetChannelProfile(context.Background(), "nonexistent-user", "")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected NotFound got %v", err)
	}

	_, err = env.channels.GetChannelProfile(context.Background(), "  ", "")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected BadRequest for blank username got %v", err)
	}
}

func TestListSubscribedChannelsProjectsSummaries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bee := env.seedUser(t, "bee")
	carol := env.seedUser(t, "carol")

	for _, channel := range []string{bee.ID.String(), carol.ID.String()} {
		if _, err := env.channels.ToggleSubscription(ctx, alice.ID.String(), channel); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	channels, err := env.channels.ListSubscribedChannels(ctx, alice.ID.String())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := map[string]string{}
	for _, c := range channels {
		got[c.Username] = c.FullName
	}
	if len(got) != 2 || got["bee"] != "Full bee" || got["carol"] != "Full carol" {
		t.Fatalf("unexpected channels %+v", channels)
	}

	subscribers, err := env.channels.ListSubscribers(ctx, bee.ID.String())
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(subscribers) != 1 || subscribers[0].Username != "alice" {
		t.Fatalf("unexpected subscribers %+v", subscribers)
	}

	if _, err := env.channels.ListSubscribedChannels(ctx, "bad"); apperr.KindOf(err) != apperr.KindInvalidReference {
		t.Fatalf("expected InvalidReference got %v", err)
	}
	if _, err := env.channels.ListSubscribedChannels(ctx, uuid.NewString()); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected NotFound got %v", err)
	}
}

func TestWatchHistoryOrderAndEmptiness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	viewer := env.seedUser(t, "viewer")
	owner := env.seedUser(t, "owner")

	v1 := env.seedVideo(t, owner, "v1")
	v2 := env.seedVideo(t, owner, "v2")
	v3 := env.seedVideo(t, owner, "v3")

	empty, err := env.channels.GetWatchHistory(ctx, viewer.ID.String())
	if err != nil {
		t.Fatalf("empty history: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil history got %#v", empty)
	}

	for _, v := range []string{v3.ID.String(), v1.ID.String(), v2.ID.String()} {
		if _, err := env.videos.GetByID(ctx, v, viewer.ID.String()); err != nil {
			t.Fatalf("watch %s: %v", v, err)
		}
	}

	history, err := env.channels.GetWatchHistory(ctx, viewer.ID.String())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	want := []string{"v3", "v1", "v2"}
	if len(history) != len(want) {
		t.Fatalf("expected %d entries got %d", len(want), len(history))
	}
	for i, entry := range history {
		if entry.Title != want[i] {
			t.Fatalf("entry %d: expected %s got %s", i, want[i], entry.Title)
		}
		if entry.Owner.Username != "owner" || entry.Owner.Avatar == "" {
			t.Fatalf("entry %d: owner not embedded %+v", i, entry.Owner)
		}
	}
}

func TestWatchHistoryRequiresKnownViewer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.channels.GetWatchHistory(ctx, ""); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected Unauthorized got %v", err)
	}
	if _, err := env.channels.GetWatchHistory(ctx, uuid.NewString()); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected NotFound got %v", err)
	}
}
