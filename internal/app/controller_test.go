package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/feedgate-labs/feedgate/internal/adapters/memory"
	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/ports"
	"github.com/feedgate-labs/feedgate/internal/store"
)

// fakeFeeds serves canned items or errors per channel and records the
// tokens it was called with.
type fakeFeeds struct {
	mu     sync.Mutex
	items  map[domain.Channel][]domain.ContentRecord
	errs   map[domain.Channel]error
	tokens []string
	calls  int
}

func (f *fakeFeeds) Feed(ctx context.Context, ch domain.Channel, token string) ([]domain.ContentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.tokens = append(f.tokens, token)
	if err := f.errs[ch]; err != nil {
		return nil, err
	}
	return f.items[ch], nil
}

func (f *fakeFeeds) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingRenderer struct {
	mu       sync.Mutex
	rendered [][]domain.ContentRecord
}

func (r *recordingRenderer) Render(items []domain.ContentRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendered = append(r.rendered, items)
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rendered)
}

func (r *recordingRenderer) last() []domain.ContentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rendered) == 0 {
		return nil
	}
	return r.rendered[len(r.rendered)-1]
}

type countingChecker struct {
	mu    sync.Mutex
	calls int
}

func (c *countingChecker) CheckAndNotify(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
}

func (c *countingChecker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newTestController(feeds *fakeFeeds, session *store.Session, checker VersionChecker) (*Controller, map[domain.Channel]*recordingRenderer) {
	renderers := map[domain.Channel]*recordingRenderer{
		domain.ChannelNewsOrders:    {},
		domain.ChannelSignals:       {},
		domain.ChannelAnnouncements: {},
	}
	rmap := map[domain.Channel]ports.Renderer{}
	for ch, r := range renderers {
		rmap[ch] = r
	}
	c := NewController(ControllerConfig{PollInterval: time.Hour}, feeds, session, rmap, checker, nil, nil)
	return c, renderers
}

func TestRefreshSkippedWhenLocked(t *testing.T) {
	feeds := &fakeFeeds{}
	session := store.NewSession(memory.NewKV(), nil)
	c, _ := newTestController(feeds, session, nil)

	if c.Refresh(context.Background()) {
		t.Error("Refresh ran without a token")
	}
	if feeds.callCount() != 0 {
		t.Errorf("feed calls = %d, want 0 in locked state", feeds.callCount())
	}
}

func TestRefreshCarriesToken(t *testing.T) {
	feeds := &fakeFeeds{items: map[domain.Channel][]domain.ContentRecord{
		domain.ChannelNewsOrders: {{Title: "FOMC minutes"}},
	}}
	session := store.NewSession(memory.NewKV(), nil)
	session.SetToken("tok-xyz")
	c, renderers := newTestController(feeds, session, nil)

	if !c.Refresh(context.Background()) {
		t.Fatal("Refresh did not run")
	}
	if feeds.callCount() != 3 {
		t.Errorf("feed calls = %d, want 3 (one per channel)", feeds.callCount())
	}
	for _, tok := range feeds.tokens {
		if tok != "tok-xyz" {
			t.Errorf("feed called with token %q, want tok-xyz", tok)
		}
	}
	got := renderers[domain.ChannelNewsOrders].last()
	if len(got) != 1 || got[0].Title != "FOMC minutes" {
		t.Errorf("news pane = %+v", got)
	}
}

func TestAnnouncementsFailureTolerated(t *testing.T) {
	feeds := &fakeFeeds{
		items: map[domain.Channel][]domain.ContentRecord{
			domain.ChannelNewsOrders: {{Title: "n1"}},
			domain.ChannelSignals:    {{Pair: "XAUUSD", Action: "BUY"}},
		},
		errs: map[domain.Channel]error{
			domain.ChannelAnnouncements: &domain.TransportError{Kind: domain.TransportNetwork, Path: "feed"},
		},
	}
	session := store.NewSession(memory.NewKV(), nil)
	session.SetToken("tok")
	c, renderers := newTestController(feeds, session, nil)

	c.Refresh(context.Background())

	if _, failed := c.Status(); failed {
		t.Error("announcements failure marked the refresh failed")
	}
	if renderers[domain.ChannelNewsOrders].count() != 1 {
		t.Error("news pane not updated")
	}
	if renderers[domain.ChannelSignals].count() != 1 {
		t.Error("signals pane not updated")
	}
	ann := renderers[domain.ChannelAnnouncements].last()
	if ann == nil {
		t.Fatal("announcements pane not rendered at all, want empty render")
	}
	if len(ann) != 0 {
		t.Errorf("announcements pane = %+v, want empty", ann)
	}
}

func TestNewsFailureMarksRefreshFailed(t *testing.T) {
	feeds := &fakeFeeds{
		items: map[domain.Channel][]domain.ContentRecord{
			domain.ChannelSignals: {{Pair: "EURUSD"}},
		},
		errs: map[domain.Channel]error{
			domain.ChannelNewsOrders: errors.New("boom"),
		},
	}
	session := store.NewSession(memory.NewKV(), nil)
	session.SetToken("tok")
	c, renderers := newTestController(feeds, session, nil)

	c.Refresh(context.Background())

	if _, failed := c.Status(); !failed {
		t.Error("news failure did not mark the refresh failed")
	}
	if renderers[domain.ChannelNewsOrders].count() != 0 {
		t.Error("failed channel must keep its stale pane, not re-render")
	}
	if renderers[domain.ChannelSignals].count() != 1 {
		t.Error("surviving channel must still update")
	}
}

func TestLastRefreshRecordedOnSuccess(t *testing.T) {
	feeds := &fakeFeeds{}
	session := store.NewSession(memory.NewKV(), nil)
	session.SetToken("tok")
	c, _ := newTestController(feeds, session, nil)

	before, _ := c.Status()
	if !before.IsZero() {
		t.Fatal("lastRefresh set before any refresh")
	}
	c.Refresh(context.Background())
	after, failed := c.Status()
	if failed {
		t.Error("refresh reported failed")
	}
	if after.IsZero() {
		t.Error("lastRefresh not recorded")
	}
}

func TestRunOncePerformsSinglePassWithCheck(t *testing.T) {
	feeds := &fakeFeeds{}
	session := store.NewSession(memory.NewKV(), nil)
	session.SetToken("tok")
	checker := &countingChecker{}

	rmap := map[domain.Channel]ports.Renderer{}
	c := NewController(ControllerConfig{PollInterval: time.Hour, Once: true}, feeds, session, rmap, checker, nil, nil)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if feeds.callCount() != 3 {
		t.Errorf("feed calls = %d, want 3", feeds.callCount())
	}
	if checker.count() != 1 {
		t.Errorf("version checks = %d, want 1", checker.count())
	}
}

func TestVersionCheckSkippedWhenLocked(t *testing.T) {
	feeds := &fakeFeeds{}
	session := store.NewSession(memory.NewKV(), nil)
	checker := &countingChecker{}

	c := NewController(ControllerConfig{PollInterval: time.Hour, Once: true}, feeds, session, nil, checker, nil, nil)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if checker.count() != 0 {
		t.Error("version check ran in locked state")
	}
}

func TestWakeForcesImmediatePass(t *testing.T) {
	feeds := &fakeFeeds{}
	session := store.NewSession(memory.NewKV(), nil)
	session.SetToken("tok")
	c, _ := newTestController(feeds, session, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	// Wait for the initial pass, then wake.
	waitFor(t, func() bool { return feeds.callCount() >= 3 })
	c.Wake()
	waitFor(t, func() bool { return feeds.callCount() >= 6 })

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
