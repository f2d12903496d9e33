package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedgate-labs/feedgate/internal/adapters/memory"
	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/store"
)

type fakeVersions struct {
	snap domain.VersionSnapshot
	err  error
}

func (f *fakeVersions) Version(ctx context.Context) (domain.VersionSnapshot, error) {
	return f.snap, f.err
}

type fakeToaster struct {
	mu   sync.Mutex
	msgs []string
	durs []time.Duration
}

func (f *fakeToaster) Toast(msg string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	f.durs = append(f.durs, d)
}

type fakeAudio struct {
	probeErr error
	probes   int
	plays    int
}

func (f *fakeAudio) Probe(ctx context.Context) error {
	f.probes++
	return f.probeErr
}

func (f *fakeAudio) Play(ctx context.Context) error {
	f.plays++
	return nil
}

type fakeOsNotifier struct {
	grant    bool
	reqErr   error
	requests int
	notices  []string
}

func (f *fakeOsNotifier) RequestPermission(ctx context.Context) (bool, error) {
	f.requests++
	return f.grant, f.reqErr
}

func (f *fakeOsNotifier) Notify(ctx context.Context, title, body string) error {
	f.notices = append(f.notices, body)
	return nil
}

func newTestPipeline(t *testing.T, versions VersionFetcher) (*Pipeline, *store.Session, *fakeToaster, *fakeAudio, *fakeOsNotifier) {
	t.Helper()
	session := store.NewSession(memory.NewKV(), nil)
	toaster := &fakeToaster{}
	audio := &fakeAudio{}
	osn := &fakeOsNotifier{grant: true}
	perms := NewPermissions(session, audio, osn, true, true, nil)
	perms.HandleGesture(context.Background())
	cfg := Config{EnableAudioCue: true, EnableOsNotifications: true}
	p := NewPipeline(cfg, versions, session, toaster, audio, osn, perms, nil)
	return p, session, toaster, audio, osn
}

func TestFirstRunSeedsWithoutAlerting(t *testing.T) {
	fv := &fakeVersions{snap: domain.VersionSnapshot{NewsOrders: 7, Signals: 4, Announcements: 2}}
	p, session, toaster, audio, osn := newTestPipeline(t, fv)

	p.CheckAndNotify(context.Background())

	assert.Empty(t, toaster.msgs, "first run must not toast")
	assert.Zero(t, audio.plays, "first run must not play audio")
	assert.Empty(t, osn.notices, "first run must not post notifications")
	cached, known := session.VersionCache()
	require.True(t, known, "baseline not seeded")
	assert.Equal(t, fv.snap, cached)
}

func TestZeroSeedThenIncreaseAlerts(t *testing.T) {
	fv := &fakeVersions{snap: domain.VersionSnapshot{}}
	p, session, toaster, _, _ := newTestPipeline(t, fv)

	// A backend that has never published seeds an all-zero baseline.
	p.CheckAndNotify(context.Background())
	require.Empty(t, toaster.msgs, "seeding must not alert")
	_, known := session.VersionCache()
	require.True(t, known, "all-zero fetch must still establish the baseline")

	fv.snap = domain.VersionSnapshot{NewsOrders: 1, Signals: 1, Announcements: 1}
	p.CheckAndNotify(context.Background())

	assert.Len(t, toaster.msgs, 3, "first publish after a zero seed must alert")
}

func TestAlertsOnlyForIncreasedChannels(t *testing.T) {
	fv := &fakeVersions{snap: domain.VersionSnapshot{}}
	p, session, toaster, _, _ := newTestPipeline(t, fv)

	// Seed the baseline.
	p.CheckAndNotify(context.Background())
	require.Empty(t, toaster.msgs)

	fv.snap = domain.VersionSnapshot{NewsOrders: 1}
	p.CheckAndNotify(context.Background())

	require.Len(t, toaster.msgs, 1, "exactly one alert expected")
	assert.Contains(t, strings.ToLower(toaster.msgs[0]), "news / orders")
	cached, _ := session.VersionCache()
	assert.Equal(t, fv.snap, cached)
}

func TestEqualOrLowerVersionsNeverAlert(t *testing.T) {
	fv := &fakeVersions{snap: domain.VersionSnapshot{NewsOrders: 5, Signals: 3, Announcements: 1}}
	p, session, toaster, _, _ := newTestPipeline(t, fv)
	p.CheckAndNotify(context.Background()) // seed

	// Equal.
	p.CheckAndNotify(context.Background())
	assert.Empty(t, toaster.msgs)

	// Lower (backend correction): no alert, but cache tracks it.
	fv.snap = domain.VersionSnapshot{NewsOrders: 2, Signals: 3, Announcements: 1}
	p.CheckAndNotify(context.Background())
	assert.Empty(t, toaster.msgs)
	cached, _ := session.VersionCache()
	assert.Equal(t, fv.snap, cached, "cache must track corrections")
}

func TestAllThreeSurfacesFire(t *testing.T) {
	fv := &fakeVersions{snap: domain.VersionSnapshot{}}
	p, _, toaster, audio, osn := newTestPipeline(t, fv)
	p.CheckAndNotify(context.Background()) // seed

	fv.snap = domain.VersionSnapshot{Signals: 1}
	p.CheckAndNotify(context.Background())

	require.Len(t, toaster.msgs, 1)
	assert.Equal(t, DefaultToastDuration, toaster.durs[0])
	assert.Equal(t, 1, audio.plays)
	require.Len(t, osn.notices, 1)
	assert.Contains(t, osn.notices[0], "Signals")
}

func TestAudioGatedByUnlock(t *testing.T) {
	session := store.NewSession(memory.NewKV(), nil)
	toaster := &fakeToaster{}
	audio := &fakeAudio{probeErr: errors.New("no audio device")}
	osn := &fakeOsNotifier{grant: true}
	perms := NewPermissions(session, audio, osn, true, true, nil)
	perms.HandleGesture(context.Background()) // probe fails, audio stays locked

	fv := &fakeVersions{snap: domain.VersionSnapshot{}}
	p := NewPipeline(Config{EnableAudioCue: true, EnableOsNotifications: true}, fv, session, toaster, audio, osn, perms, nil)
	p.CheckAndNotify(context.Background()) // seed

	fv.snap = domain.VersionSnapshot{NewsOrders: 1}
	p.CheckAndNotify(context.Background())

	assert.Len(t, toaster.msgs, 1, "toast still fires")
	assert.Zero(t, audio.plays, "locked audio must not play")
	assert.Len(t, osn.notices, 1, "notification still fires")
}

func TestOsNotificationGatedByPermission(t *testing.T) {
	session := store.NewSession(memory.NewKV(), nil)
	toaster := &fakeToaster{}
	audio := &fakeAudio{}
	osn := &fakeOsNotifier{grant: false}
	perms := NewPermissions(session, audio, osn, true, true, nil)
	perms.HandleGesture(context.Background()) // denied

	fv := &fakeVersions{snap: domain.VersionSnapshot{}}
	p := NewPipeline(Config{EnableAudioCue: true, EnableOsNotifications: true}, fv, session, toaster, audio, osn, perms, nil)
	p.CheckAndNotify(context.Background()) // seed

	fv.snap = domain.VersionSnapshot{Announcements: 1}
	p.CheckAndNotify(context.Background())

	assert.Len(t, toaster.msgs, 1)
	assert.Empty(t, osn.notices, "denied permission must suppress notifications")
}

func TestFailedVersionFetchIsSwallowed(t *testing.T) {
	fv := &fakeVersions{err: &domain.TransportError{Kind: domain.TransportNetwork, Path: "version"}}
	p, session, toaster, _, _ := newTestPipeline(t, fv)
	session.SetVersionCache(domain.VersionSnapshot{NewsOrders: 3})

	p.CheckAndNotify(context.Background())

	assert.Empty(t, toaster.msgs)
	cached, _ := session.VersionCache()
	assert.Equal(t, domain.VersionSnapshot{NewsOrders: 3}, cached,
		"cache must survive a failed check")
}

func TestNewContentHook(t *testing.T) {
	fv := &fakeVersions{snap: domain.VersionSnapshot{}}
	p, _, _, _, _ := newTestPipeline(t, fv)
	p.CheckAndNotify(context.Background()) // seed

	var gotCh domain.Channel
	var gotFrom, gotTo int64
	p.SetNewContentFunc(func(ch domain.Channel, from, to int64) {
		gotCh, gotFrom, gotTo = ch, from, to
	})

	fv.snap = domain.VersionSnapshot{Signals: 2}
	p.CheckAndNotify(context.Background())

	assert.Equal(t, domain.ChannelSignals, gotCh)
	assert.Equal(t, int64(0), gotFrom)
	assert.Equal(t, int64(2), gotTo)
}
