package monitor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidylab/tidymon/internal/config"
	"github.com/tidylab/tidymon/internal/logging"
	"github.com/tidylab/tidymon/internal/report"
	"github.com/tidylab/tidymon/internal/testutil"
)

const waitTimeout = 5 * time.Second

// stubProvider serves a swappable config or error.
type stubProvider struct {
	mu    sync.Mutex
	cfg   *config.Config
	err   error
	calls int
}

func (p *stubProvider) Load() (*config.Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	cfg := *p.cfg
	return &cfg, nil
}

func (p *stubProvider) set(cfg *config.Config, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg, p.err = cfg, err
}

// stubDispatcher records every dispatched report.
type stubDispatcher struct {
	mu        sync.Mutex
	folders   []report.FolderReport
	bookmarks []report.BookmarkReport
}

func (d *stubDispatcher) NotifyFolder(r report.FolderReport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.folders = append(d.folders, r)
}

func (d *stubDispatcher) NotifyBookmarks(r report.BookmarkReport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bookmarks = append(d.bookmarks, r)
}

func (d *stubDispatcher) folderCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.folders)
}

func (d *stubDispatcher) bookmarkCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.bookmarks)
}

// testConfig builds a config watching one folder with a long interval so the
// timer never fires during a test.
func testConfig(folder string) *config.Config {
	return &config.Config{
		CheckIntervalMinutes: 60,
		Folders: []config.FolderConfig{{
			Path:          folder,
			MaxFiles:      20,
			MaxExtensions: 8,
			MaxStaleFiles: 10,
			StaleDays:     7,
		}},
	}
}

// collectSnapshots wires a publisher channel into a new monitor.
func collectSnapshots(provider config.Provider, dispatcher *stubDispatcher) (*Monitor, chan *Snapshot) {
	snaps := make(chan *Snapshot, 16)
	m := New(provider, dispatcher, PublisherFunc(func(s *Snapshot) { snaps <- s }), logging.Discard())
	return m, snaps
}

func awaitSnapshot(t *testing.T, snaps chan *Snapshot) *Snapshot {
	t.Helper()
	select {
	case s := <-snaps:
		return s
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a snapshot")
		return nil
	}
}

func awaitDone(t *testing.T, m *Monitor) {
	t.Helper()
	select {
	case <-m.Done():
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for the worker to exit")
	}
}

func TestRunScansImmediately(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFiles("desk", "file", ".txt", 3)

	provider := &stubProvider{cfg: testConfig(f.Path("desk"))}
	m, snaps := collectSnapshots(provider, nil)

	go m.Run()
	defer func() { m.Stop(); awaitDone(t, m) }()

	snap := awaitSnapshot(t, snaps)
	require.Len(t, snap.Folders, 1)
	assert.Equal(t, 3, snap.Folders[0].TotalFiles)
	assert.Equal(t, report.LevelClean, snap.Worst())
	assert.NotEmpty(t, snap.Cycle)
	assert.False(t, snap.FinishedAt.Before(snap.StartedAt))
}

func TestWakeTriggersPromptCycle(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFiles("desk", "file", ".txt", 1)

	provider := &stubProvider{cfg: testConfig(f.Path("desk"))}
	m, snaps := collectSnapshots(provider, nil)

	go m.Run()
	defer func() { m.Stop(); awaitDone(t, m) }()

	awaitSnapshot(t, snaps)

	// With a 60 minute interval only a wake can cause the second cycle.
	m.Wake()
	awaitSnapshot(t, snaps)
}

func TestWakesCoalesce(t *testing.T) {
	m := New(&stubProvider{cfg: testConfig("/nowhere")}, nil, nil, logging.Discard())

	// Many wakes while nothing is draining must neither block nor panic.
	for i := 0; i < 10; i++ {
		m.Wake()
	}
	assert.Len(t, m.wake, 1)
}

func TestStopReleasesIdleWait(t *testing.T) {
	f := testutil.NewFixture(t)

	provider := &stubProvider{cfg: testConfig(f.Path("desk"))}
	m, snaps := collectSnapshots(provider, nil)

	go m.Run()
	awaitSnapshot(t, snaps)

	m.Stop()
	awaitDone(t, m)

	assert.Equal(t, StateStopped, m.State())

	// No further cycle may run after stop.
	select {
	case s := <-snaps:
		t.Fatalf("unexpected snapshot after stop: %+v", s)
	default:
	}
}

func TestStopIsIdempotent(t *testing.T) {
	provider := &stubProvider{cfg: testConfig("/nowhere")}
	m, snaps := collectSnapshots(provider, nil)

	go m.Run()
	awaitSnapshot(t, snaps)

	m.Stop()
	m.Stop()
	awaitDone(t, m)
}

func TestDispatchesOnlyNonClean(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFiles("cluttered", "file", ".txt", 25)
	f.CreateFiles("tidy", "file", ".txt", 2)

	cfg := testConfig(f.Path("cluttered"))
	cfg.Folders = append(cfg.Folders, config.FolderConfig{
		Path:          f.Path("tidy"),
		MaxFiles:      20,
		MaxExtensions: 8,
		MaxStaleFiles: 10,
		StaleDays:     7,
	})

	dispatcher := &stubDispatcher{}
	provider := &stubProvider{cfg: cfg}
	m, snaps := collectSnapshots(provider, dispatcher)

	go m.Run()
	defer func() { m.Stop(); awaitDone(t, m) }()

	snap := awaitSnapshot(t, snaps)
	require.Len(t, snap.Folders, 2)
	assert.Equal(t, report.LevelCaution, snap.Worst())

	require.Equal(t, 1, dispatcher.folderCount())
	assert.Equal(t, f.Path("cluttered"), dispatcher.folders[0].Path)
}

func TestBookmarkReportIncluded(t *testing.T) {
	f := testutil.NewFixture(t)
	store := f.WriteBookmarks("Bookmarks", map[string]testutil.BookmarkNode{
		"bookmark_bar": testutil.FolderNode("북마크바",
			testutil.URLNode("https://a.example", ""),
			testutil.URLNode("https://a.example", ""),
		),
	})

	cfg := testConfig(f.Path("desk"))
	cfg.Bookmarks = config.BookmarkConfig{
		Enabled:          true,
		Path:             store,
		MaxUnsorted:      10,
		MaxDuplicates:    5,
		MaxUnusedPercent: 50,
	}

	dispatcher := &stubDispatcher{}
	provider := &stubProvider{cfg: cfg}
	m, snaps := collectSnapshots(provider, dispatcher)

	go m.Run()
	defer func() { m.Stop(); awaitDone(t, m) }()

	snap := awaitSnapshot(t, snaps)
	require.NotNil(t, snap.Bookmarks)
	assert.Equal(t, 2, snap.Bookmarks.TotalBookmarks)
	// 100% unused fires the unused rule.
	assert.Equal(t, 1, snap.Bookmarks.Score)
	assert.Equal(t, 1, dispatcher.bookmarkCount())
}

func TestMalformedBookmarkStoreOmitsReport(t *testing.T) {
	f := testutil.NewFixture(t)
	store := f.CreateFile("Bookmarks", []byte("{broken"))

	cfg := testConfig(f.Path("desk"))
	cfg.Bookmarks = config.BookmarkConfig{Enabled: true, Path: store}

	provider := &stubProvider{cfg: cfg}
	m, snaps := collectSnapshots(provider, nil)

	go m.Run()
	defer func() { m.Stop(); awaitDone(t, m) }()

	snap := awaitSnapshot(t, snaps)
	assert.Nil(t, snap.Bookmarks, "unparsable store must omit the bookmark report")
	assert.Len(t, snap.Folders, 1, "folder reports must still be produced")
}

func TestConfigFailureReusesPreviousConfig(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFiles("desk", "file", ".txt", 2)

	provider := &stubProvider{cfg: testConfig(f.Path("desk"))}
	m, snaps := collectSnapshots(provider, nil)

	go m.Run()
	defer func() { m.Stop(); awaitDone(t, m) }()

	awaitSnapshot(t, snaps)

	// Break the provider; the next cycle must still run on the old config.
	provider.set(nil, errors.New("config broken"))
	m.Wake()

	snap := awaitSnapshot(t, snaps)
	require.Len(t, snap.Folders, 1)
	assert.Equal(t, f.Path("desk"), snap.Folders[0].Path)
}

func TestConfigFailureWithoutPreviousSkipsCycle(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFiles("desk", "file", ".txt", 2)

	provider := &stubProvider{err: errors.New("config broken")}
	m, snaps := collectSnapshots(provider, nil)

	go m.Run()
	defer func() { m.Stop(); awaitDone(t, m) }()

	// The failed first cycle publishes nothing.
	select {
	case s := <-snaps:
		t.Fatalf("unexpected snapshot from failed cycle: %+v", s)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Nil(t, m.Latest())

	// Once the provider recovers, a wake produces a snapshot.
	provider.set(testConfig(f.Path("desk")), nil)
	m.Wake()
	snap := awaitSnapshot(t, snaps)
	assert.Equal(t, snap, m.Latest())
}

func TestScanOnce(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFiles("desk", "file", ".txt", 25)

	provider := &stubProvider{cfg: testConfig(f.Path("desk"))}
	m := New(provider, nil, nil, logging.Discard())

	snap, err := m.ScanOnce()
	require.NoError(t, err)
	require.Len(t, snap.Folders, 1)
	assert.Equal(t, report.LevelCaution, snap.Worst())
	assert.Equal(t, snap, m.Latest())
}

func TestScanOnceConfigError(t *testing.T) {
	provider := &stubProvider{err: errors.New("config broken")}
	m := New(provider, nil, nil, logging.Discard())

	_, err := m.ScanOnce()
	assert.Error(t, err)
}

func TestConfigReloadedEveryCycle(t *testing.T) {
	f := testutil.NewFixture(t)

	provider := &stubProvider{cfg: testConfig(f.Path("desk"))}
	m, snaps := collectSnapshots(provider, nil)

	go m.Run()
	defer func() { m.Stop(); awaitDone(t, m) }()

	awaitSnapshot(t, snaps)
	m.Wake()
	awaitSnapshot(t, snaps)

	provider.mu.Lock()
	calls := provider.calls
	provider.mu.Unlock()
	assert.GreaterOrEqual(t, calls, 2, "each cycle must reload the configuration")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "scanning", StateScanning.String())
	assert.Equal(t, "stopped", StateStopped.String())
}
