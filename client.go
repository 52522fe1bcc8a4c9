package geolite

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/proipinfo/golang-geolite/internal/watch"
)

// ---------------- PUBLIC BLOCK ----------------

// Client - looks up IPv4 and IPv6 addresses in the current datasets and
// swaps in new datasets when the data files change.
//
// Lookups are safe for concurrent use, also while a reload is running:
// each lookup sees either the old or the new dataset of its family.
type Client struct {
	cfg    Config
	src    Source
	logger *Logger

	v4     atomic.Pointer[Dataset]
	v6     atomic.Pointer[Dataset]
	state4 atomic.Uint32
	state6 atomic.Uint32

	reloadMu sync.Mutex
	ready    chan struct{}

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
	watchDone   chan struct{}
	closed      atomic.Bool
}

// NewClient - factory method for the client. An empty dataDir resolves to
// $GEOLITE_DATA_DIR or ./data. The initial load runs in the background;
// call WaitUntilReady before the first lookup.
func NewClient(dataDir string, opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.DataDir = ResolveDataDir(dataDir)
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		cfg:    cfg,
		src:    cfg.Source,
		logger: cfg.Logger,
		ready:  make(chan struct{}),
	}
	if client.src == nil {
		client.src = NewDirSource(cfg.DataDir, cfg.Mmap)
	}
	if client.logger == nil {
		client.logger = NewLogger(nil)
	}
	client.v4.Store(emptyDataset(IPv4))
	client.v6.Store(emptyDataset(IPv6))

	go func() {
		defer close(client.ready)
		ctx := context.Background()
		client.logger.LogReload(ctx, "initial", client.Reload(ctx))
	}()
	return client, nil
}

// Open - creates a client and waits for the initial load
func Open(ctx context.Context, dataDir string, opts ...Option) (*Client, error) {
	client, err := NewClient(dataDir, opts...)
	if err != nil {
		return nil, err
	}
	if err := client.WaitUntilReady(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// WaitUntilReady - blocks until the initial load of both families finished,
// whether or not it succeeded.
func (client *Client) WaitUntilReady(ctx context.Context) error {
	select {
	case <-client.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Lookup - finds the record for a textual address. IPv4-mapped IPv6
// addresses are looked up as IPv4. Malformed input, reserved addresses and
// addresses without data all return nil.
func (client *Client) Lookup(ip string) *Result {
	switch DetectFamily(ip) {
	case IPv4:
		key, err := Aton4(ip)
		if err != nil {
			return nil
		}
		return client.Lookup4(key)
	case IPv6:
		if v4, ok := Get4Mapped(ip); ok {
			key, err := Aton4(v4)
			if err != nil {
				return nil
			}
			return client.Lookup4(key)
		}
		key, err := Aton6(ip)
		if err != nil {
			return nil
		}
		return client.Lookup6(key)
	}
	return nil
}

// LookupAddr - Lookup for a parsed address. Every IPv4-mapped address is
// looked up as IPv4, whatever text it was parsed from. Lookup only
// recognises the dotted forms ::ffff:a.b.c.d and 0:0:0:0:0:ffff:a.b.c.d, so
// Lookup("::ffff:808:808") searches the IPv6 dataset while LookupAddr of the
// same address searches the IPv4 one.
func (client *Client) LookupAddr(addr netip.Addr) *Result {
	switch {
	case !addr.IsValid():
		return nil
	case addr.Is4(), addr.Is4In6():
		return client.Lookup4(ipV4ToInt(addr.Unmap()))
	}
	return client.Lookup6(ipV6ToInt(addr))
}

// Lookup4 - finds the record for an IPv4 integer key
func (client *Client) Lookup4(ip uint32) *Result {
	return client.v4.Load().Lookup4(ip)
}

// Lookup6 - finds the record for an IPv6 key
func (client *Client) Lookup6(ip Key6) *Result {
	return client.v6.Load().Lookup6(ip)
}

// Pretty - renders a range endpoint as text
func (client *Client) Pretty(k Key) string {
	return FormatAddress(k)
}

// Info - returns the metadata of the current dataset of a family
func (client *Client) Info(family Family) DatasetInfo {
	if ds := client.datasetOf(family); ds != nil {
		return ds.Load().Info()
	}
	return DatasetInfo{}
}

// State - returns the reload state of a family
func (client *Client) State(family Family) State {
	if st := client.stateOf(family); st != nil {
		return State(st.Load())
	}
	return StateUnloaded
}

// Reload - reads both families again and publishes each one that loaded.
// A family that fails keeps its previous dataset. The returned error
// joins the failures of both families.
func (client *Client) Reload(ctx context.Context) error {
	if client.closed.Load() {
		return ErrClosed
	}
	client.reloadMu.Lock()
	defer client.reloadMu.Unlock()
	if client.closed.Load() {
		return ErrClosed
	}

	families := []Family{IPv4, IPv6}
	errs := make([]error, len(families))
	var g errgroup.Group
	for i, family := range families {
		g.Go(func() error {
			errs[i] = client.reloadFamily(ctx, family)
			return errs[i]
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Join(errs...)
	}
	return nil
}

// Clear - drops both datasets. Lookups return nil until the next reload
func (client *Client) Clear() {
	client.reloadMu.Lock()
	defer client.reloadMu.Unlock()

	client.v4.Store(emptyDataset(IPv4))
	client.v6.Store(emptyDataset(IPv6))
	client.state4.Store(uint32(StateUnloaded))
	client.state6.Store(uint32(StateUnloaded))
}

// StartWatching - reloads the datasets whenever the data files changed and
// stayed unchanged for the settle delay. onReloaded, if set, is called after
// a reload that succeeded for both families. It runs on its own goroutine,
// one call at a time; reloads finishing while it runs are reported by a
// single further call. onReloaded may call StopWatching or Close.
func (client *Client) StartWatching(onReloaded func()) error {
	if client.closed.Load() {
		return ErrClosed
	}
	client.watchMu.Lock()
	defer client.watchMu.Unlock()
	if client.watchCancel != nil {
		return ErrAlreadyWatching
	}

	poller := watch.New(client.fingerprint, watch.Options{
		Interval:    client.cfg.PollInterval,
		Settle:      client.cfg.SettleDelay,
		MinInterval: client.cfg.MinReloadInterval,
		Logger:      client.logger.Logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	client.watchCancel = cancel
	client.watchDone = done

	notify := make(chan struct{}, 1)
	if onReloaded != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-notify:
					if ctx.Err() == nil {
						onReloaded()
					}
				}
			}
		}()
	}

	go func() {
		defer close(done)
		_ = poller.Run(ctx, func(ctx context.Context) {
			err := client.Reload(ctx)
			client.logger.LogReload(ctx, "watch", err)
			if err != nil || onReloaded == nil {
				return
			}
			select {
			case notify <- struct{}{}:
			default:
			}
		})
	}()
	return nil
}

// StopWatching - stops watching for data updates. It waits for a reload in
// progress to finish but not for a running onReloaded call.
func (client *Client) StopWatching() {
	client.watchMu.Lock()
	cancel, done := client.watchCancel, client.watchDone
	client.watchCancel, client.watchDone = nil, nil
	client.watchMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Close - stops watching and drops the datasets
func (client *Client) Close() {
	if !client.closed.CompareAndSwap(false, true) {
		return
	}
	client.StopWatching()
	client.Clear()
}

// ---------------- PRIVATE BLOCK ----------------

func (client *Client) reloadFamily(ctx context.Context, family Family) error {
	st := client.stateOf(family)
	prev := st.Swap(uint32(StateReloading))

	ds, err := LoadDataset(ctx, client.src, family)
	if err != nil {
		st.Store(prev)
		client.logger.LogLoad(ctx, family, DatasetInfo{}, err)
		return fmt.Errorf("%s: %w", family, err)
	}

	client.datasetOf(family).Store(ds)
	st.Store(uint32(StateLoaded))
	client.logger.LogLoad(ctx, family, ds.Info(), nil)
	return nil
}

func (client *Client) datasetOf(family Family) *atomic.Pointer[Dataset] {
	switch family {
	case IPv4:
		return &client.v4
	case IPv6:
		return &client.v6
	}
	return nil
}

func (client *Client) stateOf(family Family) *atomic.Uint32 {
	switch family {
	case IPv4:
		return &client.state4
	case IPv6:
		return &client.state6
	}
	return nil
}

// fingerprint - change stamp of every data file, missing files included
func (client *Client) fingerprint(ctx context.Context) (string, error) {
	var sb strings.Builder
	for _, name := range DataFiles {
		st, err := stampFile(ctx, client.src, name)
		switch {
		case errors.Is(err, ErrNotFound):
			fmt.Fprintf(&sb, "%s:-;", name)
		case err != nil:
			return "", err
		default:
			fmt.Fprintf(&sb, "%s:%d:%d:%s;", name, st.Size, st.ModTime.UnixNano(), st.ETag)
		}
	}
	return sb.String(), nil
}
