package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/storefront/catalog-api/internal/core/domain"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultQueryTimeout   = 5 * time.Second
	defaultPollInterval   = 500 * time.Millisecond
	defaultMaxAttempts    = 10
)

var errNotConfigured = errors.New("mongo: connection string not configured")

// State is the connectivity state of a Handle.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Config captures the settings required to establish and gate a MongoDB
// connection. Zero durations fall back to defaults.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
	PollInterval   time.Duration
	MaxAttempts    int
}

// ReadyHook runs each time the handle becomes ready.
type ReadyHook func(ctx context.Context, db *mongo.Database) error

// Handle owns the process-wide MongoDB client. It is created once at startup,
// shared by every repository and closed at shutdown.
type Handle struct {
	cfg   Config
	log   zerolog.Logger
	state atomic.Int32

	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
	hooks  []ReadyHook
}

func NewHandle(cfg Config, log zerolog.Logger) *Handle {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaultQueryTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	return &Handle{cfg: cfg, log: log.With().Str("component", "mongo").Logger()}
}

func (h *Handle) State() State { return State(h.state.Load()) }

func (h *Handle) Configured() bool { return h.cfg.URI != "" }

// OnReady registers a hook (index creation, typically). Register hooks
// before calling Connect.
func (h *Handle) OnReady(hook ReadyHook) {
	h.mu.Lock()
	h.hooks = append(h.hooks, hook)
	h.mu.Unlock()
}

// Connect establishes connectivity and verifies it with a ping. It is a no-op
// while another connection attempt is in flight or the handle is ready.
func (h *Handle) Connect(ctx context.Context) error {
	if !h.Configured() {
		h.state.Store(int32(StateFailed))
		return errNotConfigured
	}
	if !h.beginConnect() {
		return nil
	}
	return h.connect(ctx)
}

// EnsureReady returns nil once the handle is ready. Otherwise it starts a
// reconnect and polls the state every PollInterval, giving up with
// domain.ErrUnavailable after MaxAttempts polls or a failed attempt.
func (h *Handle) EnsureReady(ctx context.Context) error {
	if h.State() == StateReady {
		return nil
	}
	if !h.Configured() {
		return domain.ErrUnavailable
	}

	if h.beginConnect() {
		go func() { _ = h.connect(context.Background()) }()
	}

	ticker := time.NewTicker(h.cfg.PollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= h.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return domain.ErrUnavailable
		case <-ticker.C:
		}

		switch h.State() {
		case StateReady:
			return nil
		case StateFailed, StateDisconnected:
			return domain.ErrUnavailable
		}
	}

	h.log.Warn().Int("attempts", h.cfg.MaxAttempts).Msg("storage not ready within polling budget")
	return domain.ErrUnavailable
}

// Collection returns the named collection when the handle is ready.
func (h *Handle) Collection(name string) (*mongo.Collection, error) {
	if h.State() != StateReady {
		return nil, domain.ErrUnavailable
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.db == nil {
		return nil, domain.ErrUnavailable
	}
	return h.db.Collection(name), nil
}

// QueryContext bounds a single storage operation.
func (h *Handle) QueryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.cfg.QueryTimeout)
}

// Ping checks live connectivity without changing state.
func (h *Handle) Ping(ctx context.Context) error {
	if !h.Configured() {
		return errNotConfigured
	}
	h.mu.RLock()
	client := h.client
	h.mu.RUnlock()
	if client == nil {
		return fmt.Errorf("mongo: %s", h.State())
	}
	return client.Ping(ctx, readpref.Primary())
}

// Disconnect closes the client. Called once at shutdown.
func (h *Handle) Disconnect(ctx context.Context) error {
	h.mu.Lock()
	client := h.client
	h.client, h.db = nil, nil
	h.mu.Unlock()

	h.state.Store(int32(StateDisconnected))
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// beginConnect moves Disconnected or Failed to Connecting; only the caller
// that wins the transition performs the attempt.
func (h *Handle) beginConnect() bool {
	return h.state.CompareAndSwap(int32(StateDisconnected), int32(StateConnecting)) ||
		h.state.CompareAndSwap(int32(StateFailed), int32(StateConnecting))
}

func (h *Handle) connect(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, h.cfg.ConnectTimeout)
	defer cancel()

	h.mu.RLock()
	client := h.client
	h.mu.RUnlock()

	if client == nil {
		opts := options.Client().
			ApplyURI(h.cfg.URI).
			SetServerSelectionTimeout(h.cfg.ConnectTimeout).
			SetTimeout(h.cfg.QueryTimeout)
		c, err := mongo.Connect(connectCtx, opts)
		if err != nil {
			h.fail(err)
			return fmt.Errorf("mongo connect: %w", err)
		}
		client = c

		h.mu.Lock()
		h.client = c
		h.db = c.Database(h.cfg.Database)
		h.mu.Unlock()
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		h.fail(err)
		return fmt.Errorf("mongo ping: %w", err)
	}

	h.mu.RLock()
	db, hooks := h.db, h.hooks
	h.mu.RUnlock()
	for _, hook := range hooks {
		if err := hook(connectCtx, db); err != nil {
			h.log.Warn().Err(err).Msg("ready hook failed")
		}
	}

	h.state.Store(int32(StateReady))
	h.log.Info().Str("database", h.cfg.Database).Msg("storage connected")
	return nil
}

func (h *Handle) fail(err error) {
	h.state.Store(int32(StateFailed))
	h.log.Error().Err(err).Msg("storage connection failed")
}

// check translates driver errors. Timeouts and network failures become
// domain.ErrUnavailable and drop the handle to Failed so that the next
// request re-verifies connectivity.
func (h *Handle) check(err error) error {
	if err == nil {
		return nil
	}
	if !isUnavailable(err) {
		return err
	}
	if h.state.CompareAndSwap(int32(StateReady), int32(StateFailed)) {
		h.log.Warn().Err(err).Msg("storage became unavailable")
	}
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}

func isUnavailable(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, domain.ErrUnavailable) ||
		mongo.IsTimeout(err) ||
		mongo.IsNetworkError(err)
}
