package roles

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/collabdata/roles/internal/engine"
	"github.com/collabdata/roles/internal/store"
	"github.com/collabdata/roles/metrics"
	"github.com/collabdata/roles/types"
)

// New creates a Resolver backed by the given persisters. It loads the
// current workspace state, keeps following changes until ctx is
// canceled, and answers queries from the in-memory snapshots.
func New(ctx context.Context, opts ...ResolverOption) (types.Resolver, error) {
	cfg := &ResolverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.log.GetSink() == nil {
		cfg.log = stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile))
	}

	if cfg.rp == nil {
		return nil, types.ErrNoResourcePersister
	}

	st, e := store.NewPersisted(ctx, cfg.rp, cfg.mp, cfg.log.WithName("store"))
	if e != nil {
		return nil, fmt.Errorf("init store failed: %w", e)
	}

	var collector *metrics.Collector
	if cfg.registry != nil {
		collector = metrics.NewCollector(cfg.registry)
	}

	return engine.New(engine.Config{
		Store:       st,
		Log:         cfg.log.WithName("engine"),
		SuperAdmins: cfg.superAdmins,
		Ownership:   cfg.ownership,
		CacheSize:   cfg.cacheSize,
		Metrics:     collector,
	})
}

// WithResourcePersister sets the Persister for workspace resources;
// it is required
func WithResourcePersister(p types.ResourcePersister) ResolverOption {
	return func(cfg *ResolverConfig) {
		cfg.rp = p
	}
}

// WithMembershipPersister sets the Persister for team memberships
// could be omitted if team grants are not used: principals then hold
// user grants only
func WithMembershipPersister(p types.MembershipPersister) ResolverOption {
	return func(cfg *ResolverConfig) {
		cfg.mp = p
	}
}

// WithSuperAdmins marks user ids that bypass resolution and hold every
// role type everywhere
func WithSuperAdmins(userIDs ...string) ResolverOption {
	return func(cfg *ResolverConfig) {
		cfg.superAdmins = append(cfg.superAdmins, userIDs...)
	}
}

// WithDocumentOwnership sets the purpose rule consulted by the
// ownership gate in addition to the creator check
func WithDocumentOwnership(fn types.DocumentOwnershipFunc) ResolverOption {
	return func(cfg *ResolverConfig) {
		cfg.ownership = fn
	}
}

// WithCache enables an LRU cache of the given size over resolution
// results; cached entries are dropped whenever workspace state changes
func WithCache(size int) ResolverOption {
	return func(cfg *ResolverConfig) {
		cfg.cacheSize = size
	}
}

// WithMetrics registers resolution and cache counters on the registry
func WithMetrics(reg prometheus.Registerer) ResolverOption {
	return func(cfg *ResolverConfig) {
		cfg.registry = reg
	}
}

// WithLogger sets logger for resolver components
func WithLogger(l logr.Logger) ResolverOption {
	return func(cfg *ResolverConfig) {
		cfg.log = l
	}
}

// ResolverConfig works together with ResolverOption to control the
// initialization of a resolver
type ResolverConfig struct {
	rp          types.ResourcePersister
	mp          types.MembershipPersister
	superAdmins []string
	ownership   types.DocumentOwnershipFunc
	cacheSize   int
	registry    prometheus.Registerer
	log         logr.Logger
}

// ResolverOption controls how to init a resolver
type ResolverOption func(*ResolverConfig)
