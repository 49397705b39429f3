package cache

// Tier identifies a storage layer with its own latency and durability profile
type Tier int

const (
	// TierL1Memory is the bounded in-process store
	TierL1Memory Tier = iota
	// TierL2Distributed is the external clustered key-value store
	TierL2Distributed
)

// String returns the string representation of a tier
func (t Tier) String() string {
	switch t {
	case TierL1Memory:
		return "l1_memory"
	case TierL2Distributed:
		return "l2_distributed"
	default:
		return "unknown"
	}
}

// Strategy selects which tiers participate in a call and in what order
type Strategy int

const (
	// CacheFirst reads tiers in order and returns the first hit
	CacheFirst Strategy = iota
	// CacheAside leaves population on miss to the caller; writes stay local
	CacheAside
	// WriteThrough writes every requested tier before returning
	WriteThrough
	// WriteBehind writes the first tier synchronously and the rest in the background
	WriteBehind
)

// String returns the string representation of a strategy
func (s Strategy) String() string {
	switch s {
	case CacheFirst:
		return "cache_first"
	case CacheAside:
		return "cache_aside"
	case WriteThrough:
		return "write_through"
	case WriteBehind:
		return "write_behind"
	default:
		return "unknown"
	}
}

// DefaultTiers is the tier order used when a call does not specify one
func DefaultTiers() []Tier {
	return []Tier{TierL1Memory, TierL2Distributed}
}

// Options configures a single cache operation
type Options struct {
	Strategy Strategy
	Tiers    []Tier
}

// Option mutates per-call Options
type Option func(*Options)

// WithStrategy overrides the strategy for a single call
func WithStrategy(strategy Strategy) Option {
	return func(o *Options) {
		o.Strategy = strategy
	}
}

// WithTiers overrides the participating tiers and their order for a single call
func WithTiers(tiers ...Tier) Option {
	return func(o *Options) {
		o.Tiers = tiers
	}
}

func resolveOptions(defaultStrategy Strategy, opts []Option) Options {
	o := Options{
		Strategy: defaultStrategy,
		Tiers:    DefaultTiers(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
