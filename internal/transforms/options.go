package transforms

type options struct {
	parallelism int
	stats       *Stats
}

// Option configures a transform.
type Option func(opts *options)

// WithParallelism sets how many operations and fragments are transformed
// concurrently.
func WithParallelism(n int) Option {
	return func(opts *options) {
		opts.parallelism = n
	}
}

// WithStats receives the counters of the run.
func WithStats(stats *Stats) Option {
	return func(opts *options) {
		opts.stats = stats
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Stats counts memoization results of SkipRedundantNodes.
type Stats struct {
	CacheHits   int64
	CacheMisses int64
}
