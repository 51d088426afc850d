package validations

type options struct {
	parallelism int
}

// Option configures a validation.
type Option func(opts *options)

// WithParallelism sets how many operations and fragments are validated
// concurrently.
func WithParallelism(n int) Option {
	return func(opts *options) {
		opts.parallelism = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
