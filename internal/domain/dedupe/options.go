package dedupe

const defaultCapacity = 1024

type options struct {
	capacity int
}

// Option applies a configuration option to the in-memory deduper.
type Option func(*options)

// WithCapacity pre-sizes the set for an expected number of competitors.
// Non-positive values keep the default.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}
