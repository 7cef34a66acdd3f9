package dedupe

// Option configures the in-memory Deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of remembered ids. maxSize ≤ 0 keeps every id.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
