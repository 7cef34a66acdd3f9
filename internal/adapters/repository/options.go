package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithInitialCapacity presizes the record index.
func WithInitialCapacity(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}
