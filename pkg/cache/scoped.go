package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or deployments
// can share one backend without seeing each other's entries.
//
// Example usage:
//
//	// entries of one API deployment
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "taskplan:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey generates a prefixed key for result caching.
func (k *ScopedKeyer) ResultKey(tasksHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(tasksHash, opts)
}
