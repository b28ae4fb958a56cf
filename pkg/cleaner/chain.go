package cleaner

import (
	"strings"
)

// ChainCleaner applies multiple cleaners in sequence. Each cleaner sees the
// previous cleaner's output.
type ChainCleaner struct {
	cleaners []Cleaner
}

// NewChain creates a cleaner that applies the given cleaners in order.
//
// Example:
//
//	trim, _ := cleaner.Lookup("trim")
//	lower, _ := cleaner.Lookup("lower")
//	chain := cleaner.NewChain(trim, lower)
func NewChain(cleaners ...Cleaner) *ChainCleaner {
	return &ChainCleaner{
		cleaners: cleaners,
	}
}

// Clean applies all cleaners in sequence.
func (c *ChainCleaner) Clean(value any) (any, error) {
	var err error
	for _, cleaner := range c.cleaners {
		value, err = cleaner.Clean(value)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// Name returns the names of all chained cleaners.
func (c *ChainCleaner) Name() string {
	names := make([]string, len(c.cleaners))
	for i, cleaner := range c.cleaners {
		names[i] = cleaner.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}
