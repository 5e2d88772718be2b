package services

import (
	"math/rand/v2"
	"sync"
)

// Chooser picks the highlighted entry of a body match. *rand.Rand satisfies it.
type Chooser interface {
	IntN(n int) int
}

type globalChooser struct{}

func (globalChooser) IntN(n int) int { return rand.IntN(n) }

// seededChooser is a reproducible Chooser safe for concurrent requests.
type seededChooser struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededChooser returns a Chooser whose picks are determined by seed.
func NewSeededChooser(seed uint64) Chooser {
	return &seededChooser{r: rand.New(rand.NewPCG(seed, seed))}
}

func (c *seededChooser) IntN(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.r.IntN(n)
}
