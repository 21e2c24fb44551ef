package cohort

import (
	"github.com/hammerlab/gocohorts/internal/effect"
	"github.com/hammerlab/gocohorts/internal/variant"
)

// derivedCache holds per-patient derived collections. The generation
// counter is bumped on every invalidation so a stale read can never be
// confused with a fresh one.
type derivedCache struct {
	generation int
	variants   map[string]*variant.Collection
	effects    map[string]*effect.Collection
}

func newDerivedCache() *derivedCache {
	return &derivedCache{
		variants: make(map[string]*variant.Collection),
		effects:  make(map[string]*effect.Collection),
	}
}

func (c *derivedCache) getVariants(patientID string) (*variant.Collection, bool) {
	vc, ok := c.variants[patientID]
	return vc, ok
}

func (c *derivedCache) putVariants(patientID string, vc *variant.Collection) {
	c.variants[patientID] = vc
}

func (c *derivedCache) getEffects(patientID string) (*effect.Collection, bool) {
	ec, ok := c.effects[patientID]
	return ec, ok
}

func (c *derivedCache) putEffects(patientID string, ec *effect.Collection) {
	c.effects[patientID] = ec
}

// clear drops every cached collection and advances the generation.
// Safe to call repeatedly.
func (c *derivedCache) clear() {
	c.generation++
	c.variants = make(map[string]*variant.Collection)
	c.effects = make(map[string]*effect.Collection)
}
