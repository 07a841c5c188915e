package pace

import (
	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/server/models"
)

// CelebrationKey identifies one goal-met state. The celebration fires at most
// once per distinct key.
type CelebrationKey struct {
	PaceType    models.PaceType
	PeriodStart datex.Date
	PeriodEnd   datex.Date
	GoalCents   int64
	NetCents    int64
}

type celebrationScope struct {
	paceType models.PaceType
	start    datex.Date
	end      datex.Date
}

// Celebrator turns the goal-met level into a one-shot edge. It remembers the
// last key it fired for and forgets it when the pace type or period changes.
// The zero value is ready to use.
type Celebrator struct {
	scope celebrationScope
	last  *CelebrationKey
}

// Observe reports whether the celebration should fire for this evaluation.
// Nothing fires while the goal amount is being edited.
func (c *Celebrator) Observe(key CelebrationKey, goalMet, editing bool) bool {
	scope := celebrationScope{paceType: key.PaceType, start: key.PeriodStart, end: key.PeriodEnd}
	if scope != c.scope {
		c.scope = scope
		c.last = nil
	}

	if !goalMet || editing {
		return false
	}
	if c.last != nil && *c.last == key {
		return false
	}

	c.last = &key
	return true
}

func (c *Celebrator) Reset() {
	c.scope = celebrationScope{}
	c.last = nil
}
