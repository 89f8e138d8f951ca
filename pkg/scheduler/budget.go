package scheduler

import "go.uber.org/zap"

// budget is the process-wide particle cost counter compared against the
// configured ceiling. Mutated only by the scheduler tick; never negative.
type budget struct {
	current int
	max     int
	log     *zap.Logger
}

func newBudget(max int, log *zap.Logger) *budget {
	return &budget{max: max, log: log}
}

// CanAfford reports whether charging cost would stay within the ceiling.
func (b *budget) CanAfford(cost int) bool {
	return b.current+cost <= b.max
}

// Charge adds cost to the counter. Critical admissions may push the counter
// past the ceiling; that is intentional.
func (b *budget) Charge(cost int) {
	b.current += cost
}

// Refund subtracts cost, clamping at zero. A clamp indicates a bookkeeping
// bug upstream and is logged rather than propagated.
func (b *budget) Refund(cost int) {
	b.current -= cost
	if b.current < 0 {
		b.log.Warn("budget refund exceeded charges, clamping to zero",
			zap.Int("refund", cost))
		b.current = 0
	}
}

// Current returns the counter value.
func (b *budget) Current() int { return b.current }

// Max returns the ceiling.
func (b *budget) Max() int { return b.max }

// Reset zeroes the counter.
func (b *budget) Reset() { b.current = 0 }
