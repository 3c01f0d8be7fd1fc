package vm

// DefaultTimerDivisor is the number of loop iterations per timer decrement.
// At the default 600Hz clock of the CLI the timers run at 60Hz.
const DefaultTimerDivisor = 10

// timers decrements the delay and sound timers once every divisor ticks.
type timers struct {
	divisor int
	count   int
}

func newTimers(divisor int) timers {
	if divisor <= 0 {
		divisor = DefaultTimerDivisor
	}
	return timers{divisor: divisor}
}

// tick counts one loop iteration and returns whether the timers were
// decremented.
func (t *timers) tick(s *State) bool {
	t.count++
	if t.count < t.divisor {
		return false
	}
	t.count = 0
	if s.Delay > 0 {
		s.Delay--
	}
	if s.Sound > 0 {
		s.Sound--
	}
	return true
}
