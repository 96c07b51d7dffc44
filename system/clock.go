package system

const (
	defaultTPS          = 60
	defaultMaxFixedStep = 5
)

// FixedStep converts variable frame times into a whole number of fixed
// physics ticks. Leftover time carries into the next frame.
type FixedStep struct {
	step        float64
	accumulator float64

	// MaxSteps bounds catch-up after a long frame; the excess is dropped.
	MaxSteps int
}

func NewFixedStep(tps int) *FixedStep {
	c := &FixedStep{MaxSteps: defaultMaxFixedStep}
	c.SetTPS(tps)
	return c
}

// SetTPS changes the tick rate. Non-positive rates fall back to 60.
func (c *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = defaultTPS
	}
	c.step = 1 / float64(tps)
}

// Step is the fixed tick length in seconds.
func (c *FixedStep) Step() float64 {
	return c.step
}

// Advance adds frameDt and returns how many fixed ticks are due.
func (c *FixedStep) Advance(frameDt float64) int {
	if c == nil || frameDt <= 0 {
		return 0
	}
	c.accumulator += frameDt
	n := 0
	for c.accumulator >= c.step {
		c.accumulator -= c.step
		n++
		if c.MaxSteps > 0 && n >= c.MaxSteps {
			c.accumulator = 0
			break
		}
	}
	return n
}
