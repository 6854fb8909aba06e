package physics

import (
	"github.com/san-kum/fleshsim/internal/dynamo"
)

const (
	DefaultTearThreshold = 0.85
	minThreshold         = 0.01
)

// TearDetector picks springs whose stress ratio crossed the threshold.
type TearDetector struct {
	threshold float64
}

func NewTearDetector() *TearDetector {
	return &TearDetector{threshold: DefaultTearThreshold}
}

func (d *TearDetector) Threshold() float64 {
	return d.threshold
}

// SetThreshold clamps v into (0, 1].
func (d *TearDetector) SetThreshold(v float64) {
	if !(v > minThreshold) {
		v = minThreshold
	}
	d.threshold = dynamo.Clamp(v, minThreshold, 1)
}

// Detect returns indices of intact springs over the threshold. It does not
// modify the springs.
func (d *TearDetector) Detect(springs []dynamo.Spring) []int {
	var out []int
	for i := range springs {
		if !springs[i].Torn && springs[i].StressRatio > d.threshold {
			out = append(out, i)
		}
	}
	return out
}
