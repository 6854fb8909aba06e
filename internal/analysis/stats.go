package analysis

import "math"

// Summary holds descriptive statistics of a series.
type Summary struct {
	Min, Max  float64
	Mean, Std float64
	Final     float64
}

func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	s := Summary{Min: series[0], Max: series[0], Final: series[len(series)-1]}
	for _, v := range series {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		s.Mean += v
	}
	s.Mean /= float64(len(series))
	for _, v := range series {
		d := v - s.Mean
		s.Std += d * d
	}
	s.Std = math.Sqrt(s.Std / float64(len(series)))
	return s
}

// SettlingTime is the time after which the series stays at or below tol.
// It returns -1 if the series never settles.
func SettlingTime(series []float64, dt, tol float64) float64 {
	last := -1
	for i := len(series) - 1; i >= 0; i-- {
		if series[i] > tol {
			last = i
			break
		}
	}
	if last == len(series)-1 {
		return -1
	}
	return float64(last+1) * dt
}

// DecayRate fits log(v) = a - rate*t by least squares over the positive
// samples from the peak onwards. A ringing-down body has rate > 0.
func DecayRate(series []float64, dt float64) float64 {
	peak := 0
	for i, v := range series {
		if v > series[peak] {
			peak = i
		}
	}

	var n, st, sy, stt, sty float64
	for i := peak; i < len(series); i++ {
		if series[i] <= 0 {
			continue
		}
		t := float64(i) * dt
		y := math.Log(series[i])
		n++
		st += t
		sy += y
		stt += t * t
		sty += t * y
	}
	den := n*stt - st*st
	if n < 2 || den == 0 {
		return 0
	}
	return -(n*sty - st*sy) / den
}
