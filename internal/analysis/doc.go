// Package analysis turns recorded run telemetry into numbers and pictures.
//
// The package works on plain series extracted from frames:
//
//   - [Spectrum] / [DominantFrequency]: wobble frequency of the kinetic energy
//   - [Summarize]: min, max, mean and deviation of a series
//   - [SettlingTime] and [DecayRate]: how quickly a struck body comes to rest
//   - [NewPortrait] / [PortraitToASCII]: one series against another
//
// # Ringing
//
// A body struck once rings down; its energy spectrum peaks near twice the
// fundamental wobble frequency:
//
//	ke := result.Series(func(f sim.Frame) float64 { return f.KineticEnergy })
//	freq, _ := analysis.DominantFrequency(ke, cfg.Dt)
package analysis
