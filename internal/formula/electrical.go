package formula

import (
	"math"
	"strings"
)

// Electrical converters never fail: an input outside the converter's domain
// yields 0 and the page shows 0.

// Phase is the supply arrangement used by the power converters.
type Phase string

const (
	DC          Phase = "dc"
	SinglePhase Phase = "single"
	ThreePhase  Phase = "three"
)

// Phases lists the supported phases in display order.
var Phases = []Phase{DC, SinglePhase, ThreePhase}

// ParsePhase accepts the canonical names plus a few common spellings.
func ParsePhase(s string) (Phase, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dc":
		return DC, true
	case "single", "single-phase", "1", "ac-single":
		return SinglePhase, true
	case "three", "three-phase", "3", "ac-three":
		return ThreePhase, true
	}
	return "", false
}

func validPowerFactor(pf float64) bool {
	return pf > 0 && pf <= 1
}

// AmpToKVA returns amps*volts/1000, or 0 when either input is not positive.
func AmpToKVA(amps, volts float64) float64 {
	if amps <= 0 || volts <= 0 {
		return 0
	}
	return amps * volts / 1000
}

// KVAToAmp returns kva*1000/volts, or 0 when either input is not positive.
func KVAToAmp(kva, volts float64) float64 {
	if kva <= 0 || volts <= 0 {
		return 0
	}
	return kva * 1000 / volts
}

// KWToKVA returns kw/pf, or 0 when kw is not positive or pf is outside (0,1].
func KWToKVA(kw, pf float64) float64 {
	if kw <= 0 || !validPowerFactor(pf) {
		return 0
	}
	return kw / pf
}

// KVAToKW returns kva*pf, or 0 when kva is not positive or pf is outside (0,1].
func KVAToKW(kva, pf float64) float64 {
	if kva <= 0 || !validPowerFactor(pf) {
		return 0
	}
	return kva * pf
}

// KWToVolts returns the supply voltage for a load of kw kilowatts drawing
// amps. It returns 0 if amps <= 0, pf is outside (0,1] or the phase is unknown.
// The power factor is validated for DC too; DC callers pass 1.
func KWToVolts(kw, amps, pf float64, phase Phase) float64 {
	if amps <= 0 || !validPowerFactor(pf) {
		return 0
	}
	switch phase {
	case DC:
		return kw * 1000 / amps
	case SinglePhase:
		return kw * 1000 / (amps * pf)
	case ThreePhase:
		return kw * 1000 / (math.Sqrt(3) * amps * pf)
	}
	return 0
}

// KWToAmps returns the current drawn by kw kilowatts at volts. It returns 0 if
// volts <= 0, pf is outside (0,1] or the phase is unknown.
func KWToAmps(kw, volts, pf float64, phase Phase) float64 {
	if volts <= 0 || !validPowerFactor(pf) {
		return 0
	}
	switch phase {
	case DC:
		return kw * 1000 / volts
	case SinglePhase:
		return kw * 1000 / (volts * pf)
	case ThreePhase:
		return kw * 1000 / (math.Sqrt(3) * volts * pf)
	}
	return 0
}

// AmpsToKW is the inverse of KWToAmps with the same zero policy, applied to
// amps and volts.
func AmpsToKW(amps, volts, pf float64, phase Phase) float64 {
	if amps <= 0 || volts <= 0 || !validPowerFactor(pf) {
		return 0
	}
	switch phase {
	case DC:
		return amps * volts / 1000
	case SinglePhase:
		return amps * volts * pf / 1000
	case ThreePhase:
		return math.Sqrt(3) * amps * volts * pf / 1000
	}
	return 0
}

// WattsToAmps returns watts/volts for a DC load, 0 when volts <= 0 or watts < 0.
func WattsToAmps(watts, volts float64) float64 {
	if volts <= 0 || watts < 0 {
		return 0
	}
	return watts / volts
}

// AmpsToWatts returns amps*volts for a DC load, 0 when either input is negative.
func AmpsToWatts(amps, volts float64) float64 {
	if amps < 0 || volts < 0 {
		return 0
	}
	return amps * volts
}

// Ohms holds the three quantities related by Ohm's law plus the dissipated
// power.
type Ohms struct {
	Volts float64
	Amps  float64
	Ohms  float64
	Watts float64
}

// OhmsLaw solves V = I·R given exactly two of the three quantities. A value of
// 0 means "unknown". Unlike the converters above it rejects input it cannot
// solve, because there is no meaningful zero answer.
func OhmsLaw(volts, amps, ohms float64) (Ohms, error) {
	known := 0
	for _, v := range []float64{volts, amps, ohms} {
		if v < 0 {
			return Ohms{}, reject(CodeOutOfRange, "", "values must not be negative")
		}
		if v > 0 {
			known++
		}
	}
	if known != 2 {
		return Ohms{}, reject(CodeRequired, "", "enter exactly two of voltage, current and resistance")
	}

	out := Ohms{Volts: volts, Amps: amps, Ohms: ohms}
	switch {
	case volts == 0:
		out.Volts = amps * ohms
	case amps == 0:
		out.Amps = volts / ohms
	default:
		out.Ohms = volts / amps
	}
	out.Watts = out.Volts * out.Amps
	return out, nil
}
