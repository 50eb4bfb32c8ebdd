package formula

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestAmpToKVA(t *testing.T) {
	if got := AmpToKVA(10, 230); !almostEqual(got, 2.3) {
		t.Fatalf("expected 2.3, got %v", got)
	}

	for _, a := range []float64{0.5, 1, 16, 63, 400} {
		for _, v := range []float64{12, 110, 230, 400} {
			if got, want := AmpToKVA(a, v), a*v/1000; !almostEqual(got, want) {
				t.Fatalf("AmpToKVA(%v, %v): expected %v, got %v", a, v, want, got)
			}
		}
	}
}

func TestAmpToKVAReturnsZeroOutsideDomain(t *testing.T) {
	tests := []struct {
		name        string
		amps, volts float64
	}{
		{name: "zero amps", amps: 0, volts: 230},
		{name: "negative amps", amps: -1, volts: 230},
		{name: "zero volts", amps: 10, volts: 0},
		{name: "negative volts", amps: 10, volts: -230},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AmpToKVA(tc.amps, tc.volts); got != 0 {
				t.Fatalf("expected 0, got %v", got)
			}
		})
	}
}

func TestKWToVoltsByPhase(t *testing.T) {
	if got := KWToVolts(2.3, 10, 1, DC); !almostEqual(got, 230) {
		t.Fatalf("dc: expected 230, got %v", got)
	}
	if got := KWToVolts(2.3, 10, 0.5, SinglePhase); !almostEqual(got, 460) {
		t.Fatalf("single: expected 460, got %v", got)
	}
	want := 10 * 1000 / (math.Sqrt(3) * 20 * 0.8)
	if got := KWToVolts(10, 20, 0.8, ThreePhase); !almostEqual(got, want) {
		t.Fatalf("three: expected %v, got %v", want, got)
	}
}

func TestKWToVoltsReturnsZeroOutsideDomain(t *testing.T) {
	tests := []struct {
		name  string
		amps  float64
		pf    float64
		phase Phase
	}{
		{name: "zero amps", amps: 0, pf: 0.9, phase: SinglePhase},
		{name: "negative amps", amps: -5, pf: 0.9, phase: ThreePhase},
		{name: "zero power factor", amps: 5, pf: 0, phase: SinglePhase},
		{name: "power factor above one", amps: 5, pf: 1.2, phase: ThreePhase},
		{name: "dc checks power factor too", amps: 5, pf: 0, phase: DC},
		{name: "unknown phase", amps: 5, pf: 1, phase: Phase("two")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KWToVolts(5, tc.amps, tc.pf, tc.phase); got != 0 {
				t.Fatalf("expected 0, got %v", got)
			}
		})
	}
}

func TestKWToVoltsThreePhaseIsDecreasingInAmpsAndPowerFactor(t *testing.T) {
	const kw = 15.0

	prev := math.Inf(1)
	for amps := 1.0; amps <= 200; amps += 3.5 {
		got := KWToVolts(kw, amps, 0.85, ThreePhase)
		if got >= prev {
			t.Fatalf("expected decreasing volts at amps=%v: %v >= %v", amps, got, prev)
		}
		prev = got
	}

	prev = math.Inf(1)
	for pf := 0.05; pf <= 1; pf += 0.05 {
		got := KWToVolts(kw, 32, pf, ThreePhase)
		if got >= prev {
			t.Fatalf("expected decreasing volts at pf=%v: %v >= %v", pf, got, prev)
		}
		prev = got
	}
}

func TestKWToAmpsAndAmpsToKWAreInverse(t *testing.T) {
	for _, phase := range Phases {
		amps := KWToAmps(7.5, 400, 0.9, phase)
		back := AmpsToKW(amps, 400, 0.9, phase)
		if !almostEqual(back, 7.5) {
			t.Fatalf("%s: expected 7.5 kW round trip, got %v", phase, back)
		}
	}
}

func TestPowerFactorConverters(t *testing.T) {
	if got := KWToKVA(8, 0.8); !almostEqual(got, 10) {
		t.Fatalf("expected 10 kVA, got %v", got)
	}
	if got := KVAToKW(10, 0.8); !almostEqual(got, 8) {
		t.Fatalf("expected 8 kW, got %v", got)
	}
	if got := KWToKVA(8, 0); got != 0 {
		t.Fatalf("expected sentinel 0, got %v", got)
	}
	if got := KVAToAmp(2.3, 230); !almostEqual(got, 10) {
		t.Fatalf("expected 10 A, got %v", got)
	}
}

func TestParsePhase(t *testing.T) {
	tests := map[string]Phase{
		"dc":          DC,
		"Single":      SinglePhase,
		"three-phase": ThreePhase,
		"3":           ThreePhase,
	}
	for in, want := range tests {
		got, ok := ParsePhase(in)
		if !ok || got != want {
			t.Fatalf("ParsePhase(%q): expected %q, got %q (ok=%t)", in, want, got, ok)
		}
	}
	if _, ok := ParsePhase("two"); ok {
		t.Fatal("expected unknown phase to be rejected")
	}
}

func TestOhmsLaw(t *testing.T) {
	got, err := OhmsLaw(0, 2, 115)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got.Volts, 230) || !almostEqual(got.Watts, 460) {
		t.Fatalf("expected 230 V and 460 W, got %+v", got)
	}

	got, err = OhmsLaw(12, 0, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got.Amps, 3) {
		t.Fatalf("expected 3 A, got %v", got.Amps)
	}

	if _, err := OhmsLaw(12, 3, 4); err == nil {
		t.Fatal("expected error when all three values are given")
	}
	if _, err := OhmsLaw(12, 0, 0); err == nil {
		t.Fatal("expected error when only one value is given")
	}
}
