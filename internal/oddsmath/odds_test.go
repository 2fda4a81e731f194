package oddsmath

import (
	"errors"
	"math"
	"testing"
)

func TestImpliedProbability(t *testing.T) {
	prob, err := ImpliedProbability(2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prob != 0.5 {
		t.Fatalf("expected 0.5, got %f", prob)
	}

	for _, odds := range []float64{4.0, 1.53, 1.01, 100.0} {
		prob, err := ImpliedProbability(odds)
		if err != nil {
			t.Fatalf("odds %f: unexpected error: %v", odds, err)
		}
		if prob != 1.0/odds {
			t.Fatalf("odds %f: expected %f, got %f", odds, 1.0/odds, prob)
		}
		if prob <= 0 || prob >= 1 {
			t.Fatalf("odds %f: probability %f outside (0,1)", odds, prob)
		}
	}
}

func TestImpliedProbabilityInvalid(t *testing.T) {
	invalid := []float64{0, -1.5, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, odds := range invalid {
		if _, err := ImpliedProbability(odds); !errors.Is(err, ErrInvalidOdds) {
			t.Fatalf("odds %f: expected ErrInvalidOdds, got %v", odds, err)
		}
	}
}

func TestFairProbabilitiesSumToOne(t *testing.T) {
	cases := [][2]float64{
		{1.53, 4.50},
		{1.91, 1.91},
		{2.0, 2.0},
		{1.05, 12.0},
	}
	for _, c := range cases {
		pair, err := FairProbabilities(c[0], c[1])
		if err != nil {
			t.Fatalf("odds %v: unexpected error: %v", c, err)
		}
		if sum := pair.Home + pair.Away; math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("odds %v: fair pair sums to %f, want 1", c, sum)
		}
	}
}

func TestFairProbabilitiesKnownMarket(t *testing.T) {
	pair, err := FairProbabilities(1.53, 4.50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(pair.Home-0.746269) > 1e-6 {
		t.Fatalf("expected fair home approximately 0.746269, got %f", pair.Home)
	}
	if math.Abs(pair.Away-0.253731) > 1e-6 {
		t.Fatalf("expected fair away approximately 0.253731, got %f", pair.Away)
	}
}

func TestFairProbabilitiesInvalidSide(t *testing.T) {
	if _, err := FairProbabilities(0, 4.50); !errors.Is(err, ErrInvalidOdds) {
		t.Fatalf("expected ErrInvalidOdds, got %v", err)
	}
	if _, err := FairProbabilities(1.53, -2); !errors.Is(err, ErrInvalidOdds) {
		t.Fatalf("expected ErrInvalidOdds, got %v", err)
	}
}

func TestOverround(t *testing.T) {
	// 2/1.91 - 1 = 0.047120...
	over, err := Overround(1.91, 1.91)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if over <= 0 {
		t.Fatalf("expected positive overround for a vigged market, got %f", over)
	}
	if math.Abs(over-0.047120) > 1e-6 {
		t.Fatalf("expected overround approximately 0.047120, got %f", over)
	}

	// 1/1.53 + 1/4.50 - 1 = -0.124183: this pair prices below a full book.
	over, err = Overround(1.53, 4.50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(over-(-0.124183)) > 1e-6 {
		t.Fatalf("expected overround approximately -0.124183, got %f", over)
	}
}

func TestRemoveVigMultiplicative(t *testing.T) {
	fair1, fair2, err := RemoveVigMultiplicative(0.5238, 0.5238)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(fair1-0.5) > 1e-9 || math.Abs(fair2-0.5) > 1e-9 {
		t.Fatalf("expected 50/50, got %f/%f", fair1, fair2)
	}

	if _, _, err := RemoveVigMultiplicative(1.2, 0.5); !errors.Is(err, ErrInvalidProbability) {
		t.Fatalf("expected ErrInvalidProbability, got %v", err)
	}
}

func TestAmericanConversions(t *testing.T) {
	if d := DecimalFromAmerican(-110); math.Abs(d-1.9091) > 0.001 {
		t.Fatalf("expected -110 to convert to approximately 1.909, got %f", d)
	}
	if d := DecimalFromAmerican(150); d != 2.5 {
		t.Fatalf("expected +150 to convert to 2.5, got %f", d)
	}
	if a := AmericanFromDecimal(2.5); a != 150 {
		t.Fatalf("expected 2.5 to convert to +150, got %d", a)
	}
}
