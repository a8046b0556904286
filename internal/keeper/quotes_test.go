package keeper

import (
	"math/rand/v2"
	"testing"
)

func TestPickQuoteUsesSource(t *testing.T) {
	quotes := []string{"a", "b", "c"}
	for i, want := range quotes {
		if got := PickQuote(fixedSource(i), quotes); got != want {
			t.Errorf("PickQuote(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestPickQuoteDeterministicWithSeededRand(t *testing.T) {
	first := PickQuote(rand.New(rand.NewPCG(7, 11)), awakeQuotes)
	second := PickQuote(rand.New(rand.NewPCG(7, 11)), awakeQuotes)
	if first != second {
		t.Errorf("same seed should pick the same quote: %q vs %q", first, second)
	}
}

func TestPickQuoteEdgeCases(t *testing.T) {
	if got := PickQuote(fixedSource(0), nil); got != "" {
		t.Errorf("empty table should yield empty quote, got %q", got)
	}

	got := PickQuote(nil, sleepQuotes)
	found := false
	for _, q := range sleepQuotes {
		if q == got {
			found = true
		}
	}
	if !found {
		t.Errorf("default source picked %q outside the table", got)
	}
}
