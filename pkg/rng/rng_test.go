package rng

import (
	"math/rand/v2"
	"testing"
)

// *rand.Rand satisfies Source without an adapter; this is the contract
// every engine construction path relies on.
var _ Source = (*rand.Rand)(nil)

func TestPCGSourceSatisfiesInterface(t *testing.T) {
	var s Source = rand.New(rand.NewPCG(1, 2))
	if s.Float64() < 0 || s.Float64() >= 1 {
		t.Fatalf("Float64 out of [0,1) range")
	}
	if n := s.IntN(10); n < 0 || n >= 10 {
		t.Fatalf("IntN(10) out of range: %d", n)
	}
}
