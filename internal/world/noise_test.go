package world

import (
	"math"
	"math/rand"
	"testing"
)

// TestHash3Deterministic verifies hash3 produces identical results for same inputs
func TestHash3Deterministic(t *testing.T) {
	first := hash3(10, 20, 30, 42)
	for i := 0; i < 100; i++ {
		if h := hash3(10, 20, 30, 42); h != first {
			t.Fatalf("hash3 not deterministic: got %d, want %d", h, first)
		}
	}
}

func TestHash3DifferentInputs(t *testing.T) {
	seed := int64(42)
	cases := []struct {
		name   string
		h1, h2 uint64
	}{
		{"x", hash3(1, 0, 0, seed), hash3(2, 0, 0, seed)},
		{"y", hash3(0, 1, 0, seed), hash3(0, 2, 0, seed)},
		{"z", hash3(0, 0, 1, seed), hash3(0, 0, 2, seed)},
		{"seed", hash3(1, 1, 1, 100), hash3(1, 1, 1, 200)},
		{"axis swap", hash3(1, 2, 3, seed), hash3(3, 2, 1, seed)},
	}
	for _, tc := range cases {
		if tc.h1 == tc.h2 {
			t.Errorf("hash3 should differ for %s: both %d", tc.name, tc.h1)
		}
	}
}

func TestValueNoiseRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for i := 0; i < 1000; i++ {
		x := rng.Float64()*200 - 100
		y := rng.Float64()*200 - 100
		z := rng.Float64()*200 - 100
		if v := valueNoise3D(x, y, z, 42); v < 0 || v > 1 {
			t.Errorf("valueNoise3D(%f, %f, %f) = %f, expected in [0,1]", x, y, z, v)
		}
		if v := valueNoise2D(x, z, 42); v < 0 || v > 1 {
			t.Errorf("valueNoise2D(%f, %f) = %f, expected in [0,1]", x, z, v)
		}
	}
}

// TestValueNoise3DContinuity verifies smooth interpolation (no random jumps)
func TestValueNoise3DContinuity(t *testing.T) {
	v1 := valueNoise3D(1.0, 1.0, 1.0, 42)
	v2 := valueNoise3D(1.01, 1.0, 1.0, 42)
	if diff := math.Abs(v1 - v2); diff >= 0.1 {
		t.Errorf("valueNoise3D not continuous: %f vs %f, diff=%f", v1, v2, diff)
	}
}

func TestOctaveNoiseRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	o := octaves{count: 4, persistence: 0.5, lacunarity: 2.0}
	for i := 0; i < 1000; i++ {
		x := rng.Float64()*200 - 100
		y := rng.Float64()*200 - 100
		z := rng.Float64()*200 - 100
		if v := octaveNoise3D(x, y, z, 42, o); v < 0 || v > 1 {
			t.Errorf("octaveNoise3D(%f, %f, %f) = %f, expected in [0,1]", x, y, z, v)
		}
		if v := octaveNoise2D(x, z, 42, o); v < 0 || v > 1 {
			t.Errorf("octaveNoise2D(%f, %f) = %f, expected in [0,1]", x, z, v)
		}
	}
}

func TestOctaveNoiseZeroOctaves(t *testing.T) {
	if v := octaveNoise2D(3.5, 4.5, 1, octaves{}); v != 0 {
		t.Errorf("octaveNoise2D with no octaves = %f, want 0", v)
	}
}

func BenchmarkOctaveNoise3D(b *testing.B) {
	o := octaves{count: 4, persistence: 0.5, lacunarity: 2.0}
	for i := 0; i < b.N; i++ {
		_ = octaveNoise3D(float64(i)*0.1, 2.7, 3.3, 42, o)
	}
}
