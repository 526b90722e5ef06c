package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomRange(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
	for i := 0; i < 1000; i++ {
		x := RandomRange(sampler, -2, 3)
		if x < -2 || x >= 3 {
			t.Fatalf("RandomRange out of bounds: %f", x)
		}
		v := RandomVec3(sampler, 0.5, 1)
		if v.X < 0.5 || v.X >= 1 || v.Y < 0.5 || v.Y >= 1 || v.Z < 0.5 || v.Z >= 1 {
			t.Fatalf("RandomVec3 out of bounds: %v", v)
		}
	}
}

func TestRandomInUnitSphere(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(7)))
	for i := 0; i < 1000; i++ {
		p := RandomInUnitSphere(sampler)
		if p.LengthSquared() >= 1 {
			t.Fatalf("Point %v is outside the unit ball", p)
		}
	}
}

func TestRandomUnitVector(t *testing.T) {
	sampler := NewSeededSampler(123)
	const n = 20000
	var sum Vec3
	for i := 0; i < n; i++ {
		v := RandomUnitVector(sampler)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit length, got %f for %v", v.Length(), v)
		}
		sum = sum.Add(v)
	}

	// A uniform distribution on the sphere has zero mean
	mean := sum.Divide(n)
	if mean.Length() > 0.05 {
		t.Errorf("Mean direction should be near zero, got %v", mean)
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(99)
	sawNegativeX, sawPositiveX := false, false
	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Disk sample should lie on z=0, got %v", p)
		}
		if p.LengthSquared() >= 1 {
			t.Fatalf("Point %v is outside the unit disk", p)
		}
		if p.X < 0 {
			sawNegativeX = true
		} else {
			sawPositiveX = true
		}
	}
	if !sawNegativeX || !sawPositiveX {
		t.Error("Disk samples should cover both halves of the disk")
	}
}

func TestSeededSamplerIsReproducible(t *testing.T) {
	a := NewSeededSampler(5)
	b := NewSeededSampler(5)
	for i := 0; i < 10; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Samplers with the same seed should produce the same stream")
		}
	}
}
