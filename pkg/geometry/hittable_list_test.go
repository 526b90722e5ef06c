package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/material"
)

func TestHittableList_Empty(t *testing.T) {
	list := NewHittableList()
	var rec material.HitRecord
	if list.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), searchRange, &rec) {
		t.Error("Empty list should never report a hit")
	}
}

func TestHittableList_NearestHit(t *testing.T) {
	near := NewSpherePrimitive(core.NewVec3(0, 0, -3), 1, 1)
	far := NewSpherePrimitive(core.NewVec3(0, 0, -6), 1, 2)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	tests := []struct {
		name    string
		objects []Primitive
	}{
		{"near first", []Primitive{near, far}},
		{"far first", []Primitive{far, near}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := NewHittableList(tt.objects...)
			var rec material.HitRecord
			if !list.Hit(ray, searchRange, &rec) {
				t.Fatal("Expected hit")
			}
			if math.Abs(rec.T-2) > 1e-9 {
				t.Errorf("Expected nearest t=2, got %f", rec.T)
			}
			if rec.Material != 1 {
				t.Errorf("Expected material of nearest sphere (1), got %d", rec.Material)
			}
		})
	}
}

func TestHittableList_OverlappingSpheresMatchMinimum(t *testing.T) {
	a := NewSphere(core.NewVec3(0, 0, -4), 1.5, 0)
	b := NewSphere(core.NewVec3(0.3, 0.2, -5), 1.2, 1)
	list := NewHittableList(
		Primitive{Kind: PrimitiveSphere, Sphere: b},
		Primitive{Kind: PrimitiveSphere, Sphere: a},
	)

	directions := []core.Vec3{
		core.NewVec3(0, 0, -1),
		core.NewVec3(0.05, 0.03, -1),
		core.NewVec3(-0.1, 0.02, -1),
		core.NewVec3(0.08, -0.06, -1),
	}

	for _, dir := range directions {
		ray := core.NewRay(core.NewVec3(0, 0, 0), dir)

		var recA, recB, recList material.HitRecord
		hitA := a.Hit(ray, searchRange, &recA)
		hitB := b.Hit(ray, searchRange, &recB)
		if !list.Hit(ray, searchRange, &recList) {
			t.Fatalf("Expected list hit along %v", dir)
		}

		expected := math.Inf(1)
		if hitA {
			expected = math.Min(expected, recA.T)
		}
		if hitB {
			expected = math.Min(expected, recB.T)
		}
		if recList.T != expected {
			t.Errorf("Along %v expected t=%f, got %f", dir, expected, recList.T)
		}
	}
}

func TestHittableList_AddAndClear(t *testing.T) {
	list := NewHittableList()
	list.AddSphere(core.NewVec3(0, 0, -1), 0.5, 0)
	list.Add(NewSpherePrimitive(core.NewVec3(0, -100.5, -1), 100, 1))

	if list.Len() != 2 {
		t.Fatalf("Expected 2 objects, got %d", list.Len())
	}

	list.Clear()
	if list.Len() != 0 {
		t.Fatalf("Expected 0 objects after Clear, got %d", list.Len())
	}

	var rec material.HitRecord
	if list.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), searchRange, &rec) {
		t.Error("Cleared list should not report a hit")
	}
}

func TestPrimitive_UnknownKindMisses(t *testing.T) {
	p := Primitive{Kind: PrimitiveKind(99)}
	var rec material.HitRecord
	if p.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), searchRange, &rec) {
		t.Error("Unknown primitive kind should not report a hit")
	}
}
