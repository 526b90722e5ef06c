package geometry

import (
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/material"
)

// Hittable is anything a ray can be tested against.
//
// Hit reports whether ray intersects the object at some t with rayT.Min < t < rayT.Max.
// On a hit rec is fully populated; on a miss rec is left untouched.
type Hittable interface {
	Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool
}

// PrimitiveKind identifies a primitive variant
type PrimitiveKind uint8

const (
	PrimitiveSphere PrimitiveKind = iota
)

// Primitive is the closed set of renderable shapes
type Primitive struct {
	Kind   PrimitiveKind
	Sphere Sphere
}

// Hit dispatches to the shape selected by Kind
func (p Primitive) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	switch p.Kind {
	case PrimitiveSphere:
		return p.Sphere.Hit(ray, rayT, rec)
	default:
		return false
	}
}
