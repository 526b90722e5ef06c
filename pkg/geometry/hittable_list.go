package geometry

import (
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/material"
)

// HittableList is an unordered, linearly scanned collection of primitives.
// It must not be modified while a render is reading it.
type HittableList struct {
	objects []Primitive
}

// NewHittableList creates a list holding the given primitives
func NewHittableList(objects ...Primitive) *HittableList {
	return &HittableList{objects: objects}
}

// Add appends a primitive
func (l *HittableList) Add(p Primitive) {
	l.objects = append(l.objects, p)
}

// AddSphere appends a sphere primitive
func (l *HittableList) AddSphere(center core.Point3, radius float64, mat material.Handle) {
	l.Add(NewSpherePrimitive(center, radius, mat))
}

// Clear removes every primitive
func (l *HittableList) Clear() {
	l.objects = l.objects[:0]
}

// Len returns the number of primitives
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Objects returns the underlying primitives
func (l *HittableList) Objects() []Primitive {
	return l.objects
}

// Hit returns the nearest intersection among all primitives. Each hit
// narrows the upper bound so later primitives can only report closer hits.
func (l *HittableList) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	var tempRec material.HitRecord
	hitAnything := false
	closestSoFar := rayT.Max

	for i := range l.objects {
		if l.objects[i].Hit(ray, core.NewInterval(rayT.Min, closestSoFar), &tempRec) {
			hitAnything = true
			closestSoFar = tempRec.T
			*rec = tempRec
		}
	}

	return hitAnything
}
