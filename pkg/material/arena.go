package material

import (
	"fmt"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// Handle indexes a Material stored in an Arena
type Handle int32

// Arena owns every material of a scene. Primitives and hit records refer to
// materials by Handle, so sharing across render workers needs no locking as
// long as the arena is not modified during a render.
type Arena struct {
	materials []Material
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{}
}

// Add stores m and returns its handle
func (a *Arena) Add(m Material) Handle {
	a.materials = append(a.materials, m)
	return Handle(len(a.materials) - 1)
}

// Get returns the material for h. An unknown handle is a programming error.
func (a *Arena) Get(h Handle) Material {
	if int(h) < 0 || int(h) >= len(a.materials) {
		panic(fmt.Sprintf("material: handle %d out of range [0, %d)", h, len(a.materials)))
	}
	return a.materials[h]
}

// Len returns the number of stored materials
func (a *Arena) Len() int {
	return len(a.materials)
}

// Scatter dispatches to the material referenced by hit.Material
func (a *Arena) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return a.Get(hit.Material).Scatter(rayIn, hit, sampler)
}
