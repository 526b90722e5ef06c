package material

import (
	"fmt"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// Kind identifies a material variant
type Kind uint8

const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
)

var kindNames = map[Kind]string{
	KindLambertian: "lambertian",
	KindMetal:      "metal",
	KindDielectric: "dielectric",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a material name to its Kind
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown material type %q", name)
}

// Material is a closed set of surface scattering models. Only the fields
// relevant to Kind are meaningful. Values are immutable once built.
type Material struct {
	Kind            Kind
	Albedo          core.Color // Lambertian and Metal
	Fuzz            float64    // Metal, in [0, 1]
	RefractiveIndex float64    // Dielectric
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray   // The scattered ray
	Attenuation core.Color // Color attenuation
}

// Scatter decides whether rayIn scatters at hit. When it does, the outgoing ray
// and attenuation are returned with true; false means the ray was absorbed.
func (m Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return m.scatterLambertian(hit, sampler)
	case KindMetal:
		return m.scatterMetal(rayIn, hit, sampler)
	case KindDielectric:
		return m.scatterDielectric(rayIn, hit, sampler)
	default:
		panic(fmt.Sprintf("material: unhandled kind %v", m.Kind))
	}
}

func (m Material) String() string {
	switch m.Kind {
	case KindMetal:
		return fmt.Sprintf("metal{albedo: %v, fuzz: %g}", m.Albedo, m.Fuzz)
	case KindDielectric:
		return fmt.Sprintf("dielectric{ior: %g}", m.RefractiveIndex)
	default:
		return fmt.Sprintf("%v{albedo: %v}", m.Kind, m.Albedo)
	}
}
