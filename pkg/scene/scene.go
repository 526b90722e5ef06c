package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/material"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	CameraConfig renderer.CameraConfig
	World        *geometry.HittableList // Objects in the scene
	Materials    *material.Arena        // Materials referenced by the objects
}

// New creates an empty scene viewed through cameraConfig
func New(name string, cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		CameraConfig: cameraConfig,
		World:        geometry.NewHittableList(),
		Materials:    material.NewArena(),
	}
}

// AddMaterial registers m so that several spheres can share it
func (s *Scene) AddMaterial(m material.Material) material.Handle {
	return s.Materials.Add(m)
}

// AddSphere adds a sphere with its own material and returns the material handle
func (s *Scene) AddSphere(center core.Point3, radius float64, m material.Material) material.Handle {
	h := s.Materials.Add(m)
	s.World.AddSphere(center, radius, h)
	return h
}

// AddSphereWithMaterial adds a sphere using an already registered material
func (s *Scene) AddSphereWithMaterial(center core.Point3, radius float64, h material.Handle) {
	s.World.AddSphere(center, radius, h)
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// Validate checks the camera and that every object refers to a known material
func (s *Scene) Validate() error {
	var errs []error
	if err := s.CameraConfig.Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, p := range s.World.Objects() {
		if p.Kind != geometry.PrimitiveSphere {
			errs = append(errs, fmt.Errorf("object %d: unsupported primitive kind %d", i, p.Kind))
			continue
		}
		if h := p.Sphere.Material; h < 0 || int(h) >= s.Materials.Len() {
			errs = append(errs, fmt.Errorf("object %d: unknown material handle %d", i, h))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("scene %q: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

// NewRaytracer creates a raytracer that renders this scene
func (s *Scene) NewRaytracer(config renderer.Config, logger core.Logger) *renderer.Raytracer {
	return renderer.NewRaytracer(s.World, s.Materials, s.CameraConfig, config, logger)
}

// applyOverrides merges the first override, if any, onto the scene's camera
func applyOverrides(defaults renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) == 0 {
		return defaults
	}
	return renderer.MergeCameraConfig(defaults, overrides[0])
}
