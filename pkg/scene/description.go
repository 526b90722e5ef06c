package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/material"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// Description is the JSON form of a scene
type Description struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Camera      renderer.CameraConfig `json:"camera"` // Merged onto the default camera
	Materials   []MaterialDescription `json:"materials"`
	Spheres     []SphereDescription   `json:"spheres"`
}

// MaterialDescription is a named material
type MaterialDescription struct {
	ID     string     `json:"id"`
	Type   string     `json:"type"` // lambertian, metal or dielectric
	Albedo core.Color `json:"albedo"`
	Fuzz   float64    `json:"fuzz,omitempty"`
	IOR    float64    `json:"ior,omitempty"`
}

// SphereDescription places a sphere using a material by ID
type SphereDescription struct {
	Center     core.Point3 `json:"center"`
	Radius     float64     `json:"radius"`
	MaterialID string      `json:"material"`
}

// Load reads a Description from a JSON file.
func Load(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	var d Description
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode scene %s: %w", path, err)
	}
	return &d, nil
}

// Save writes a Description to a JSON file.
func Save(path string, d *Description) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// Build resolves material IDs and assembles a validated Scene
func (d *Description) Build() (*Scene, error) {
	s := New(d.Name, renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), d.Camera))

	handles := make(map[string]material.Handle, len(d.Materials))
	for _, md := range d.Materials {
		if md.ID == "" {
			return nil, errors.New("build scene: material without id")
		}
		if _, dup := handles[md.ID]; dup {
			return nil, fmt.Errorf("build scene: duplicate material %q", md.ID)
		}
		m, err := md.Material()
		if err != nil {
			return nil, fmt.Errorf("build scene: material %q: %w", md.ID, err)
		}
		handles[md.ID] = s.AddMaterial(m)
	}

	for i, sd := range d.Spheres {
		h, ok := handles[sd.MaterialID]
		if !ok {
			return nil, fmt.Errorf("build scene: sphere %d: unknown material %q", i, sd.MaterialID)
		}
		if sd.Radius == 0 {
			return nil, fmt.Errorf("build scene: sphere %d: radius must not be zero", i)
		}
		s.AddSphereWithMaterial(sd.Center, sd.Radius, h)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	return s, nil
}

// Material converts the description to a material value
func (md MaterialDescription) Material() (material.Material, error) {
	kind, err := material.ParseKind(md.Type)
	if err != nil {
		return material.Material{}, err
	}

	switch kind {
	case material.KindLambertian:
		return material.NewLambertian(md.Albedo), nil
	case material.KindMetal:
		return material.NewMetal(md.Albedo, md.Fuzz), nil
	case material.KindDielectric:
		if md.IOR <= 0 {
			return material.Material{}, fmt.Errorf("dielectric needs a positive ior, got %g", md.IOR)
		}
		return material.NewDielectric(md.IOR), nil
	}
	return material.Material{}, fmt.Errorf("unsupported material kind %v", kind)
}

// LoadScene reads and builds the scene stored at path
func LoadScene(path string) (*Scene, error) {
	d, err := Load(path)
	if err != nil {
		return nil, err
	}
	s, err := d.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
