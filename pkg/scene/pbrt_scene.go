package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/loaders"
	"github.com/df07/go-scanline-raytracer/pkg/material"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// NewPBRTScene creates a scene from a PBRT file
func NewPBRTScene(path string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	pbrtScene, err := loaders.LoadPBRT(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load PBRT file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := convertPBRTScene(name, pbrtScene)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.CameraConfig = applyOverrides(s.CameraConfig, cameraOverrides)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// convertPBRTScene converts parsed PBRT statements into a scene
func convertPBRTScene(name string, pbrtScene *loaders.PBRTScene) (*Scene, error) {
	cameraConfig, err := convertCamera(pbrtScene)
	if err != nil {
		return nil, fmt.Errorf("failed to convert camera: %w", err)
	}
	s := New(name, cameraConfig)

	handles := make([]material.Handle, len(pbrtScene.Materials))
	for i := range pbrtScene.Materials {
		m, err := convertMaterial(&pbrtScene.Materials[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert material %d: %w", i, err)
		}
		handles[i] = s.AddMaterial(m)
	}

	for i, shape := range pbrtScene.Shapes {
		if shape.MaterialIndex < 0 || shape.MaterialIndex >= len(handles) {
			return nil, fmt.Errorf("shape %d has no material", i)
		}
		if shape.Subtype != "sphere" {
			return nil, fmt.Errorf("shape %d: unsupported shape type: %s", i, shape.Subtype)
		}

		radius := 1.0
		if r, ok := shape.GetFloatParam("radius"); ok {
			if r == 0 {
				return nil, fmt.Errorf("shape %d: sphere radius must not be zero", i)
			}
			radius = r
		}
		s.AddSphereWithMaterial(shape.Translation, radius, handles[shape.MaterialIndex])
	}

	return s, nil
}

// convertCamera builds a camera config from the pre-world statements
func convertCamera(pbrtScene *loaders.PBRTScene) (renderer.CameraConfig, error) {
	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Width = 400
	cameraConfig.SamplesPerPixel = 100
	cameraConfig.MaxDepth = 50

	if pbrtScene.LookAt != nil {
		cameraConfig.LookFrom = *pbrtScene.LookAt
		cameraConfig.LookAt = *pbrtScene.LookAtTo
		cameraConfig.Up = *pbrtScene.LookAtUp
		cameraConfig.FocusDistance = cameraConfig.LookFrom.Subtract(cameraConfig.LookAt).Length()
	}

	if cam := pbrtScene.Camera; cam != nil {
		if cam.Subtype != "perspective" {
			return cameraConfig, fmt.Errorf("unsupported camera type: %s", cam.Subtype)
		}
		if fov, ok := cam.GetFloatParam("fov"); ok {
			if fov <= 0 || fov >= 180 {
				return cameraConfig, fmt.Errorf("invalid camera FOV %g: must be between 0 and 180 degrees", fov)
			}
			cameraConfig.VFov = fov
		}
		if d, ok := cam.GetFloatParam("focaldistance"); ok {
			if d <= 0 {
				return cameraConfig, fmt.Errorf("invalid focal distance %g: must be positive", d)
			}
			cameraConfig.FocusDistance = d
		}
		if lensRadius, ok := cam.GetFloatParam("lensradius"); ok && lensRadius > 0 {
			// Aperture cone that subtends the lens from the focus plane
			cameraConfig.DefocusAngle = 2 * math.Atan(lensRadius/cameraConfig.FocusDistance) * 180 / math.Pi
		}
	}

	if film := pbrtScene.Film; film != nil {
		width, hasWidth := film.GetFloatParam("xresolution")
		height, hasHeight := film.GetFloatParam("yresolution")
		if hasWidth {
			if width < 1 || width > 8192 {
				return cameraConfig, fmt.Errorf("invalid image width %g: must be between 1 and 8192", width)
			}
			cameraConfig.Width = int(width)
		}
		if hasHeight {
			if height < 1 || height > 8192 {
				return cameraConfig, fmt.Errorf("invalid image height %g: must be between 1 and 8192", height)
			}
			cameraConfig.AspectRatio = float64(cameraConfig.Width) / height
		}
	}

	if sampler := pbrtScene.Sampler; sampler != nil {
		if spp, ok := sampler.GetFloatParam("pixelsamples"); ok && spp >= 1 {
			cameraConfig.SamplesPerPixel = int(spp)
		}
	}

	if integrator := pbrtScene.Integrator; integrator != nil {
		if depth, ok := integrator.GetFloatParam("maxdepth"); ok && depth >= 1 {
			cameraConfig.MaxDepth = int(depth)
		}
	}

	return cameraConfig, nil
}

// convertMaterial converts a PBRT material to one of the three surface models
func convertMaterial(stmt *loaders.PBRTStatement) (material.Material, error) {
	switch stmt.Subtype {
	case "diffuse":
		if rgb, ok := stmt.GetRGBParam("reflectance"); ok {
			return material.NewLambertian(*rgb), nil
		}
		return material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)), nil

	case "conductor":
		albedo := core.NewVec3(0.7, 0.6, 0.5)
		if rgb, ok := stmt.GetRGBParam("reflectance"); ok {
			albedo = *rgb
		}
		fuzz := 0.0
		if roughness, ok := stmt.GetFloatParam("roughness"); ok {
			if roughness < 0 || roughness > 1 {
				return material.Material{}, fmt.Errorf("invalid metal roughness %g: must be between 0 and 1", roughness)
			}
			fuzz = roughness
		}
		return material.NewMetal(albedo, fuzz), nil

	case "dielectric":
		ior := 1.5
		if eta, ok := stmt.GetFloatParam("eta"); ok {
			if eta <= 0 {
				return material.Material{}, fmt.Errorf("invalid dielectric IOR %g: must be positive", eta)
			}
			ior = eta
		}
		return material.NewDielectric(ior), nil
	}

	return material.Material{}, fmt.Errorf("unsupported material type: %s", stmt.Subtype)
}
