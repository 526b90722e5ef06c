package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/material"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
	ElapsedMs    int64                  `json:"elapsedMs"`
}

// pixelCenter is a sampler that always picks the middle of the pixel and the
// middle of the lens, making inspection rays deterministic
type pixelCenter struct{}

func (pixelCenter) Get1D() float64   { return 0.5 }
func (pixelCenter) Get2D() core.Vec2 { return core.NewVec2(0.5, 0.5) }
func (pixelCenter) Get3D() core.Vec3 { return core.NewVec3(0.5, 0.5, 0.5) }

func hexColor(c core.Color) string {
	unit := core.NewInterval(0, 1)
	return fmt.Sprintf("#%02x%02x%02x",
		int(unit.Clamp(c.X)*255), int(unit.Clamp(c.Y)*255), int(unit.Clamp(c.Z)*255))
}

// extractMaterialInfo describes a material for the client
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch mat.Kind {
	case material.KindLambertian:
		properties["albedo"] = [3]float64{mat.Albedo.X, mat.Albedo.Y, mat.Albedo.Z}
		properties["color"] = hexColor(mat.Albedo)
	case material.KindMetal:
		properties["albedo"] = [3]float64{mat.Albedo.X, mat.Albedo.Y, mat.Albedo.Z}
		properties["color"] = hexColor(mat.Albedo)
		properties["fuzz"] = mat.Fuzz
	case material.KindDielectric:
		properties["refractiveIndex"] = mat.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
	}

	return mat.Kind.String(), properties
}

// extractGeometryInfo describes a primitive for the client
func extractGeometryInfo(p geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch p.Kind {
	case geometry.PrimitiveSphere:
		properties["center"] = [3]float64{p.Sphere.Center.X, p.Sphere.Center.Y, p.Sphere.Center.Z}
		properties["radius"] = p.Sphere.Radius
		properties["hollow"] = p.Sphere.Radius < 0
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// InspectResult contains the nearest hit of an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord material.HitRecord
	Object    geometry.Primitive // The object that was hit
	Found     bool               // Whether Object identifies the hit object
}

// inspectPixel casts a ray through the center of pixel (x, y) and returns the first object hit
func inspectPixel(sceneObj *scene.Scene, x, y int) InspectResult {
	camera := renderer.NewCamera(sceneObj.CameraConfig)
	ray := camera.GetRay(x, y, pixelCenter{})

	var rec material.HitRecord
	if !sceneObj.World.Hit(ray, core.NewInterval(0.001, math.Inf(1)), &rec) {
		return InspectResult{Hit: false}
	}

	// The list does not report which object was hit, so test each one again
	for _, object := range sceneObj.World.Objects() {
		var objectRec material.HitRecord
		if object.Hit(ray, core.NewInterval(0.001, rec.T+0.001), &objectRec) && objectRec.T == rec.T {
			return InspectResult{Hit: true, HitRecord: rec, Object: object, Found: true}
		}
	}

	return InspectResult{Hit: true, HitRecord: rec}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query()

	req, err := parseRenderRequest(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(req.Scene, req.Seed, renderer.CameraConfig{Width: req.Width})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	camera := renderer.NewCamera(sceneObj.CameraConfig)
	if pixelX < 0 || pixelX >= camera.Width() || pixelY < 0 || pixelY >= camera.Height() {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, ElapsedMs: elapsedMs(start)})
		return
	}

	materialType, materialProps := extractMaterialInfo(sceneObj.Materials.Get(result.HitRecord.Material))
	geometryType, geometryProps := "unknown", map[string]interface{}{}
	if result.Found {
		geometryType, geometryProps = extractGeometryInfo(result.Object)
	}

	hit := result.HitRecord
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
		ElapsedMs: elapsedMs(start),
	})
}
