package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// CameraConfig contains the user-facing camera and sampling parameters
type CameraConfig struct {
	Width           int         `json:"width"`           // Rendered image width in pixels
	AspectRatio     float64     `json:"aspectRatio"`     // Width over height
	SamplesPerPixel int         `json:"samplesPerPixel"` // Random samples averaged per pixel
	MaxDepth        int         `json:"maxDepth"`        // Maximum number of ray bounces
	VFov            float64     `json:"vfov"`            // Vertical field of view in degrees
	LookFrom        core.Point3 `json:"lookFrom"`        // Eye position
	LookAt          core.Point3 `json:"lookAt"`          // Point the camera looks at
	Up              core.Vec3   `json:"up"`              // Camera-relative up direction
	DefocusAngle    float64     `json:"defocusAngle"`    // Aperture cone angle in degrees, 0 disables depth of field
	FocusDistance   float64     `json:"focusDistance"`   // Distance to the plane of perfect focus
}

// DefaultCameraConfig returns the default camera
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Width:           100,
		AspectRatio:     1.0,
		SamplesPerPixel: 10,
		MaxDepth:        10,
		VFov:            90.0,
		LookFrom:        core.NewVec3(0, 0, -1),
		LookAt:          core.NewVec3(0, 0, 0),
		Up:              core.NewVec3(0, 1, 0),
		DefocusAngle:    0.0,
		FocusDistance:   10.0,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	var zero core.Vec3

	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.LookFrom != zero {
		result.LookFrom = override.LookFrom
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.DefocusAngle != 0 {
		result.DefocusAngle = override.DefocusAngle
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}

	return result
}

// Validate reports configurations that would produce a degenerate camera
func (c CameraConfig) Validate() error {
	var errs []error
	if c.Width <= 0 {
		errs = append(errs, fmt.Errorf("width must be positive, got %d", c.Width))
	}
	if c.AspectRatio <= 0 {
		errs = append(errs, fmt.Errorf("aspect ratio must be positive, got %g", c.AspectRatio))
	}
	if c.SamplesPerPixel <= 0 {
		errs = append(errs, fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel))
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max depth must be positive, got %d", c.MaxDepth))
	}
	if c.VFov <= 0 || c.VFov >= 180 {
		errs = append(errs, fmt.Errorf("vertical field of view must be in (0, 180), got %g", c.VFov))
	}
	if c.DefocusAngle < 0 {
		errs = append(errs, fmt.Errorf("defocus angle must not be negative, got %g", c.DefocusAngle))
	}
	if c.FocusDistance <= 0 {
		errs = append(errs, fmt.Errorf("focus distance must be positive, got %g", c.FocusDistance))
	}
	if c.LookFrom == c.LookAt {
		errs = append(errs, errors.New("lookFrom and lookAt must differ"))
	} else if c.Up.Cross(c.LookFrom.Subtract(c.LookAt)).NearZero() {
		errs = append(errs, errors.New("up vector must not be parallel to the view direction"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid camera config: %w", errors.Join(errs...))
	}
	return nil
}

// Camera generates primary rays. All derived fields are computed by Initialize
// and only read afterwards, so one Camera can serve many render workers.
type Camera struct {
	config CameraConfig

	imageHeight  int
	center       core.Point3
	pixel00      core.Point3 // Center of the upper-left pixel
	pixelDeltaU  core.Vec3   // Offset to the pixel to the right
	pixelDeltaV  core.Vec3   // Offset to the pixel below
	u, v, w      core.Vec3   // Camera frame basis vectors
	defocusDiskU core.Vec3   // Defocus disk horizontal radius
	defocusDiskV core.Vec3   // Defocus disk vertical radius
}

// NewCamera creates an initialized camera from config
func NewCamera(config CameraConfig) *Camera {
	c := &Camera{config: config}
	c.Initialize()
	return c
}

// Initialize recomputes the viewport geometry from the configuration
func (c *Camera) Initialize() {
	cfg := c.config

	c.imageHeight = max(1, int(float64(cfg.Width)/cfg.AspectRatio))
	c.center = cfg.LookFrom

	theta := core.DegreesToRadians(cfg.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * cfg.FocusDistance
	viewportWidth := viewportHeight * float64(cfg.Width) / float64(c.imageHeight)

	c.w = cfg.LookFrom.Subtract(cfg.LookAt).Normalize()
	c.u = cfg.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := c.u.Multiply(viewportWidth)
	viewportV := c.v.Negate().Multiply(viewportHeight)

	c.pixelDeltaU = viewportU.Divide(float64(cfg.Width))
	c.pixelDeltaV = viewportV.Divide(float64(c.imageHeight))

	viewportUpperLeft := c.center.
		Subtract(c.w.Multiply(cfg.FocusDistance)).
		Subtract(viewportU.Divide(2)).
		Subtract(viewportV.Divide(2))
	c.pixel00 = viewportUpperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Multiply(0.5))

	defocusRadius := cfg.FocusDistance * math.Tan(core.DegreesToRadians(cfg.DefocusAngle/2))
	c.defocusDiskU = c.u.Multiply(defocusRadius)
	c.defocusDiskV = c.v.Multiply(defocusRadius)
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.config.Width
}

// Height returns the image height in pixels
func (c *Camera) Height() int {
	return c.imageHeight
}

// GetRay returns a randomly jittered ray through pixel (i, j), where j counts
// rows from the top. With a positive defocus angle the origin is sampled on
// the defocus disk.
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offset := sampler.Get2D()
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + offset.X - 0.5)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offset.Y - 0.5))

	origin := c.center
	if c.config.DefocusAngle > 0 {
		origin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(origin, pixelSample.Subtract(origin))
}

func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Point3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}
