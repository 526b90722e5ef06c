package renderer

import (
	"math"
	"runtime"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/material"
)

// shadowAcneEpsilon is the minimum hit distance accepted after a bounce
const shadowAcneEpsilon = 0.001

var (
	black   = core.NewVec3(0, 0, 0)
	white   = core.NewVec3(1, 1, 1)
	skyBlue = core.NewVec3(0.5, 0.7, 1.0)
)

// Config controls how a render is dispatched
type Config struct {
	NumWorkers int   // Number of scanline bands rendered in parallel (0 = auto)
	Seed       int64 // Base seed for per-band samplers (0 = seeded from the clock)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		NumWorkers: 0,
		Seed:       0,
	}
}

// Raytracer renders a scene through a camera
type Raytracer struct {
	world     geometry.Hittable
	materials *material.Arena
	camera    CameraConfig
	config    Config
	logger    core.Logger
}

// NewRaytracer creates a new raytracer. The world and materials must not be
// modified while Render is running.
func NewRaytracer(world geometry.Hittable, materials *material.Arena, camera CameraConfig, config Config, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Raytracer{
		world:     world,
		materials: materials,
		camera:    camera,
		config:    config,
		logger:    logger,
	}
}

// RayColor returns the radiance carried back along r
func (rt *Raytracer) RayColor(r core.Ray, depth int, sampler core.Sampler) core.Color {
	return RayColor(r, depth, rt.world, rt.materials, sampler)
}

// RayColor follows r through world for at most depth bounces. Exhausting the
// depth or being absorbed yields black; escaping the scene yields the sky.
func RayColor(r core.Ray, depth int, world geometry.Hittable, materials *material.Arena, sampler core.Sampler) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return black
	}

	var rec material.HitRecord
	if !world.Hit(r, core.NewInterval(shadowAcneEpsilon, math.Inf(1)), &rec) {
		return skyColor(r)
	}

	scatter, ok := materials.Scatter(r, rec, sampler)
	if !ok {
		return black
	}
	return scatter.Attenuation.MultiplyVec(RayColor(scatter.Scattered, depth-1, world, materials, sampler))
}

// skyColor blends white at the horizon-down direction to light blue overhead
func skyColor(r core.Ray) core.Color {
	unitDirection := r.Direction.Normalize()
	a := 0.5 * (unitDirection.Y + 1.0)
	return white.Multiply(1.0 - a).Add(skyBlue.Multiply(a))
}

// numWorkers resolves the worker count for an image of the given height
func (rt *Raytracer) numWorkers(height int) int {
	workers := rt.config.NumWorkers
	if workers <= 0 {
		// Leave a third of the machine for the rest of the host
		workers = runtime.NumCPU() * 2 / 3
	}
	return max(1, min(workers, height))
}

// baseSeed returns the configured seed, or one drawn from the clock when unset.
// It is read once per render so that every band gets a distinct stream.
func (rt *Raytracer) baseSeed() int64 {
	if rt.config.Seed != 0 {
		return rt.config.Seed
	}
	return time.Now().UnixNano()
}

// bandSampler returns the private sampler of band index
func bandSampler(baseSeed int64, index int) core.Sampler {
	return core.NewSeededSampler(baseSeed + int64(index))
}

// Render initializes the camera, renders every scanline band in parallel and
// returns the assembled frame in row-major order.
func (rt *Raytracer) Render(enc Encoder) (*Frame, RenderStats) {
	start := time.Now()
	camera := NewCamera(rt.camera)
	bands := PartitionRows(camera.Height(), rt.numWorkers(camera.Height()))
	seed := rt.baseSeed()

	rt.logger.Printf("Rendering %dx%d at %d samples per pixel with %d workers\n",
		camera.Width(), camera.Height(), rt.camera.SamplesPerPixel, len(bands))

	body := renderBands(bands, func(band Band) []byte {
		rt.logger.Printf("Band %d (rows %d-%d) starting\n", band.Index, band.StartRow, band.EndRow-1)
		buf := rt.renderBand(camera, band, enc, bandSampler(seed, band.Index))
		rt.logger.Printf("Band %d finished\n", band.Index)
		return buf
	})

	stats := newRenderStats(camera.Width(), camera.Height(), rt.camera.SamplesPerPixel, len(bands))
	stats.Elapsed = time.Since(start)
	rt.logger.Printf("Render completed in %v\n", stats.Elapsed)

	return &Frame{Width: camera.Width(), Height: camera.Height(), Body: body}, stats
}

// renderBand renders rows [band.StartRow, band.EndRow) left to right, top to bottom
func (rt *Raytracer) renderBand(camera *Camera, band Band, enc Encoder, sampler core.Sampler) []byte {
	spp := rt.camera.SamplesPerPixel
	maxDepth := rt.camera.MaxDepth
	buf := make([]byte, 0, band.Rows()*camera.Width()*12)

	for j := band.StartRow; j < band.EndRow; j++ {
		for i := 0; i < camera.Width(); i++ {
			var pixel core.Color
			for sample := 0; sample < spp; sample++ {
				ray := camera.GetRay(i, j, sampler)
				pixel = pixel.Add(rt.RayColor(ray, maxDepth, sampler))
			}
			buf = enc.EncodePixel(buf, pixel, spp)
		}
	}

	return buf
}
