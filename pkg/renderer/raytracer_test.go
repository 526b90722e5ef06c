package renderer

import (
	"bufio"
	"bytes"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/material"
)

// MockHittable implements geometry.Hittable for testing
type MockHittable struct {
	hitFn func(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool
}

func (m *MockHittable) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
	return m.hitFn(ray, rayT, rec)
}

func closeTo(a, b core.Color, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestRayColor_Sky(t *testing.T) {
	world := geometry.NewHittableList()
	materials := material.NewArena()
	sampler := core.NewSeededSampler(1)

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Color
	}{
		{"Straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"Horizon", core.NewVec3(0, 0, -1), core.NewVec3(0.75, 0.85, 1.0)},
		{"Straight down", core.NewVec3(0, -3, 0), core.NewVec3(1, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 0, 0), tt.direction)
			got := RayColor(ray, 10, world, materials, sampler)
			if !closeTo(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRayColor_DepthExhausted(t *testing.T) {
	world := geometry.NewHittableList()
	materials := material.NewArena()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	for _, depth := range []int{0, -1} {
		if got := RayColor(ray, depth, world, materials, core.NewSeededSampler(1)); got != black {
			t.Errorf("depth %d: expected black, got %v", depth, got)
		}
	}
}

func TestRayColor_LastBounceIsBlack(t *testing.T) {
	materials := material.NewArena()
	diffuse := materials.Add(material.NewLambertian(core.NewVec3(0.9, 0.9, 0.9)))

	// Everything is inside an infinite diffuse surface
	world := &MockHittable{hitFn: func(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
		rec.T = 1
		rec.Point = ray.At(1)
		rec.Material = diffuse
		rec.SetFaceNormal(ray, ray.Direction.Normalize().Negate())
		return true
	}}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	for _, depth := range []int{1, 5} {
		if got := RayColor(ray, depth, world, materials, core.NewSeededSampler(3)); got != black {
			t.Errorf("depth %d: expected black when no ray escapes, got %v", depth, got)
		}
	}
}

func TestRayColor_SingleDiffuseBounce(t *testing.T) {
	materials := material.NewArena()
	diffuse := materials.Add(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	var searched []core.Interval
	world := &MockHittable{hitFn: func(ray core.Ray, rayT core.Interval, rec *material.HitRecord) bool {
		searched = append(searched, rayT)
		if ray.Direction.Y >= 0 {
			return false
		}
		rec.T = 1
		rec.Point = core.NewVec3(0, 0, 0)
		rec.Material = diffuse
		rec.SetFaceNormal(ray, core.NewVec3(0, 1, 0))
		return true
	}}

	ray := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1))
	got := RayColor(ray, 10, world, materials, core.NewSeededSampler(11))

	// Half of a sky color sampled somewhere in the upper hemisphere
	if math.Abs(got.Z-0.5) > 1e-9 {
		t.Errorf("Expected blue channel 0.5, got %f", got.Z)
	}
	if got.X < 0.25-1e-9 || got.X > 0.5+1e-9 {
		t.Errorf("Expected red channel in [0.25, 0.5], got %f", got.X)
	}

	for _, rayT := range searched {
		if rayT.Min != 0.001 || !math.IsInf(rayT.Max, 1) {
			t.Errorf("Expected search interval (0.001, +Inf), got %v", rayT)
		}
	}
}

func TestRayColor_MatchedGlassIsInvisible(t *testing.T) {
	materials := material.NewArena()
	glass := materials.Add(material.NewDielectric(1.0))
	world := geometry.NewHittableList(geometry.NewSpherePrimitive(core.NewVec3(0, 0, -2), 0.5, glass))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	got := RayColor(ray, 10, world, materials, core.NewSeededSampler(5))

	expected := core.NewVec3(0.75, 0.85, 1.0)
	if !closeTo(got, expected, 1e-9) {
		t.Errorf("Expected sky color %v through matched glass, got %v", expected, got)
	}
}

func TestRaytracer_NumWorkers(t *testing.T) {
	tests := []struct {
		name       string
		configured int
		height     int
		expected   int
	}{
		{"Explicit", 4, 100, 4},
		{"Capped by height", 8, 3, 3},
		{"Single row", 16, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRaytracer(geometry.NewHittableList(), material.NewArena(), DefaultCameraConfig(), Config{NumWorkers: tt.configured}, nil)
			if got := rt.numWorkers(tt.height); got != tt.expected {
				t.Errorf("Expected %d workers, got %d", tt.expected, got)
			}
		})
	}

	rt := NewRaytracer(geometry.NewHittableList(), material.NewArena(), DefaultCameraConfig(), DefaultConfig(), nil)
	if got := rt.numWorkers(50); got < 1 || got > 50 {
		t.Errorf("Automatic worker count should be in [1, 50], got %d", got)
	}
}

func testScene() (*geometry.HittableList, *material.Arena) {
	materials := material.NewArena()
	ground := materials.Add(material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	center := materials.Add(material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	glass := materials.Add(material.NewDielectric(1.5))
	metal := materials.Add(material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3))

	world := geometry.NewHittableList()
	world.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground)
	world.AddSphere(core.NewVec3(0, 0, -1.2), 0.5, center)
	world.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	world.AddSphere(core.NewVec3(1, 0, -1), 0.5, metal)
	return world, materials
}

func testCamera() CameraConfig {
	config := DefaultCameraConfig()
	config.Width = 16
	config.AspectRatio = 2.0
	config.SamplesPerPixel = 4
	config.MaxDepth = 8
	config.LookFrom = core.NewVec3(0, 0, 0)
	config.LookAt = core.NewVec3(0, 0, -1)
	return config
}

func TestRaytracer_RenderPPM(t *testing.T) {
	world, materials := testScene()
	rt := NewRaytracer(world, materials, testCamera(), Config{NumWorkers: 3, Seed: 42}, nil)

	frame, stats := rt.Render(PPMEncoder{})

	if frame.Width != 16 || frame.Height != 8 {
		t.Fatalf("Expected 16x8 frame, got %dx%d", frame.Width, frame.Height)
	}
	if stats.TotalPixels != 128 || stats.TotalSamples != 512 || stats.Workers != 3 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	var out bytes.Buffer
	if _, err := frame.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	scanner := bufio.NewScanner(&out)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if len(lines) != 3+16*8 {
		t.Fatalf("Expected %d lines, got %d", 3+16*8, len(lines))
	}
	if lines[0] != "P3" || lines[1] != "16 8" || lines[2] != "255" {
		t.Errorf("Unexpected header %q", lines[:3])
	}

	for i, line := range lines[3:] {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			t.Fatalf("Pixel %d: expected 3 values, got %q", i, line)
		}
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil || v < 0 || v > 255 {
				t.Fatalf("Pixel %d: invalid channel %q", i, f)
			}
		}
	}
}

func TestRaytracer_RenderIsDeterministicWithSeed(t *testing.T) {
	world, materials := testScene()
	config := Config{NumWorkers: 4, Seed: 7}

	first, _ := NewRaytracer(world, materials, testCamera(), config, nil).Render(PPMEncoder{})
	second, _ := NewRaytracer(world, materials, testCamera(), config, nil).Render(PPMEncoder{})

	if !bytes.Equal(first.Body, second.Body) {
		t.Error("Renders with the same seed and worker count should be identical")
	}
}

// meanPixelVariance renders the scene once per seed and returns the variance
// of each channel across the renders, averaged over all channels
func meanPixelVariance(world geometry.Hittable, materials *material.Arena, camera CameraConfig, seeds []int64) float64 {
	var bodies [][]byte
	for _, seed := range seeds {
		frame, _ := NewRaytracer(world, materials, camera, Config{NumWorkers: 2, Seed: seed}, nil).Render(RGBEncoder{})
		bodies = append(bodies, frame.Body)
	}

	n := float64(len(bodies))
	total := 0.0
	for c := range bodies[0] {
		mean := 0.0
		for _, body := range bodies {
			mean += float64(body[c])
		}
		mean /= n

		variance := 0.0
		for _, body := range bodies {
			d := float64(body[c]) - mean
			variance += d * d
		}
		total += variance / n
	}
	return total / float64(len(bodies[0]))
}

func TestRaytracer_MoreSamplesReduceVariance(t *testing.T) {
	materials := material.NewArena()
	ground := materials.Add(material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	center := materials.Add(material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	world := geometry.NewHittableList()
	world.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground)
	world.AddSphere(core.NewVec3(0, 0, -1.2), 0.5, center)

	seeds := []int64{11, 22, 33, 44}
	camera := testCamera()

	camera.SamplesPerPixel = 1
	noisy := meanPixelVariance(world, materials, camera, seeds)

	camera.SamplesPerPixel = 100
	converged := meanPixelVariance(world, materials, camera, seeds)

	if noisy == 0 {
		t.Fatal("Single-sample renders with different seeds should differ")
	}
	if converged*5 > noisy {
		t.Errorf("Variance at 100 spp (%f) should be well below variance at 1 spp (%f)", converged, noisy)
	}
}

func TestRaytracer_BandSeeds(t *testing.T) {
	seeded := NewRaytracer(geometry.NewHittableList(), material.NewArena(), testCamera(), Config{Seed: 7}, nil)
	if got := seeded.baseSeed(); got != 7 {
		t.Errorf("baseSeed() = %d, want the configured seed 7", got)
	}

	clock := NewRaytracer(geometry.NewHittableList(), material.NewArena(), testCamera(), Config{}, nil)
	base := clock.baseSeed()

	seen := make(map[float64]int)
	for i := 0; i < 64; i++ {
		v := bandSampler(base, i).Get1D()
		if j, dup := seen[v]; dup {
			t.Fatalf("Bands %d and %d share a random stream", j, i)
		}
		seen[v] = i
	}
}

func TestRaytracer_RenderKeepsRowOrder(t *testing.T) {
	// With only sky, the top of the image is bluer than the bottom
	config := DefaultCameraConfig()
	config.Width = 8
	config.AspectRatio = 0.5
	config.SamplesPerPixel = 2

	for _, workers := range []int{1, 3, 16} {
		rt := NewRaytracer(geometry.NewHittableList(), material.NewArena(), config, Config{NumWorkers: workers, Seed: 1}, nil)
		frame, _ := rt.Render(RGBEncoder{})

		img, err := frame.Image()
		if err != nil {
			t.Fatalf("workers %d: %v", workers, err)
		}

		prev := -1.0
		for j := 0; j < frame.Height; j++ {
			red := 0.0
			for i := 0; i < frame.Width; i++ {
				red += float64(img.RGBAAt(i, j).R)
			}
			red /= float64(frame.Width)
			if red < prev-1 {
				t.Fatalf("workers %d: row %d is bluer than the row above (%f < %f)", workers, j, red, prev)
			}
			prev = red
		}

		top, bottom := img.RGBAAt(4, 0).R, img.RGBAAt(4, frame.Height-1).R
		if top >= bottom {
			t.Errorf("workers %d: expected top red %d below bottom red %d", workers, top, bottom)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	world, materials := testScene()
	rt := NewRaytracer(world, materials, testCamera(), Config{Seed: 1}, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rt.Render(RGBEncoder{})
	}
}
