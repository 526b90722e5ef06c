package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// workersEnv overrides the automatic worker count when -workers is not given
const workersEnv = "RAYTRACER_WORKERS"

// maxWorkers bounds worker counts coming from the environment
const maxWorkers = 1024

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Scene ID from -list, or a path to a .json or .pbrt scene file")
	width := flag.Int("width", 0, "Image width in pixels (0 = scene default)")
	spp := flag.Int("spp", 0, "Samples per pixel (0 = scene default)")
	depth := flag.Int("depth", 0, "Maximum ray bounce depth (0 = scene default)")
	workers := flag.Int("workers", 0, "Number of scanline bands rendered in parallel (0 = auto, or $"+workersEnv+")")
	seed := flag.Int64("seed", 0, "Random seed for sampling and random scene layout (0 = time-based sampling)")
	out := flag.String("out", "", "Output file; .png writes PNG, anything else PPM (default: PPM on stdout)")
	scenesDir := flag.String("scenes-dir", "scenes", "Directory holding the json: and pbrt: scenes")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	logger := renderer.NewDefaultLogger()

	// Show help if requested
	if *help {
		fmt.Fprintln(os.Stderr, "Scanline Raytracer")
		fmt.Fprintln(os.Stderr, "Usage: raytracer [options] > image.ppm")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
		return
	}

	if *list {
		if err := listScenes(os.Stdout, *scenesDir, logger); err != nil {
			logger.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	override := renderer.CameraConfig{Width: *width, SamplesPerPixel: *spp, MaxDepth: *depth}
	selectedScene, err := createScene(*sceneType, *scenesDir, *seed, override)
	if err != nil {
		logger.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	numWorkers, err := resolveWorkers(*workers, os.Getenv(workersEnv))
	if err != nil {
		logger.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(selectedScene, renderer.Config{NumWorkers: numWorkers, Seed: *seed}, *out, os.Stdout, logger); err != nil {
		logger.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// createScene builds the named scene with the command line camera overrides.
// json: and pbrt: IDs are looked up in scenesDir; other names are passed through.
func createScene(sceneType, scenesDir string, seed int64, override renderer.CameraConfig) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, errors.New("no scene given")
	}
	if scene.IsFileSceneID(sceneType) {
		resolved, err := scene.ResolveSceneID(sceneType, scenesDir)
		if err != nil {
			return nil, err
		}
		sceneType = resolved
	}

	s, err := scene.CreateScene(sceneType, seed, override)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// resolveWorkers picks the worker count: the flag wins, then the environment,
// then 0 for the renderer's automatic choice
func resolveWorkers(flagValue int, envValue string) (int, error) {
	if flagValue < 0 {
		return 0, fmt.Errorf("-workers must not be negative, got %d", flagValue)
	}
	if flagValue > 0 || envValue == "" {
		return flagValue, nil
	}

	n, err := strconv.Atoi(envValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", workersEnv, envValue, err)
	}
	if n < 0 || n > maxWorkers {
		return 0, fmt.Errorf("%s must be between 0 and %d, got %d", workersEnv, maxWorkers, n)
	}
	return n, nil
}

// isPNG reports whether path should be written as a PNG
func isPNG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}

// run renders s and writes the result to out, or to stdout when out is empty
func run(s *scene.Scene, config renderer.Config, out string, stdout io.Writer, logger core.Logger) error {
	logger.Printf("Rendering scene %q with %d objects\n", s.Name, s.GetPrimitiveCount())
	raytracer := s.NewRaytracer(config, logger)

	if isPNG(out) {
		frame, stats := raytracer.Render(renderer.RGBEncoder{})
		logStats(logger, stats)

		img, err := frame.Image()
		if err != nil {
			return err
		}
		logger.Printf("Average luminance: %.3f\n", renderer.CalculateAverageLuminance(img))

		if err := frame.SavePNG(out); err != nil {
			return err
		}
		logger.Printf("Render saved as %s\n", out)
		return nil
	}

	frame, stats := raytracer.Render(renderer.PPMEncoder{})
	logStats(logger, stats)

	if out == "" {
		w := bufio.NewWriter(stdout)
		if _, err := frame.WriteTo(w); err != nil {
			return err
		}
		return w.Flush()
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if _, err := frame.WriteTo(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logger.Printf("Render saved as %s\n", out)
	return nil
}

func logStats(logger core.Logger, stats renderer.RenderStats) {
	logger.Printf("Rendered %d pixels at %d samples per pixel with %d workers in %v (%.0f samples/s)\n",
		stats.TotalPixels, stats.SamplesPerPixel, stats.Workers, stats.Elapsed, stats.SamplesPerSecond())
}

// listScenes prints every selectable scene, one per line
func listScenes(w io.Writer, scenesDir string, logger core.Logger) error {
	scenes, err := scene.ListAllScenes(scenesDir, logger)
	if err != nil {
		return err
	}
	for _, info := range scenes {
		fmt.Fprintf(w, "%-16s %s", info.ID, info.DisplayName)
		if info.Description != "" {
			fmt.Fprintf(w, " - %s", info.Description)
		}
		fmt.Fprintln(w)
	}
	return nil
}
