package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
	logger    core.Logger
}

// NewServer creates a new web server
func NewServer(port int, scenesDir string) *Server {
	return &Server{
		port:      port,
		scenesDir: scenesDir,
		logger:    renderer.NewDefaultLogger(),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string `json:"scene"`           // Scene ID (e.g., "random")
	Width           int    `json:"width"`           // Image width, 0 keeps the scene default
	SamplesPerPixel int    `json:"samplesPerPixel"` // 0 keeps the scene default
	MaxDepth        int    `json:"maxDepth"`        // 0 keeps the scene default
	Workers         int    `json:"workers"`         // 0 picks automatically
	Seed            int64  `json:"seed"`            // 0 seeds from the clock
	Format          string `json:"format"`          // "png" or "ppm"
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createScene builds a scene from a catalogue ID. File scenes are only
// looked up inside the scenes directory.
func (s *Server) createScene(id string, seed int64, override renderer.CameraConfig) (*scene.Scene, error) {
	resolved, err := scene.ResolveSceneID(id, s.scenesDir)
	if err != nil {
		return nil, err
	}
	return scene.CreateScene(resolved, seed, override)
}

// handleScenes lists the built-in and file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir, s.logger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleRender renders a scene and streams back the finished image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	override := renderer.CameraConfig{Width: req.Width, SamplesPerPixel: req.SamplesPerPixel, MaxDepth: req.MaxDepth}
	sceneObj, err := s.createScene(req.Scene, req.Seed, override)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sceneObj.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	raytracer := sceneObj.NewRaytracer(renderer.Config{NumWorkers: req.Workers, Seed: req.Seed}, s.logger)

	var enc renderer.Encoder = renderer.RGBEncoder{}
	if req.Format == "ppm" {
		enc = renderer.PPMEncoder{}
	}
	frame, stats := raytracer.Render(enc)

	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Render-Workers", strconv.Itoa(stats.Workers))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))

	if req.Format == "ppm" {
		w.Header().Set("Content-Type", "image/x-portable-pixmap")
		bw := bufio.NewWriter(w)
		_, err := frame.WriteTo(bw)
		if err == nil {
			err = bw.Flush()
		}
		if err != nil {
			s.logger.Printf("Failed to send render: %v\n", err)
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := frame.EncodePNG(w); err != nil {
		s.logger.Printf("Failed to send render: %v\n", err)
	}
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: "default", Format: "png"}

	if sceneID := values.Get("scene"); sceneID != "" {
		req.Scene = sceneID
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, 16, 2000); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(values, "spp", 0, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", 0, 1, 500); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(values, "workers", 0, 1, 256); err != nil {
		return nil, err
	}
	if value := values.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}
	if format := values.Get("format"); format != "" {
		if format != "png" && format != "ppm" {
			return nil, fmt.Errorf("format must be png or ppm, got: %s", format)
		}
		req.Format = format
	}

	// Performance warning
	if req.Width > 800 && req.SamplesPerPixel > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// handleSceneConfig returns the default camera of a scene with validation limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(sceneName, 0, renderer.CameraConfig{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := map[string]interface{}{
		"scene":    sceneName,
		"defaults": sceneObj.CameraConfig,
		"objects":  sceneObj.GetPrimitiveCount(),
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": 16, "max": 2000},
			"spp":     map[string]int{"min": 1, "max": 10000},
			"depth":   map[string]int{"min": 1, "max": 500},
			"workers": map[string]int{"min": 1, "max": 256},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// elapsedMs returns the milliseconds passed since start
func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
