package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// SceneInfo represents a scene that can be selected by ID
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, "json:<name>" or "pbrt:<name>" for file scenes
	DisplayName string `json:"displayName"` // Human readable name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin", "json" or "pbrt"
	FilePath    string `json:"filePath"`    // Path to the scene file (file types only)
}

// defaultGridSize is the side length of the built-in sphere grid
const defaultGridSize = 10

var builtinScenes = []SceneInfo{
	{
		ID:          "default",
		DisplayName: "Default Scene",
		Description: "Diffuse, hollow glass and brushed metal spheres with depth of field",
		Type:        "builtin",
	},
	{
		ID:          "random",
		DisplayName: "Random Spheres",
		Description: "Cover scene of small random spheres around three large ones, laid out from the seed",
		Type:        "builtin",
	},
	{
		ID:          "hollow-glass",
		DisplayName: "Hollow Glass",
		Description: "Thin glass shell made with a negative-radius sphere",
		Type:        "builtin",
	},
	{
		ID:          "sphere-grid",
		DisplayName: "Sphere Grid",
		Description: "10x10 grid of rainbow-colored metallic spheres",
		Type:        "builtin",
	},
}

// ListBuiltinScenes returns the scenes compiled into the binary
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	copy(scenes, builtinScenes)
	return scenes
}

// ListJSONScenes scans dir for *.json scene descriptions. Files that fail to
// parse are reported to logger and skipped.
func ListJSONScenes(dir string, logger core.Logger) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := ParseJSONMetadata(filePath)
		if err != nil {
			logger.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseJSONMetadata reads the name and description of a JSON scene
func ParseJSONMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	info := SceneInfo{
		ID:          "json:" + nameWithoutExt,
		DisplayName: titleCase(nameWithoutExt),
		Type:        "json",
		FilePath:    filePath,
	}

	d, err := Load(filePath)
	if err != nil {
		return info, err
	}
	if d.Name != "" {
		info.DisplayName = d.Name
	}
	info.Description = d.Description

	return info, nil
}

// ListPBRTScenes scans dir for *.pbrt scenes. Metadata is read from the
// header comments ("# Scene:" and "# Description:").
func ListPBRTScenes(dir string, logger core.Logger) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.pbrt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := ParsePBRTMetadata(filePath)
		if err != nil {
			logger.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParsePBRTMetadata extracts metadata from PBRT file header comments
func ParsePBRTMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	info := SceneInfo{
		ID:          "pbrt:" + nameWithoutExt,
		DisplayName: titleCase(nameWithoutExt),
		Type:        "pbrt",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if name, ok := strings.CutPrefix(content, "Scene:"); ok {
			info.DisplayName = strings.TrimSpace(name)
		} else if desc, ok := strings.CutPrefix(content, "Description:"); ok {
			info.Description = strings.TrimSpace(desc)
		}
	}

	return info, scanner.Err()
}

// ListAllScenes returns the built-in scenes followed by the JSON and PBRT
// scenes in dir
func ListAllScenes(dir string, logger core.Logger) ([]SceneInfo, error) {
	jsonScenes, err := ListJSONScenes(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to list JSON scenes: %w", err)
	}
	pbrtScenes, err := ListPBRTScenes(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to list PBRT scenes: %w", err)
	}

	scenes := append(ListBuiltinScenes(), jsonScenes...)
	return append(scenes, pbrtScenes...), nil
}

// fileSceneTypes are the ID prefixes of scenes stored in the scenes directory
var fileSceneTypes = []string{"json", "pbrt"}

// IsFileSceneID reports whether id names a scene file ("json:<name>" or "pbrt:<name>")
func IsFileSceneID(id string) bool {
	for _, t := range fileSceneTypes {
		if strings.HasPrefix(id, t+":") {
			return true
		}
	}
	return false
}

// ResolveSceneID maps a catalogue ID to the argument CreateScene expects.
// File scene IDs resolve to a file directly inside scenesDir. Anything that is
// neither a file scene ID nor a built-in scene is rejected, including raw paths.
func ResolveSceneID(id, scenesDir string) (string, error) {
	for _, t := range fileSceneTypes {
		name, ok := strings.CutPrefix(id, t+":")
		if !ok {
			continue
		}
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
			return "", fmt.Errorf("invalid scene name %q", name)
		}
		return filepath.Join(scenesDir, name+"."+t), nil
	}

	for _, info := range builtinScenes {
		if info.ID == id {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown scene %q", id)
}

// CreateScene builds the scene with the given ID. IDs ending in .json or
// .pbrt are loaded from disk. seed only affects scenes with a random layout.
func CreateScene(id string, seed int64, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	if strings.HasSuffix(id, ".pbrt") {
		return NewPBRTScene(id, cameraOverrides...)
	}
	if strings.HasSuffix(id, ".json") {
		s, err := LoadScene(id)
		if err != nil {
			return nil, err
		}
		s.CameraConfig = applyOverrides(s.CameraConfig, cameraOverrides)
		return s, nil
	}

	switch id {
	case "default":
		return NewDefaultScene(cameraOverrides...), nil
	case "random":
		return NewRandomSpheresScene(seed, cameraOverrides...), nil
	case "hollow-glass":
		return NewHollowGlassScene(cameraOverrides...), nil
	case "sphere-grid":
		return NewSphereGridScene(defaultGridSize, cameraOverrides...), nil
	}
	return nil, fmt.Errorf("unknown scene %q", id)
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
