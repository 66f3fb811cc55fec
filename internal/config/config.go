// Package config reads run settings from a YAML file and builds the logger.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	log "github.com/inconshreveable/log15"
	yaml "gopkg.in/yaml.v2"

	"github.com/JonSche/osm-to-3dprint/internal/geom"
	"github.com/JonSche/osm-to-3dprint/internal/mesh"
	"github.com/JonSche/osm-to-3dprint/internal/osm"
)

// DefaultPath is read when no -config flag is given. It may be missing.
const DefaultPath = "osm3d.yml"

// DefaultOutput is where the STL goes if nothing else is configured.
const DefaultOutput = "buildings_with_base.stl"

// FileConfig is the on-disk configuration. Pointer fields distinguish
// "unset" from zero.
type FileConfig struct {
	// BBox is "minLng,minLat,maxLng,maxLat" in WGS84 degrees, for example:
	//
	//   13.37,52.50,13.40,52.52
	//
	// Required when fetching from Overpass. When reading a local Input file
	// it may be omitted, in which case the bounds of the file are used.
	BBox string `yaml:"bbox"`

	// Tags selects what to fetch, e.g. "building" or "landuse=retail|commercial".
	// Defaults to "building".
	Tags []string `yaml:"tags"`

	// Input is a local .geojson, .json, .wkt, .csv or .kml file. If set,
	// nothing is fetched from the network.
	Input string `yaml:"input"`

	// Output is the STL path. Defaults to buildings_with_base.stl.
	Output string `yaml:"output"`

	// OverpassURL is the API root. Defaults to https://overpass-api.de/api.
	OverpassURL string `yaml:"overpass_url"`

	// Timeout for the Overpass request, as a Go duration ("90s").
	// Defaults to 60s.
	Timeout string `yaml:"timeout"`

	// Model dimensions in millimetres. The plate is TargetSize*1.2 wide.
	TargetSize    *float64 `yaml:"target_size"`
	MaxHeightMM   *float64 `yaml:"max_height_mm"`
	BaseThickness *float64 `yaml:"base_thickness"`

	// DefaultHeight in metres for features without a usable height tag.
	DefaultHeight *float64 `yaml:"default_height"`

	// Set to true to write facet normals instead of zero vectors.
	Normals bool `yaml:"normals"`

	// Set to true to show the plate in the terminal before exporting.
	Preview bool `yaml:"preview"`

	// LogLevel is one of debug, info, warn, error, crit. Defaults to info.
	LogLevel string `yaml:"log_level"`
}

// Config is a validated FileConfig with defaults applied.
type Config struct {
	BBox        geom.BBox
	HasBBox     bool
	Tags        []osm.Tag
	Input       string
	Output      string
	OverpassURL string
	Timeout     time.Duration
	Normals     bool
	Preview     bool
	LogLevel    log.Lvl

	TargetSize    float64
	MaxHeightMM   float64
	DefaultHeight float64
	BaseThickness float64
}

// Load reads path. A missing file yields an empty FileConfig only when path
// is DefaultPath.
func Load(path string) (*FileConfig, error) {
	c := new(FileConfig)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
			return c, nil
		}
		return nil, err
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Resolve validates fc and fills in defaults.
func (fc *FileConfig) Resolve() (*Config, error) {
	c := &Config{
		Input:       fc.Input,
		Output:      fc.Output,
		OverpassURL: fc.OverpassURL,
		Normals:     fc.Normals,
		Preview:     fc.Preview,
		Timeout:     time.Duration(osm.DefaultTimeout) * time.Second,
		LogLevel:    log.LvlInfo,
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.OverpassURL == "" {
		c.OverpassURL = osm.Host
	}
	c.OverpassURL = strings.TrimRight(c.OverpassURL, "/")
	if fc.BBox != "" {
		b, err := geom.ParseBBox(fc.BBox)
		if err != nil {
			return nil, fmt.Errorf("config: bbox: %w", err)
		}
		c.BBox, c.HasBBox = b, true
	}
	if c.Input == "" && !c.HasBBox {
		return nil, errors.New("config: bbox is required unless an input file is given")
	}
	tags := fc.Tags
	if len(tags) == 0 {
		tags = []string{"building"}
	}
	var err error
	if c.Tags, err = osm.ParseTags(tags); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("config: timeout: %w", err)
		}
		if d < time.Second {
			return nil, fmt.Errorf("config: timeout %s is shorter than a second", d)
		}
		c.Timeout = d
	}
	if fc.LogLevel != "" {
		lvl, err := log.LvlFromString(strings.ToLower(fc.LogLevel))
		if err != nil {
			return nil, fmt.Errorf("config: log_level: %w", err)
		}
		c.LogLevel = lvl
	}

	def := mesh.DefaultParams(c.BBox)
	dims := []struct {
		name string
		src  *float64
		dst  *float64
		val  float64
		zero bool
	}{
		{"target_size", fc.TargetSize, &c.TargetSize, def.TargetSize, false},
		{"max_height_mm", fc.MaxHeightMM, &c.MaxHeightMM, def.MaxHeightMM, false},
		{"default_height", fc.DefaultHeight, &c.DefaultHeight, def.DefaultHeight, true},
		{"base_thickness", fc.BaseThickness, &c.BaseThickness, def.BaseThickness, true},
	}
	for _, d := range dims {
		v := d.val
		if d.src != nil {
			v = *d.src
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || (v == 0 && !d.zero) {
			return nil, fmt.Errorf("config: %s: invalid value %v", d.name, v)
		}
		*d.dst = v
	}
	return c, nil
}

// MeshParams returns the assembler parameters for bbox.
func (c *Config) MeshParams(bbox geom.BBox) mesh.Params {
	return mesh.Params{
		BBox:          bbox,
		TargetSize:    c.TargetSize,
		MaxHeightMM:   c.MaxHeightMM,
		DefaultHeight: c.DefaultHeight,
		BaseThickness: c.BaseThickness,
	}
}

// NewLogger returns a terminal logger on stderr that drops records below lvl.
func NewLogger(lvl log.Lvl) log.Logger {
	logger := log.New()
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.TerminalFormat())))
	return logger
}
