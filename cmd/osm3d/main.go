// osm3d turns map features inside a bounding box into a printable binary STL:
// one base plate with every building footprint extruded to a height
// proportional to its real height.
//
// Features come from an Overpass API server, or from a local .geojson, .wkt,
// .csv or .kml file given with -in. Settings are read from osm3d.yml if it
// exists; command line flags override the file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/inconshreveable/log15"
	"github.com/paulmach/orb/geojson"

	"github.com/JonSche/osm-to-3dprint/internal/config"
	"github.com/JonSche/osm-to-3dprint/internal/geom"
	"github.com/JonSche/osm-to-3dprint/internal/mesh"
	"github.com/JonSche/osm-to-3dprint/internal/osm"
	"github.com/JonSche/osm-to-3dprint/internal/stl"
	"github.com/JonSche/osm-to-3dprint/internal/tui"
)

const Version = osm.Version

var logger = config.NewLogger(log.LvlInfo)

// stageError labels a failure with the pipeline stage that produced it.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

var (
	cfgPath = flag.String("config", config.DefaultPath, "Path to a config file")
	bbox    = flag.String("bbox", "", "Bounding box as minLng,minLat,maxLng,maxLat")
	in      = flag.String("in", "", "Read features from a .geojson, .wkt, .csv or .kml file instead of Overpass")
	out     = flag.String("out", "", "Output STL path (default "+config.DefaultOutput+")")
	preview = flag.Bool("preview", false, "Show the plate in the terminal before writing")
	normals = flag.Bool("normals", false, "Write facet normals instead of zero vectors")
	verbose = flag.Bool("v", false, "Log at debug level")
	version = flag.Bool("version", false, "Print the version string and exit")
	tags    stringsFlag
)

func init() {
	flag.Var(&tags, "tag", "Overpass tag filter like building or natural=water; may be repeated")
}

func main() {
	flag.Parse()
	if *version {
		fmt.Fprintf(os.Stderr, "osm3d version %s\n", Version)
		os.Exit(0)
	}
	fc, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("Couldn't load config file", "path", *cfgPath, "err", err)
		os.Exit(2)
	}
	applyFlags(fc)
	c, err := fc.Resolve()
	if err != nil {
		logger.Error("Invalid configuration", "err", err)
		os.Exit(2)
	}
	logger = config.NewLogger(c.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, c, logger); err != nil {
		var se *stageError
		if errors.As(err, &se) {
			logger.Error("osm3d failed", "stage", se.stage, "err", se.err)
		} else {
			logger.Error("osm3d failed", "err", err)
		}
		stop()
		os.Exit(2)
	}
}

// applyFlags copies every flag set on the command line over the file config.
func applyFlags(fc *config.FileConfig) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bbox":
			fc.BBox = *bbox
		case "in":
			fc.Input = *in
		case "out":
			fc.Output = *out
		case "tag":
			fc.Tags = tags
		case "preview":
			fc.Preview = *preview
		case "normals":
			fc.Normals = *normals
		case "v":
			if *verbose {
				fc.LogLevel = "debug"
			}
		}
	})
}

func run(ctx context.Context, c *config.Config, logger log.Logger) error {
	start := time.Now()
	features, bounds, err := loadFeatures(ctx, c, logger)
	if err != nil {
		return err
	}

	res, err := mesh.NewAssembler(c.MeshParams(bounds), logger).Assemble(features.Features)
	if err != nil {
		return &stageError{"assemble", err}
	}

	if c.Preview {
		p := tea.NewProgram(tui.New(res, c.Output), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
		final, err := p.Run()
		if err != nil {
			return &stageError{"preview", err}
		}
		if m, ok := final.(tui.Model); !ok || !m.Confirmed() {
			logger.Info("Export cancelled, nothing written")
			return nil
		}
	}

	if err := stl.WriteFile(c.Output, res.Mesh, stl.Options{Normals: c.Normals}); err != nil {
		return &stageError{"export", err}
	}
	logger.Info("Wrote STL", "path", c.Output, "triangles", len(res.Mesh.Faces),
		"bytes", stl.Size(res.Mesh), "took", time.Since(start).Round(time.Millisecond))
	return nil
}

// loadFeatures reads the input file or queries Overpass, and returns the
// features with the bounding box they should be projected from.
func loadFeatures(ctx context.Context, c *config.Config, logger log.Logger) (*geojson.FeatureCollection, geom.BBox, error) {
	if c.Input != "" {
		fc, err := geom.LoadFile(c.Input)
		if err != nil {
			return nil, geom.BBox{}, &stageError{"load", err}
		}
		b := c.BBox
		if !c.HasBBox {
			var ok bool
			if b, ok = geom.BBoxOf(fc); !ok {
				return nil, geom.BBox{}, &stageError{"load", fmt.Errorf("%s: no geometry to derive a bbox from", c.Input)}
			}
		}
		logger.Info("Loaded features", "path", c.Input, "count", len(fc.Features), "bbox", b)
		return fc, b, nil
	}

	client := osm.NewClientWithHost(c.OverpassURL)
	client.Features.Timeout = int(c.Timeout / time.Second)
	// leave the server room to report its own timeout before we give up
	ctx, cancel := context.WithTimeout(ctx, c.Timeout+15*time.Second)
	defer cancel()
	logger.Info("Fetching features", "host", c.OverpassURL, "bbox", c.BBox, "tags", len(c.Tags))
	fc, err := client.Features.Fetch(ctx, c.BBox, c.Tags...)
	if err != nil {
		return nil, geom.BBox{}, &stageError{"fetch", err}
	}
	logger.Info("Fetched features", "count", len(fc.Features))
	return fc, c.BBox, nil
}
