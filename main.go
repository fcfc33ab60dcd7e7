package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/profile"
	"gopkg.in/yaml.v2"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/integrator"
	"github.com/df07/go-photon-renderer/pkg/loaders"
	"github.com/df07/go-photon-renderer/pkg/photonmap"
	"github.com/df07/go-photon-renderer/pkg/renderer"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// options holds every command line knob. The yaml tags name the same knobs
// in a -config file; flags given on the command line win over the file.
type options struct {
	Scene     string `yaml:"scene"`
	Algorithm string `yaml:"algorithm"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Samples   int    `yaml:"ppp"`
	Division  string `yaml:"division"`
	Workers   int    `yaml:"workers"`
	QueueSize int    `yaml:"queue_size"`
	Seed      int64  `yaml:"seed"`
	NoJitter  bool   `yaml:"no_jitter"`

	MaxBounces int `yaml:"max_bounces"`

	Photons       int     `yaml:"photons"`
	PhotonRadius  float64 `yaml:"photon_radius"` // 0 = scene preference, then the default
	Neighbors     int     `yaml:"photon_neighbors"`
	Kernel        string  `yaml:"photon_kernel"`
	PhotonMode    string  `yaml:"photon_mode"`
	NoNextEvent   bool    `yaml:"no_next_event"`
	AnySurface    bool    `yaml:"any_surface"`
	PhotonBounces int     `yaml:"photon_bounces"`

	Output      string `yaml:"output"`
	Format      string `yaml:"format"`
	ToneMap     string `yaml:"tone_map"`
	Resolution  int    `yaml:"resolution"`
	Preview     string `yaml:"preview"`
	PreviewSize uint   `yaml:"preview_size"`

	Config     string `yaml:"-"`
	CPUProfile string `yaml:"-"`
	Quiet      bool   `yaml:"quiet"`
	ListScenes bool   `yaml:"-"`
}

func defaultOptions() options {
	rc := renderer.DefaultConfig()
	pc := integrator.DefaultPhotonConfig()
	return options{
		Scene:         "cornell",
		Algorithm:     string(integrator.PathTracing),
		Width:         rc.Width,
		Height:        rc.Height,
		Samples:       rc.SamplesPerPixel,
		Division:      rc.Division.String(),
		Workers:       rc.NumWorkers,
		QueueSize:     rc.QueueSize,
		Seed:          rc.Seed,
		MaxBounces:    -1,
		Photons:       pc.Photons,
		Neighbors:     pc.Neighbors,
		Kernel:        pc.Kernel.String(),
		PhotonMode:    pc.Mode.String(),
		PhotonBounces: pc.PhotonBounces,
		Output:        "output/render.ppm",
		Resolution:    renderer.DefaultResolution,
		PreviewSize:   256,
	}
}

func bindFlags(fs *flag.FlagSet, o *options) {
	fs.StringVar(&o.Scene, "scene", o.Scene, "Scene to render: "+strings.Join(scene.Names(), ", "))
	fs.StringVar(&o.Algorithm, "algorithm", o.Algorithm, "Light transport: path, path-iterative or photon")
	fs.IntVar(&o.Width, "width", o.Width, "Image width in pixels")
	fs.IntVar(&o.Height, "height", o.Height, "Image height in pixels")
	fs.IntVar(&o.Samples, "ppp", o.Samples, "Paths per pixel")
	fs.StringVar(&o.Division, "division", o.Division, "Task division: pixel, row, column or region:W:H")
	fs.IntVar(&o.Workers, "workers", o.Workers, "Render workers (0 = number of CPUs)")
	fs.IntVar(&o.QueueSize, "queue", o.QueueSize, "Task queue capacity")
	fs.Int64Var(&o.Seed, "seed", o.Seed, "Random seed")
	fs.BoolVar(&o.NoJitter, "no-jitter", o.NoJitter, "Trace every ray through its pixel center")
	fs.IntVar(&o.MaxBounces, "max-bounces", o.MaxBounces, "Bounces per path (-1 = until Russian roulette stops it)")

	fs.IntVar(&o.Photons, "photons", o.Photons, "Photons stored by photon mapping")
	fs.Float64Var(&o.PhotonRadius, "photon-radius", o.PhotonRadius, "Photon gather radius (0 = scene preference)")
	fs.IntVar(&o.Neighbors, "photon-neighbors", o.Neighbors, "Maximum photons per density estimate")
	fs.StringVar(&o.Kernel, "photon-kernel", o.Kernel, "Density kernel: box, cone or gaussian")
	fs.StringVar(&o.PhotonMode, "photon-mode", o.PhotonMode, "Camera paths at mirrors and glass: split or roulette")
	fs.BoolVar(&o.NoNextEvent, "no-next-event", o.NoNextEvent, "Take direct light from the photon map instead of shadow rays")
	fs.BoolVar(&o.AnySurface, "any-surface", o.AnySurface, "Gather photons from every nearby surface, not only the shaded one")
	fs.IntVar(&o.PhotonBounces, "photon-bounces", o.PhotonBounces, "Bounce limit of photon paths (0 = Russian roulette only)")

	fs.StringVar(&o.Output, "output", o.Output, "Output image path")
	fs.StringVar(&o.Format, "format", o.Format, "Output format: ppm, bmp or png (default: from the extension)")
	fs.StringVar(&o.ToneMap, "tone-map", o.ToneMap, "Tone mapping: cl, eq, eq_cl:TOP, gm:G or gm_cl:TOP:G (default: none)")
	fs.IntVar(&o.Resolution, "resolution", o.Resolution, "Quantization steps of PPM output")
	fs.StringVar(&o.Preview, "preview", o.Preview, "Also write a PNG thumbnail to this path")
	fs.UintVar(&o.PreviewSize, "preview-size", o.PreviewSize, "Largest side of the preview thumbnail")

	fs.StringVar(&o.Config, "config", o.Config, "YAML file with default values for these flags")
	fs.StringVar(&o.CPUProfile, "cpuprofile", o.CPUProfile, "Write a CPU profile to this directory")
	fs.BoolVar(&o.Quiet, "quiet", o.Quiet, "Do not print progress")
	fs.BoolVar(&o.ListScenes, "list-scenes", o.ListScenes, "List the built-in scenes and exit")
}

// parseOptions reads the flags, loading -config first so that explicitly
// given flags override the file
func parseOptions(args []string, output io.Writer) (options, error) {
	probe := defaultOptions()
	fs := flag.NewFlagSet("renderer", flag.ContinueOnError)
	fs.SetOutput(output)
	bindFlags(fs, &probe)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if probe.Config == "" {
		return probe, nil
	}

	o := defaultOptions()
	data, err := os.ReadFile(probe.Config)
	if err != nil {
		return options{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &o); err != nil {
		return options{}, fmt.Errorf("parsing config %s: %w", probe.Config, err)
	}

	fs = flag.NewFlagSet("renderer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	bindFlags(fs, &o)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

// renderConfig converts the options into renderer settings
func (o options) renderConfig() (renderer.Config, error) {
	division, err := renderer.ParseTaskDivision(o.Division)
	if err != nil {
		return renderer.Config{}, err
	}
	return renderer.Config{
		Width:           o.Width,
		Height:          o.Height,
		SamplesPerPixel: o.Samples,
		Division:        division,
		NumWorkers:      o.Workers,
		QueueSize:       o.QueueSize,
		Seed:            o.Seed,
		Jitter:          !o.NoJitter,
	}, nil
}

// integratorOptions converts the options into integrator settings for s
func (o options) integratorOptions(s *scene.Scene) (integrator.Options, error) {
	opts := integrator.DefaultOptions()
	opts.PathTracing.MaxBounces = o.MaxBounces

	kernel, err := photonmap.ParseKernel(o.Kernel)
	if err != nil {
		return opts, fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
	}
	mode, err := integrator.ParsePhotonMode(o.PhotonMode)
	if err != nil {
		return opts, err
	}

	pc := &opts.Photon
	pc.Photons = o.Photons
	pc.Neighbors = o.Neighbors
	pc.Kernel = kernel
	pc.Mode = mode
	pc.NextEvent = !o.NoNextEvent
	pc.SameSurface = !o.AnySurface
	pc.PhotonBounces = o.PhotonBounces
	pc.Seed = o.Seed
	// Split mode branches at every hit, so it keeps its own limit unless one is given
	if o.MaxBounces >= 0 || mode == integrator.RouletteMode {
		pc.MaxBounces = o.MaxBounces
	}
	switch {
	case o.PhotonRadius != 0:
		pc.Radius = o.PhotonRadius
	case s.PhotonRadius > 0:
		pc.Radius = s.PhotonRadius
	}
	return opts, nil
}

func run(ctx context.Context, o options, stdout io.Writer) error {
	if o.ListScenes {
		for _, group := range scene.ListAllScenes().Groups {
			fmt.Fprintf(stdout, "%s:\n", group.Name)
			for _, info := range group.Scenes {
				fmt.Fprintf(stdout, "  %-12s %s\n", info.ID, info.Description)
			}
		}
		return nil
	}

	if o.CPUProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(o.CPUProfile), profile.Quiet).Stop()
	}

	logger := renderer.NewDefaultLogger()
	if o.Quiet {
		logger = core.NopLogger{}
	}

	s, err := scene.Load(o.Scene)
	if err != nil {
		return err
	}

	cfg, err := o.renderConfig()
	if err != nil {
		return err
	}
	algorithm, err := integrator.ParseAlgorithm(o.Algorithm)
	if err != nil {
		return err
	}
	opts, err := o.integratorOptions(s)
	if err != nil {
		return err
	}
	in, err := integrator.New(algorithm, s, opts, logger)
	if err != nil {
		return err
	}

	var toneMapper renderer.ToneMapper
	if o.ToneMap != "" {
		if toneMapper, err = renderer.ParseToneMapper(o.ToneMap); err != nil {
			return err
		}
	}
	format := loaders.Format(o.Format)
	if o.Format != "" {
		if format, err = loaders.ParseFormat(o.Format); err != nil {
			return err
		}
	} else if format, err = loaders.FormatFromPath(o.Output); err != nil {
		return err
	}

	r := renderer.New(cfg, logger)
	if !o.Quiet {
		r.NewProgress = func(phase string) core.Progress {
			return renderer.NewTextProgressBar(os.Stdout, phase)
		}
	}

	logger.Printf("Scene %s: %d objects, %d lights, algorithm %s\n",
		s.Name, s.GetPrimitiveCount(), len(s.Lights), algorithm)
	img, renderErr := r.Render(ctx, s, in)
	if img == nil {
		return renderErr
	}
	if renderErr != nil {
		logger.Printf("Render interrupted (%v), saving partial image\n", renderErr)
	}

	if toneMapper != nil {
		img.ToneMap(toneMapper)
	}
	img.Resolution = o.Resolution

	if err := saveOutputs(o, img, format); err != nil {
		return errors.Join(renderErr, err)
	}
	logger.Printf("Render saved as %s\n", o.Output)
	return renderErr
}

func saveOutputs(o options, img *renderer.Image, format loaders.Format) error {
	if dir := filepath.Dir(o.Output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := loaders.SaveImage(o.Output, img, format); err != nil {
		return err
	}

	if o.Preview == "" {
		return nil
	}
	f, err := os.Create(o.Preview)
	if err != nil {
		return fmt.Errorf("creating preview: %w", err)
	}
	if err := png.Encode(f, loaders.Thumbnail(img, o.PreviewSize)); err != nil {
		f.Close()
		return fmt.Errorf("encoding preview: %w", err)
	}
	return f.Close()
}

func main() {
	o, err := parseOptions(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "renderer: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	if err := run(ctx, o, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "renderer: %v\n", err)
		stop()
		os.Exit(1)
	}
	if !o.Quiet && !o.ListScenes {
		fmt.Printf("Done in %v\n", time.Since(start).Round(time.Millisecond))
	}
}
