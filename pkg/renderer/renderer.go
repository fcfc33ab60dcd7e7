package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/integrator"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// ErrInvalidConfig is wrapped by every configuration error
var ErrInvalidConfig = core.ErrInvalidConfig

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Config contains the settings of one render
type Config struct {
	Width           int          `yaml:"width"`
	Height          int          `yaml:"height"`
	SamplesPerPixel int          `yaml:"ppp"`
	Division        TaskDivision `yaml:"-"`
	NumWorkers      int          `yaml:"workers"`    // 0 = use CPU count
	QueueSize       int          `yaml:"queue_size"` // Capacity of the task queue
	Seed            int64        `yaml:"seed"`
	Jitter          bool         `yaml:"jitter"` // Random ray positions inside each pixel
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          400,
		SamplesPerPixel: 50,
		Division:        TaskDivision{RegionWidth: 16, RegionHeight: 16},
		NumWorkers:      0,
		QueueSize:       100,
		Seed:            1,
		Jitter:          true,
	}
}

// Validate rejects settings a render cannot start with
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.Division.RegionWidth < 0 || c.Division.RegionHeight < 0:
		return fmt.Errorf("%w: region size cannot be negative, got %s", ErrInvalidConfig, c.Division)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: worker count cannot be negative, got %d", ErrInvalidConfig, c.NumWorkers)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	}
	return nil
}

// Renderer drives the preprocessing and image phases of an integrator
type Renderer struct {
	config Config
	logger core.Logger

	// NewProgress creates the progress sink of a phase ("photons", "render").
	// Nil disables progress reporting.
	NewProgress func(phase string) core.Progress
}

// New creates a renderer; a nil logger discards messages
func New(config Config, logger core.Logger) *Renderer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Renderer{config: config, logger: logger}
}

func (r *Renderer) progress(phase string) core.Progress {
	if r.NewProgress == nil {
		return core.NopProgress{}
	}
	return r.NewProgress(phase)
}

// Render preprocesses in and renders s into a new image. When the render
// fails or is cancelled after pixels were written, the unfinished image is
// returned with Partial set together with the error.
func (r *Renderer) Render(ctx context.Context, s *scene.Scene, in integrator.Integrator) (*Image, error) {
	cfg := r.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	pre := r.progress("photons")
	err := in.Preprocess(ctx, pre)
	pre.Stop()
	if err != nil {
		return nil, fmt.Errorf("preprocessing: %w", err)
	}

	img := NewImage(cfg.Width, cfg.Height)
	camera := NewCamera(s.Camera, cfg.Width, cfg.Height, cfg.Seed)
	camera.Jitter = cfg.Jitter

	regionWidth, regionHeight := cfg.Division.Region(cfg.Width, cfg.Height)
	divider := NewTaskDivider(cfg.Width, cfg.Height, regionWidth, regionHeight)
	pool := NewWorkerPool(cfg.NumWorkers, cfg.QueueSize)

	r.logger.Printf("Rendering %s at %dx%d, %d samples per pixel, %d tasks on %d workers...\n",
		s.Name, cfg.Width, cfg.Height, cfg.SamplesPerPixel, divider.Count(), pool.GetNumWorkers())

	progress := r.progress("render")
	pixelShare := 1 / float64(img.Pixels())
	err = pool.Run(ctx, divider, func(id int) TaskFunc {
		worker := &pixelWorker{
			camera:     camera.Clone(workerSeed(cfg.Seed, id, 0)),
			sampler:    core.NewSeededSampler(workerSeed(cfg.Seed, id, 1)),
			integrator: in,
			image:      img,
			samples:    cfg.SamplesPerPixel,
		}
		return func(task Task) error {
			worker.render(task)
			progress.Increment(float64(task.Area()) * pixelShare)
			return nil
		}
	})
	progress.Stop()

	img.UpdateLuminance()
	if err != nil {
		img.Partial = true
		return img, fmt.Errorf("render: %w", err)
	}

	r.logger.Printf("Render completed in %v (max luminance %.4g)\n", time.Since(start), img.MaxLuminance)
	return img, nil
}

// workerSeed derives independent seeds for the camera and Monte-Carlo
// sources of every worker
func workerSeed(base int64, worker, stream int) int64 {
	return base*1000003 + int64(2*worker+stream) + 1
}

// pixelWorker holds the private state of one render worker
type pixelWorker struct {
	camera     *Camera
	sampler    core.Sampler
	integrator integrator.Integrator
	image      *Image
	samples    int
}

// render writes the averaged estimate of every pixel of task
func (w *pixelWorker) render(task Task) {
	b := task.Bounds
	for i := b.Min.Y; i < b.Max.Y; i++ {
		for j := b.Min.X; j < b.Max.X; j++ {
			var sum core.Vec3
			for s := 0; s < w.samples; s++ {
				sum = sum.Add(w.integrator.RayColor(w.camera.GetRay(i, j), w.sampler))
			}
			w.image.Set(i, j, sum.Multiply(1/float64(w.samples)))
		}
	}
}
