package renderer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/integrator"
	"github.com/df07/go-photon-renderer/pkg/lights"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// MockIntegrator returns a constant color and counts its calls
type MockIntegrator struct {
	returnColor   core.Vec3
	preprocessErr error
	calls         atomic.Int64
}

func (m *MockIntegrator) Preprocess(ctx context.Context, progress core.Progress) error {
	progress.Increment(1)
	return m.preprocessErr
}

func (m *MockIntegrator) RayColor(ray core.Ray, sampler core.Sampler) core.Vec3 {
	m.calls.Add(1)
	return m.returnColor
}

type recordingProgress struct {
	total   atomic.Int64 // In millionths
	stopped atomic.Int32
}

func (p *recordingProgress) Increment(delta float64) { p.total.Add(int64(delta*1e6 + 0.5)) }
func (p *recordingProgress) Stop()                   { p.stopped.Add(1) }

func loadScene(t *testing.T, id string) *scene.Scene {
	t.Helper()
	s, err := scene.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func smallConfig(width, height, ppp int) Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = width, height
	cfg.SamplesPerPixel = ppp
	cfg.Division = TaskDivision{RegionWidth: 5, RegionHeight: 3}
	cfg.NumWorkers = 3
	cfg.QueueSize = 4
	return cfg
}

func TestRenderWithMockIntegrator(t *testing.T) {
	mock := &MockIntegrator{returnColor: core.NewVec3(0.5, 1.5, 0.25)}
	r := New(smallConfig(23, 11, 4), nil)

	phases := map[string]*recordingProgress{}
	r.NewProgress = func(phase string) core.Progress {
		p := &recordingProgress{}
		phases[phase] = p
		return p
	}

	img, err := r.Render(context.Background(), loadScene(t, "sphere-box"), mock)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := mock.calls.Load(); got != 23*11*4 {
		t.Errorf("Expected %d integrator calls, got %d", 23*11*4, got)
	}
	for i := 0; i < img.Height; i++ {
		for j := 0; j < img.Width; j++ {
			if c := img.At(i, j); c != mock.returnColor {
				t.Fatalf("Pixel (%d,%d) = %v, want %v", i, j, c, mock.returnColor)
			}
		}
	}
	if img.MaxLuminance != 1.5 {
		t.Errorf("Expected max luminance 1.5, got %f", img.MaxLuminance)
	}
	if img.Partial {
		t.Error("Complete render should not be partial")
	}

	render := phases["render"]
	if render == nil || render.total.Load() < 999000 || render.total.Load() > 1001000 {
		t.Errorf("Expected render progress to reach 1, got %v", render)
	}
	for phase, p := range phases {
		if p.stopped.Load() != 1 {
			t.Errorf("Progress %q stopped %d times", phase, p.stopped.Load())
		}
	}
}

func TestRenderErrors(t *testing.T) {
	s := loadScene(t, "sphere-box")

	cfg := smallConfig(10, 10, 0)
	if _, err := New(cfg, nil).Render(context.Background(), s, &MockIntegrator{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for zero samples, got %v", err)
	}

	failing := errors.New("no photons")
	if _, err := New(smallConfig(10, 10, 1), nil).Render(context.Background(), s, &MockIntegrator{preprocessErr: failing}); !errors.Is(err, failing) {
		t.Errorf("Expected the preprocessing error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	img, err := New(smallConfig(10, 10, 1), nil).Render(ctx, s, &MockIntegrator{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if img == nil || !img.Partial {
		t.Error("Expected a partial image after cancellation")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"zero samples", func(c *Config) { c.SamplesPerPixel = 0 }},
		{"negative workers", func(c *Config) { c.NumWorkers = -2 }},
		{"zero queue", func(c *Config) { c.QueueSize = 0 }},
		{"negative region", func(c *Config) { c.Division.RegionWidth = -1 }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

// TestRenderSphereBoxDirectLight renders the sphere-box scene with a single
// bounce: every pixel must equal the shadow-ray estimate of what it sees
func TestRenderSphereBoxDirectLight(t *testing.T) {
	s := loadScene(t, "sphere-box")
	const size = 64

	cfg := smallConfig(size, size, 1)
	cfg.Jitter = false
	cfg.Division = TaskDivision{RegionWidth: 16, RegionHeight: 16}
	pt := integrator.NewPathTracingIntegrator(s, integrator.PathTracingConfig{MaxBounces: 1})

	img, err := New(cfg, nil).Render(context.Background(), s, pt)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	camera := NewCamera(s.Camera, size, size, 0)
	camera.Jitter = false

	red := 0
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			got := img.At(i, j)
			hit, ok := s.Hit(camera.GetRay(i, j))
			if !ok {
				if got != (core.Vec3{}) {
					t.Fatalf("Pixel (%d,%d) sees nothing but is %v", i, j, got)
				}
				continue
			}

			want := lights.CastShadowRays(s, s.Lights, hit.Point, hit.Normal, hit.Object.Material.Kd)
			if got.Subtract(want).Length() > 1e-9 {
				t.Fatalf("Pixel (%d,%d) = %v, want direct light %v", i, j, got, want)
			}
			if hit.Object.Name == "sphere" && got.X > 0 {
				if got.X <= got.Y || got.X <= got.Z {
					t.Errorf("Lit sphere pixel (%d,%d) should be red, got %v", i, j, got)
				}
				red++
			}
		}
	}

	if red == 0 {
		t.Error("Expected some directly lit sphere pixels")
	}
}

func TestCameraCenterRay(t *testing.T) {
	cam := NewCamera(scene.CameraConfig{
		Focus: core.NewVec3(1, 2, 3),
		Front: core.NewVec3(0, 0, 2),
		Up:    core.NewVec3(0, 1, 0),
	}, 2, 2, 7)
	cam.Jitter = false

	// The shared corner of the four pixels of a 2x2 image is the view axis;
	// pixel (0,0) sits up and to the left of it
	ray := cam.GetRay(0, 0)
	if ray.Origin != core.NewVec3(1, 2, 3) {
		t.Errorf("Rays should start at the focus, got %v", ray.Origin)
	}
	if ray.Direction.Y <= 0 || ray.Direction.X <= 0 || ray.Direction.Z <= 0 {
		t.Errorf("Top-left pixel should look up, left (+X) and forward, got %v", ray.Direction)
	}
	if l := ray.Direction.Length(); l < 0.999999 || l > 1.000001 {
		t.Errorf("Expected a unit direction, got length %f", l)
	}

	mirror := cam.GetRay(1, 1)
	if mirror.Direction.X != -ray.Direction.X || mirror.Direction.Y != -ray.Direction.Y {
		t.Errorf("Opposite pixels should be symmetric, got %v and %v", ray.Direction, mirror.Direction)
	}
}

func TestCameraCloneHasOwnRandomSource(t *testing.T) {
	cam := NewCamera(scene.CameraConfig{Front: core.NewVec3(0, 0, 1), Up: core.NewVec3(0, 1, 0)}, 10, 10, 1)
	a, b := cam.Clone(5), cam.Clone(5)
	c := cam.Clone(6)

	ra, rb, rc := a.GetRay(3, 3), b.GetRay(3, 3), c.GetRay(3, 3)
	if ra != rb {
		t.Error("Clones with the same seed should produce the same jitter")
	}
	if ra == rc {
		t.Error("Clones with different seeds should jitter differently")
	}
}
