package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-photon-renderer/pkg/integrator"
	"github.com/df07/go-photon-renderer/pkg/photonmap"
	"github.com/df07/go-photon-renderer/pkg/renderer"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// Server handles web requests for the photon renderer
type Server struct {
	port      int
	staticDir string
}

// NewServer creates a new web server. Static files are served from
// staticDir when it is not empty.
func NewServer(port int, staticDir string) *Server {
	return &Server{port: port, staticDir: staticDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string               `json:"scene"`
	Algorithm       integrator.Algorithm `json:"algorithm"`
	Width           int                  `json:"width"`
	Height          int                  `json:"height"`
	SamplesPerPixel int                  `json:"ppp"`
	MaxBounces      int                  `json:"maxBounces"` // -1 = Russian roulette only
	Seed            int64                `json:"seed"`
	ToneMap         string               `json:"toneMap"`
	Preview         uint                 `json:"preview"` // Longest side of the returned image, 0 = full size

	Photons   int                   `json:"photons"`
	Radius    float64               `json:"radius"` // 0 = scene preference
	Neighbors int                   `json:"neighbors"`
	Kernel    photonmap.Kernel      `json:"kernel"`
	Mode      integrator.PhotonMode `json:"mode"`
}

// Parameter bounds of a render request
const (
	maxImageSide  = 2000
	maxSamples    = 10000
	maxPhotons    = 10000000
	maxNeighbors  = 1000000
	maxBounceStep = 512
)

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
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
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes by group
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(scene.ListAllScenes())
}

// parseRenderRequest parses and validates the query of a render request
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	q := r.URL.Query()
	defaults := integrator.DefaultPhotonConfig()
	req := &RenderRequest{
		Scene:   "cornell",
		ToneMap: q.Get("toneMap"),
		Kernel:  defaults.Kernel,
		Mode:    defaults.Mode,
	}
	if name := q.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Algorithm, err = integrator.ParseAlgorithm(q.Get("algorithm")); err != nil {
		return nil, err
	}
	if req.Width, err = parseIntParam(q, "width", 400, 1, maxImageSide); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(q, "height", 400, 1, maxImageSide); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(q, "ppp", 16, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxBounces, err = parseIntParam(q, "maxBounces", -1, -1, maxBounceStep); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(q, "seed", 1, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)
	preview, err := parseIntParam(q, "preview", 0, 0, maxImageSide)
	if err != nil {
		return nil, err
	}
	req.Preview = uint(preview)

	if req.Photons, err = parseIntParam(q, "photons", defaults.Photons, 1, maxPhotons); err != nil {
		return nil, err
	}
	if req.Neighbors, err = parseIntParam(q, "neighbors", defaults.Neighbors, 1, maxNeighbors); err != nil {
		return nil, err
	}
	if req.Radius, err = parseFloatParam(q, "radius", 0, 0, 100); err != nil {
		return nil, err
	}
	if name := q.Get("kernel"); name != "" {
		if req.Kernel, err = photonmap.ParseKernel(name); err != nil {
			return nil, err
		}
	}
	if name := q.Get("mode"); name != "" {
		if req.Mode, err = integrator.ParsePhotonMode(name); err != nil {
			return nil, err
		}
	}
	if req.ToneMap != "" {
		if _, err := renderer.ParseToneMapper(req.ToneMap); err != nil {
			return nil, err
		}
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.SamplesPerPixel > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// renderConfig converts the request into renderer settings
func (req *RenderRequest) renderConfig() renderer.Config {
	cfg := renderer.DefaultConfig()
	cfg.Width = req.Width
	cfg.Height = req.Height
	cfg.SamplesPerPixel = req.SamplesPerPixel
	cfg.Seed = req.Seed
	return cfg
}

// integratorOptions converts the request into integrator settings for s
func (req *RenderRequest) integratorOptions(s *scene.Scene) integrator.Options {
	opts := integrator.DefaultOptions()
	opts.PathTracing.MaxBounces = req.MaxBounces

	pc := &opts.Photon
	pc.Photons = req.Photons
	pc.Neighbors = req.Neighbors
	pc.Kernel = req.Kernel
	pc.Mode = req.Mode
	pc.Seed = req.Seed
	if req.MaxBounces >= 0 || req.Mode == integrator.RouletteMode {
		pc.MaxBounces = req.MaxBounces
	}
	switch {
	case req.Radius > 0:
		pc.Radius = req.Radius
	case s.PhotonRadius > 0:
		pc.Radius = s.PhotonRadius
	}
	return opts
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := strings.TrimSpace(values.Get(key)); value != "" {
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

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := strings.TrimSpace(values.Get(key)); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
