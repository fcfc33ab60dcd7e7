package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/integrator"
	"github.com/df07/go-photon-renderer/pkg/loaders"
	"github.com/df07/go-photon-renderer/pkg/renderer"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "start", "console", "progress", "image", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// StartUpdate announces the job id and settings of a render
type StartUpdate struct {
	RenderID  string               `json:"renderId"`
	Scene     string               `json:"scene"`
	Algorithm integrator.Algorithm `json:"algorithm"`
	Width     int                  `json:"width"`
	Height    int                  `json:"height"`
}

// ProgressUpdate reports how far a render phase ("photons", "render") is
type ProgressUpdate struct {
	RenderID  string  `json:"renderId"`
	Phase     string  `json:"phase"`
	Fraction  float64 `json:"fraction"`
	ElapsedMs int64   `json:"elapsedMs"`
}

// ImageUpdate carries the finished image
type ImageUpdate struct {
	RenderID     string  `json:"renderId"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	MaxLuminance float64 `json:"maxLuminance"` // Before tone mapping
	ElapsedMs    int64   `json:"elapsedMs"`
	ImageData    string  `json:"imageData"` // Base64 encoded PNG
}

// progressStep is the smallest fraction change that produces a progress event
const progressStep = 0.01

// handleRender renders a built-in scene, streaming console lines and
// progress via SSE and finishing with the PNG image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()
	renderID := uuid.NewString()

	// Single SSE writer; every sender has finished before events is closed
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	s.sendJSON(ctx, sseEventChan, "start", StartUpdate{
		RenderID:  renderID,
		Scene:     req.Scene,
		Algorithm: req.Algorithm,
		Width:     req.Width,
		Height:    req.Height,
	})

	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	webLogger := NewWebLogger(renderID, consoleChan)

	startTime := time.Now()
	img, err := s.render(ctx, req, webLogger, func(phase string) core.Progress {
		return &sseProgress{
			ctx:      ctx,
			events:   sseEventChan,
			renderID: renderID,
			phase:    phase,
			start:    startTime,
		}
	})
	close(consoleChan)
	<-consoleDone

	if err != nil {
		if ctx.Err() != nil {
			// Client disconnected
			return
		}
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	update, err := s.imageUpdate(img, req, renderID, startTime)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Encoding failed: %v", err))
		return
	}
	s.sendJSON(ctx, sseEventChan, "image", update)

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// render loads the scene of req and renders it with the requested algorithm
func (s *Server) render(ctx context.Context, req *RenderRequest, logger core.Logger, progress func(string) core.Progress) (*renderer.Image, error) {
	sceneObj, err := scene.Load(req.Scene)
	if err != nil {
		return nil, err
	}

	in, err := integrator.New(req.Algorithm, sceneObj, req.integratorOptions(sceneObj), logger)
	if err != nil {
		return nil, err
	}

	logger.Printf("Scene %s: %d objects, %d lights, algorithm %s\n",
		sceneObj.Name, sceneObj.GetPrimitiveCount(), len(sceneObj.Lights), req.Algorithm)

	r := renderer.New(req.renderConfig(), logger)
	r.NewProgress = progress
	return r.Render(ctx, sceneObj, in)
}

// imageUpdate tone maps img and encodes it for the client
func (s *Server) imageUpdate(img *renderer.Image, req *RenderRequest, renderID string, startTime time.Time) (ImageUpdate, error) {
	update := ImageUpdate{
		RenderID:     renderID,
		Width:        img.Width,
		Height:       img.Height,
		MaxLuminance: img.MaxLuminance,
	}

	toneMapper, err := renderer.ParseToneMapper(req.ToneMap)
	if err != nil {
		return update, err
	}
	img.ToneMap(toneMapper)

	var buf bytes.Buffer
	if req.Preview > 0 {
		thumb := loaders.Thumbnail(img, req.Preview)
		update.Width, update.Height = thumb.Bounds().Dx(), thumb.Bounds().Dy()
		err = png.Encode(&buf, thumb)
	} else {
		err = loaders.Encode(&buf, img, loaders.FormatPNG)
	}
	if err != nil {
		return update, err
	}

	update.ImageData = base64.StdEncoding.EncodeToString(buf.Bytes())
	update.ElapsedMs = time.Since(startTime).Milliseconds()
	return update, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	failed := false
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if failed {
				// Keep draining so senders never block on a dead stream
				continue
			}

			// Check if client is still connected before writing
			select {
			case <-ctx.Done():
				return
			default:
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				failed = true
				continue
			}
			if flusher != nil {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		if !s.sendJSON(ctx, sseEventChan, "console", consoleMsg) {
			return
		}
	}
}

// sendJSON marshals v into an event of type eventType. It reports false once
// the client is gone.
func (s *Server) sendJSON(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return true
	}

	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(data)}:
		return true
	case <-ctx.Done():
		return false
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}

// sseProgress implements core.Progress by emitting progress events. Render
// workers call Increment concurrently.
type sseProgress struct {
	ctx      context.Context
	events   chan<- SSEEvent
	renderID string
	phase    string
	start    time.Time

	mu       sync.Mutex
	done     float64
	reported float64
	stopped  bool
}

func (p *sseProgress) update() ProgressUpdate {
	return ProgressUpdate{
		RenderID:  p.renderID,
		Phase:     p.phase,
		Fraction:  min(p.done, 1),
		ElapsedMs: time.Since(p.start).Milliseconds(),
	}
}

// Increment implements core.Progress; events are dropped while the writer is busy
func (p *sseProgress) Increment(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done += delta
	if p.stopped || p.done-p.reported < progressStep {
		return
	}
	p.reported = p.done

	data, err := json.Marshal(p.update())
	if err != nil {
		return
	}
	select {
	case p.events <- SSEEvent{Type: "progress", Data: string(data)}:
	default:
	}
}

// Stop implements core.Progress by sending the final fraction of the phase
func (p *sseProgress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true

	data, err := json.Marshal(p.update())
	if err != nil {
		return
	}
	select {
	case p.events <- SSEEvent{Type: "progress", Data: string(data)}:
	case <-p.ctx.Done():
	}
}

