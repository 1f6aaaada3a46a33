package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-pathcore/pkg/log"
	"github.com/df07/go-pathcore/pkg/renderer"
	"github.com/df07/go-pathcore/pkg/scene"
	"golang.org/x/xerrors"
)

// ErrStreamingUnsupported is returned when the response writer cannot flush events.
var ErrStreamingUnsupported = xerrors.New("streaming not supported")

// Server streams progressive renders of the built-in scenes over SSE
type Server struct {
	port    int
	workers int
	logger  log.Logger
}

// NewServer creates a new web server. Workers <= 0 uses one per CPU.
func NewServer(port, workers int) *Server {
	return &Server{port: port, workers: workers, logger: log.New("server")}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string `json:"scene"`      // Scene id (e.g., "cornell-box")
	Width      int    `json:"width"`      // Image width
	Height     int    `json:"height"`     // Image height
	Iterations int    `json:"iterations"` // Samples per pixel, one per pass
	MaxDepth   int    `json:"maxDepth"`   // Maximum bounces per path
	Every      int    `json:"every"`      // Send an image every this many iterations
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	Iteration       int    `json:"iteration"`
	TotalIterations int    `json:"totalIterations"`
	ImageData       string `json:"imageData"` // Base64 encoded PNG
	IsComplete      bool   `json:"isComplete"`
	ElapsedMs       int64  `json:"elapsedMs"`
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Noticef("starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	return mux
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		s.logger.Warningf("health response failed: %v", err)
	}
}

// sceneEntry is the JSON form of a built-in scene
type sceneEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	entries := []sceneEntry{}
	for _, info := range scene.ListScenes() {
		entries = append(entries, sceneEntry{ID: info.ID, Name: info.DisplayName, Description: info.Description})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		s.logger.Warningf("scene list response failed: %v", err)
	}
}

// handleRender handles progressive rendering requests with SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sc, err := scene.Load(req.Scene)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	config := renderer.DefaultConfig(sc)
	config.Width, config.Height = req.Width, req.Height
	config.Integrator.MaxDepth = req.MaxDepth
	config.Integrator.Workers = s.workers

	rt, err := renderer.NewRenderer(sc, config)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	// Use request context to detect client disconnection
	ctx := r.Context()
	startTime := time.Now()

	var sendErr error
	rt.OnIteration = func(iteration int, film *renderer.Film) {
		last := iteration == req.Iterations-1
		if sendErr != nil || (!last && (iteration+1)%req.Every != 0) {
			return
		}

		img, err := film.Image(ctx, s.workers)
		if err != nil {
			sendErr = err
			return
		}
		imageData, err := imageToBase64PNG(img)
		if err != nil {
			sendErr = xerrors.Errorf("failed to encode image: %w", err)
			return
		}

		sendErr = s.sendSSEUpdate(w, ProgressUpdate{
			Iteration:       iteration + 1,
			TotalIterations: req.Iterations,
			ImageData:       imageData,
			IsComplete:      last,
			ElapsedMs:       time.Since(startTime).Milliseconds(),
		})
	}

	if _, err := rt.Render(ctx, req.Iterations); err != nil {
		s.logger.Warningf("render of %q stopped: %v", req.Scene, err)
		s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
		return
	}
	if sendErr != nil {
		s.logger.Warningf("streaming %q failed: %v", req.Scene, sendErr)
		return
	}

	if err := s.sendSSEEvent(w, "complete", "Rendering completed"); err != nil {
		s.logger.Warningf("completing %q failed: %v", req.Scene, err)
	}
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "cornell-box"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Iterations, err = parseIntParam(values, "iterations", 64, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", 8, 1, 64); err != nil {
		return nil, err
	}
	if req.Every, err = parseIntParam(values, "every", 8, 1, 10000); err != nil {
		return nil, err
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, xerrors.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, xerrors.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEUpdate sends a progress update via SSE
func (s *Server) sendSSEUpdate(w http.ResponseWriter, update ProgressUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "progress", string(data))
}

// sendSSEError sends an error via SSE, logging a failed send
func (s *Server) sendSSEError(w http.ResponseWriter, message string) {
	if err := s.sendSSEEvent(w, "error", message); err != nil {
		s.logger.Warningf("dropped error event %q: %v", message, err)
	}
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return ErrStreamingUnsupported
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return xerrors.Errorf("write %s event: %w", event, err)
	}
	flusher.Flush()
	return nil
}
