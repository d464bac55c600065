package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string         // Scene ID (e.g., "default", "ply:meshes/bunny.ply")
	Width    int            // Image width
	Height   int            // Image height
	FOV      float64        // Vertical field of view in degrees
	MaxDepth *int           // Maximum recursion depth; nil keeps the scene's own
	Legacy   bool           // Historical per-light shading
	Format   imageio.Format // Output encoding
}

// Stats represents render statistics
type Stats struct {
	TotalPixels   int   `json:"totalPixels"`
	PrimaryRays   int64 `json:"primaryRays"`
	SecondaryRays int64 `json:"secondaryRays"`
	ShadowRays    int64 `json:"shadowRays"`
	Workers       int   `json:"workers"`
	DurationMs    int64 `json:"durationMs"`
}

// ProgressUpdate is sent via SSE after tiles complete
type ProgressUpdate struct {
	TilesDone  int `json:"tilesDone"`
	TotalTiles int `json:"totalTiles"`
	Percent    int `json:"percent"`
}

// CompleteUpdate is the final SSE event of a streamed render
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// handleRender renders a scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	fb, stats, err := s.render(r.Context(), req, nil)
	if err != nil {
		s.writeRenderError(w, req, err)
		return
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, fb, req.Format); err != nil {
		logger.Errorf("Encoding %s failed: %v", req.Format, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Infof("Rendered %s at %dx%d in %v", req.Scene, req.Width, req.Height, stats.Duration)
	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderStream renders a scene and streams progress via SSE
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	s.setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEEvent(w, flusher, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	webLogger := NewWebLogger(func(msg ConsoleMessage) {
		s.sendSSEJSON(w, flusher, "console", msg)
	})

	startTime := time.Now()
	lastPercent := -1
	progress := func(done, total int) {
		percent := done * 100 / total
		if percent == lastPercent {
			return
		}
		lastPercent = percent
		s.sendSSEJSON(w, flusher, "progress", ProgressUpdate{TilesDone: done, TotalTiles: total, Percent: percent})
	}

	webLogger.Infof("Rendering %s at %dx%d", req.Scene, req.Width, req.Height)
	fb, stats, err := s.render(r.Context(), req, progress)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Infof("Client disconnected during %s render", req.Scene)
			return
		}
		webLogger.Errorf("Render failed: %v", err)
		s.sendSSEEvent(w, flusher, "error", err.Error())
		return
	}

	imageData, err := imageToBase64PNG(fb)
	if err != nil {
		s.sendSSEEvent(w, flusher, "error", fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	webLogger.Infof("Render completed in %v", stats.Duration.Round(time.Millisecond))
	s.sendSSEJSON(w, flusher, "complete", CompleteUpdate{
		ImageData: imageData,
		Stats:     toStats(stats),
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// render builds the requested scene and renders it, honoring ctx cancellation
func (s *Server) render(ctx context.Context, req *RenderRequest, progress func(done, total int)) (*renderer.FrameBuffer, renderer.RenderStats, error) {
	sceneObj, err := s.sceneForRequest(req)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	options := renderer.DefaultOptions()
	options.LegacyLastLight = req.Legacy
	options.Progress = progress

	raytracer, err := renderer.NewRaytracer(sceneObj, options)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return raytracer.Render(ctx)
}

// sceneForRequest builds the requested scene with the request's overrides applied
func (s *Server) sceneForRequest(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.createScene(req.Scene, scene.Config{
		Width:  req.Width,
		Height: req.Height,
		FOV:    req.FOV,
	})
	if err != nil {
		return nil, err
	}
	// Merging treats zero as unset, so an explicit depth is applied directly
	if req.MaxDepth != nil {
		sceneObj.MaxDepth = *req.MaxDepth
	}
	return sceneObj, nil
}

func (s *Server) writeRenderError(w http.ResponseWriter, req *RenderRequest, err error) {
	switch {
	case errors.Is(err, scene.ErrUnknownScene):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, scene.ErrInvalidConfig), errors.Is(err, renderer.ErrInvalidDimensions):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		logger.Infof("Client disconnected during %s render", req.Scene)
	default:
		logger.Errorf("Render of %s failed: %v", req.Scene, err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 640, 1, 4096); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 480, 1, 4096); err != nil {
		return nil, err
	}
	if query.Has("maxDepth") {
		depth, err := parseIntParam(query, "maxDepth", 0, 0, 64)
		if err != nil {
			return nil, err
		}
		req.MaxDepth = &depth
	}
	if req.FOV, err = parseFloatParam(query, "fov", 0, 0, 179); err != nil {
		return nil, err
	}

	req.Legacy = query.Get("legacy") == "true" || query.Get("legacy") == "1"

	req.Format = imageio.PNG
	if name := query.Get("format"); name != "" {
		if req.Format, err = imageio.ParseFormat(name); err != nil {
			return nil, err
		}
	}

	return req, nil
}

func toStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:   stats.Pixels,
		PrimaryRays:   stats.Rays.Primary,
		SecondaryRays: stats.Rays.Secondary,
		ShadowRays:    stats.Rays.Shadow,
		Workers:       stats.Workers,
		DurationMs:    stats.Duration.Milliseconds(),
	}
}

// imageToBase64PNG converts a frame buffer to base64-encoded PNG
func imageToBase64PNG(fb *renderer.FrameBuffer) (string, error) {
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, fb, imageio.PNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEJSON sends v as the JSON payload of an SSE event
func (s *Server) sendSSEJSON(w http.ResponseWriter, flusher http.Flusher, event string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Errorf("Encoding %s event failed: %v", event, err)
		return
	}
	s.sendSSEEvent(w, flusher, event, string(data))
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
