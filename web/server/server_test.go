package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, NewServer(0, ""), "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bunny.ply"), []byte("ply\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := get(t, NewServer(0, dir), "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response scene.ScenesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and PLY groups, got %d", len(response.Groups))
	}
	if response.Groups[0].Name != scene.BuiltInGroup || len(response.Groups[0].Scenes) != len(scene.ListBuiltInScenes()) {
		t.Errorf("Unexpected built-in group %+v", response.Groups[0])
	}
	if got := response.Groups[1].Scenes[0].ID; got != "ply:"+filepath.Join(dir, "bunny.ply") {
		t.Errorf("Unexpected PLY scene ID %q", got)
	}
}

func TestHandleRenderPPM(t *testing.T) {
	rec := get(t, NewServer(0, ""), "/api/render?scene=empty&width=4&height=3&format=ppm")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/x-portable-pixmap" {
		t.Errorf("Unexpected content type %q", ct)
	}

	expected := []byte("P6\n4 3\n255\n")
	for i := 0; i < 12; i++ {
		expected = append(expected, 59, 172, 214)
	}
	if !bytes.Equal(rec.Body.Bytes(), expected) {
		t.Errorf("Unexpected body %v", rec.Body.Bytes())
	}
}

func TestHandleRenderPNG(t *testing.T) {
	rec := get(t, NewServer(0, ""), "/api/render?scene=default&width=16&height=12")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("Expected a PNG body")
	}
}

func TestSceneForRequestMaxDepth(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expected int
	}{
		{"scene default", "/api/render?scene=mirror&width=4&height=4", scene.DefaultConfig().MaxDepth},
		{"explicit zero", "/api/render?scene=mirror&width=4&height=4&maxDepth=0", 0},
		{"explicit value", "/api/render?scene=mirror&width=4&height=4&maxDepth=3", 3},
	}

	s := NewServer(0, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := s.parseRenderRequest(httptest.NewRequest(http.MethodGet, tt.target, nil))
			if err != nil {
				t.Fatalf("parseRenderRequest failed: %v", err)
			}
			sc, err := s.sceneForRequest(req)
			if err != nil {
				t.Fatalf("sceneForRequest failed: %v", err)
			}
			if sc.MaxDepth != tt.expected {
				t.Errorf("Expected max depth %d, got %d", tt.expected, sc.MaxDepth)
			}
		})
	}

	rec := get(t, s, "/api/render?scene=mirror&width=4&height=4&maxDepth=0&format=ppm")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for maxDepth=0, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleRenderErrors(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(t.TempDir(), "secret.ply")

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown scene", "/api/render?scene=nope&width=4&height=4", http.StatusNotFound},
		{"width out of range", "/api/render?scene=empty&width=0", http.StatusBadRequest},
		{"height not a number", "/api/render?scene=empty&height=tall", http.StatusBadRequest},
		{"maxDepth out of range", "/api/render?scene=empty&width=4&height=4&maxDepth=65", http.StatusBadRequest},
		{"unsupported format", "/api/render?scene=empty&width=4&height=4&format=gif", http.StatusBadRequest},
		{"ply outside scene dir", "/api/render?scene=ply:" + outside + "&width=4&height=4", http.StatusNotFound},
		{"pbrt outside scene dir", "/api/render?scene=pbrt:" + outside + "&width=4&height=4", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, NewServer(0, dir), tt.target)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), "error") {
				t.Errorf("Expected an error body, got %s", rec.Body.String())
			}
		})
	}
}

func TestHandleRenderStream(t *testing.T) {
	rec := get(t, NewServer(0, ""), "/api/render/stream?scene=plane&width=40&height=30")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Unexpected content type %q", ct)
	}
	body := rec.Body.String()
	for _, event := range []string{"event: console", "event: progress", "event: complete"} {
		if !strings.Contains(body, event) {
			t.Errorf("Stream missing %q", event)
		}
	}
	if strings.Contains(body, "event: error") {
		t.Errorf("Unexpected error event:\n%s", body)
	}
	if !strings.Contains(body, `"percent":100`) {
		t.Error("Expected a final 100% progress event")
	}
}

func TestHandleInspect(t *testing.T) {
	s := NewServer(0, "")

	t.Run("hit", func(t *testing.T) {
		// The center ray of the default scene meets the glass sphere
		rec := get(t, s, "/api/inspect?scene=default&width=5&height=5&x=2&y=2")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var response InspectResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if !response.Hit || response.GeometryType != "sphere" || response.MaterialType != "glass" {
			t.Errorf("Unexpected response %+v", response)
		}
		if !response.FrontFace || response.Distance <= 0 {
			t.Errorf("Expected a front-face hit at positive distance, got %+v", response)
		}
	})

	t.Run("miss", func(t *testing.T) {
		rec := get(t, s, "/api/inspect?scene=empty&width=5&height=5&x=0&y=0")
		var response InspectResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if response.Hit {
			t.Error("Expected no hit in the empty scene")
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		rec := get(t, s, "/api/inspect?scene=default&width=5&height=5&x=5&y=0")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestWebLoggerForwards(t *testing.T) {
	var messages []ConsoleMessage
	wl := NewWebLogger(func(msg ConsoleMessage) { messages = append(messages, msg) })

	wl.Infof("rendering %s", "plane")
	wl.Warningf("slow")
	wl.Debugf("not forwarded")

	if len(messages) != 2 {
		t.Fatalf("Expected 2 forwarded messages, got %d", len(messages))
	}
	if messages[0].Message != "rendering plane" || messages[0].Level != "info" {
		t.Errorf("Unexpected first message %+v", messages[0])
	}
	if messages[1].Level != "warning" {
		t.Errorf("Unexpected level %q", messages[1].Level)
	}
}
