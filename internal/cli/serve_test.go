package cli

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/packsmith-dev/packsmith/pkg/assetpack"
	"github.com/packsmith-dev/packsmith/pkg/cache"
)

func testServer(t *testing.T) *packServer {
	t.Helper()

	pack := assetpack.New()
	pack.Meta = assetpack.PackMeta{Name: "Served", ID: "a1b2c3d4", Version: "1"}
	pack.ObjectFiles["textures/objects/barrel.png"] = []byte("barrel-bytes")
	pack.Tags.Tags["Containers"] = assetpack.NewStringSet("textures/objects/barrel.png")

	return &packServer{
		pack:     pack,
		packHash: "testhash",
		cache:    cache.NewNullCache(),
		logger:   log.New(io.Discard),
	}
}

func TestServeMeta(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/meta", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	var meta assetpack.PackMeta
	if err := json.Unmarshal(rec.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if meta.Name != "Served" {
		t.Errorf("Name = %q, want %q", meta.Name, "Served")
	}
}

func TestServeFiles(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/files", nil))

	var listing map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listing["object_files"]) != 1 {
		t.Errorf("object_files = %v, want one entry", listing["object_files"])
	}
}

func TestServeFilePayload(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/files/textures/objects/barrel.png", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "barrel-bytes" {
		t.Errorf("body = %q, want payload bytes", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
}

func TestServeFileNotFound(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/files/nope.png", nil))

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServeVersion(t *testing.T) {
	srv := testServer(t)
	srv.pack.Version = assetpack.GodotVersion{Version: 1, Major: 3, Minor: 1, Revision: 0}

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/version", nil))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["godot_version"] != "1.3.1.0" {
		t.Errorf("godot_version = %q, want 1.3.1.0", body["godot_version"])
	}
}
