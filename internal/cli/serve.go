package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/packsmith-dev/packsmith/pkg/assetpack"
	"github.com/packsmith-dev/packsmith/pkg/cache"
	"github.com/packsmith-dev/packsmith/pkg/render/taggraph"
)

// serveCommand creates the serve command for browsing a pack over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve [archive]",
		Short: "Browse a pack over HTTP",
		Long: `Browse a pack over HTTP.

The archive is decoded once at startup and served read-only:

  GET /meta       pack metadata
  GET /version    engine version record
  GET /tags       tag index
  GET /files      file listing
  GET /files/*    file payload
  GET /graph.svg  rendered tag graph

The rendered graph is cached by archive content hash. Point several
instances at the same Redis with --redis to share that cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := resolvePackPath(args[0])
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), input, addr, noCache, redisAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8321", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "use a Redis artifact cache at host:port")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string, noCache bool, redisAddr string) error {
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	pack, err := assetpack.Read(bytes.NewReader(raw), assetpack.Options{Logger: c.Logger})
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	store, err := newCache(ctx, noCache, redisAddr)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	srv := &packServer{
		pack:     pack,
		packHash: cache.Hash(raw),
		cache:    store,
		logger:   c.Logger,
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving pack", "name", pack.Meta.Name, "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// packServer serves one decoded pack read-only.
type packServer struct {
	pack     *assetpack.Pack
	packHash string
	cache    cache.Cache
	logger   *log.Logger
}

func (s *packServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/meta", s.handleMeta)
	r.Get("/version", s.handleVersion)
	r.Get("/tags", s.handleTags)
	r.Get("/files", s.handleFiles)
	r.Get("/files/*", s.handleFile)
	r.Get("/graph.svg", s.handleGraph)

	return r
}

// requestLogger tags each request with an ID and logs its outcome.
func (s *packServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

func (s *packServer) handleMeta(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.pack.Meta)
}

func (s *packServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"godot_version": s.pack.Version.String()})
}

func (s *packServer) handleTags(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.pack.Tags)
}

func (s *packServer) handleFiles(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string][]string{
		"object_files": sortedKeys(s.pack.ObjectFiles),
		"other_files":  sortedKeys(s.pack.OtherFiles),
	})
}

func (s *packServer) handleFile(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")

	data, ok := s.pack.ObjectFiles[rel]
	if !ok {
		data, ok = s.pack.OtherFiles[rel]
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	if ct := mime.TypeByExtension(path.Ext(rel)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	_, _ = w.Write(data)
}

func (s *packServer) handleGraph(w http.ResponseWriter, r *http.Request) {
	showFiles := r.URL.Query().Get("files") == "true"
	key := cache.ArtifactKey(s.packHash, cache.ArtifactKeyOpts{Format: formatSVG, ShowFiles: showFiles})

	ctx := r.Context()
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(data)
		return
	}

	dot := taggraph.ToDOT(s.pack.Tags, taggraph.Options{ShowFiles: showFiles})
	svg, err := taggraph.RenderSVG(dot)
	if err != nil {
		s.logger.Error("render graph", "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	if err := s.cache.Set(ctx, key, svg, cache.TTLArtifact); err != nil {
		s.logger.Debug("cache artifact", "err", err)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *packServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}
