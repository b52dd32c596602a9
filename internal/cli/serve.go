package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netlayout/pkg/buildinfo"
	"github.com/matzehuels/netlayout/pkg/cache"
	"github.com/matzehuels/netlayout/pkg/colormap"
	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/observability"
	"github.com/matzehuels/netlayout/pkg/pipeline"
)

const (
	// maxBodyBytes bounds the size of a network description accepted over HTTP.
	maxBodyBytes = 16 << 20

	headerRequestID = "X-Request-ID"
	headerCache     = "X-Cache"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		noCache    bool
		cacheURL   string
		cacheScope string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Endpoints:
  GET  /healthz                  build information
  POST /v1/layout                body: network JSON (or YAML with ?input=yaml)
                                 query: format=json|csv, refresh, and
                                 max_depth, layer_spacing, layer_width,
                                 layer_height, heat_min, heat_max overrides
  GET  /v1/colormap?heat=h       single lookup
  GET  /v1/colormap?steps=n      legend

Configuration flags set the defaults that query parameters override.`,
		Args: cobra.NoArgs,
	}
	cfgFlags := addConfigFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := cfgFlags.resolve()
		if err != nil {
			return err
		}
		runner, err := c.newRunner(cmd.Context(), noCache, cacheURL)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()
		if cacheScope != "" {
			runner.Keyer = cache.NewScopedKeyer(runner.Keyer, cacheScope+":")
		}

		return c.runServer(cmd.Context(), addr, newServer(runner, cfg, c.Logger))
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&cacheScope, "cache-scope", "", "key prefix isolating this instance in a shared cache")
	cacheURLFlag(cmd, &cacheURL)
	return cmd
}

// runServer serves h on addr until ctx is cancelled, then shuts down gracefully.
func (c *CLI) runServer(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	c.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	c.Logger.Info("server stopped")
	return ctx.Err()
}

// =============================================================================
// HTTP API
// =============================================================================

type server struct {
	runner *pipeline.Runner
	config layout.Config
	logger *log.Logger
}

// newServer returns the HTTP handler for the layout API. cfg holds the
// defaults that query parameters override.
func newServer(runner *pipeline.Runner, cfg layout.Config, logger *log.Logger) http.Handler {
	s := &server{runner: runner, config: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Get("/colormap", s.handleColormap)
	})
	return r
}

type ctxRequestID struct{}

// requestID propagates the caller's X-Request-ID or assigns a new UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxRequestID{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID{}).(string)
	return id
}

// observe reports requests to the server hooks and logs them.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestIDFrom(r.Context())
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), id, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		d := time.Since(start)
		hooks.OnResponse(r.Context(), id, r.Method, r.URL.Path, ww.Status(), d)
		s.logger.Info("request", "id", id, "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", d)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := strings.ToLower(strings.TrimSpace(q.Get("format")))
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeErrorResponse(w, err)
		return
	}

	inputFormat := network.Format(strings.ToLower(q.Get("input")))
	if inputFormat == "" {
		inputFormat = inputFormatFromContentType(r.Header.Get("Content-Type"))
	}

	cfg, err := configFromQuery(s.config, q)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errors.ErrCodeMalformedInput, "request body too large")
			return
		}
		writeErrorResponse(w, errors.Wrap(errors.ErrCodeMalformedInput, err, "read body"))
		return
	}

	refresh, _ := strconv.ParseBool(q.Get("refresh"))
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Input:       body,
		InputFormat: inputFormat,
		Config:      cfg,
		Formats:     []string{format},
		Refresh:     refresh,
	})
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	if result.CacheInfo.LayoutHit {
		w.Header().Set(headerCache, "hit")
	} else {
		w.Header().Set(headerCache, "miss")
	}
	contentType := "application/json"
	if format == pipeline.FormatCSV {
		contentType = "text/csv; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *server) handleColormap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cfg, err := configFromQuery(s.config, q)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	m := cfg.Colormap()

	if v := q.Get("heat"); v != "" {
		heat, err := parseQueryFloat("heat", v)
		if err != nil {
			writeErrorResponse(w, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, colormap.Stop{Heat: heat, T: m.Normalize(heat), Color: m.At(heat)})
		return
	}

	steps := 9
	if v := q.Get("steps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2 || n > 1024 {
			writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidConfig, "steps must be an integer between 2 and 1024")
			return
		}
		steps = n
	}
	writeJSONResponse(w, http.StatusOK, m.Legend(steps))
}

// configFromQuery applies layout overrides from query parameters to base.
func configFromQuery(base layout.Config, q map[string][]string) (layout.Config, error) {
	cfg := base
	fields := []struct {
		name string
		dst  *float64
	}{
		{"max_depth", &cfg.MaxDepth},
		{"layer_spacing", &cfg.LayerSpacing},
		{"layer_width", &cfg.LayerWidth},
		{"layer_height", &cfg.LayerHeight},
		{"heat_min", &cfg.HeatMin},
		{"heat_max", &cfg.HeatMax},
	}
	for _, f := range fields {
		vals := q[f.name]
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		v, err := parseQueryFloat(f.name, vals[0])
		if err != nil {
			return layout.Config{}, err
		}
		*f.dst = v
	}
	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}

func parseQueryFloat(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s: invalid number %q", name, value)
	}
	return v, errors.ValidateFinite(name, v)
}

func inputFormatFromContentType(ct string) network.Format {
	if strings.Contains(ct, "yaml") {
		return network.FormatYAML
	}
	return network.FormatJSON
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// writeErrorResponse maps caller mistakes to 400 and everything else to 500.
func writeErrorResponse(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.IsClientError(err) {
		status = http.StatusBadRequest
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeError(w, status, code, errors.UserMessage(err))
}

func writeError(w http.ResponseWriter, status int, code errors.Code, message string) {
	writeJSONResponse(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func writeJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
