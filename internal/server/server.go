package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"portfolio/internal/app"
	"portfolio/internal/ratelimit"
	"portfolio/internal/util"
	"portfolio/pkg/cache"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App

	// Cache stores rendered responses; nil disables response caching.
	Cache   cache.Cache
	PageTTL time.Duration
	APITTL  time.Duration

	Site    Site
	Debug   bool
	Hosts   []string
	Limiter ratelimit.Limiter
	Proxies *util.TrustedProxies
	Checks  map[string]HealthCheck
}

// Server exposes the portfolio page, the read API, the resume download and media.
type Server struct {
	app     *app.App
	cache   cache.Cache
	flight  singleflight.Group
	tmpl    *template.Template
	site    Site
	hosts   []string
	limiter ratelimit.Limiter
	proxies *util.TrustedProxies
	checks  map[string]HealthCheck
	mux     *http.ServeMux
	pageTTL time.Duration
	apiTTL  time.Duration
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("app required")
	}
	s := &Server{
		app:     cfg.App,
		cache:   cfg.Cache,
		site:    cfg.Site,
		limiter: cfg.Limiter,
		proxies: cfg.Proxies,
		checks:  cfg.Checks,
		mux:     http.NewServeMux(),
		pageTTL: cfg.PageTTL,
		apiTTL:  cfg.APITTL,
	}
	if !cfg.Debug {
		s.hosts = cfg.Hosts
	}
	tmpl, err := s.parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.tmpl = tmpl
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("portfolio",
		util.WithSecurityHeaders(util.WithCORS(util.WithAllowedHosts(s.hosts, s.withRateLimit(s.mux))))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.Handle("GET /{$}", s.cached(s.pageTTL, s.handleHome))
	s.mux.HandleFunc("GET /download-resume/{$}", s.handleDownloadResume)
	s.mux.HandleFunc("GET /media/{key...}", s.handleMedia)

	// api
	s.mux.Handle("GET /api/personal-info/{$}", s.cached(s.apiTTL, s.handlePersonalInfo))
	s.mux.Handle("GET /api/experiences/{$}", s.cached(s.apiTTL, s.handleExperiences))
	s.mux.Handle("GET /api/skills/{$}", s.cached(s.apiTTL, s.handleSkills))
	s.mux.Handle("GET /api/projects/{$}", s.cached(s.apiTTL, s.handleProjects))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	status := http.StatusOK
	checks := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			util.LoggerFromContext(ctx).Warn("health check failed", "check", name, "err", err)
			checks[name] = "error"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	writeJSON(w, status, map[string]any{"status": overall, "checks": checks})
}

func (s *Server) handlePersonalInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.app.PersonalInfo(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleExperiences(w http.ResponseWriter, r *http.Request) {
	items, err := s.app.Experiences(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"experiences": items})
}

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	items, err := s.app.SkillCategories(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skill_categories": items})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	items, err := s.app.FeaturedProjects(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": items})
}

func (s *Server) handleDownloadResume(w http.ResponseWriter, r *http.Request) {
	resume, err := s.app.Resume(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	defer resume.Object.Reader.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+quoteFilename(resume.Filename)+`"`)
	if resume.Object.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(resume.Object.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resume.Object.Reader); err != nil {
		util.LoggerFromContext(r.Context()).Warn("resume stream interrupted", "err", err)
	}
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	obj, err := s.app.OpenMedia(r.Context(), key)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	defer obj.Reader.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(path.Ext(key)))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if obj.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	if !obj.ModTime.IsZero() {
		w.Header().Set("Last-Modified", obj.ModTime.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Reader); err != nil {
		util.LoggerFromContext(r.Context()).Warn("media stream interrupted", "key", key, "err", err)
	}
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		if !s.limiter.Allow(r.Context(), util.ClientIP(r, s.proxies)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// quoteFilename strips characters that would break the quoted header value.
func quoteFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, name)
}
