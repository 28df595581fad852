// Package stub is a self-contained fake of every portal backend: auth,
// search, assets, amenities, maps, analytics and help pages. It backs
// cmd/portalstub and the HTTP client tests.
package stub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tunes the stub.
type Options struct {
	TokenTTL time.Duration
	// Latency is added to every search response.
	Latency time.Duration
}

// Server holds the stub's mutable state.
type Server struct {
	opts   Options
	secret []byte
	logger *zap.Logger

	mu        sync.Mutex
	refresh   map[string]string // refresh token -> username
	hits      map[string]int    // route pattern -> count
	analytics []json.RawMessage
}

// New creates a stub server. logger may be nil.
func New(opts Options, logger *zap.Logger) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		opts:    opts,
		secret:  []byte(uuid.NewString()),
		logger:  logger,
		refresh: make(map[string]string),
		hits:    make(map[string]int),
	}
}

// Handler builds the chi router.
//
// Routes:
//
//	POST /auth/login, /auth/refresh, /auth/logout
//	GET  /search
//	GET  /assets/{name}
//	GET  /amenities/{id}
//	GET  /maps/facilities, /maps/facilities/{id}/placemarks
//	POST /analytics
//	GET  /help/*
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.requestLogging)

	r.Route("/auth", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Post("/login", s.login)
		r.Post("/refresh", s.refreshToken)
		r.Post("/logout", s.logout)
	})
	r.Get("/search", s.search)
	r.Get("/assets/{name}", s.asset)
	r.Get("/amenities/{id}", s.amenity)
	r.Route("/maps/facilities", func(r chi.Router) {
		r.Get("/", s.listFacilities)
		r.Get("/{id}/placemarks", s.placemarks)
	})
	r.Post("/analytics", s.collect)
	r.Get("/help/*", s.help)
	return r
}

// Hits returns how many requests matched the route pattern, e.g. "/search".
func (s *Server) Hits(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[pattern]
}

// AnalyticsBatches returns the raw bodies posted to /analytics.
func (s *Server) AnalyticsBatches() []json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]json.RawMessage(nil), s.analytics...)
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		s.mu.Lock()
		s.hits[pattern]++
		s.mu.Unlock()

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", pattern),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}

func (s *Server) issue(w http.ResponseWriter, username string, deepLink any) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.opts.TokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		writeAuthError(w, http.StatusInternalServerError, "other", err.Error())
		return
	}
	rt := uuid.NewString()
	s.mu.Lock()
	s.refresh[rt] = username
	s.mu.Unlock()

	body := map[string]any{"token": signed, "refresh_token": rt}
	if deepLink != nil {
		body["deep_link"] = deepLink
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "other", "Malformed request.")
		return
	}
	switch {
	case req.Username == UserLocked:
		writeAuthError(w, http.StatusLocked, "max_password_exceeded_can_reset", "Too many sign in attempts.")
	case req.Username == UserTerms:
		writeAuthError(w, http.StatusForbidden, "terms_and_conditions_failed", "The terms and conditions were declined.")
	case req.Password != Password || !knownUser(req.Username):
		writeAuthError(w, http.StatusUnauthorized, "generic_error", "The username or password is incorrect.")
	case req.Username == UserDeep:
		s.issue(w, req.Username, map[string]any{"target": "messages", "params": map[string]string{"id": "42"}})
	default:
		s.issue(w, req.Username, nil)
	}
}

func knownUser(u string) bool {
	return u == UserOK || u == UserDeep
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	s.mu.Lock()
	user, ok := s.refresh[req.RefreshToken]
	delete(s.refresh, req.RefreshToken)
	s.mu.Unlock()
	if !ok {
		writeAuthError(w, http.StatusUnauthorized, "generic_error", "Your session has expired. Sign in again.")
		return
	}
	s.issue(w, user, nil)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeAuthError(w, http.StatusUnauthorized, "other", "Missing session.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	if s.opts.Latency > 0 {
		select {
		case <-time.After(s.opts.Latency):
		case <-r.Context().Done():
			return
		}
	}
	q := strings.ToLower(r.URL.Query().Get("q"))
	if q == "broken" {
		writeJSON(w, http.StatusOK, map[string]string{"error": "index unavailable"})
		return
	}

	base := "http://" + r.Host
	out := []map[string]any{}
	for _, item := range searchFixtures(base) {
		if matches(item, q) {
			out = append(out, item)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func matches(item map[string]any, q string) bool {
	for _, key := range []string{"title", "name", "entity_type", "category"} {
		if v, ok := item[key].(string); ok && strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func (s *Server) asset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "broken.png" {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("not an image"))
		return
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := range 4 {
		for y := range 4 {
			img.Set(x, y, color.RGBA{R: 0, G: 0x81, B: 0xA2, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) amenity(w http.ResponseWriter, r *http.Request) {
	a, ok := amenities[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) listFacilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, facilities)
}

func (s *Server) placemarks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := strings.ToLower(r.URL.Query().Get("q"))
	out := []placemark{}
	for _, p := range placemarks {
		if p.Facility == id && strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) collect(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "bad batch", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.analytics = append(s.analytics, raw)
	s.mu.Unlock()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) help(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "*")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w, "<html><body><h1>MyChart help: %s</h1></body></html>\n", page)
}
