// internal/httpserver/server.go
//
// HTTP server wiring for the heroguess backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health", "/daily", "/heroes/suggest".
//   - Game endpoints: mounted under /game (see routes_game.go).
//   - Session tokens: HS256 JWTs carried as bearer token or cookie.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The dataset may still be loading when requests arrive; handlers report the
//     catalog state instead of failing.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/heroguess/internal/daily"
	"github.com/robalobadob/heroguess/internal/game"
	"github.com/robalobadob/heroguess/internal/hero"
	"github.com/robalobadob/heroguess/internal/match"
	"github.com/robalobadob/heroguess/internal/store"
)

const sessionCookieName = "heroguess_session"

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	ClientOrigin   string        // CORS origin; default http://localhost:5173
	JWTSecret      string        // session token key; default dev_secret_change_me
	Tolerance      int           // fuzzy match tolerance; 0 means match.DefaultTolerance, negative means exact names only
	RequestTimeout time.Duration // default 10s
	SecureCookies  bool          // Secure + SameSite=None cookies
	Now            func() time.Time
}

func (o Options) withDefaults() Options {
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if o.JWTSecret == "" {
		o.JWTSecret = "dev_secret_change_me"
	}
	if o.Tolerance == 0 {
		o.Tolerance = match.DefaultTolerance
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// DefaultOptions returns Options with every default applied.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

// Server bundles router, session store, and the shared hero catalog.
type Server struct {
	r       *chi.Mux
	store   store.Store
	catalog *game.Catalog
	opts    Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, catalog *game.Catalog, opts Options) *Server {
	s := &Server{r: chi.NewRouter(), store: st, catalog: catalog, opts: opts.withDefaults()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(s.opts.RequestTimeout))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "heroguess",
			"endpoints": []string{"/health", "/daily", "/heroes/suggest?q=", "POST /game/new", "POST /game/guess", "/game/state"},
		})
	})
	s.r.Get("/health", s.handleHealth)
	s.r.Get("/daily", s.handleDaily)
	s.r.Get("/heroes/suggest", s.handleSuggest)

	s.mountGame(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: s.opts.RequestTimeout,
		IdleTimeout:       5 * time.Minute,
	}
	errs := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ----------------------------- middleware ----------------------------------

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the single configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ public -------------------------------------

type healthRes struct {
	OK      bool              `json:"ok"`
	Dataset game.CatalogState `json:"dataset"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st, _ := s.catalog.State()
	writeJSON(w, http.StatusOK, healthRes{OK: true, Dataset: st})
}

type dailyRes struct {
	Date    string            `json:"date"`
	Heroes  int               `json:"heroes"`
	Dataset game.CatalogState `json:"dataset"`
}

// handleDaily describes today's puzzle without revealing the hero.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	st, _ := s.catalog.State()
	writeJSON(w, http.StatusOK, dailyRes{
		Date:    daily.DateKey(s.opts.Now()),
		Heroes:  len(s.catalog.Heroes()),
		Dataset: st,
	})
}

type suggestion struct {
	Name    string `json:"name"`
	IconURL string `json:"iconUrl,omitempty"`
}

// handleSuggest returns up to hero.SuggestLimit names starting with ?q=.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	matches := s.catalog.Heroes().Suggest(r.URL.Query().Get("q"), hero.SuggestLimit)
	out := make([]suggestion, 0, len(matches))
	for _, h := range matches {
		out = append(out, suggestion{Name: h.Name, IconURL: h.IconURL})
	}
	writeJSON(w, http.StatusOK, out)
}

// --------------------------- session tokens --------------------------------

var errBadToken = errors.New("invalid session token")

// signToken creates an HS256 JWT for a session, expiring at the next UTC midnight.
func (s *Server) signToken(sess *game.Session) (string, time.Time, error) {
	exp := daily.NextMidnight(sess.CreatedAt)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sess.ID,
		"day": sess.Day,
		"exp": exp.Unix(),
		"iat": sess.CreatedAt.Unix(),
	})
	ss, err := t.SignedString([]byte(s.opts.JWTSecret))
	return ss, exp, err
}

// parseToken validates a session token and returns its session ID.
func (s *Server) parseToken(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.Now))
	if err != nil || !t.Valid {
		return "", errBadToken
	}
	sid, _ := claims["sid"].(string)
	day, _ := claims["day"].(string)
	if sid == "" || day != daily.DateKey(s.opts.Now()) {
		return "", errBadToken
	}
	return sid, nil
}

// setSessionCookie writes the token cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
