// Package webapi provides a web API language detection service.
package webapi

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/langid/lib/langcheck"
	"github.com/umputun/langid/lib/langid"
)

//go:generate moq --out mocks/detector.go --pkg mocks --with-resets --skip-ensure . Detector
//go:generate moq --out mocks/recorder.go --pkg mocks --with-resets --skip-ensure . Recorder

// Server is a web API server.
type Server struct {
	Config
	cache   cache.Cache[string, []langid.Confidence]
	metrics *metrics
}

// Config defines server parameters
type Config struct {
	Version    string        // version to show in /ping
	ListenAddr string        // listen address
	Detector   Detector      // language detector
	Recorder   Recorder      // detection history, in-memory if not set
	AuthPasswd string        // basic auth password for user "langid"
	CacheTTL   time.Duration // ttl of cached detection results, 0 disables cache
	CacheSize  int           // max number of cached detection results
	RateLimit  float64       // max requests per second from a single client, 0 disables limit
	Dbg        bool          // debug mode
}

// Detector is a language detector interface.
type Detector interface {
	DetectDistribution(text string) []langid.Confidence
	MinimumRelativeDistance() float64
	Languages() langid.LanguageSet
	LoadedModels() int
}

// Recorder is a detection history interface.
type Recorder interface {
	Write(ctx context.Context, rec langcheck.Record) error
	Read(ctx context.Context, limit int) ([]langcheck.Record, error)
}

const (
	authUser      = "langid"
	historyLimit  = 100
	maxHistory    = 1000
	maxRequestLen = 1024 * 1024
)

// NewServer creates a new web API server.
func NewServer(config Config) *Server {
	res := &Server{Config: config}
	if res.Recorder == nil {
		res.Recorder = langcheck.NewLastRecords(maxHistory)
	}
	if res.CacheSize <= 0 {
		res.CacheSize = 1000
	}
	if res.CacheTTL > 0 {
		res.cache = cache.NewCache[string, []langid.Confidence]().WithMaxKeys(res.CacheSize).WithTTL(res.CacheTTL)
	}
	res.metrics = newMetrics(func() float64 { return float64(res.Detector.LoadedModels()) })
	return res
}

// Run starts server and accepts requests detecting languages.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.ListenAddr, Handler: s.routes(), ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

// ResetCache drops all cached detection results, used after the detector reload.
func (s *Server) ResetCache() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()), rest.Throttle(1000))
	router.Use(rest.AppInfo("langid", "umputun", s.Version), rest.Ping)
	router.Use(rest.SizeLimit(maxRequestLen))
	if s.RateLimit > 0 {
		router.Use(s.limiter())
	}

	router.Handle("GET /metrics", s.metrics.handler())

	router.Group().Route(func(api *routegroup.Bundle) {
		if s.AuthPasswd != "" {
			log.Printf("[INFO] basic auth enabled for webapi server")
			api.Use(rest.BasicAuthWithUserPasswd(authUser, s.AuthPasswd))
		} else {
			log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
		}
		api.HandleFunc("POST /detect", s.detectHandler(false))    // detect the best language
		api.HandleFunc("POST /confidence", s.detectHandler(true)) // confidence distribution
		api.HandleFunc("GET /languages", s.languagesHandler)      // list supported languages
		api.HandleFunc("GET /languages/{code}", s.languageHandler)
		api.HandleFunc("GET /history", s.historyHandler) // recent detections
	})
	return router
}

// limiter makes rate limiting middleware, clients are distinguished by remote address
func (s *Server) limiter() func(http.Handler) http.Handler {
	lmt := tollbooth.NewLimiter(s.RateLimit, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
	lmt.SetMessageContentType("application/json; charset=utf-8")
	lmt.SetMessage(`{"error":"too many requests"}`)
	return func(next http.Handler) http.Handler { return tollbooth.LimitHandler(lmt, next) }
}

// detectHandler handles POST /detect and POST /confidence requests.
// It gets text from request body and returns detected language, with full distribution if withDist is set.
func (s *Server) detectHandler(withDist bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := langcheck.Request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
			log.Printf("[WARN] can't decode request: %v", err)
			return
		}

		dist := s.distribution(req.Text)
		lang, ok := langid.BestLanguage(dist, s.Detector.MinimumRelativeDistance())
		s.metrics.detected(lang, ok)

		rec := langcheck.NewRecord(req.Text, "api", lang, ok, dist)
		if err := s.Recorder.Write(r.Context(), rec); err != nil {
			log.Printf("[WARN] can't record detection: %v", err)
		}

		resp := langcheck.NewResponse(lang, ok)
		if withDist {
			resp.Confidence = dist
		}
		if s.Dbg {
			log.Printf("[DEBUG] %s -> %s", req.String(), resp.String())
		}
		rest.RenderJSON(w, resp)
	}
}

// distribution returns confidence distribution of the text, cached by text hash
func (s *Server) distribution(text string) []langid.Confidence {
	st := time.Now()
	if s.cache == nil {
		res := s.Detector.DetectDistribution(text)
		s.metrics.duration.Observe(time.Since(st).Seconds())
		return res
	}

	hash := sha256.Sum256([]byte(text))
	key := hex.EncodeToString(hash[:])
	if res, ok := s.cache.Get(key); ok {
		s.metrics.cacheHits.Inc()
		return res
	}
	res := s.Detector.DetectDistribution(text)
	s.metrics.duration.Observe(time.Since(st).Seconds())
	s.cache.Set(key, res, 0)
	return res
}

// languageInfo is a supported language description
type languageInfo struct {
	Name      string          `json:"name"`
	IsoCode1  string          `json:"iso639_1"`
	IsoCode3  string          `json:"iso639_3"`
	Scripts   []langid.Script `json:"scripts"`
	Spoken    bool            `json:"spoken"`
	Candidate bool            `json:"candidate"` // language is one of the detector candidates
}

func (s *Server) makeLanguageInfo(l langid.Language, candidates langid.LanguageSet) languageInfo {
	return languageInfo{Name: l.String(), IsoCode1: l.IsoCode639_1(), IsoCode3: l.IsoCode639_3(),
		Scripts: l.Scripts(), Spoken: l.Spoken(), Candidate: candidates.Contains(l)}
}

// languagesHandler handles GET /languages request. It returns supported languages,
// optionally filtered by script and spoken status with "script" and "spoken" query params.
func (s *Server) languagesHandler(w http.ResponseWriter, r *http.Request) {
	langs := langid.All()
	if sc := r.URL.Query().Get("script"); sc != "" {
		script, err := langid.ParseScript(sc)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			rest.RenderJSON(w, rest.JSON{"error": "can't parse script", "details": err.Error()})
			return
		}
		langs = langid.AllWithScript(script)
	}
	if sp := r.URL.Query().Get("spoken"); sp != "" {
		spoken, err := strconv.ParseBool(sp)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			rest.RenderJSON(w, rest.JSON{"error": "can't parse spoken flag", "details": err.Error()})
			return
		}
		filtered := langid.LanguageSet{}
		for _, l := range langs {
			if l.Spoken() == spoken {
				filtered = append(filtered, l)
			}
		}
		langs = filtered
	}

	candidates := s.Detector.Languages()
	res := make([]languageInfo, 0, len(langs))
	for _, l := range langs {
		res = append(res, s.makeLanguageInfo(l, candidates))
	}
	rest.RenderJSON(w, rest.JSON{"languages": res, "total": len(res)})
}

// languageHandler handles GET /languages/{code} request, code is ISO 639-1 or ISO 639-3.
func (s *Server) languageHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.PathValue("code"))
	lookup := langid.FromIsoCode639_1
	if len(code) == 3 {
		lookup = langid.FromIsoCode639_3
	}
	lang, err := lookup(code)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		rest.RenderJSON(w, rest.JSON{"error": "language not found", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, s.makeLanguageInfo(lang, s.Detector.Languages()))
}

// historyHandler handles GET /history request. It returns recent detections, newest first.
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	limit := historyLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v < 1 {
			w.WriteHeader(http.StatusBadRequest)
			rest.RenderJSON(w, rest.JSON{"error": "bad limit", "details": fmt.Sprintf("limit %q is not a positive number", l)})
			return
		}
		limit = min(v, maxHistory)
	}

	recs, err := s.Recorder.Read(r.Context(), limit)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't read history", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"history": recs, "total": len(recs)})
}

// GenerateRandomPassword generates a random password of a given length
func GenerateRandomPassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+"

	var password strings.Builder
	charsetSize := big.NewInt(int64(len(charset)))
	for range length {
		idx, err := rand.Int(rand.Reader, charsetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password.WriteByte(charset[idx.Int64()])
	}
	return password.String(), nil
}
