package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/job-web/job-board/internal/auth"
	"github.com/job-web/job-board/internal/config"
	"github.com/job-web/job-board/internal/i18n"
	"github.com/job-web/job-board/internal/middleware"
	"github.com/job-web/job-board/internal/template"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	CacheKeyFrontPage = "frontPage"

	FlashSuccess = "success"
	FlashWarning = "warning"
)

type Server struct {
	cfg          config.Config
	Conn         *sql.DB
	router       *mux.Router
	tmpl         *template.Template
	SessionStore *sessions.CookieStore
	bigCache     *bigcache.BigCache
	logger       zerolog.Logger
	lang         language.Tag
}

func NewServer(
	cfg config.Config,
	conn *sql.DB,
	r *mux.Router,
	t *template.Template,
	sessionStore *sessions.CookieStore,
	logger zerolog.Logger,
) (Server, error) {
	if err := raven.SetDSN(cfg.SentryDSN); err != nil {
		return Server{}, errors.Wrap(err, "unable to set sentry dsn")
	}
	bigCache, err := bigcache.New(context.Background(), bigcache.Config{
		Shards:             64,
		LifeWindow:         12 * time.Hour,
		CleanWindow:        10 * time.Minute,
		MaxEntriesInWindow: 1024,
		MaxEntrySize:       4 << 10,
		HardMaxCacheSize:   64,
	})
	if err != nil {
		return Server{}, errors.Wrap(err, "unable to initialise big cache")
	}
	return Server{
		cfg:          cfg,
		Conn:         conn,
		router:       r,
		tmpl:         t,
		SessionStore: sessionStore,
		bigCache:     bigCache,
		logger:       logger,
		lang:         i18n.ParseLanguage(cfg.DefaultLanguage),
	}, nil
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) RegisterPathPrefix(path string, handler http.Handler, methods []string) {
	s.router.PathPrefix(path).Handler(handler).Methods(methods...)
}

func (s Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

func (s Server) GetJWTSigningKey() []byte {
	return s.cfg.JwtSigningKey
}

// Printer translates for the language the request asks for.
func (s Server) Printer(r *http.Request) *message.Printer {
	return i18n.NewPrinter(r.Header.Get("Accept-Language"), s.lang)
}

// Caller resolves the identity of the request; a broken or expired session
// is treated as anonymous.
func (s Server) Caller(r *http.Request) auth.Caller {
	c, err := middleware.GetCallerFromSession(r, s.SessionStore, s.cfg.JwtSigningKey)
	if err != nil {
		return auth.Anonymous
	}
	return c
}

// CallerHandlerFunc is a handler that is handed the resolved caller.
type CallerHandlerFunc func(w http.ResponseWriter, r *http.Request, c auth.Caller)

func (s Server) WithCaller(h CallerHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r, s.Caller(r))
	}
}

func (s Server) SaveCaller(w http.ResponseWriter, r *http.Request, c auth.Caller, remember bool) error {
	return middleware.SaveCaller(w, r, s.SessionStore, s.cfg.JwtSigningKey, c, remember)
}

func (s Server) ClearCaller(w http.ResponseWriter, r *http.Request) error {
	return middleware.ClearCaller(w, r, s.SessionStore)
}

// RoleRequired wraps next so callers below role get the not found page.
func (s Server) RoleRequired(role auth.Role, next http.HandlerFunc) http.HandlerFunc {
	return middleware.RoleRequiredMiddleware(s.SessionStore, s.cfg.JwtSigningKey, role, s.NotFound, next)
}

// Flash queues a translated message shown on the next rendered page.
func (s Server) Flash(w http.ResponseWriter, r *http.Request, kind, msg string, args ...interface{}) {
	sess, err := s.SessionStore.Get(r, middleware.SessionName)
	if err != nil {
		s.Log(err, "unable to read session for flash")
		return
	}
	sess.AddFlash(s.Printer(r).Sprintf(msg, args...), kind)
	if err := sess.Save(r, w); err != nil {
		s.Log(err, "unable to save flash")
	}
}

func (s Server) flashes(w http.ResponseWriter, r *http.Request) map[string][]string {
	out := map[string][]string{}
	sess, err := s.SessionStore.Get(r, middleware.SessionName)
	if err != nil {
		return out
	}
	pending := false
	for _, kind := range []string{FlashSuccess, FlashWarning} {
		for _, f := range sess.Flashes(kind) {
			pending = true
			if msg, ok := f.(string); ok {
				out[kind] = append(out[kind], msg)
			}
		}
	}
	if pending {
		if err := sess.Save(r, w); err != nil {
			s.Log(err, "unable to clear flashes")
		}
	}
	return out
}

func (s Server) Render(r *http.Request, w http.ResponseWriter, status int, htmlView string, data map[string]interface{}) error {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["SiteName"] = s.cfg.SiteName
	data["SiteHost"] = s.cfg.SiteHost
	data["URLProtocol"] = s.cfg.URLProtocol
	data["Caller"] = s.Caller(r)
	data["P"] = s.Printer(r)
	data["Flashes"] = s.flashes(w, r)

	return s.tmpl.Render(w, status, htmlView, data)
}

func (s Server) NotFound(w http.ResponseWriter, r *http.Request) {
	if err := s.Render(r, w, http.StatusNotFound, "404.html", nil); err != nil {
		s.Log(err, "unable to render 404 page")
		s.TEXT(w, http.StatusNotFound, s.Printer(r).Sprintf(i18n.MsgNotFound))
	}
}

// InternalError logs err and answers with the generic error page.
func (s Server) InternalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	s.Log(err, msg)
	if err := s.Render(r, w, http.StatusInternalServerError, "500.html", nil); err != nil {
		s.Log(err, "unable to render 500 page")
		s.TEXT(w, http.StatusInternalServerError, s.Printer(r).Sprintf(i18n.MsgInternalError))
	}
}

func (s Server) XML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	w.Write(data)
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (s Server) TEXT(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

func (s Server) Log(err error, msg string) {
	raven.CaptureErrorAndWait(err, map[string]string{"ctx": msg})
	s.logger.Error().Err(err).Msg(msg)
}

func (s Server) Redirect(w http.ResponseWriter, r *http.Request, status int, dst string) {
	http.Redirect(w, r, dst, status)
}

func (s Server) CacheGet(key string) ([]byte, bool) {
	out, err := s.bigCache.Get(key)
	if err != nil {
		return []byte{}, false
	}
	return out, true
}

func (s Server) CacheSet(key string, val []byte) error {
	return s.bigCache.Set(key, val)
}

func (s Server) CacheDelete(key string) error {
	err := s.bigCache.Delete(key)
	if err == bigcache.ErrEntryNotFound {
		return nil
	}
	return err
}

func (s Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.Env == "dev" {
		s.logger.Info().Msgf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	srv := &http.Server{
		Addr:         addr,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler: middleware.HTTPSMiddleware(
			middleware.LoggingMiddleware(s.logger, middleware.HeadersMiddleware(s.router, s.cfg.Env)),
			s.cfg.Env,
		),
	}
	return srv.ListenAndServe()
}
