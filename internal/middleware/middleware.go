package middleware

import (
	"net/http"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gorilla/sessions"
	"github.com/job-web/job-board/internal/auth"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	SessionName = "____gc"
	jwtKey      = "jwt"
	rememberFor = 30 * 24 * time.Hour
)

func HTTPSMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" && r.Header.Get("X-Forwarded-Proto") != "https" {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func LoggingMiddleware(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info().
			Str("Host", r.Host).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Str("x-forwarded-for", r.Header.Get("x-forwarded-for")).
			Msg("req")
	})
}

func HeadersMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" {
			// filter out HeadlessChrome user agent
			if strings.Contains(r.Header.Get("User-Agent"), "HeadlessChrome") {
				w.WriteHeader(http.StatusTeapot)
				return
			}
			w.Header().Set("Content-Security-Policy", "upgrade-insecure-requests")
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "origin")
		next.ServeHTTP(w, r)
	})
}

type UserJWT struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	IsCompany bool   `json:"is_company"`
	jwt.StandardClaims
}

func (u UserJWT) Caller() auth.Caller {
	c := auth.Caller{ID: u.UserID, Name: u.Name, Email: u.Email, Role: auth.RoleUser}
	switch {
	case u.IsAdmin:
		c.Role = auth.RoleAdmin
	case u.IsCompany:
		c.Role = auth.RoleCompany
	}
	return c
}

// SaveCaller signs c into the session cookie. Without remember the cookie
// lasts for the browser session only.
func SaveCaller(w http.ResponseWriter, r *http.Request, sessionStore *sessions.CookieStore, key []byte, c auth.Caller, remember bool) error {
	sess, err := sessionStore.Get(r, SessionName)
	if err != nil {
		return errors.Wrap(err, "could not find cookie")
	}
	now := time.Now().UTC()
	claims := UserJWT{
		UserID:    c.ID,
		Name:      c.Name,
		Email:     c.Email,
		IsAdmin:   c.IsAdmin(),
		IsCompany: c.IsCompany(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(rememberFor).Unix(),
			IssuedAt:  now.Unix(),
		},
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return errors.Wrap(err, "unable to sign jwt")
	}
	sess.Values[jwtKey] = ss
	if remember {
		sess.Options.MaxAge = int(rememberFor.Seconds())
	} else {
		sess.Options.MaxAge = 0
	}
	return sess.Save(r, w)
}

// ClearCaller drops the signed caller, keeping pending flash messages.
func ClearCaller(w http.ResponseWriter, r *http.Request, sessionStore *sessions.CookieStore) error {
	sess, err := sessionStore.Get(r, SessionName)
	if err != nil {
		return errors.Wrap(err, "could not find cookie")
	}
	delete(sess.Values, jwtKey)
	return sess.Save(r, w)
}

// GetCallerFromSession returns auth.Anonymous when the session carries no
// valid token.
func GetCallerFromSession(r *http.Request, sessionStore *sessions.CookieStore, key []byte) (auth.Caller, error) {
	sess, err := sessionStore.Get(r, SessionName)
	if err != nil {
		return auth.Anonymous, errors.Wrap(err, "could not find cookie")
	}
	tk, ok := sess.Values[jwtKey].(string)
	if !ok {
		return auth.Anonymous, nil
	}
	token, err := jwt.ParseWithClaims(tk, &UserJWT{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return auth.Anonymous, errors.New("token is expired or invalid")
	}
	claims, ok := token.Claims.(*UserJWT)
	if !ok || claims.UserID == "" {
		return auth.Anonymous, errors.New("could not convert jwt claims to UserJWT")
	}
	return claims.Caller(), nil
}

// RoleRequiredMiddleware answers with notFound unless the caller has at
// least role.
func RoleRequiredMiddleware(sessionStore *sessions.CookieStore, key []byte, role auth.Role, notFound http.HandlerFunc, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, _ := GetCallerFromSession(r, sessionStore, key)
		if !c.HasRole(role) {
			notFound(w, r)
			return
		}
		next(w, r)
	}
}
