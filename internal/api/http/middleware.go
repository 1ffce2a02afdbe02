package http

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"labelstartup-backend/internal/config"
	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/security"

	"github.com/gorilla/mux"
)

func sessionOf(r *http.Request) security.Session {
	return security.SessionFromContext(r.Context())
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		return route.GetName()
	}
	return ""
}

// AuthMiddleware resolves the caller from the bearer token and enforces the route policy.
// Public routes accept anonymous callers but still pick up a valid token.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeName(r)
		level := config.GetSecurityLevel(route)

		token := extractToken(r, route)
		session := security.Anonymous
		if token != "" {
			claims, err := m.tokenManager.ValidateToken(token)
			switch {
			case err == nil:
				session = claims.Session()
			case level != config.SecurityPublic:
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: fmt.Sprintf("invalid token: %v", err)})
				return
			}
		}

		if level != config.SecurityPublic {
			if !session.IsAuthenticated() {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: domain.ErrUnauthenticated.Error()})
				return
			}
			if !level.Allows(session.Role) {
				logger.Warn("Route denied", "route", route, "userID", session.UserID, "role", session.Role)
				writeJSON(w, http.StatusForbidden, errorBody{
					Error:    domain.ErrForbidden.Error(),
					Redirect: session.Role.DashboardPath(),
				})
				return
			}
		}

		ctx := security.WithSession(r.Context(), session)
		if session.IsAuthenticated() {
			ctx = logger.WithContext(ctx, "userID", session.UserID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken reads the Authorization header. Browsers cannot set headers on websocket
// upgrades, so the chat socket also accepts an access_token query parameter.
func extractToken(r *http.Request, route string) string {
	token := r.Header.Get("Authorization")
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		return token[7:]
	}
	if token != "" {
		return token
	}
	if route == config.RouteChatSocket {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

// OriginPolicy decides which browser origins may call the API.
type OriginPolicy struct {
	origins  map[string]bool
	suffixes []string
}

func NewOriginPolicy(cfg config.CORSConfig) *OriginPolicy {
	p := &OriginPolicy{origins: make(map[string]bool, len(cfg.AllowedOrigins))}
	for _, o := range cfg.AllowedOrigins {
		p.origins[strings.TrimRight(o, "/")] = true
	}
	for _, s := range cfg.AllowedOriginSuffixes {
		if s != "" {
			p.suffixes = append(p.suffixes, strings.ToLower(s))
		}
	}
	return p
}

// Allowed matches the exact list first, then https origins whose host ends with a suffix.
func (p *OriginPolicy) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if p.origins[origin] {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, s := range p.suffixes {
		if strings.HasSuffix(host, s) {
			return true
		}
	}
	return false
}

// CheckOrigin is used by the websocket upgrader. Requests without Origin are not browsers.
func (p *OriginPolicy) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || p.Allowed(origin)
}

func (p *OriginPolicy) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if p.Allowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, apikey, x-client-info")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the hijacker for websocket upgrades.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *statusWriter) Hijack() (c net.Conn, rw *bufio.ReadWriter, err error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return h.Hijack()
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		logger.HTTPRequest(r.Context(), r.Method, r.URL.Path, sw.status, time.Since(start), "route", routeName(r))
	})
}

// Recovery turns a panic into a 500. Development builds include the panic value and stack.
func Recovery(development bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := debug.Stack()
					logger.Error("Panic while serving request", "path", r.URL.Path, "panic", rec, "stack", string(stack))
					body := errorBody{Error: "Une erreur interne est survenue"}
					if development {
						body.Error = fmt.Sprintf("panic: %v\n%s", rec, stack)
					}
					writeJSON(w, http.StatusInternalServerError, body)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
