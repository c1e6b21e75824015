package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sagarc03/ikauth"
)

// TokenIssuer produces one set of upload authentication parameters per call.
// *ikauth.Signer implements it.
type TokenIssuer interface {
	Issue(ctx context.Context) (ikauth.AuthParams, error)
}

type CORSConfig struct {
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age" validate:"min=0"`
}

type HandlerConfig struct {
	// Public is rendered into the showcase page. It never holds the private key.
	Public   ikauth.PublicConfig
	CORS     CORSConfig
	Showcase bool
}

// Handler serves the token endpoint and the showcase page.
type Handler struct {
	config   HandlerConfig
	issuer   TokenIssuer
	showcase *showcase
}

// NewHandler creates a new Handler with the given configuration and issuer.
// When the showcase is enabled the URL endpoint must be a valid absolute URL.
func NewHandler(config *HandlerConfig, issuer TokenIssuer) (*Handler, error) {
	h := &Handler{
		config: *config,
		issuer: issuer,
	}

	if config.Showcase {
		sc, err := newShowcase(config.Public)
		if err != nil {
			return nil, err
		}
		h.showcase = sc
	}

	return h, nil
}

// Router returns an http.Handler with all routes configured.
//
//	GET /auth     upload authentication parameters
//	GET /healthz  liveness
//	GET /         showcase page (when enabled)
//
// Every response, including errors and preflight, is readable from any origin.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	allowedHeaders := h.config.CORS.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = DefaultAllowedHeaders
	}

	r.Use(RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:     allowedHeaders,
		MaxAge:             h.config.CORS.MaxAge,
		OptionsPassthrough: true,
	}))
	r.Use(CrossOriginMiddleware(allowedHeaders))

	r.With(NoStoreMiddleware).Get("/auth", h.handleAuth)
	r.Get("/healthz", h.handleHealth)
	if h.showcase != nil {
		r.Get("/", h.handleShowcase)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "not_found", "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	return r
}

func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	params, err := h.issuer.Issue(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}

	slog.Debug("issued authentication parameters",
		"token", params.Token,
		"expire", params.Expire,
		"signature", params.Signature,
	)

	_ = WriteJSON(w, http.StatusOK, params)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleShowcase(w http.ResponseWriter, _ *http.Request) {
	page, err := h.showcase.render()
	if err != nil {
		HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
