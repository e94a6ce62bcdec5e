// Package http provides HTTP handlers for server-sealed provider keys kept in httpOnly cookies.
package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	"github.com/allisson/omnichat/internal/httputil"
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	"github.com/allisson/omnichat/internal/sealer"
	customValidation "github.com/allisson/omnichat/internal/validation"
)

// CookiePrefix prefixes the per-provider cookie names.
const CookiePrefix = "oc_key_"

// DefaultCookieMaxAge is how long a sealed key cookie lives.
const DefaultCookieMaxAge = 365 * 24 * time.Hour

// CookieName returns the cookie holding the sealed key for provider.
func CookieName(provider keystoreDomain.Provider) string {
	return CookiePrefix + provider.String()
}

// StoreServerKeyRequest carries the key to seal.
type StoreServerKeyRequest struct {
	APIKey string `json:"api_key"`
}

// Validate checks the key is present and not blank.
func (r *StoreServerKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.APIKey,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 4096),
		),
	)
}

// ServerKeyResponse is returned by every server key endpoint.
type ServerKeyResponse struct {
	OK     bool  `json:"ok"`
	HasKey *bool `json:"has_key,omitempty"`
}

// ServerKeyHandler handles the sealed cookie mode, where the browser holds a provider key it
// cannot read and the server unseals it per request.
type ServerKeyHandler struct {
	sealer       sealer.Sealer
	cookieMaxAge time.Duration
	secureCookie bool
	logger       *slog.Logger
}

// NewServerKeyHandler creates a new server key handler.
func NewServerKeyHandler(
	s sealer.Sealer,
	cookieMaxAge time.Duration,
	secureCookie bool,
	logger *slog.Logger,
) *ServerKeyHandler {
	if cookieMaxAge <= 0 {
		cookieMaxAge = DefaultCookieMaxAge
	}
	return &ServerKeyHandler{
		sealer:       s,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

func (h *ServerKeyHandler) parseProvider(c *gin.Context) (keystoreDomain.Provider, bool) {
	p, err := keystoreDomain.ParseProvider(c.Param("provider"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return "", false
	}
	return p, true
}

func (h *ServerKeyHandler) setCookie(c *gin.Context, provider keystoreDomain.Provider, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName(provider), value, maxAge, "/", "", h.secureCookie, true)
}

// Resolve unseals the provider key carried by the request cookie. A missing cookie, or one
// sealed under a different key, yields sealer errors the caller maps to "no key".
func (h *ServerKeyHandler) Resolve(c *gin.Context, provider keystoreDomain.Provider) (string, error) {
	value, err := c.Cookie(CookieName(provider))
	if err != nil || value == "" {
		return "", sealer.ErrInvalidPayload
	}
	payload, err := sealer.ParsePayload(value)
	if err != nil {
		return "", err
	}
	return h.sealer.Open(c.Request.Context(), payload)
}

// GetHandler reports whether the request carries a sealed key that opens under the current
// sealing key.
// GET /v1/server-keys/:provider
func (h *ServerKeyHandler) GetHandler(c *gin.Context) {
	p, ok := h.parseProvider(c)
	if !ok {
		return
	}

	apiKey, err := h.Resolve(c, p)
	hasKey := err == nil && strings.TrimSpace(apiKey) != ""
	c.JSON(http.StatusOK, ServerKeyResponse{OK: true, HasKey: &hasKey})
}

// PostHandler seals the key and sets it as an httpOnly cookie.
// POST /v1/server-keys/:provider
func (h *ServerKeyHandler) PostHandler(c *gin.Context) {
	p, ok := h.parseProvider(c)
	if !ok {
		return
	}

	var req StoreServerKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	payload, err := h.sealer.Seal(c.Request.Context(), strings.TrimSpace(req.APIKey))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	value, err := payload.Encode()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.setCookie(c, p, value, int(h.cookieMaxAge.Seconds()))
	c.JSON(http.StatusOK, ServerKeyResponse{OK: true})
}

// DeleteHandler expires the cookie.
// DELETE /v1/server-keys/:provider
func (h *ServerKeyHandler) DeleteHandler(c *gin.Context) {
	p, ok := h.parseProvider(c)
	if !ok {
		return
	}

	h.setCookie(c, p, "", -1)
	c.JSON(http.StatusOK, ServerKeyResponse{OK: true})
}
