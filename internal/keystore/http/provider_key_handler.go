package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/omnichat/internal/errors"
	"github.com/allisson/omnichat/internal/httputil"
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	"github.com/allisson/omnichat/internal/keystore/http/dto"
	keystoreUseCase "github.com/allisson/omnichat/internal/keystore/usecase"
	"github.com/allisson/omnichat/internal/provider"
	customValidation "github.com/allisson/omnichat/internal/validation"
)

// ProviderKeyHandler handles HTTP requests for per-provider API keys.
type ProviderKeyHandler struct {
	keystoreUseCase keystoreUseCase.KeystoreUseCase
	credentials     *provider.Credentials
	verifier        provider.Verifier
	logger          *slog.Logger
}

// NewProviderKeyHandler creates a new provider key handler.
func NewProviderKeyHandler(
	keystoreUseCase keystoreUseCase.KeystoreUseCase,
	verifier provider.Verifier,
	logger *slog.Logger,
) *ProviderKeyHandler {
	return &ProviderKeyHandler{
		keystoreUseCase: keystoreUseCase,
		credentials:     provider.NewCredentials(keystoreUseCase),
		verifier:        verifier,
		logger:          logger,
	}
}

// parseProvider reads the :provider path parameter and writes a 422 response when it is
// not a supported provider.
func (h *ProviderKeyHandler) parseProvider(c *gin.Context) (keystoreDomain.Provider, bool) {
	p, err := keystoreDomain.ParseProvider(c.Param("provider"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return "", false
	}
	return p, true
}

// GetHandler reports whether a usable key is available for the provider. The value is
// never returned, though an unlocked keystore decrypts and caches it on a cache miss.
// GET /v1/keys/:provider
func (h *ProviderKeyHandler) GetHandler(c *gin.Context) {
	p, ok := h.parseProvider(c)
	if !ok {
		return
	}

	hasKey, err := h.keystoreUseCase.HasProviderKey(c.Request.Context(), p)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ProviderKeyStatusResponse{Provider: p.String(), HasKey: hasKey})
}

// GetValueHandler returns the decrypted key.
// GET /v1/keys/:provider/value
// Returns 404 when no key is stored and 423 when the keystore is locked.
func (h *ProviderKeyHandler) GetValueHandler(c *gin.Context) {
	p, ok := h.parseProvider(c)
	if !ok {
		return
	}

	apiKey, err := h.keystoreUseCase.GetProviderKey(c.Request.Context(), p)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ProviderKeyResponse{Provider: p.String(), APIKey: apiKey})
}

// PutHandler stores the key. An empty api_key clears it.
// PUT /v1/keys/:provider
func (h *ProviderKeyHandler) PutHandler(c *gin.Context) {
	p, ok := h.parseProvider(c)
	if !ok {
		return
	}

	var req dto.SetProviderKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.keystoreUseCase.SetProviderKey(c.Request.Context(), p, req.APIKey); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteHandler removes the stored key. Works while locked.
// DELETE /v1/keys/:provider
func (h *ProviderKeyHandler) DeleteHandler(c *gin.Context) {
	p, ok := h.parseProvider(c)
	if !ok {
		return
	}

	if err := h.keystoreUseCase.ClearProviderKey(c.Request.Context(), p); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// TestHandler checks a key against the provider API. Without api_key in the body the stored
// key is checked.
// POST /v1/keys/:provider/test
// A key the provider rejects, or a provider that cannot be reached, is reported as
// 200 {"ok": false, "error": "..."}.
func (h *ProviderKeyHandler) TestHandler(c *gin.Context) {
	p, ok := h.parseProvider(c)
	if !ok {
		return
	}

	var req dto.VerifyKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	apiKey := req.APIKey
	if apiKey == "" {
		stored, err := h.credentials.Resolve(c.Request.Context(), p)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		apiKey = stored
	}

	err := h.verifier.Verify(c.Request.Context(), p, apiKey)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidInput) {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.VerifyKeyResponse{OK: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.VerifyKeyResponse{OK: true})
}
