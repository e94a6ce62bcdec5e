// Package http provides HTTP handlers for the credential keystore: lifecycle (passphrase,
// unlock, lock), export and import, and per-provider key operations.
package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/omnichat/internal/httputil"
	"github.com/allisson/omnichat/internal/keystore/http/dto"
	keystoreUseCase "github.com/allisson/omnichat/internal/keystore/usecase"
	customValidation "github.com/allisson/omnichat/internal/validation"
)

// MaxImportSize bounds the size of an import document.
const MaxImportSize = 1 << 20

// KeystoreHandler handles HTTP requests for the keystore lifecycle.
type KeystoreHandler struct {
	keystoreUseCase keystoreUseCase.KeystoreUseCase
	logger          *slog.Logger
}

// NewKeystoreHandler creates a new keystore handler.
func NewKeystoreHandler(keystoreUseCase keystoreUseCase.KeystoreUseCase, logger *slog.Logger) *KeystoreHandler {
	return &KeystoreHandler{
		keystoreUseCase: keystoreUseCase,
		logger:          logger,
	}
}

// StatusHandler reports whether a passphrase is configured, whether the keystore is locked
// and which providers have a stored key.
// GET /v1/keystore
func (h *KeystoreHandler) StatusHandler(c *gin.Context) {
	status, err := h.keystoreUseCase.Status(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatusToResponse(status))
}

// SetPassphraseHandler configures the passphrase, or changes it when the keystore is
// unlocked. Changing while locked returns 423.
// POST /v1/keystore/passphrase
func (h *KeystoreHandler) SetPassphraseHandler(c *gin.Context) {
	var req dto.PassphraseRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.keystoreUseCase.SetPassphrase(c.Request.Context(), req.Passphrase); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// UnlockHandler derives the key from the passphrase and verifies it against stored secrets.
// POST /v1/keystore/unlock
// Returns 204 on success and 401 when the passphrase is wrong.
func (h *KeystoreHandler) UnlockHandler(c *gin.Context) {
	var req dto.UnlockRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ok, err := h.keystoreUseCase.Unlock(c.Request.Context(), req.Passphrase)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !ok {
		h.logger.Warn("keystore unlock rejected", slog.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, httputil.ErrorResponse{
			Error:   "invalid_passphrase",
			Message: "The passphrase does not match the stored keys",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// LockHandler discards the derived key and every cached plaintext.
// POST /v1/keystore/lock
func (h *KeystoreHandler) LockHandler(c *gin.Context) {
	if err := h.keystoreUseCase.Lock(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportHandler returns the export document as a keystore.json attachment.
// GET /v1/keystore/export
func (h *KeystoreHandler) ExportHandler(c *gin.Context) {
	snapshot, err := h.keystoreUseCase.Export(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="keystore.json"`)
	c.JSON(http.StatusOK, snapshot)
}

// ImportHandler replaces the keystore with an export document and leaves it locked.
// POST /v1/keystore/import
// The request body is the raw document.
func (h *KeystoreHandler) ImportHandler(c *gin.Context) {
	document, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxImportSize))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.keystoreUseCase.Import(c.Request.Context(), document); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
