package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/allisson/omnichat/internal/sealer"
	sealerHTTP "github.com/allisson/omnichat/internal/sealer/http"
)

// KMSService returns the KMS service used to open the cookie sealing keeper.
func (c *Container) KMSService() sealer.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = sealer.NewKMSService()
	})
	return c.kmsService
}

// Sealer returns the cookie sealer, or nil when neither a KMS key nor a secret is configured.
func (c *Container) Sealer() (sealer.Sealer, error) {
	c.sealerInit.Do(func() {
		s, err := sealer.New(context.Background(), sealer.Config{
			KMSKeyURI: c.config.KMSKeyURI,
			Secret:    c.config.ServerEncryptionSecret,
			Algorithm: c.config.SealAlgorithm,
		}, c.KMSService(), c.AEADManager())
		if errors.Is(err, sealer.ErrSealerNotConfigured) {
			c.Logger().Info("sealed server keys disabled: no KMS key or encryption secret configured")
			return
		}
		if err != nil {
			c.setInitError("sealer", fmt.Errorf("failed to create sealer: %w", err))
			return
		}
		c.sealer = s
	})
	if err := c.initError("sealer"); err != nil {
		return nil, err
	}
	return c.sealer, nil
}

// ServerKeyHandler returns the sealed-cookie handler, or nil when sealing is not configured.
func (c *Container) ServerKeyHandler() (*sealerHTTP.ServerKeyHandler, error) {
	c.serverKeyHandlerInit.Do(func() {
		s, err := c.Sealer()
		if err != nil {
			c.setInitError("serverKeyHandler", fmt.Errorf("failed to get sealer for server key handler: %w", err))
			return
		}
		if s == nil {
			return
		}
		c.serverKeyHandler = sealerHTTP.NewServerKeyHandler(
			s,
			c.config.SealedCookieMaxAge,
			c.config.SealedCookieSecure,
			c.Logger(),
		)
	})
	if err := c.initError("serverKeyHandler"); err != nil {
		return nil, err
	}
	return c.serverKeyHandler, nil
}
