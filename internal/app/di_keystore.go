package app

import (
	"context"
	"fmt"

	"github.com/allisson/omnichat/internal/database"
	keystoreHTTP "github.com/allisson/omnichat/internal/keystore/http"
	keystoreRepository "github.com/allisson/omnichat/internal/keystore/repository"
	keystoreService "github.com/allisson/omnichat/internal/keystore/service"
	keystoreUseCase "github.com/allisson/omnichat/internal/keystore/usecase"
	"github.com/allisson/omnichat/internal/metrics"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() keystoreService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = keystoreService.NewAEADManager()
	})
	return c.aeadManager
}

// EntryRepository returns the keystore entry repository for the configured driver.
func (c *Container) EntryRepository() (keystoreUseCase.EntryRepository, error) {
	c.entryRepositoryInit.Do(func() {
		repo, err := c.initEntryRepository()
		if err != nil {
			c.setInitError("entryRepository", err)
			return
		}
		c.entryRepository = repo
	})
	if err := c.initError("entryRepository"); err != nil {
		return nil, err
	}
	return c.entryRepository, nil
}

// KeystoreUseCase returns the keystore use case.
func (c *Container) KeystoreUseCase() (keystoreUseCase.KeystoreUseCase, error) {
	c.keystoreUseCaseInit.Do(func() {
		useCase, err := c.initKeystoreUseCase()
		if err != nil {
			c.setInitError("keystoreUseCase", err)
			return
		}
		c.keystoreUseCase = useCase
	})
	if err := c.initError("keystoreUseCase"); err != nil {
		return nil, err
	}
	return c.keystoreUseCase, nil
}

// KeystoreHandler returns the keystore HTTP handler.
func (c *Container) KeystoreHandler() (*keystoreHTTP.KeystoreHandler, error) {
	c.keystoreHandlerInit.Do(func() {
		useCase, err := c.KeystoreUseCase()
		if err != nil {
			c.setInitError("keystoreHandler", fmt.Errorf("failed to get keystore use case for keystore handler: %w", err))
			return
		}
		c.keystoreHandler = keystoreHTTP.NewKeystoreHandler(useCase, c.Logger())
	})
	if err := c.initError("keystoreHandler"); err != nil {
		return nil, err
	}
	return c.keystoreHandler, nil
}

// ProviderKeyHandler returns the provider key HTTP handler.
func (c *Container) ProviderKeyHandler() (*keystoreHTTP.ProviderKeyHandler, error) {
	c.providerKeyHandlerInit.Do(func() {
		handler, err := c.initProviderKeyHandler()
		if err != nil {
			c.setInitError("providerKeyHandler", err)
			return
		}
		c.providerKeyHandler = handler
	})
	if err := c.initError("providerKeyHandler"); err != nil {
		return nil, err
	}
	return c.providerKeyHandler, nil
}

// initEntryRepository creates the entry repository based on the database driver.
func (c *Container) initEntryRepository() (keystoreUseCase.EntryRepository, error) {
	if c.config.DBDriver == database.DriverMemory {
		return keystoreRepository.NewMemoryEntryRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for entry repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return keystoreRepository.NewPostgreSQLEntryRepository(db), nil
	case database.DriverMySQL:
		return keystoreRepository.NewMySQLEntryRepository(db), nil
	case database.DriverSQLite:
		return keystoreRepository.NewSQLiteEntryRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initKeystoreUseCase creates the keystore use case, wraps it with metrics and registers the
// keystore state gauge when metrics are enabled.
func (c *Container) initKeystoreUseCase() (keystoreUseCase.KeystoreUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for keystore use case: %w", err)
	}

	entryRepository, err := c.EntryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry repository for keystore use case: %w", err)
	}

	baseUseCase := keystoreUseCase.NewKeystoreUseCase(
		txManager,
		entryRepository,
		keystoreRepository.NewMemorySessionCache(),
		c.AEADManager(),
		keystoreService.NewPBKDF2Deriver(c.config.KeystoreKDFIterations, c.config.KeystoreSaltSize),
		keystoreService.NewLegacyXORCipher(),
		c.Logger(),
	)

	if !c.config.MetricsEnabled {
		return baseUseCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for keystore use case: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for keystore use case: %w", err)
	}
	err = metrics.RegisterKeystoreStateGauge(
		provider.MeterProvider(),
		c.config.MetricsNamespace,
		func(ctx context.Context) (string, error) {
			status, err := baseUseCase.Status(ctx)
			if err != nil {
				return "", err
			}
			return string(status.State), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register keystore state gauge: %w", err)
	}

	return keystoreUseCase.NewKeystoreUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}

// initProviderKeyHandler creates the provider key handler with its verifier.
func (c *Container) initProviderKeyHandler() (*keystoreHTTP.ProviderKeyHandler, error) {
	useCase, err := c.KeystoreUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore use case for provider key handler: %w", err)
	}

	verifier, err := c.Verifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get verifier for provider key handler: %w", err)
	}

	return keystoreHTTP.NewProviderKeyHandler(useCase, verifier, c.Logger()), nil
}
