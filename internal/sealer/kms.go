package sealer

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	keystoreService "github.com/allisson/omnichat/internal/keystore/service"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens KMS keepers.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI.
	// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
	OpenKeeper(ctx context.Context, keyURI string) (Keeper, error)
}

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper implements KMSService.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// New builds the Sealer selected by cfg: a keeper sealer when KMSKeyURI is set, otherwise a
// secret sealer. ErrSealerNotConfigured is returned when neither is configured.
func New(
	ctx context.Context,
	cfg Config,
	kms KMSService,
	aeadManager keystoreService.AEADManager,
) (Sealer, error) {
	if cfg.KMSKeyURI != "" {
		keeper, err := kms.OpenKeeper(ctx, cfg.KMSKeyURI)
		if err != nil {
			return nil, err
		}
		return NewKeeperSealer(keeper), nil
	}

	if cfg.Secret == "" {
		return nil, ErrSealerNotConfigured
	}

	alg := keystoreDomain.AESGCM
	if cfg.Algorithm != "" {
		parsed, err := keystoreDomain.ParseAlgorithm(cfg.Algorithm)
		if err != nil {
			return nil, err
		}
		alg = parsed
	}
	return NewSecretSealer(cfg.Secret, alg, aeadManager)
}
