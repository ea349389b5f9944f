package app

import (
	"fmt"
	"log/slog"

	"github.com/nusalapor/backend/pkg/cryptox"
	"github.com/nusalapor/backend/pkg/jwtx"
)

// AuthKeys is the key material the services run on.
type AuthKeys struct {
	KeySet   *jwtx.KeySet
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Fields   *cryptox.FieldEncryptor
}

// InitAuthKeys loads the Ed25519 signing key and the field encryption key,
// generating files on first start. Regenerating the field key makes stored
// phone numbers unreadable, so a fresh one is logged loudly.
func InitAuthKeys(cfg Config, logger *slog.Logger) (*AuthKeys, error) {
	pemKey, generated, err := cryptox.LoadOrGenerateEd25519Key(cfg.Keys.SigningKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}
	if generated {
		logger.Warn("generated new signing key, previously issued tokens are invalid",
			"path", cfg.Keys.SigningKeyFile,
		)
	}

	signer, err := jwtx.NewSignerEdDSA("", pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}
	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("failed to register signer: %w", err)
	}
	logger.Info("signing key loaded", "kid", signer.KID(), "alg", signer.Alg())

	fieldKey, err := loadFieldKey(cfg, logger)
	if err != nil {
		return nil, err
	}
	fields, err := cryptox.NewFieldEncryptor(fieldKey)
	if err != nil {
		return nil, err
	}

	return &AuthKeys{
		KeySet:   keys,
		Signer:   signer,
		Verifier: jwtx.NewVerifier(keys, cfg.Issuer),
		Fields:   fields,
	}, nil
}

func loadFieldKey(cfg Config, logger *slog.Logger) ([]byte, error) {
	if cfg.Keys.FieldKey != "" {
		key, err := cryptox.DecodeKey(cfg.Keys.FieldKey, cryptox.FieldKeySize)
		if err != nil {
			return nil, fmt.Errorf("AUTH_FIELD_KEY: %w", err)
		}
		return key, nil
	}

	key, generated, err := cryptox.LoadOrGenerateKey(cfg.Keys.FieldKeyFile, cryptox.FieldKeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to load field key: %w", err)
	}
	if generated {
		logger.Warn("generated new field encryption key", "path", cfg.Keys.FieldKeyFile)
	}
	return key, nil
}
