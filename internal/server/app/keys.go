package app

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrhteriyaki/kirov-server-emulator/pkg/cryptox"
)

const signingKeyFile = "remoteauth.pem"

// loadOrCreateSigningKey reads the remote-auth signing key from the data
// directory, generating and persisting one on first boot. Losing the key only
// invalidates certificates still inside their 180-second window, but keeping
// it stable lets dedicated servers pin the public key.
func loadOrCreateSigningKey(dataDir string) (ed25519.PrivateKey, error) {
	path := filepath.Join(dataDir, signingKeyFile)

	pemData, err := os.ReadFile(path)
	if err == nil {
		key, parseErr := cryptox.ParseEd25519Key(pemData)
		if parseErr != nil {
			return nil, fmt.Errorf("parse signing key %s: %w", path, parseErr)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read signing key %s: %w", path, err)
	}

	pemData, err = cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, pemData, 0o600); err != nil {
		return nil, fmt.Errorf("write signing key %s: %w", path, err)
	}

	return cryptox.ParseEd25519Key(pemData)
}
