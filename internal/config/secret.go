package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"path/filepath"
)

const (
	secretFileName = ".rustpanel_secret"
	secretEnvVar   = "RUSTPANEL_SECRET_KEY"
)

// LoadOrGenerateSecret returns the JWT signing secret: the environment
// variable wins, then the secret file, and as a last resort a fresh
// 32-byte random key is generated and persisted next to the config.
func LoadOrGenerateSecret(configDir string) string {
	if env := os.Getenv(secretEnvVar); env != "" {
		return env
	}

	secretPath := filepath.Join(configDir, secretFileName)

	if data, err := os.ReadFile(secretPath); err == nil && len(data) > 0 {
		return string(data)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("could not generate secret key: %v", err)
	}
	secret := hex.EncodeToString(buf)

	if err := os.WriteFile(secretPath, []byte(secret), 0600); err != nil {
		log.Printf("could not persist secret key: %v", err)
	}

	return secret
}
