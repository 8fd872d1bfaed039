package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func TestSecretGeneratedAndPersisted(t *testing.T) {
	dir := t.TempDir()

	secret := LoadOrGenerateSecret(dir)
	if len(secret) != 64 {
		t.Fatalf("Expected 32 bytes hex-encoded, got %d chars", len(secret))
	}
	if _, err := hex.DecodeString(secret); err != nil {
		t.Errorf("Secret is not valid hex: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".rustpanel_secret"))
	if err != nil {
		t.Fatalf("Secret file not written: %v", err)
	}
	if string(data) != secret {
		t.Errorf("Secret file %q does not match returned value %q", data, secret)
	}

	if again := LoadOrGenerateSecret(dir); again != secret {
		t.Errorf("Second load regenerated the secret: %q vs %q", again, secret)
	}
}

func TestSecretFromExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".rustpanel_secret")
	if err := os.WriteFile(path, []byte("pre-seeded"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got := LoadOrGenerateSecret(dir); got != "pre-seeded" {
		t.Errorf("Expected file contents, got %q", got)
	}
}

func TestSecretEnvOverride(t *testing.T) {
	t.Setenv("RUSTPANEL_SECRET_KEY", "from-env")
	dir := t.TempDir()

	if got := LoadOrGenerateSecret(dir); got != "from-env" {
		t.Errorf("Expected env secret, got %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, ".rustpanel_secret")); !os.IsNotExist(err) {
		t.Error("Env override must not touch the secret file")
	}
}
