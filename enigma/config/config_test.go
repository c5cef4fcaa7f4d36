package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/TheusHen/Enigma/enigma/machine"
)

func noEnv(string) (string, bool) { return "", false }

func mapEnv(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadDir(t.TempDir(), noEnv)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
key_path: keys/today.enigma
positions: "a a"
workers: 3
listen_addr: 0.0.0.0:9000
`)
	writeFile(t, dir, EnvFileName, "ENIGMA_WORKERS=5\nENIGMA_ARCHIVE=log.bin\nENIGMA_PASSPHRASE=from-dotenv\n")

	cfg, err := LoadDir(dir, mapEnv(map[string]string{
		"ENIGMA_ARCHIVE": "override.bin",
	}))
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if cfg.KeyPath != "keys/today.enigma" {
		t.Fatalf("KeyPath = %q", cfg.KeyPath)
	}
	if cfg.Positions != "a a" {
		t.Fatalf("Positions = %q", cfg.Positions)
	}
	if cfg.PlugboardPath != Default().PlugboardPath {
		t.Fatalf("absent key changed PlugboardPath to %q", cfg.PlugboardPath)
	}
	if cfg.ListenAddr != "0.0.0.0:9000" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Workers != 5 {
		t.Fatalf(".env should override the file: Workers = %d", cfg.Workers)
	}
	if cfg.ArchivePath != "override.bin" {
		t.Fatalf("environment should override .env: ArchivePath = %q", cfg.ArchivePath)
	}
	if cfg.Passphrase != "from-dotenv" {
		t.Fatalf("Passphrase = %q", cfg.Passphrase)
	}
}

func TestLoadCustomPassphraseEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "passphrase_env: STATION_SECRET\n")
	cfg, err := LoadDir(dir, mapEnv(map[string]string{
		"STATION_SECRET":    "s3cret",
		"ENIGMA_PASSPHRASE": "ignored",
	}))
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if cfg.Passphrase != "s3cret" {
		t.Fatalf("Passphrase = %q", cfg.Passphrase)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "positions: ab\n")
	if _, err := LoadDir(dir, noEnv); !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, machine.ErrInvalidStartPositions) {
		t.Fatalf("expected invalid positions, got %v", err)
	}

	if _, err := LoadDir(t.TempDir(), mapEnv(map[string]string{"ENIGMA_WORKERS": "many"})); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	bad := t.TempDir()
	writeFile(t, bad, FileName, "workers: [1, 2\n")
	if _, err := LoadDir(bad, noEnv); err == nil {
		t.Fatalf("expected parse error")
	}
}
