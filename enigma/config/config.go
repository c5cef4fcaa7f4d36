// Package config resolves station settings from defaults, an optional enigma.yml,
// an optional .env file and ENIGMA_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/TheusHen/Enigma/enigma/machine"
)

const (
	FileName    = "enigma.yml"
	EnvFileName = ".env"
	envPrefix   = "ENIGMA_"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	KeyPath       string `yaml:"key_path"`
	PlugboardPath string `yaml:"plugboard_path"`
	Positions     string `yaml:"positions"`
	ListenAddr    string `yaml:"listen_addr"`
	RemoteAddr    string `yaml:"remote_addr"`
	ArchivePath   string `yaml:"archive_path"`
	Workers       int    `yaml:"workers"`
	// PassphraseEnv names the variable holding the key file passphrase.
	PassphraseEnv string `yaml:"passphrase_env"`

	// Passphrase is resolved from PassphraseEnv; it is never read from enigma.yml.
	Passphrase string `yaml:"-"`
}

func Default() Config {
	return Config{
		KeyPath:       "daily_key.enigma",
		PlugboardPath: "plugboard.yml",
		Positions:     "aaa",
		ListenAddr:    "127.0.0.1:4853",
		RemoteAddr:    "127.0.0.1:4853",
		Workers:       0,
		PassphraseEnv: "ENIGMA_PASSPHRASE",
	}
}

// LookupFunc is os.LookupEnv or a test double.
type LookupFunc func(string) (string, bool)

// Load resolves the configuration for the current working directory.
func Load() (Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("determine working directory: %w", err)
	}
	return LoadDir(wd, os.LookupEnv)
}

// LoadDir resolves the configuration from dir. Variables in the process environment
// (as seen through lookup) win over the same names in dir/.env.
func LoadDir(dir string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := applyFile(&cfg, data); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	dotenv, err := readDotenv(filepath.Join(dir, EnvFileName))
	if err != nil {
		return Config{}, err
	}
	env := func(name string) (string, bool) {
		if v, ok := lookup(name); ok {
			return v, true
		}
		v, ok := dotenv[name]
		return v, ok
	}
	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}
	if v, ok := env(cfg.PassphraseEnv); ok {
		cfg.Passphrase = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readDotenv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}

// fileConfig uses pointers so an absent key leaves the default alone.
type fileConfig struct {
	KeyPath       *string `yaml:"key_path"`
	PlugboardPath *string `yaml:"plugboard_path"`
	Positions     *string `yaml:"positions"`
	ListenAddr    *string `yaml:"listen_addr"`
	RemoteAddr    *string `yaml:"remote_addr"`
	ArchivePath   *string `yaml:"archive_path"`
	Workers       *int    `yaml:"workers"`
	PassphraseEnv *string `yaml:"passphrase_env"`
}

func applyFile(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}
	setString(&cfg.KeyPath, fc.KeyPath)
	setString(&cfg.PlugboardPath, fc.PlugboardPath)
	// positions may legitimately contain spaces, e.g. "a a"
	if fc.Positions != nil {
		cfg.Positions = *fc.Positions
	}
	setString(&cfg.ListenAddr, fc.ListenAddr)
	setString(&cfg.RemoteAddr, fc.RemoteAddr)
	setString(&cfg.ArchivePath, fc.ArchivePath)
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	setString(&cfg.PassphraseEnv, fc.PassphraseEnv)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func applyEnv(cfg *Config, env LookupFunc) error {
	strs := map[string]*string{
		"KEY":            &cfg.KeyPath,
		"PLUGBOARD":      &cfg.PlugboardPath,
		"LISTEN":         &cfg.ListenAddr,
		"REMOTE":         &cfg.RemoteAddr,
		"ARCHIVE":        &cfg.ArchivePath,
		"PASSPHRASE_ENV": &cfg.PassphraseEnv,
	}
	for name, dst := range strs {
		if v, ok := env(envPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := env(envPrefix + "POSITIONS"); ok && v != "" {
		cfg.Positions = v
	}
	if v, ok := env(envPrefix + "WORKERS"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sWORKERS: %v", ErrInvalidConfig, envPrefix, err)
		}
		cfg.Workers = n
	}
	return nil
}

// Validate checks the settings that would otherwise only fail deep inside a command.
func (c Config) Validate() error {
	if c.KeyPath == "" {
		return fmt.Errorf("%w: key path is empty", ErrInvalidConfig)
	}
	if _, err := machine.ParsePositions(c.Positions); err != nil {
		return fmt.Errorf("%w: positions: %w", ErrInvalidConfig, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	if c.PassphraseEnv == "" {
		return fmt.Errorf("%w: passphrase_env is empty", ErrInvalidConfig)
	}
	return nil
}
