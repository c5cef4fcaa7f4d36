package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/TheusHen/Enigma/enigma"
	"github.com/TheusHen/Enigma/enigma/key"
	"github.com/TheusHen/Enigma/enigma/plugboard"
)

// stationFlags are shared by every command that needs key material.
type stationFlags struct {
	keyPath       string
	plugboardPath string
}

func (e *env) readKey(path, passphrase string) ([]byte, error) {
	data, err := os.ReadFile(e.path(path))
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	if !key.IsSealed(data) {
		return data, nil
	}
	if passphrase == "" {
		return nil, fmt.Errorf("key file %s is sealed: %w", path, key.ErrEmptyPassphrase)
	}
	return key.Open(data, []byte(passphrase))
}

// readPlugboard treats a missing file as a plugboard without cables.
func (e *env) readPlugboard(path string) (*plugboard.Plugboard, error) {
	if path == "" {
		return plugboard.Empty(), nil
	}
	data, err := os.ReadFile(e.path(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.logger.Debug("no plugboard file, using an empty plugboard", "path", path)
			return plugboard.Empty(), nil
		}
		return nil, fmt.Errorf("read plugboard file: %w", err)
	}
	pb, err := plugboard.Load(data)
	if err != nil {
		return nil, fmt.Errorf("plugboard %s: %w", path, err)
	}
	return pb, nil
}

func (e *env) station(ctx context.Context, sf stationFlags, passphrase string) (*enigma.Station, error) {
	data, err := e.readKey(sf.keyPath, passphrase)
	if err != nil {
		return nil, err
	}
	pb, err := e.readPlugboard(sf.plugboardPath)
	if err != nil {
		return nil, err
	}
	return enigma.NewStation(ctx, data, pb)
}

// writeNew writes data to path and refuses to replace an existing file unless force.
func (e *env) writeNew(path string, data []byte, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(e.path(path), flags, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists (use -force to replace it)", path)
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
