package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/TheusHen/Enigma/enigma"
	"github.com/TheusHen/Enigma/enigma/batch"
	"github.com/TheusHen/Enigma/enigma/config"
	"github.com/TheusHen/Enigma/enigma/machine"
	"github.com/TheusHen/Enigma/enigma/traffic"
)

func addStationFlags(fs *flag.FlagSet, cfg config.Config) *stationFlags {
	sf := &stationFlags{}
	fs.StringVar(&sf.keyPath, "key", cfg.KeyPath, "daily key file")
	fs.StringVar(&sf.plugboardPath, "plugboard", cfg.PlugboardPath, "plugboard file (missing means no cables)")
	return sf
}

// message joins the remaining arguments, so unquoted words still form one message.
func message(fs *flag.FlagSet) (string, error) {
	if fs.NArg() == 0 {
		return "", usageErrorf("missing message")
	}
	return strings.Join(fs.Args(), " "), nil
}

func runEncode(ctx context.Context, e *env, cfg config.Config, args []string) error {
	fs := newFlagSet(e, "encode")
	sf := addStationFlags(fs, cfg)
	positions := fs.String("s", cfg.Positions, "start positions, one symbol per rotor")
	if err := parse(fs, args); err != nil {
		return err
	}
	msg, err := message(fs)
	if err != nil {
		return err
	}

	st, err := e.station(ctx, *sf, cfg.Passphrase)
	if err != nil {
		return err
	}
	out, err := st.Encode(ctx, *positions, msg)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, out)
	return nil
}

func runBatch(ctx context.Context, e *env, cfg config.Config, args []string) error {
	fs := newFlagSet(e, "batch")
	sf := addStationFlags(fs, cfg)
	positions := fs.String("s", cfg.Positions, "start positions for every line")
	workers := fs.Int("workers", cfg.Workers, "parallel machines (0 uses every CPU)")
	archivePath := fs.String("archive", cfg.ArchivePath, "append the ciphertexts to this archive")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return usageErrorf("batch reads messages from stdin")
	}
	start, err := machine.ParsePositions(*positions)
	if err != nil {
		return err
	}

	var lines []string
	sc := bufio.NewScanner(e.stdin)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	st, err := e.station(ctx, *sf, cfg.Passphrase)
	if err != nil {
		return err
	}
	out, err := batch.Encode(ctx, func() (*machine.Machine, error) { return st.MachineAt(start) }, lines, *workers)
	if err != nil {
		return err
	}
	for _, line := range out {
		fmt.Fprintln(e.stdout, line)
	}
	e.logger.Info("batch encoded", "messages", len(out), "positions", *positions)

	if *archivePath == "" {
		return nil
	}
	return e.appendArchive(*archivePath, *positions, out)
}

func (e *env) appendArchive(path, indicator string, ciphertexts []string) error {
	a := traffic.New()
	data, err := os.ReadFile(e.path(path))
	switch {
	case err == nil:
		if a, err = traffic.Unmarshal(data); err != nil {
			return fmt.Errorf("archive %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	now := time.Now().UTC()
	for _, ct := range ciphertexts {
		if err := a.Add(traffic.Entry{Indicator: indicator, Ciphertext: ct, Sent: now}); err != nil {
			return err
		}
	}
	if data, err = a.Marshal(); err != nil {
		return err
	}
	if err := os.WriteFile(e.path(path), data, 0o600); err != nil {
		return err
	}
	e.logger.Info("archive updated", "path", path, "entries", a.Len())
	return nil
}

func runArchive(ctx context.Context, e *env, cfg config.Config, args []string) error {
	fs := newFlagSet(e, "archive")
	sf := addStationFlags(fs, cfg)
	in := fs.String("in", cfg.ArchivePath, "archive to read")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *in == "" {
		return usageErrorf("archive needs -in or archive_path")
	}

	data, err := os.ReadFile(e.path(*in))
	if err != nil {
		return err
	}
	a, err := traffic.Unmarshal(data)
	if err != nil {
		return err
	}
	st, err := e.station(ctx, *sf, cfg.Passphrase)
	if err != nil {
		return err
	}
	return printArchive(ctx, e, a, st)
}

func printArchive(ctx context.Context, e *env, a *traffic.Archive, st *enigma.Station) error {
	plain, err := a.Decrypt(ctx, st)
	if err != nil {
		return err
	}
	for i, entry := range a.Entries() {
		fmt.Fprintf(e.stdout, "%s\t%s\t%s\n", entry.Sent.Format(time.RFC3339), entry.Indicator, plain[i])
	}
	return nil
}
