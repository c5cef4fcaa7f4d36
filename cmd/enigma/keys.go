package main

import (
	"context"
	"fmt"
	"os"

	"github.com/TheusHen/Enigma/enigma"
	"github.com/TheusHen/Enigma/enigma/config"
	"github.com/TheusHen/Enigma/enigma/key"
	"github.com/TheusHen/Enigma/enigma/plugboard"
	"github.com/TheusHen/Enigma/enigma/random"
)

func runKeygen(ctx context.Context, e *env, cfg config.Config, args []string) error {
	fs := newFlagSet(e, "keygen")
	out := fs.String("out", cfg.KeyPath, "key file to write")
	force := fs.Bool("force", false, "replace an existing key file")
	seal := fs.Bool("seal", false, "seal the key file with a passphrase")
	passEnv := fs.String("passphrase-env", cfg.PassphraseEnv, "environment variable holding the passphrase")
	shards := fs.Int("shards", 0, "split the key into this many data shards instead of one file")
	parity := fs.Int("parity", 2, "parity shards to add when splitting")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return usageErrorf("keygen takes no arguments")
	}

	data, err := enigma.GenerateKey(ctx, random.Crypto())
	if err != nil {
		return err
	}
	if *seal {
		pass := cfg.Passphrase
		if *passEnv != cfg.PassphraseEnv {
			pass, _ = e.lookup(*passEnv)
		}
		if pass == "" {
			return fmt.Errorf("set %s to seal the key file: %w", *passEnv, key.ErrEmptyPassphrase)
		}
		if data, err = key.Seal(data, []byte(pass)); err != nil {
			return err
		}
	}

	if *shards > 0 {
		parts, err := key.Split(data, *shards, *parity)
		if err != nil {
			return err
		}
		for _, s := range parts {
			b, err := s.MarshalBinary()
			if err != nil {
				return err
			}
			name := shardName(*out, s.Index)
			if err := e.writeNew(name, b, *force); err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "Key shard written to: %s\n", name)
		}
		e.logger.Info("daily key split", "data", *shards, "parity", *parity, "sealed", *seal)
		return nil
	}

	if err := e.writeNew(*out, data, *force); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Daily key generated at: %s\n", *out)
	return nil
}

func shardName(keyPath string, index int) string {
	return fmt.Sprintf("%s.shard%d", keyPath, index)
}

func runJoin(_ context.Context, e *env, cfg config.Config, args []string) error {
	fs := newFlagSet(e, "join")
	out := fs.String("out", cfg.KeyPath, "key file to write")
	force := fs.Bool("force", false, "replace an existing key file")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return usageErrorf("join needs at least one shard file")
	}

	shards := make([]key.Shard, 0, fs.NArg())
	for _, name := range fs.Args() {
		b, err := os.ReadFile(e.path(name))
		if err != nil {
			// a lost courier is what parity is for
			e.logger.Warn("skipping unreadable shard", "path", name, "error", err)
			continue
		}
		var s key.Shard
		if err := s.UnmarshalBinary(b); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		shards = append(shards, s)
	}
	data, err := key.Join(shards)
	if err != nil {
		return err
	}
	// a sealed key stays sealed; only a plain key can be checked here
	if !key.IsSealed(data) {
		if _, err := key.LoadDailyKey(data); err != nil {
			return err
		}
	}
	if err := e.writeNew(*out, data, *force); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Daily key rebuilt at: %s\n", *out)
	return nil
}

func runPlugboard(_ context.Context, e *env, cfg config.Config, args []string) error {
	fs := newFlagSet(e, "plugboard")
	out := fs.String("out", cfg.PlugboardPath, "plugboard file to write")
	force := fs.Bool("force", false, "replace an existing plugboard file")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return usageErrorf("plugboard takes no arguments")
	}
	if err := e.writeNew(*out, plugboard.Template(), *force); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Plugboard configuration generated at: %s\n", *out)
	return nil
}

func runStationKey(_ context.Context, e *env, _ config.Config, args []string) error {
	fs := newFlagSet(e, "stationkey")
	out := fs.String("out", "station", "write OUT.pub and OUT.sec")
	force := fs.Bool("force", false, "replace existing key files")
	if err := parse(fs, args); err != nil {
		return err
	}
	keys, err := key.GenerateStationKeys()
	if err != nil {
		return err
	}
	if err := e.writeNew(*out+".sec", keys.Private, *force); err != nil {
		return err
	}
	if err := e.writeNew(*out+".pub", keys.Public, *force); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Station keys written to: %s.pub, %s.sec\n", *out, *out)
	return nil
}

func runWrap(_ context.Context, e *env, cfg config.Config, args []string) error {
	fs := newFlagSet(e, "wrap")
	to := fs.String("to", "", "station public key file")
	in := fs.String("key", cfg.KeyPath, "daily key file to wrap (plain or sealed)")
	out := fs.String("out", "", "wrapped key file to write")
	force := fs.Bool("force", false, "replace an existing output file")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *to == "" || *out == "" {
		return usageErrorf("wrap needs -to and -out")
	}
	pub, err := os.ReadFile(e.path(*to))
	if err != nil {
		return err
	}
	data, err := os.ReadFile(e.path(*in))
	if err != nil {
		return err
	}
	wrapped, err := key.Wrap(pub, data)
	if err != nil {
		return err
	}
	if err := e.writeNew(*out, wrapped, *force); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Daily key wrapped for %s at: %s\n", *to, *out)
	return nil
}

func runUnwrap(_ context.Context, e *env, cfg config.Config, args []string) error {
	fs := newFlagSet(e, "unwrap")
	with := fs.String("with", "", "station private key file")
	in := fs.String("in", "", "wrapped key file")
	out := fs.String("out", cfg.KeyPath, "daily key file to write")
	force := fs.Bool("force", false, "replace an existing key file")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *with == "" || *in == "" {
		return usageErrorf("unwrap needs -with and -in")
	}
	priv, err := os.ReadFile(e.path(*with))
	if err != nil {
		return err
	}
	wrapped, err := os.ReadFile(e.path(*in))
	if err != nil {
		return err
	}
	data, err := key.Unwrap(priv, wrapped)
	if err != nil {
		return err
	}
	if err := e.writeNew(*out, data, *force); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Daily key unwrapped at: %s\n", *out)
	return nil
}
