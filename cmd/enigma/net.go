package main

import (
	"context"
	"fmt"

	"github.com/TheusHen/Enigma/enigma/config"
	"github.com/TheusHen/Enigma/enigma/remote"
	"github.com/TheusHen/Enigma/enigma/transport/quic"
)

func runServe(ctx context.Context, e *env, cfg config.Config, args []string) error {
	fs := newFlagSet(e, "serve")
	sf := addStationFlags(fs, cfg)
	listen := fs.String("listen", cfg.ListenAddr, "UDP address to listen on")
	if err := parse(fs, args); err != nil {
		return err
	}

	st, err := e.station(ctx, *sf, cfg.Passphrase)
	if err != nil {
		return err
	}
	ln, err := quic.Listen(*listen)
	if err != nil {
		return err
	}
	defer ln.Close()

	srv := &remote.Server{Station: st, Logger: e.logger}
	return srv.Serve(ctx, ln)
}

func runRemote(ctx context.Context, e *env, cfg config.Config, args []string) error {
	fs := newFlagSet(e, "remote")
	addr := fs.String("addr", cfg.RemoteAddr, "station to dial")
	positions := fs.String("s", cfg.Positions, "start positions, one symbol per rotor")
	if err := parse(fs, args); err != nil {
		return err
	}
	msg, err := message(fs)
	if err != nil {
		return err
	}

	c, err := remote.Dial(ctx, *addr)
	if err != nil {
		return err
	}
	defer c.Close()

	out, err := c.Encode(ctx, *positions, msg)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, out)
	return nil
}
