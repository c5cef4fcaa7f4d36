// Command enigma generates daily keys and enciphers messages with them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/TheusHen/Enigma/enigma/config"
)

const usage = `usage: enigma <command> [flags] [args]

commands:
  keygen     generate a daily key file
  join       rebuild a daily key from shard files
  stationkey generate a station key pair for wrapped keys
  wrap       encrypt a daily key to a station public key
  unwrap     recover a wrapped daily key with the station private key
  plugboard  write a plugboard template
  encode     encipher or decipher one message
  batch      encipher stdin line by line
  archive    read an archive written by batch -archive
  serve      serve encipherment over QUIC
  remote     encipher through a remote station
`

// errUsage marks errors that should exit with status 2.
var errUsage = errors.New("usage error")

// env is everything a command may touch outside the process.
type env struct {
	dir    string
	lookup config.LookupFunc
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// path resolves p against the working directory of the invocation.
func (e *env) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(e.dir, p)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	e := &env{
		dir:    wd,
		lookup: os.LookupEnv,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
	os.Exit(run(ctx, os.Args[1:], e))
}

type command func(ctx context.Context, e *env, cfg config.Config, args []string) error

var commands = map[string]command{
	"keygen":     runKeygen,
	"join":       runJoin,
	"stationkey": runStationKey,
	"wrap":       runWrap,
	"unwrap":     runUnwrap,
	"plugboard":  runPlugboard,
	"encode":     runEncode,
	"batch":      runBatch,
	"archive":    runArchive,
	"serve":      runServe,
	"remote":     runRemote,
}

func run(ctx context.Context, args []string, e *env) int {
	if len(args) == 0 {
		fmt.Fprint(e.stderr, usage)
		return 2
	}
	if args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
		fmt.Fprint(e.stdout, usage)
		return 0
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(e.stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	cfg, err := config.LoadDir(e.dir, e.lookup)
	if err != nil {
		fmt.Fprintf(e.stderr, "config: %v\n", err)
		return 1
	}

	if err := cmd(ctx, e, cfg, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if errors.Is(err, errUsage) {
			fmt.Fprintln(e.stderr, err)
			return 2
		}
		fmt.Fprintf(e.stderr, "enigma %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(e *env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet("enigma "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// parse wraps flag errors so they exit with status 2.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}
