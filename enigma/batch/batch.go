// Package batch enciphers many independent messages in parallel.
//
// Each message gets its own machine from the factory, so messages never share rotor
// state. Within one message the symbols are still processed in order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/TheusHen/Enigma/enigma/machine"
)

var ErrNoFactory = errors.New("batch: machine factory required")

// Factory returns a fresh machine at the agreed start positions.
type Factory func() (*machine.Machine, error)

// MessageError records which message of a batch failed.
type MessageError struct {
	Index int
	Err   error
}

func (e *MessageError) Error() string {
	return fmt.Sprintf("batch: message %d: %v", e.Index, e.Err)
}

func (e *MessageError) Unwrap() error { return e.Err }

// Encode runs every message through its own machine with at most workers goroutines.
// Results are returned in input order. The first failure cancels the remaining work.
// A workers value <= 0 uses GOMAXPROCS.
func Encode(ctx context.Context, factory Factory, messages []string, workers int) ([]string, error) {
	if factory == nil {
		return nil, ErrNoFactory
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]string, len(messages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, msg := range messages {
		if gctx.Err() != nil {
			break
		}
		i, msg := i, msg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := factory()
			if err != nil {
				return &MessageError{Index: i, Err: err}
			}
			enc, err := m.EncodeMessage(msg)
			if err != nil {
				return &MessageError{Index: i, Err: err}
			}
			out[i] = enc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// a cancelled parent can stop the loop before any goroutine reports it
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
