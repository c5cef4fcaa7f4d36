// Package quic carries the remote encipherment protocol over QUIC.
package quic

import (
	"context"
	"net"
	"time"

	q "github.com/quic-go/quic-go"
)

// Conn and Stream are the quic-go types the remote package works with.
type (
	Conn   = q.Connection
	Stream = q.Stream
)

const DefaultIdleTimeout = 30 * time.Second

func quicConfig() *q.Config {
	return &q.Config{MaxIdleTimeout: DefaultIdleTimeout}
}

type Listener struct {
	inner *q.Listener
}

func Listen(addr string) (*Listener, error) {
	tlsConf, err := NewServerTLSConfig()
	if err != nil {
		return nil, err
	}
	ln, err := q.ListenAddr(addr, tlsConf, quicConfig())
	if err != nil {
		return nil, err
	}
	return &Listener{inner: ln}, nil
}

func (l *Listener) Accept(ctx context.Context) (Conn, error) {
	return l.inner.Accept(ctx)
}

func (l *Listener) Addr() net.Addr { return l.inner.Addr() }

func (l *Listener) Close() error { return l.inner.Close() }

func Dial(ctx context.Context, addr string) (Conn, error) {
	return q.DialAddr(ctx, addr, NewClientTLSConfig(), quicConfig())
}
