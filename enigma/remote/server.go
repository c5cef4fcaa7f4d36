// Package remote serves a station's encipherment over the wire protocol.
//
// Every stream carries one exchange: the client sends an encode request, the server
// enciphers it on a fresh machine and answers with a response or a failure frame.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/TheusHen/Enigma/enigma"
	"github.com/TheusHen/Enigma/enigma/protocol"
	"github.com/TheusHen/Enigma/enigma/transport/quic"
)

var ErrNoStation = errors.New("remote: station required")

type Server struct {
	Station *enigma.Station
	Logger  *slog.Logger
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return s.Logger
}

// Serve accepts connections until ctx is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context, ln *quic.Listener) error {
	if s.Station == nil {
		return ErrNoStation
	}
	log := s.logger()
	log.Info("enigma station listening", "address", ln.Addr().String())
	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("remote: accept: %w", err)
		}
		go s.serveConn(ctx, conn)
	}
}

func (s *Server) serveConn(ctx context.Context, conn quic.Conn) {
	log := s.logger().With("peer", conn.RemoteAddr().String())
	defer func() { _ = conn.CloseWithError(0, "") }()
	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			log.Debug("connection closed", "error", err)
			return
		}
		go func() {
			defer stream.Close()
			if err := s.HandleStream(ctx, stream); err != nil {
				log.Warn("stream failed", "error", err)
			}
		}()
	}
}

// HandleStream answers a single request read from rw. Engine errors are reported to the
// peer as failure frames and are not returned; the returned error is about the stream.
func (s *Server) HandleStream(ctx context.Context, rw io.ReadWriter) error {
	if s.Station == nil {
		return ErrNoStation
	}
	f, err := protocol.ReadFrame(rw)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if f.Type == protocol.MessageTypeClose {
		return nil
	}

	req, err := protocol.DecodeRequest(f)
	if err != nil {
		return s.fail(rw, fmt.Errorf("%w: %w", protocol.ErrBadRequest, err))
	}
	out, err := s.Station.Encode(ctx, req.Positions, req.Text)
	if err != nil {
		s.logger().Debug("encode rejected", "positions", req.Positions, "error", err)
		return s.fail(rw, err)
	}
	reply, err := protocol.Response{Text: out}.Frame()
	if err != nil {
		return err
	}
	return protocol.WriteFrame(rw, reply)
}

func (s *Server) fail(w io.Writer, cause error) error {
	f, err := protocol.NewFailure(cause).Frame()
	if err != nil {
		return err
	}
	return protocol.WriteFrame(w, f)
}
