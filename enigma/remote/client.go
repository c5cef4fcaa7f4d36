package remote

import (
	"context"
	"fmt"
	"io"

	"github.com/TheusHen/Enigma/enigma/protocol"
	"github.com/TheusHen/Enigma/enigma/transport/quic"
)

// Client talks to a remote station. It is safe for concurrent use; each call opens
// its own stream.
type Client struct {
	conn quic.Conn
}

func Dial(ctx context.Context, addr string) (*Client, error) {
	conn, err := quic.Dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Encode asks the remote station to encipher text from the given start positions.
// Engine errors come back as *protocol.RemoteError and match the local sentinels
// with errors.Is.
func (c *Client) Encode(ctx context.Context, positions, text string) (string, error) {
	stream, err := c.conn.OpenStreamSync(ctx)
	if err != nil {
		return "", err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetDeadline(deadline)
	}
	return Exchange(stream, protocol.Request{Positions: positions, Text: text}, stream.Close)
}

func (c *Client) Close() error {
	return c.conn.CloseWithError(0, "")
}

// Exchange writes req, calls done (if any) to signal the end of the request, and reads
// the reply.
func Exchange(rw io.ReadWriter, req protocol.Request, done func() error) (string, error) {
	f, err := req.Frame()
	if err != nil {
		return "", err
	}
	if err := protocol.WriteFrame(rw, f); err != nil {
		return "", err
	}
	if done != nil {
		if err := done(); err != nil {
			return "", err
		}
	}

	reply, err := protocol.ReadFrame(rw)
	if err != nil {
		return "", err
	}
	switch reply.Type {
	case protocol.MessageTypeEncodeResponse:
		resp, err := protocol.DecodeResponse(reply)
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	case protocol.MessageTypeError:
		fl, err := protocol.DecodeFailure(reply)
		if err != nil {
			return "", err
		}
		return "", fl.Err()
	default:
		return "", fmt.Errorf("%w: %s", protocol.ErrUnexpectedType, reply.Type)
	}
}
