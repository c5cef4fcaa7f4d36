package protocol

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Request asks the remote station to encipher Text from the given start positions.
type Request struct {
	Positions string `msgpack:"positions"`
	Text      string `msgpack:"text"`
}

type Response struct {
	Text string `msgpack:"text"`
}

// Failure carries an error across the wire. Code selects the sentinel the client
// rebuilds; Message is the server's error text.
type Failure struct {
	Code    Code   `msgpack:"code"`
	Message string `msgpack:"message"`
}

func (r Request) Frame() (Frame, error) { return encode(MessageTypeEncodeRequest, r) }

func (r Response) Frame() (Frame, error) { return encode(MessageTypeEncodeResponse, r) }

func (f Failure) Frame() (Frame, error) { return encode(MessageTypeError, f) }

func encode(t MessageType, v any) (Frame, error) {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: t, Payload: payload}, nil
}

func decode(f Frame, want MessageType, v any) error {
	if f.Type != want {
		return fmt.Errorf("%w: got %s, want %s", ErrUnexpectedType, f.Type, want)
	}
	if err := msgpack.Unmarshal(f.Payload, v); err != nil {
		return fmt.Errorf("protocol: decode %s: %w", want, err)
	}
	return nil
}

func DecodeRequest(f Frame) (Request, error) {
	var r Request
	err := decode(f, MessageTypeEncodeRequest, &r)
	return r, err
}

func DecodeResponse(f Frame) (Response, error) {
	var r Response
	err := decode(f, MessageTypeEncodeResponse, &r)
	return r, err
}

func DecodeFailure(f Frame) (Failure, error) {
	var fl Failure
	err := decode(f, MessageTypeError, &fl)
	return fl, err
}
