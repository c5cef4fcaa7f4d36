package enigma

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for station events.
var (
	SignalKeyGenerated   = capitan.NewSignal("enigma.key.generated", "Daily key generated")
	SignalKeyLoaded      = capitan.NewSignal("enigma.key.loaded", "Daily key loaded into a station")
	SignalMessageEncoded = capitan.NewSignal("enigma.message.encoded", "Message enciphered")
)

// Keys for typed event data.
var (
	KeySize      = capitan.NewIntKey("size")
	KeyPairs     = capitan.NewIntKey("plugboard_pairs")
	KeyPositions = capitan.NewStringKey("positions")
	KeyDuration  = capitan.NewDurationKey("duration")
	KeyError     = capitan.NewErrorKey("error")
)

func emitKeyGenerated(ctx context.Context, size int, err error) {
	fields := []capitan.Field{KeySize.Field(size)}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalKeyGenerated, fields...)
		return
	}
	capitan.Emit(ctx, SignalKeyGenerated, fields...)
}

func emitKeyLoaded(ctx context.Context, size, pairs int, err error) {
	fields := []capitan.Field{
		KeySize.Field(size),
		KeyPairs.Field(pairs),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalKeyLoaded, fields...)
		return
	}
	capitan.Emit(ctx, SignalKeyLoaded, fields...)
}

// Positions are logged, never the text.
func emitMessageEncoded(ctx context.Context, positions string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyPositions.Field(positions),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMessageEncoded, fields...)
		return
	}
	capitan.Emit(ctx, SignalMessageEncoded, fields...)
}
