package encoder

import (
	"context"
	"sync"
)

// Lazy defers locating the encoder until a texture needs it. Resolve runs at
// most once; its error is returned by every later call.
type Lazy struct {
	Resolve func() (Encoder, error)

	once sync.Once
	enc  Encoder
	err  error
}

// Ready resolves the encoder if that has not happened yet.
func (l *Lazy) Ready() error {
	l.once.Do(func() { l.enc, l.err = l.Resolve() })
	return l.err
}

// Encode resolves the encoder on first use and delegates to it.
func (l *Lazy) Encode(ctx context.Context, src, dst string, p Params) error {
	if err := l.Ready(); err != nil {
		return err
	}
	return l.enc.Encode(ctx, src, dst, p)
}
