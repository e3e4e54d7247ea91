package objcache

import (
	"errors"

	"github.com/unkn0wn-root/objcache/codec"
)

// ErrUseDefault may be returned by a TransformFuncs DecodeFunc to hand the
// bytes to the default codec instead.
var ErrUseDefault = errors.New("objcache: use default transform")

// Transformer converts values to and from the bytes stored by the File tier.
// The key is passed through so per-key formats are possible.
type Transformer[K comparable, V any] interface {
	Encode(key K, v V) ([]byte, error)
	Decode(key K, b []byte) (V, error)
}

// TransformFuncs builds a Transformer from plain functions. A nil direction
// falls back to the default CBOR codec, as does an EncodeFunc that returns
// (nil, nil) or a DecodeFunc that returns ErrUseDefault.
type TransformFuncs[K comparable, V any] struct {
	EncodeFunc func(key K, v V) ([]byte, error)
	DecodeFunc func(key K, b []byte) (V, error)
}

func (t TransformFuncs[K, V]) Encode(key K, v V) ([]byte, error) {
	if t.EncodeFunc != nil {
		b, err := t.EncodeFunc(key, v)
		if b != nil || err != nil {
			return b, err
		}
	}
	return defaultCodec[V]().Encode(v)
}

func (t TransformFuncs[K, V]) Decode(key K, b []byte) (V, error) {
	if t.DecodeFunc != nil {
		v, err := t.DecodeFunc(key, b)
		if !errors.Is(err, ErrUseDefault) {
			return v, err
		}
	}
	return defaultCodec[V]().Decode(b)
}

// WithCodec adapts a key-agnostic codec.
func WithCodec[K comparable, V any](c codec.Codec[V]) Transformer[K, V] {
	return codecTransformer[K, V]{c: c}
}

type codecTransformer[K comparable, V any] struct{ c codec.Codec[V] }

func (t codecTransformer[K, V]) Encode(_ K, v V) ([]byte, error) { return t.c.Encode(v) }
func (t codecTransformer[K, V]) Decode(_ K, b []byte) (V, error) { return t.c.Decode(b) }

// DefaultTransformer is the CBOR transform used when Options.Transformer is nil.
func DefaultTransformer[K comparable, V any]() Transformer[K, V] {
	return WithCodec[K, V](defaultCodec[V]())
}

func defaultCodec[V any]() codec.Codec[V] { return codec.DefaultCBOR[V]() }
