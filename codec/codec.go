// Package codec holds the byte codecs objcache uses at the File tier boundary.
package codec

import "fmt"

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// ByName returns a ready codec for one of "cbor", "json", "msgpack".
// An empty name selects "cbor".
func ByName[V any](name string) (Codec[V], error) {
	switch name {
	case "", "cbor":
		return NewCBOR[V](false)
	case "json":
		return JSON[V]{}, nil
	case "msgpack":
		return Msgpack[V]{}, nil
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}
