package objcache

import (
	"encoding"
	"fmt"
	"path/filepath"

	"github.com/unkn0wn-root/objcache/internal/util"
)

// KeyText returns the default textual form of a key. It prefers
// fmt.Stringer, then encoding.TextMarshaler, then fmt.Sprint.
//
// Keys with equal text share one file location even when they are not
// equal as Go values.
func KeyText(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case fmt.Stringer:
		return k.String()
	case encoding.TextMarshaler:
		if b, err := k.MarshalText(); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(key)
}

// StandardFileLocation joins container with the SHA-1 hex digest of text.
// Digest collisions are not detected.
func StandardFileLocation(text, container string) string {
	return filepath.Join(container, util.SHA1Hex(text))
}
