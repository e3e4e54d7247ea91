package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

const (
	version  byte = 1
	hdrLen        = 4 + 1 + 1 + 4
	flagZstd byte = 1 << 0
	knownFlg      = flagZstd
)

var (
	ErrCorrupt = errors.New("objcache: corrupt file frame")
	magic4     = [...]byte{'O', 'B', 'J', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Framer wraps transform output in a self-describing frame:
//
//	magic(4) | ver(1) | flags(1) | vlen(u32 be) | payload(vlen)
//
// Payloads of at least threshold bytes are zstd-compressed when that makes
// them smaller. Compressed frames are always readable, whatever threshold
// the reading Framer was built with.
type Framer struct {
	threshold int
	enc       *zstd.Encoder
	dec       *zstd.Decoder
}

// NewFramer builds a Framer. threshold <= 0 disables compression on write.
// level is a zstd level (1-22); 0 selects the library default.
func NewFramer(threshold, level int) (*Framer, error) {
	f := &Framer{threshold: threshold}
	var err error
	if threshold > 0 {
		opts := []zstd.EOption{}
		if level > 0 {
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		}
		f.enc, err = zstd.NewWriter(nil, opts...)
		if err != nil {
			return nil, fmt.Errorf("wire: zstd encoder: %w", err)
		}
	}
	f.dec, err = zstd.NewReader(nil)
	if err != nil {
		if f.enc != nil {
			_ = f.enc.Close()
		}
		return nil, fmt.Errorf("wire: zstd decoder: %w", err)
	}
	return f, nil
}

func (f *Framer) Encode(payload []byte) []byte {
	var flags byte
	if f.enc != nil && len(payload) >= f.threshold {
		if z := f.enc.EncodeAll(payload, nil); len(z) < len(payload) {
			payload = z
			flags |= flagZstd
		}
	}

	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(flags)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func (f *Framer) Decode(b []byte) ([]byte, error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version || b[5]&^knownFlg != 0 {
		return nil, ErrCorrupt
	}
	flags := b[5]

	off := 6
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // trailing bytes are corruption too
		return nil, ErrCorrupt
	}
	payload := b[off : off+vlen]

	if flags&flagZstd != 0 {
		out, err := f.dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return out, nil
	}
	return payload, nil
}

// Close releases the zstd encoder/decoder. The Framer must not be used after.
func (f *Framer) Close() {
	if f.enc != nil {
		_ = f.enc.Close()
	}
	f.dec.Close()
}
