package objcache

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/objcache/internal/wire"
	pr "github.com/unkn0wn-root/objcache/provider"
)

// fileTier stores framed transform output in a provider, one entry per
// storage location.
type fileTier[K comparable, V any] struct {
	p      pr.Provider
	framer *wire.Framer
	tr     Transformer[K, V]
	locate func(op string, key K) (string, error)
	log    Logger
	hooks  Hooks
}

func (f *fileTier[K, V]) load(ctx context.Context, key K) (V, bool, error) {
	var zero V
	loc, err := f.locate("load", key)
	if err != nil {
		return zero, false, err
	}

	raw, ok, err := f.p.Get(ctx, loc)
	if err != nil {
		return zero, false, fileError("load", loc, ErrIOFailure, err)
	}
	if !ok {
		return zero, false, nil
	}
	payload, err := f.framer.Decode(raw)
	if err != nil {
		return zero, false, fileError("load", loc, ErrDecodeFailure, err)
	}
	v, err := f.decode(key, loc, payload)
	if err != nil {
		return zero, false, fileError("load", loc, ErrDecodeFailure, err)
	}
	return v, true, nil
}

func (f *fileTier[K, V]) save(ctx context.Context, key K, v V) error {
	loc, err := f.locate("save", key)
	if err != nil {
		return err
	}

	payload, err := f.encode(key, loc, v)
	if err != nil {
		return fileError("save", loc, ErrEncodeFailure, err)
	}
	if err := f.p.Set(ctx, loc, f.framer.Encode(payload)); err != nil {
		return fileError("save", loc, ErrIOFailure, err)
	}
	return nil
}

// exists checks presence only; content is not validated.
func (f *fileTier[K, V]) exists(ctx context.Context, key K) (bool, error) {
	loc, err := f.locate("exists", key)
	if err != nil {
		return false, err
	}
	ok, err := f.p.Has(ctx, loc)
	if err != nil {
		return false, fileError("exists", loc, ErrIOFailure, err)
	}
	return ok, nil
}

func (f *fileTier[K, V]) remove(ctx context.Context, key K) error {
	loc, err := f.locate("remove", key)
	if err != nil {
		return err
	}
	if err := f.p.Del(ctx, loc); err != nil {
		return fileError("remove", loc, ErrIOFailure, err)
	}
	return nil
}

func (f *fileTier[K, V]) encode(key K, loc string, v V) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = f.panicked("encode", loc, r)
		}
	}()
	return f.tr.Encode(key, v)
}

func (f *fileTier[K, V]) decode(key K, loc string, b []byte) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = f.panicked("decode", loc, r)
		}
	}()
	return f.tr.Decode(key, b)
}

func (f *fileTier[K, V]) panicked(op, loc string, r any) error {
	f.hooks.TransformPanicked(op, loc, r)
	f.log.Warn("transform panicked", Fields{"op": op, "location": loc, "panic": fmt.Sprint(r)})
	return fmt.Errorf("%s transform panicked: %v", op, r)
}
