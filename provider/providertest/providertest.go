// Package providertest checks a provider.Provider against the File tier
// contract.
package providertest

import (
	"bytes"
	"context"
	"testing"

	pr "github.com/unkn0wn-root/objcache/provider"
)

// Run exercises p with keys under prefix. p is not closed.
func Run(t *testing.T, p pr.Provider, prefix string) {
	t.Helper()
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		k := prefix + "missing"
		if b, ok, err := p.Get(ctx, k); err != nil || ok || b != nil {
			t.Fatalf("Get miss: b=%q ok=%v err=%v", b, ok, err)
		}
		if ok, err := p.Has(ctx, k); err != nil || ok {
			t.Fatalf("Has miss: ok=%v err=%v", ok, err)
		}
	})

	t.Run("set_get_has", func(t *testing.T) {
		k := prefix + "a"
		want := []byte{0, 1, 2, 'O', 'B', 'J'}
		if err := p.Set(ctx, k, want); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, ok, err := p.Get(ctx, k)
		if err != nil || !ok || !bytes.Equal(got, want) {
			t.Fatalf("Get: got=%x ok=%v err=%v", got, ok, err)
		}
		if ok, err := p.Has(ctx, k); err != nil || !ok {
			t.Fatalf("Has: ok=%v err=%v", ok, err)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		k := prefix + "b"
		if err := p.Set(ctx, k, []byte("one")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := p.Set(ctx, k, []byte("two")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if got, _, _ := p.Get(ctx, k); string(got) != "two" {
			t.Fatalf("overwrite: got %q", got)
		}
	})

	t.Run("del_idempotent", func(t *testing.T) {
		k := prefix + "c"
		if err := p.Set(ctx, k, []byte("x")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := p.Del(ctx, k); err != nil {
			t.Fatalf("Del: %v", err)
		}
		if err := p.Del(ctx, k); err != nil {
			t.Fatalf("second Del: %v", err)
		}
		if err := p.Del(ctx, prefix+"never-set"); err != nil {
			t.Fatalf("Del never-set: %v", err)
		}
		if _, ok, _ := p.Get(ctx, k); ok {
			t.Fatalf("Get after Del should miss")
		}
	})
}
