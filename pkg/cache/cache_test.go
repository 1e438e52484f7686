package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	payload := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}

	// Miss before Set
	if _, hit, _ := c.Get(ctx, "artifact"); hit {
		t.Error("Get before Set should miss")
	}

	// Round trip preserves binary payloads exactly
	if err := c.Set(ctx, "artifact", payload, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, hit, err := c.Get(ctx, "artifact")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %v, want %v", got, payload)
	}

	// Delete removes, idempotently
	if err := c.Delete(ctx, "artifact"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "artifact"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "artifact"); err != nil {
		t.Errorf("Delete of missing key should not error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "fleeting", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "fleeting"); hit {
		t.Error("expired entry should miss")
	}

	// Zero TTL never expires
	if err := c.Set(ctx, "stable", []byte("y"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "stable"); !hit {
		t.Error("zero-TTL entry should hit")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// SceneKey should include every generation input in the hash
	sk1 := k.SceneKey("tmpl", SceneKeyOpts{Width: 800, Height: 600, Seed: 42})
	sk2 := k.SceneKey("tmpl", SceneKeyOpts{Width: 800, Height: 600, Seed: 43})
	if sk1 == sk2 {
		t.Error("Different seeds should produce different scene keys")
	}
	sk3 := k.SceneKey("tmpl", SceneKeyOpts{Width: 800, Height: 600, Seed: 42, Valence: 0.9})
	if sk1 == sk3 {
		t.Error("Different sentiment should produce different scene keys")
	}

	// Identical inputs produce identical keys
	if sk1 != k.SceneKey("tmpl", SceneKeyOpts{Width: 800, Height: 600, Seed: 42}) {
		t.Error("SceneKey should be deterministic")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey(sk1, ArtifactKeyOpts{Format: "png", MaxTileDim: 2048})
	ak2 := k.ArtifactKey(sk1, ArtifactKeyOpts{Format: "png", MaxTileDim: 1024})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "server:")

	key := scoped.SceneKey("tmpl", SceneKeyOpts{Width: 800, Height: 600})
	if len(key) < 8 || key[:7] != "server:" {
		t.Errorf("ScopedKeyer SceneKey should be prefixed: %s", key)
	}
	if key[7:] != inner.SceneKey("tmpl", SceneKeyOpts{Width: 800, Height: 600}) {
		t.Error("ScopedKeyer should wrap the inner key unchanged")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("scene", ArtifactKeyOpts{Format: "png"})
	if key[:7] != "prefix:" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
