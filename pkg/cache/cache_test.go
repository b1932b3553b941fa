package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should never store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	// Miss before set.
	if _, hit, _ := c.Get(ctx, "poster"); hit {
		t.Error("unexpected hit before Set")
	}

	want := []byte("png bytes")
	if err := c.Set(ctx, "poster", want, time.Hour); err != nil {
		t.Fatal(err)
	}

	data, hit, err := c.Get(ctx, "poster")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v", hit, err)
	}
	if string(data) != string(want) {
		t.Errorf("data = %q, want %q", data, want)
	}

	if err := c.Delete(ctx, "poster"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "poster"); hit {
		t.Error("hit after Delete")
	}

	// Deleting a missing key is fine.
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "key", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should be a miss")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h3 := Hash([]byte("world")); h1 == h3 {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestHashJSON(t *testing.T) {
	type req struct {
		Theme string
		W, H  int
	}

	h1, err := HashJSON(req{Theme: "minimal", W: 2400, H: 3600})
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := HashJSON(req{Theme: "minimal", W: 2400, H: 3600})
	if h1 != h2 {
		t.Error("HashJSON should be deterministic for equal values")
	}

	h3, _ := HashJSON(req{Theme: "night", W: 2400, H: 3600})
	if h1 == h3 {
		t.Error("different requests should hash differently")
	}
}

func TestArtifactKey(t *testing.T) {
	k := NewDefaultKeyer()
	key := k.ArtifactKey("abc123", "png")
	if key != "artifact:abc123:png" {
		t.Errorf("ArtifactKey = %q", key)
	}
	if key == k.ArtifactKey("abc123", "svg") {
		t.Error("format must distinguish keys")
	}
}
