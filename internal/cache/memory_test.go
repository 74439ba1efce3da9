package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_TTL(t *testing.T) {
	c := NewMemoryCache("t", 10*time.Millisecond)
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "fp", []byte("hello"), 20*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, hit, err := c.Get(ctx, "fp")
	if err != nil || !hit || string(got) != "hello" {
		t.Fatalf("expected hit 'hello', got %q hit=%v err=%v", got, hit, err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, hit, _ = c.Get(ctx, "fp"); hit {
		t.Fatalf("expected miss after TTL expiry")
	}
}

func TestMemoryCache_CopiesValue_AndZeroTTLDeletes(t *testing.T) {
	c := NewMemoryCache("", time.Minute)
	defer c.Close()
	ctx := context.Background()

	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, time.Minute)
	buf[0] = 'X'
	if got, _, _ := c.Get(ctx, "k"); string(got) != "abc" {
		t.Fatalf("cache must not alias caller buffer, got %q", got)
	}

	_ = c.Set(ctx, "k", []byte("abc"), 0)
	if c.Len() != 0 {
		t.Fatalf("zero ttl should delete, len=%d", c.Len())
	}
}

func TestMemoryCache_Sweep(t *testing.T) {
	c := NewMemoryCache("", 5*time.Millisecond)
	defer c.Close()

	_ = c.Set(context.Background(), "k", []byte("v"), time.Millisecond)
	deadline := time.Now().Add(time.Second)
	for c.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expired entry was never swept")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestKey(t *testing.T) {
	if got := Key("v1", "abc"); got != "survey:v1:abc" {
		t.Fatalf("Key = %q", got)
	}
	if got := Key("", "abc"); got != "survey:abc" {
		t.Fatalf("Key without prefix = %q", got)
	}
}
