package ratelimit

import (
	"testing"
	"time"
)

// Test 1: N requests pass, request N+1 is blocked
func TestAllow_EnforcesLimit(t *testing.T) {
	rl := NewRateLimiter(&Config{
		MaxRequests:     3,
		WindowSize:      time.Minute,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("client-a") {
			t.Fatalf("request %d unexpectedly blocked", i+1)
		}
	}
	if rl.Allow("client-a") {
		t.Fatalf("request over the limit was allowed")
	}
}

// Test 2: Keys are independent
func TestAllow_PerKey(t *testing.T) {
	rl := NewRateLimiter(&Config{
		MaxRequests:     1,
		WindowSize:      time.Minute,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	if !rl.Allow("a") {
		t.Fatalf("first request for a blocked")
	}
	if !rl.Allow("b") {
		t.Fatalf("first request for b blocked")
	}
	if rl.Allow("a") {
		t.Fatalf("second request for a allowed")
	}
}

// Test 3: The window slides - old requests expire
func TestAllow_WindowExpiry(t *testing.T) {
	rl := NewRateLimiter(&Config{
		MaxRequests:     1,
		WindowSize:      50 * time.Millisecond,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	if !rl.Allow("a") {
		t.Fatalf("first request blocked")
	}
	if rl.Allow("a") {
		t.Fatalf("second request within window allowed")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.Allow("a") {
		t.Fatalf("request after window expiry blocked")
	}
}

// Test 4: Reset clears a key immediately
func TestReset(t *testing.T) {
	rl := NewRateLimiter(&Config{
		MaxRequests:     1,
		WindowSize:      time.Minute,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	rl.Allow("a")
	if rl.Allow("a") {
		t.Fatalf("over-limit request allowed")
	}
	rl.Reset("a")
	if !rl.Allow("a") {
		t.Fatalf("request after reset blocked")
	}
}
