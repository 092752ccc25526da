package studiosite

import (
	"testing"
	"time"
)

// fail records a failed attempt the way the login handler does: Check the
// limit first, Record only when the attempt goes through.
func fail(t *testing.T, limiter *LoginLimiter, ip string) bool {
	t.Helper()
	if !limiter.Check(ip) {
		return false
	}
	limiter.Record(ip)
	return true
}

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewLoginLimiter(2, 200*time.Millisecond)
	ip := "203.0.113.10"

	if !fail(t, limiter, ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if !fail(t, limiter, ip) {
		t.Fatalf("expected second attempt to be allowed")
	}
	if limiter.Check(ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewLoginLimiter(1, 150*time.Millisecond)
	ip := "203.0.113.20"

	if !fail(t, limiter, ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if limiter.Check(ip) {
		t.Fatalf("expected second attempt to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Check(ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter := NewLoginLimiter(1, 200*time.Millisecond)

	if !fail(t, limiter, "203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !fail(t, limiter, "203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Check("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestLoginLimiterCheckDoesNotRecord(t *testing.T) {
	limiter := NewLoginLimiter(1, 200*time.Millisecond)
	ip := "203.0.113.40"

	for i := 0; i < 5; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("check %d recorded an attempt", i)
		}
	}
	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected ip to be blocked after recorded failure")
	}
}
