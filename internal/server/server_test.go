package server

import (
	"sync"
	"testing"
	"time"

	"github.com/lawnchairsociety/gridwalk/internal/config"
)

// TestServer_Shutdown_CalledTwice tests that calling Shutdown() twice doesn't panic
func TestServer_Shutdown_CalledTwice(t *testing.T) {
	s := NewServer(config.DefaultConfig(), nil)

	// First shutdown should work
	s.Shutdown()

	// Second shutdown should not panic (protected by sync.Once)
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Second Shutdown() call panicked: %v", r)
		}
	}()

	s.Shutdown()
}

// TestServer_Shutdown_Concurrent tests that concurrent Shutdown() calls are safe
func TestServer_Shutdown_Concurrent(t *testing.T) {
	s := NewServer(config.DefaultConfig(), nil)

	var wg sync.WaitGroup
	panicCount := 0
	var mu sync.Mutex

	// Try to shutdown from multiple goroutines simultaneously
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					panicCount++
					mu.Unlock()
				}
			}()
			s.Shutdown()
		}()
	}

	wg.Wait()

	if panicCount > 0 {
		t.Errorf("Concurrent Shutdown() calls caused %d panics", panicCount)
	}
}

// TestServer_NewServer_Defaults tests that NewServer wires its collaborators
func TestServer_NewServer_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewServer(cfg, nil)
	defer s.Shutdown()

	if s.cfg != cfg {
		t.Error("Config not set correctly")
	}

	if s.connLimiter == nil {
		t.Error("Connection limiter should be initialized")
	}

	if s.authLimiter == nil {
		t.Error("Auth rate limiter should be initialized")
	}

	if s.sessions == nil {
		t.Error("Sessions map should be initialized")
	}

	if s.shutdown == nil {
		t.Error("Shutdown channel should be initialized")
	}

	if s.SessionCount() != 0 {
		t.Errorf("Expected 0 sessions, got %d", s.SessionCount())
	}
}

// TestServer_GetUptime tests that uptime is tracked correctly
func TestServer_GetUptime(t *testing.T) {
	s := NewServer(config.DefaultConfig(), nil)
	defer s.Shutdown()

	// Uptime should be very small initially
	uptime := s.GetUptime()
	if uptime < 0 {
		t.Error("Uptime should be non-negative")
	}

	// Wait a bit and check uptime increased
	time.Sleep(50 * time.Millisecond)
	uptime2 := s.GetUptime()
	if uptime2 <= uptime {
		t.Error("Uptime should increase over time")
	}
}
