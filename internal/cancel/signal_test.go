package cancel

import (
	"sync"
	"testing"
	"time"
)

func TestSignal_InitiallyUntriggered(t *testing.T) {
	s := New()
	if s.IsTriggered() {
		t.Fatal("expected new signal to be untriggered")
	}
}

func TestSignal_WaitElapses(t *testing.T) {
	s := New()

	start := time.Now()
	if s.Wait(20 * time.Millisecond) {
		t.Fatal("expected Wait to report elapsed, got triggered")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("expected Wait to block for at least 20ms, returned after %v", elapsed)
	}
}

func TestSignal_WaitReturnsEarlyOnTrigger(t *testing.T) {
	s := New()

	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Trigger()
	}()

	start := time.Now()
	if !s.Wait(time.Hour) {
		t.Fatal("expected Wait to report triggered")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("expected Wait to return promptly after trigger, took %v", elapsed)
	}
}

func TestSignal_LevelTriggered(t *testing.T) {
	s := New()
	s.Trigger()

	for i := 0; i < 3; i++ {
		start := time.Now()
		if !s.Wait(time.Hour) {
			t.Fatalf("call %d: expected Wait to report triggered", i)
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Fatalf("call %d: expected immediate return, took %v", i, elapsed)
		}
	}
	if !s.IsTriggered() {
		t.Error("expected signal to stay triggered")
	}
}

func TestSignal_TriggerIdempotent(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Trigger()
		}()
	}
	wg.Wait()

	s.Trigger()
	if !s.IsTriggered() {
		t.Fatal("expected signal to be triggered")
	}
	select {
	case <-s.Done():
	default:
		t.Fatal("expected Done channel to be closed")
	}
}

func TestSignal_WaitNonPositive(t *testing.T) {
	s := New()
	if s.Wait(0) {
		t.Error("expected Wait(0) on untriggered signal to report false")
	}
	if s.Wait(-time.Second) {
		t.Error("expected Wait(-1s) on untriggered signal to report false")
	}

	s.Trigger()
	if !s.Wait(0) {
		t.Error("expected Wait(0) on triggered signal to report true")
	}
}
