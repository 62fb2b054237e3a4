package shutdown

import (
	"sync"
	"testing"
	"time"
)

func TestOperationTracker_StartDone(t *testing.T) {
	tracker := NewOperationTracker()

	if !tracker.Start() {
		t.Fatal("Start() on fresh tracker should succeed")
	}
	if got := tracker.ActiveCount(); got != 1 {
		t.Errorf("ActiveCount() = %d, want 1", got)
	}

	tracker.Done()
	if got := tracker.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount() after Done = %d, want 0", got)
	}
}

func TestOperationTracker_RejectsAfterClose(t *testing.T) {
	tracker := NewOperationTracker()
	tracker.Close()

	if tracker.Start() {
		t.Error("Start() after Close should return false")
	}
	if !tracker.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
}

func TestOperationTracker_WaitCompletes(t *testing.T) {
	tracker := NewOperationTracker()

	for i := 0; i < 5; i++ {
		if !tracker.Start() {
			t.Fatal("Start() should succeed before Close")
		}
		go func() {
			time.Sleep(10 * time.Millisecond)
			tracker.Done()
		}()
	}

	tracker.Close()
	if err := tracker.Wait(5 * time.Second); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
	if got := tracker.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount() = %d, want 0", got)
	}
}

func TestOperationTracker_WaitTimeout(t *testing.T) {
	tracker := NewOperationTracker()

	if !tracker.Start() {
		t.Fatal("Start() should succeed")
	}
	defer tracker.Done()

	tracker.Close()
	if err := tracker.Wait(50 * time.Millisecond); err != ErrWaitTimeout {
		t.Errorf("Wait() error = %v, want ErrWaitTimeout", err)
	}
}

func TestOperationTracker_ConcurrentStartClose(t *testing.T) {
	tracker := NewOperationTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tracker.Start() {
				tracker.Done()
			}
		}()
	}

	tracker.Close()
	wg.Wait()

	if err := tracker.Wait(time.Second); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}
