package directory

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_SingleCall(t *testing.T) {
	var called int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	debouncer.Debounce(func() {
		atomic.AddInt32(&called, 1)
	})

	// Wait for debounce to execute
	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 1 {
		t.Errorf("Expected 1 call, got %d", called)
	}
}

func TestDebouncer_RapidCalls(t *testing.T) {
	var called int32
	var lastValue int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	// Rapid successive calls
	for i := 1; i <= 10; i++ {
		value := int32(i)
		debouncer.Debounce(func() {
			atomic.StoreInt32(&lastValue, value)
			atomic.AddInt32(&called, 1)
		})
		time.Sleep(10 * time.Millisecond)
	}

	// Wait for final debounce
	time.Sleep(100 * time.Millisecond)

	// Should only call once with the last value
	if atomic.LoadInt32(&called) != 1 {
		t.Errorf("Expected 1 call for rapid succession, got %d", called)
	}

	if atomic.LoadInt32(&lastValue) != 10 {
		t.Errorf("Expected last value 10, got %d", lastValue)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var called int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	debouncer.Debounce(func() {
		atomic.AddInt32(&called, 1)
	})

	// Cancel before execution
	time.Sleep(10 * time.Millisecond)
	debouncer.Cancel()

	// Wait to ensure it doesn't execute
	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 0 {
		t.Errorf("Expected 0 calls after cancel, got %d", called)
	}
}

func TestDebouncer_Immediate(t *testing.T) {
	var called int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	// Schedule a debounced call
	debouncer.Debounce(func() {
		atomic.AddInt32(&called, 1)
	})

	// Execute immediately (should cancel pending and run now)
	debouncer.Immediate(func() {
		atomic.AddInt32(&called, 10)
	})

	// Wait to ensure debounced call doesn't execute
	time.Sleep(100 * time.Millisecond)

	// Should only have the immediate call
	if atomic.LoadInt32(&called) != 10 {
		t.Errorf("Expected 10 (immediate only), got %d", called)
	}
}
