package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestSpinner(ctx context.Context, message string) (*Spinner, *syncBuffer) {
	var out syncBuffer
	s := newSpinnerWithContext(ctx, message)
	s.out = &out
	return s, &out
}

func TestSpinnerDrawsMessage(t *testing.T) {
	s, out := newTestSpinner(context.Background(), "Solving 8 tasks...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Solving 8 tasks...") {
		t.Errorf("spinner output %q does not contain the message", out.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := newTestSpinner(ctx, "Solving...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancellation after its context is canceled")
	}
	s.Stop()
}

func TestSpinnerCancelledByTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s, _ := newTestSpinner(ctx, "Solving...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancellation after the deadline")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := newTestSpinner(context.Background(), "Solving...")
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithError("failed")
}

func TestSpinnerElapsed(t *testing.T) {
	s, _ := newTestSpinner(context.Background(), "Solving...")
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.StopWithSuccess("done")

	if s.Elapsed() < 20*time.Millisecond {
		t.Errorf("Elapsed() = %v, want at least 20ms", s.Elapsed())
	}
}

func TestSpinnerStopWithOutcome(t *testing.T) {
	failed := errors.New("solver failed")

	tests := []struct {
		name     string
		cancel   bool
		err      error
		contains string
	}{
		{"success", false, nil, "compared"},
		{"failure", false, failed, "comparison failed"},
		{"interrupted", true, failed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureUI(t)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			s, _ := newTestSpinner(ctx, "Comparing...")
			s.Start()
			if tt.cancel {
				cancel()
			}

			s.StopWithOutcome(tt.err, "compared", "comparison failed")

			got := buf.String()
			if tt.contains == "" {
				if got != "" {
					t.Errorf("interrupted run printed %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("output %q does not contain %q", got, tt.contains)
			}
		})
	}
}
