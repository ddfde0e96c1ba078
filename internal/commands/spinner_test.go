package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSpinnerLifecycle_StopWithSuccess(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Connecting")
	s.start()
	// Let it spin briefly
	time.Sleep(50 * time.Millisecond)
	// Should stop cleanly and print success
	s.stopWithSuccess("done")

	if !strings.Contains(buf.String(), "done") {
		t.Errorf("missing success message: %q", buf.String())
	}
}

func TestSpinnerLifecycle_StopWithError(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Connecting")
	s.start()
	time.Sleep(30 * time.Millisecond)
	// Should stop cleanly on error (no panic), even twice
	s.stopWithError()
	s.stopOnce()
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	v, err := progress(&buf, false, "Working", "Done", func() (int, error) { return 7, nil })
	if v != 7 || err != nil || buf.Len() != 0 {
		t.Errorf("hidden progress = %d, %v, %q", v, err, buf.String())
	}

	_, err = progress(&buf, true, "Working", "Done", func() (int, error) { return 0, errors.New("nope") })
	if err == nil || strings.Contains(buf.String(), "Done") {
		t.Errorf("failed progress should not print success: %q", buf.String())
	}
}
