package linear_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.trai.ch/mono/internal/adapters/linear"
	"go.trai.ch/zerr"
)

func TestRenderer_LaneLifecycle(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Plan
	r.OnPlanEmit([]string{"state (code)", "state (decl)"})

	if !strings.Contains(stderr.String(), "Servicing 2 lane(s)") {
		t.Errorf("Expected plan message in stderr, got: %s", stderr.String())
	}

	// Lane start
	startTime := time.Now()
	r.OnLaneStart("span1", "", "state (code)", startTime)

	if !strings.Contains(stderr.String(), "[state (code)]") {
		t.Errorf("Expected lane start message, got: %s", stderr.String())
	}

	// Lane logs
	r.OnLaneLog("span1", []byte("first line\n"))
	r.OnLaneLog("span1", []byte("second line\n"))

	stdoutStr := stdout.String()
	if !strings.Contains(stdoutStr, "state (code)") || !strings.Contains(stdoutStr, "first line") {
		t.Errorf("Expected prefixed first line in stdout, got: %s", stdoutStr)
	}
	if !strings.Contains(stdoutStr, "state (code)") || !strings.Contains(stdoutStr, "second line") {
		t.Errorf("Expected prefixed second line in stdout, got: %s", stdoutStr)
	}

	// Lane complete
	endTime := startTime.Add(100 * time.Millisecond)
	r.OnLaneComplete("span1", endTime, nil)

	if !strings.Contains(stderr.String(), "Completed") {
		t.Errorf("Expected completion message, got: %s", stderr.String())
	}

	if err := r.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestRenderer_PartialLines(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	startTime := time.Now()
	r.OnLaneStart("span1", "", "view", startTime)

	// Send partial line
	r.OnLaneLog("span1", []byte("partial"))
	// Should not be printed yet
	if strings.Contains(stdout.String(), "partial") {
		t.Errorf("Partial line should not be printed immediately")
	}

	// Complete the line
	r.OnLaneLog("span1", []byte(" line\n"))
	if !strings.Contains(stdout.String(), "view") || !strings.Contains(stdout.String(), "partial line") {
		t.Errorf("Expected complete line, got: %s", stdout.String())
	}

	// Flush on complete
	r.OnLaneLog("span1", []byte("unflushed"))
	endTime := startTime.Add(50 * time.Millisecond)
	r.OnLaneComplete("span1", endTime, nil)

	if !strings.Contains(stdout.String(), "view") || !strings.Contains(stdout.String(), "unflushed") {
		t.Errorf("Expected flushed partial line on complete, got: %s", stdout.String())
	}
}

func TestRenderer_LaneError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	startTime := time.Now()
	r.OnLaneStart("span1", "", "failing-lane", startTime)

	r.OnLaneLog("span1", []byte("error output\n"))

	endTime := startTime.Add(50 * time.Millisecond)
	err := zerr.New("declaration bundling failed")
	r.OnLaneComplete("span1", endTime, err)

	stderrStr := stderr.String()
	if !strings.Contains(stderrStr, "Failed") {
		t.Errorf("Expected failure message, got: %s", stderrStr)
	}
	if !strings.Contains(stderrStr, "declaration bundling failed") {
		t.Errorf("Expected error message, got: %s", stderrStr)
	}
}

func TestRenderer_ConcurrentLanes(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	startTime := time.Now()
	r.OnLaneStart("span1", "", "state", startTime)
	r.OnLaneStart("span2", "", "view", startTime)

	// Interleaved logs
	r.OnLaneLog("span1", []byte("state line 1\n"))
	r.OnLaneLog("span2", []byte("view line 1\n"))
	r.OnLaneLog("span1", []byte("state line 2\n"))
	r.OnLaneLog("span2", []byte("view line 2\n"))

	stdoutStr := stdout.String()
	lines := strings.Split(strings.TrimSpace(stdoutStr), "\n")

	// Verify all lines are prefixed correctly
	expectedPrefixes := map[string]int{
		"[state]": 2,
		"[view]":  2,
	}

	for _, line := range lines {
		for prefix := range expectedPrefixes {
			if strings.Contains(line, prefix) {
				expectedPrefixes[prefix]--
			}
		}
	}

	for prefix, count := range expectedPrefixes {
		if count != 0 {
			t.Errorf("Expected prefix %s to appear exactly, remaining: %d", prefix, count)
		}
	}

	endTime := startTime.Add(100 * time.Millisecond)
	r.OnLaneComplete("span1", endTime, nil)
	r.OnLaneComplete("span2", endTime, nil)
}

func TestRenderer_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	startTime := time.Now()
	r.OnLaneStart("span1", "", "state", startTime)

	endTime := startTime.Add(50 * time.Millisecond)
	r.OnLaneComplete("span1", endTime, nil)

	// With NO_COLOR, output should not contain ANSI escape codes
	stderrStr := stderr.String()
	if strings.Contains(stderrStr, "\x1b[") {
		t.Errorf("Expected no ANSI codes with NO_COLOR, got: %s", stderrStr)
	}
}

func TestRenderer_OnLaneLogUnknownSpan(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	r.OnLaneLog("unknown-span", []byte("should be ignored\n"))

	if stdout.Len() != 0 {
		t.Errorf("Expected no output for unknown span, got: %s", stdout.String())
	}
}

func TestRenderer_OnLaneCompleteUnknownSpan(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	r.OnLaneComplete("unknown-span", time.Now(), nil)

	if stderr.Len() != 0 {
		t.Errorf("Expected no output for unknown span completion, got: %s", stderr.String())
	}
}

func TestRenderer_EmptyLines(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	startTime := time.Now()
	r.OnLaneStart("span1", "", "state", startTime)

	r.OnLaneLog("span1", []byte("\n"))
	r.OnLaneLog("span1", []byte("\r\n"))

	if strings.Contains(stdout.String(), "[state]") {
		t.Errorf("Expected no output for empty lines, got: %s", stdout.String())
	}
}

func TestRenderer_StopFlushesBuffers(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	startTime := time.Now()
	r.OnLaneStart("span1", "", "state", startTime)
	r.OnLaneStart("span2", "", "view", startTime)

	r.OnLaneLog("span1", []byte("partial1"))
	r.OnLaneLog("span2", []byte("partial2"))

	if err := r.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	stdoutStr := stdout.String()
	if !strings.Contains(stdoutStr, "partial1") {
		t.Errorf("Expected flushed partial1, got: %s", stdoutStr)
	}
	if !strings.Contains(stdoutStr, "partial2") {
		t.Errorf("Expected flushed partial2, got: %s", stdoutStr)
	}
}

func TestRenderer_Wait(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := linear.NewRenderer(&stdout, &stderr)

	if err := r.Wait(); err != nil {
		t.Errorf("Wait() should not error, got: %v", err)
	}
}

func TestRenderer_NilStdout(_ *testing.T) {
	r := linear.NewRenderer(nil, nil)

	startTime := time.Now()
	r.OnLaneStart("span1", "", "state", startTime)
	r.OnLaneLog("span1", []byte("test\n"))
	r.OnLaneComplete("span1", startTime.Add(time.Second), nil)
}
