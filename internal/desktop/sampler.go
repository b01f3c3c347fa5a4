package desktop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrSamplingUnavailable means the window-listing facility is absent.
// Callers must treat it as "unknown", never as "nothing is running".
var ErrSamplingUnavailable = errors.New("desktop sampling unavailable")

// WindowRecord is one sampled top-level window. Produced fresh on every
// call; the sampler never caches across calls.
type WindowRecord struct {
	ProcessName string `json:"process_name"`
	WindowTitle string `json:"window_title"`
	PID         int    `json:"pid"`
	WindowID    string `json:"window_id"`
	Desktop     string `json:"desktop"`
	Class       string `json:"class"`
	Focused     bool   `json:"focused"`
}

// Sampler enumerates live top-level windows on demand.
type Sampler interface {
	ListWindows(ctx context.Context) ([]WindowRecord, error)
}

const samplerTimeout = 2 * time.Second

// WMCtrlSampler shells out to wmctrl for window enumeration and, best
// effort, xdotool for the focused window.
type WMCtrlSampler struct {
	wmctrlPath  string
	xdotoolPath string
}

func NewWMCtrlSampler(wmctrlPath, xdotoolPath string) *WMCtrlSampler {
	if strings.TrimSpace(wmctrlPath) == "" {
		wmctrlPath = "wmctrl"
	}
	if strings.TrimSpace(xdotoolPath) == "" {
		xdotoolPath = "xdotool"
	}
	return &WMCtrlSampler{wmctrlPath: wmctrlPath, xdotoolPath: xdotoolPath}
}

func (s *WMCtrlSampler) ListWindows(ctx context.Context) ([]WindowRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, samplerTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.wmctrlPath, "-lxp")
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			// exec.CommandContext may surface "signal: killed" instead of context cancellation.
			return nil, fmt.Errorf("%w: %v", ErrSamplingUnavailable, ctx.Err())
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, fmt.Errorf("%w: %s not found", ErrSamplingUnavailable, s.wmctrlPath)
		}
		errText := strings.TrimSpace(stderr.String())
		if errText == "" {
			errText = err.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrSamplingUnavailable, errText)
	}

	records := ParseWMCtrlOutput(stdout.String())
	if focused, ok := s.focusedWindowID(ctx); ok {
		for i := range records {
			if windowIDEqual(records[i].WindowID, focused) {
				records[i].Focused = true
			}
		}
	}
	return records, nil
}

// focusedWindowID asks xdotool for the active window. Failure is soft:
// focus is a tie-break hint, not a requirement.
func (s *WMCtrlSampler) focusedWindowID(ctx context.Context) (string, bool) {
	cmd := exec.CommandContext(ctx, s.xdotoolPath, "getactivewindow")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", false
	}
	id := strings.TrimSpace(stdout.String())
	if id == "" {
		return "", false
	}
	return id, true
}

// ParseWMCtrlOutput parses `wmctrl -lxp` lines:
//
//	0x03a00003  0 1234 gnome-terminal.Gnome-terminal host Title words
func ParseWMCtrlOutput(raw string) []WindowRecord {
	var records []WindowRecord
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 6 {
			continue
		}
		pid, err := strconv.Atoi(parts[2])
		if err != nil {
			pid = 0
		}
		class := parts[3]
		title := strings.Join(parts[5:], " ")
		records = append(records, WindowRecord{
			ProcessName: processNameFromClass(class),
			WindowTitle: title,
			PID:         pid,
			WindowID:    parts[0],
			Desktop:     parts[1],
			Class:       class,
		})
	}
	return records
}

// processNameFromClass extracts the WM_CLASS instance name, e.g.
// "google-chrome" from "google-chrome.Google-chrome".
func processNameFromClass(class string) string {
	if i := strings.IndexByte(class, '.'); i > 0 {
		return strings.ToLower(class[:i])
	}
	return strings.ToLower(class)
}

// windowIDEqual compares wmctrl's hex window IDs against xdotool's
// decimal output.
func windowIDEqual(hexID, decID string) bool {
	h, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(hexID), "0x"), 16, 64)
	if err != nil {
		return false
	}
	d, err := strconv.ParseUint(strings.TrimSpace(decID), 10, 64)
	if err != nil {
		return false
	}
	return h == d
}
