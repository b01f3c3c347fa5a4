package actions

import (
	"context"
	"fmt"
	"strings"
)

// WMCtrlWindows focuses and closes windows through wmctrl. Implements
// browser.WindowActions.
type WMCtrlWindows struct {
	wmctrlPath string
}

func NewWMCtrlWindows(wmctrlPath string) *WMCtrlWindows {
	if strings.TrimSpace(wmctrlPath) == "" {
		wmctrlPath = "wmctrl"
	}
	return &WMCtrlWindows{wmctrlPath: wmctrlPath}
}

func (w *WMCtrlWindows) Activate(ctx context.Context, windowID string) error {
	if windowID == "" {
		return fmt.Errorf("%w: empty window id", ErrActionFailed)
	}
	_, err := runCommand(ctx, shortTimeout, w.wmctrlPath, "-ia", windowID)
	return err
}

func (w *WMCtrlWindows) Close(ctx context.Context, windowID string) error {
	if windowID == "" {
		return fmt.Errorf("%w: empty window id", ErrActionFailed)
	}
	_, err := runCommand(ctx, shortTimeout, w.wmctrlPath, "-ic", windowID)
	return err
}

// CloseByPID terminates a tracked process. Used for "close it" when the
// context entry carries a PID but no window id.
func (w *WMCtrlWindows) CloseByPID(ctx context.Context, pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: invalid pid %d", ErrActionFailed, pid)
	}
	_, err := runCommand(ctx, shortTimeout, "kill", fmt.Sprintf("%d", pid))
	return err
}

// CloseByName terminates processes matching a process name fragment.
func (w *WMCtrlWindows) CloseByName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty process name", ErrActionFailed)
	}
	_, err := runCommand(ctx, shortTimeout, "pkill", "-f", name)
	return err
}
