package actions

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// System runs desktop system controls through their usual CLI tools.
// Power actions go through a confirm gate so a misheard phrase cannot
// shut the machine down.
type System struct {
	confirmPower bool
}

func NewSystem(confirmPower bool) *System {
	return &System{confirmPower: confirmPower}
}

// BrightnessUp raises screen brightness by ten percent.
func (s *System) BrightnessUp(ctx context.Context) error {
	return s.setBrightness(ctx, "+10%")
}

// BrightnessDown lowers screen brightness by ten percent.
func (s *System) BrightnessDown(ctx context.Context) error {
	return s.setBrightness(ctx, "10%-")
}

func (s *System) setBrightness(ctx context.Context, delta string) error {
	if commandExists("brightnessctl") {
		_, err := runCommand(ctx, shortTimeout, "brightnessctl", "set", delta)
		return err
	}
	if commandExists("xbacklight") {
		arg := "-inc"
		if strings.HasSuffix(delta, "-") {
			arg = "-dec"
		}
		_, err := runCommand(ctx, shortTimeout, "xbacklight", arg, "10")
		return err
	}
	return fmt.Errorf("%w: no brightness tool installed", ErrActionFailed)
}

// WifiOn enables wireless networking through NetworkManager.
func (s *System) WifiOn(ctx context.Context) error {
	_, err := runCommand(ctx, mediumTimeout, "nmcli", "radio", "wifi", "on")
	return err
}

// WifiOff disables wireless networking through NetworkManager.
func (s *System) WifiOff(ctx context.Context) error {
	_, err := runCommand(ctx, mediumTimeout, "nmcli", "radio", "wifi", "off")
	return err
}

// WifiStatus reports "enabled" or "disabled".
func (s *System) WifiStatus(ctx context.Context) (string, error) {
	out, err := runCommand(ctx, mediumTimeout, "nmcli", "radio", "wifi")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// BluetoothOn powers the bluetooth controller on.
func (s *System) BluetoothOn(ctx context.Context) error {
	_, err := runCommand(ctx, mediumTimeout, "bluetoothctl", "power", "on")
	return err
}

// BluetoothOff powers the bluetooth controller off.
func (s *System) BluetoothOff(ctx context.Context) error {
	_, err := runCommand(ctx, mediumTimeout, "bluetoothctl", "power", "off")
	return err
}

// BatteryLevel reads the battery charge percentage via upower.
func (s *System) BatteryLevel(ctx context.Context) (int, error) {
	devices, err := runCommand(ctx, mediumTimeout, "upower", "-e")
	if err != nil {
		return 0, err
	}
	battery := ""
	for _, line := range strings.Split(devices, "\n") {
		if strings.Contains(line, "battery") {
			battery = strings.TrimSpace(line)
			break
		}
	}
	if battery == "" {
		return 0, fmt.Errorf("%w: no battery device", ErrActionFailed)
	}
	info, err := runCommand(ctx, mediumTimeout, "upower", "-i", battery)
	if err != nil {
		return 0, err
	}
	for _, line := range strings.Split(info, "\n") {
		if !strings.Contains(line, "percentage") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		raw := strings.TrimSuffix(fields[len(fields)-1], "%")
		level, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: unreadable battery percentage %q", ErrActionFailed, raw)
		}
		return level, nil
	}
	return 0, fmt.Errorf("%w: battery percentage not reported", ErrActionFailed)
}

// DiskUsage reports used/total space on the root filesystem.
func (s *System) DiskUsage(ctx context.Context) (string, error) {
	out, err := runCommand(ctx, shortTimeout, "df", "-h", "/")
	if err != nil {
		return "", err
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("%w: unexpected df output", ErrActionFailed)
	}
	fields := strings.Fields(lines[1])
	if len(fields) < 5 {
		return "", fmt.Errorf("%w: unexpected df output", ErrActionFailed)
	}
	return fmt.Sprintf("%s used of %s (%s)", fields[2], fields[1], fields[4]), nil
}

// MemoryUsage reports used/total RAM.
func (s *System) MemoryUsage(ctx context.Context) (string, error) {
	out, err := runCommand(ctx, shortTimeout, "free", "-h")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "Mem:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			break
		}
		return fmt.Sprintf("%s used of %s", fields[2], fields[1]), nil
	}
	return "", fmt.Errorf("%w: unexpected free output", ErrActionFailed)
}

// LockScreen locks the session. Tries loginctl first, then the common
// desktop screensavers.
func (s *System) LockScreen(ctx context.Context) error {
	switch {
	case commandExists("loginctl"):
		_, err := runCommand(ctx, shortTimeout, "loginctl", "lock-session")
		return err
	case commandExists("gnome-screensaver-command"):
		_, err := runCommand(ctx, shortTimeout, "gnome-screensaver-command", "-l")
		return err
	case commandExists("xdg-screensaver"):
		_, err := runCommand(ctx, shortTimeout, "xdg-screensaver", "lock")
		return err
	}
	return fmt.Errorf("%w: no screen lock tool installed", ErrActionFailed)
}

// Shutdown powers the machine off after one minute. With the confirm
// gate enabled the caller must pass confirmed=true.
func (s *System) Shutdown(ctx context.Context, confirmed bool) error {
	if s.confirmPower && !confirmed {
		return fmt.Errorf("%w: shutdown requires confirmation", ErrActionFailed)
	}
	_, err := runCommand(ctx, shortTimeout, "shutdown", "-h", "+1")
	return err
}

// Reboot restarts the machine after one minute, same gate as Shutdown.
func (s *System) Reboot(ctx context.Context, confirmed bool) error {
	if s.confirmPower && !confirmed {
		return fmt.Errorf("%w: reboot requires confirmation", ErrActionFailed)
	}
	_, err := runCommand(ctx, shortTimeout, "shutdown", "-r", "+1")
	return err
}

// CancelShutdown cancels a pending shutdown or reboot.
func (s *System) CancelShutdown(ctx context.Context) error {
	_, err := runCommand(ctx, shortTimeout, "shutdown", "-c")
	return err
}
