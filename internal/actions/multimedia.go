package actions

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Multimedia drives media players and audio through playerctl and
// amixer. Every call degrades to ErrActionFailed when the tool is
// missing or no player is running.
type Multimedia struct{}

func NewMultimedia() *Multimedia {
	return &Multimedia{}
}

// PlayPause toggles the active media player.
func (m *Multimedia) PlayPause(ctx context.Context) error {
	_, err := runCommand(ctx, shortTimeout, "playerctl", "play-pause")
	return err
}

// NextTrack skips to the next track.
func (m *Multimedia) NextTrack(ctx context.Context) error {
	_, err := runCommand(ctx, shortTimeout, "playerctl", "next")
	return err
}

// PreviousTrack goes back one track.
func (m *Multimedia) PreviousTrack(ctx context.Context) error {
	_, err := runCommand(ctx, shortTimeout, "playerctl", "previous")
	return err
}

// CurrentTrack reports "title by artist" for the active player.
func (m *Multimedia) CurrentTrack(ctx context.Context) (string, error) {
	out, err := runCommand(ctx, shortTimeout, "playerctl", "metadata", "--format", "{{title}} by {{artist}}")
	if err != nil {
		return "", err
	}
	track := strings.TrimSpace(out)
	if track == "" || track == "by" {
		return "", fmt.Errorf("%w: nothing playing", ErrActionFailed)
	}
	return track, nil
}

// VolumeUp raises master volume by ten percent.
func (m *Multimedia) VolumeUp(ctx context.Context) error {
	_, err := runCommand(ctx, shortTimeout, "amixer", "-D", "pulse", "sset", "Master", "10%+")
	return err
}

// VolumeDown lowers master volume by ten percent.
func (m *Multimedia) VolumeDown(ctx context.Context) error {
	_, err := runCommand(ctx, shortTimeout, "amixer", "-D", "pulse", "sset", "Master", "10%-")
	return err
}

// Mute toggles master mute.
func (m *Multimedia) Mute(ctx context.Context) error {
	_, err := runCommand(ctx, shortTimeout, "amixer", "-D", "pulse", "sset", "Master", "toggle")
	return err
}

// SetVolume sets master volume to an absolute percentage.
func (m *Multimedia) SetVolume(ctx context.Context, percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: volume %d out of range", ErrActionFailed, percent)
	}
	_, err := runCommand(ctx, shortTimeout, "amixer", "-D", "pulse", "sset", "Master", fmt.Sprintf("%d%%", percent))
	return err
}

// Volume reads the current master volume percentage from amixer output.
func (m *Multimedia) Volume(ctx context.Context) (int, error) {
	out, err := runCommand(ctx, shortTimeout, "amixer", "-D", "pulse", "sget", "Master")
	if err != nil {
		return 0, err
	}
	return parseVolume(out)
}

func parseVolume(out string) (int, error) {
	start := strings.Index(out, "[")
	for start >= 0 {
		end := strings.Index(out[start:], "%]")
		if end > 0 {
			raw := out[start+1 : start+end]
			var level int
			if _, err := fmt.Sscanf(raw, "%d", &level); err == nil {
				return level, nil
			}
		}
		next := strings.Index(out[start+1:], "[")
		if next < 0 {
			break
		}
		start = start + 1 + next
	}
	return 0, fmt.Errorf("%w: volume not found in amixer output", ErrActionFailed)
}

// Screenshot captures the screen to a timestamped file in the user's
// Pictures directory.
func (m *Multimedia) Screenshot(ctx context.Context) (string, error) {
	file := fmt.Sprintf("%s/Pictures/screenshot_%s.png",
		homeDir(), time.Now().UTC().Format("20060102_150405"))
	switch {
	case commandExists("gnome-screenshot"):
		if _, err := runCommand(ctx, mediumTimeout, "gnome-screenshot", "-f", file); err != nil {
			return "", err
		}
	case commandExists("scrot"):
		if _, err := runCommand(ctx, mediumTimeout, "scrot", file); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: no screenshot tool installed", ErrActionFailed)
	}
	return file, nil
}
