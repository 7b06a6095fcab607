package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// MaxPlayback bounds a single utterance.
const MaxPlayback = 30 * time.Second

// Player plays an audio file, returning when playback ends or ctx is done.
type Player interface {
	Play(ctx context.Context, path string) error
}

// CommandPlayer runs an external program with the audio path appended to
// its arguments, e.g. ffplay -nodisp -autoexit -loglevel quiet.
type CommandPlayer struct {
	Command []string
}

func NewCommandPlayer(command []string) (*CommandPlayer, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, fmt.Errorf("no audio player configured")
	}
	if _, err := exec.LookPath(command[0]); err != nil {
		return nil, fmt.Errorf("audio player %q not found: %w", command[0], err)
	}
	return &CommandPlayer{Command: command}, nil
}

func (p *CommandPlayer) Play(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, MaxPlayback)
	defer cancel()

	args := append(append([]string{}, p.Command[1:]...), path)
	cmd := exec.CommandContext(ctx, p.Command[0], args...)
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if err == nil {
		return nil
	}
	// Cut short by a newer utterance or the playback cap.
	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil
		}
		return ctx.Err()
	}
	return fmt.Errorf("audio player failed: %w", err)
}
