package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// Player plays synthesized clips through an external audio player.
type Player struct {
	synth Synthesizer
}

// NewPlayer creates a player for the given synthesizer.
func NewPlayer(synth Synthesizer) *Player {
	return &Player{synth: synth}
}

// Say synthesizes the text and plays it, blocking until playback ends.
func (p *Player) Say(ctx context.Context, text string) error {
	clip, err := p.synth.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("speech synthesis failed: %w", err)
	}
	return PlayClip(ctx, clip)
}

// Speak is the fire-and-forget variant: playback runs in its own
// goroutine, failures are logged and never surface to the caller.
// Overlapping calls overlap audibly; there is no queueing.
func (p *Player) Speak(text string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := p.Say(ctx, text); err != nil {
			fmt.Fprintf(os.Stderr, "Speech error: %v\n", err)
		}
	}()
}

// PlayClip writes the clip to a temporary file and plays it with a
// platform audio player.
func PlayClip(ctx context.Context, clip *Clip) error {
	f, err := os.CreateTemp("", "petitverbe-*."+clip.Format)
	if err != nil {
		return fmt.Errorf("failed to create temp audio file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(clip.Data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	f.Close()

	cmd, err := playbackCommand(ctx, f.Name(), clip.Format)
	if err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("audio playback failed: %w", err)
	}
	return nil
}

// playbackCommand picks a platform-specific audio player.
func playbackCommand(ctx context.Context, audioFile, format string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "afplay", audioFile), nil
	case "linux":
		// Try multiple commands in order of preference. mpg123 only
		// handles MP3, so it is skipped for WAV clips.
		if format == "mp3" {
			if _, err := exec.LookPath("mpg123"); err == nil {
				return exec.CommandContext(ctx, "mpg123", "-q", audioFile), nil
			}
		}
		if _, err := exec.LookPath("ffplay"); err == nil {
			return exec.CommandContext(ctx, "ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", audioFile), nil
		}
		if _, err := exec.LookPath("play"); err == nil {
			return exec.CommandContext(ctx, "play", "-q", audioFile), nil
		}
		if _, err := exec.LookPath("paplay"); err == nil {
			return exec.CommandContext(ctx, "paplay", audioFile), nil
		}
		if _, err := exec.LookPath("aplay"); err == nil {
			return exec.CommandContext(ctx, "aplay", "-q", audioFile), nil
		}
		return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return exec.CommandContext(ctx, "cmd", "/c", "start", "/min", "/wait", audioFile), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
