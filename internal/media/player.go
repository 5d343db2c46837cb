// Package media runs external player processes for audio and video inserts.
//
// Playback is bounded: a play call returns when the player exits on its own
// or when the requested duration elapses, whichever comes first. On timeout
// the player receives SIGINT and, after a grace period, SIGKILL.
package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/avstage/broadcastd/internal/logging"
)

// Player plays media files for a bounded duration.
type Player interface {
	PlayAudio(ctx context.Context, file string, duration time.Duration) error
	PlayVideo(ctx context.Context, file string, duration time.Duration) error
}

// Config holds the player command templates. The file path is appended as
// the final argument of the command.
type Config struct {
	AudioCommand string `toml:"audio_command" env:"AUDIO_COMMAND" comment:"Command used to play audio inserts, file path appended"`
	VideoCommand string `toml:"video_command" env:"VIDEO_COMMAND" comment:"Command used to play video inserts, file path appended"`
}

// DefaultConfig returns ffplay-based player commands.
func DefaultConfig() Config {
	return Config{
		AudioCommand: "ffplay -nodisp -autoexit -loglevel error",
		VideoCommand: "ffplay -fs -autoexit -loglevel error",
	}
}

// ExecPlayer runs media inserts as subprocesses.
type ExecPlayer struct {
	cfg             Config
	logger          logging.Logger
	gracefulTimeout time.Duration
	killTimeout     time.Duration
}

// NewExecPlayer creates a player using the given command templates.
func NewExecPlayer(cfg Config) *ExecPlayer {
	return &ExecPlayer{
		cfg:             cfg,
		logger:          logging.GetLogger("media"),
		gracefulTimeout: 5 * time.Second,
		killTimeout:     5 * time.Second,
	}
}

// PlayAudio plays an audio file, stopping it after duration.
func (p *ExecPlayer) PlayAudio(ctx context.Context, file string, duration time.Duration) error {
	return p.play(ctx, p.cfg.AudioCommand, file, duration)
}

// PlayVideo plays a video file, stopping it after duration.
func (p *ExecPlayer) PlayVideo(ctx context.Context, file string, duration time.Duration) error {
	return p.play(ctx, p.cfg.VideoCommand, file, duration)
}

func (p *ExecPlayer) play(ctx context.Context, command, file string, duration time.Duration) error {
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("media file %s: %w", file, err)
	}

	args, err := parseCommand(command)
	if err != nil {
		return fmt.Errorf("parse player command: %w", err)
	}
	if len(args) == 0 {
		return fmt.Errorf("empty player command")
	}
	args = append(args, file)

	cmd := exec.Command(args[0], args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start player: %w", err)
	}
	p.logger.Info("Player started", "file", file, "pid", cmd.Process.Pid, "duration", duration)

	outputDone := make(chan struct{}, 2)
	go func() {
		p.streamOutput(stdout, "stdout")
		outputDone <- struct{}{}
	}()
	go func() {
		p.streamOutput(stderr, "stderr")
		outputDone <- struct{}{}
	}()
	defer func() {
		<-outputDone
		<-outputDone
	}()

	processDone := make(chan error, 1)
	go func() {
		processDone <- cmd.Wait()
	}()

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case err := <-processDone:
		if err != nil {
			return fmt.Errorf("player exited: %w", err)
		}
		return nil
	case <-timer.C:
		p.logger.Debug("Playback duration elapsed, stopping player", "file", file)
		p.sendStopSignal(cmd)
		return p.waitForExit(cmd, processDone)
	case <-ctx.Done():
		p.logger.Info("Playback cancelled", "file", file)
		p.sendStopSignal(cmd)
		p.waitForExit(cmd, processDone)
		return ctx.Err()
	}
}

// sendStopSignal sends SIGINT to the player without waiting.
func (p *ExecPlayer) sendStopSignal(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := cmd.Process.Signal(syscall.SIGINT); err != nil && !errors.Is(err, os.ErrProcessDone) {
		p.logger.Warn("Failed to send SIGINT", "error", err)
	}
}

// waitForExit waits for the player to exit, force-killing after the grace period.
// A player stopped by signal is treated as a normal bounded-playback exit.
func (p *ExecPlayer) waitForExit(cmd *exec.Cmd, processDone <-chan error) error {
	select {
	case <-processDone:
		return nil
	case <-time.After(p.gracefulTimeout):
		p.logger.Warn("Graceful stop timeout, forcing kill", "timeout", p.gracefulTimeout)
		if cmd.Process != nil {
			if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				p.logger.Error("Failed to kill player", "error", err)
			}
		}
		select {
		case <-processDone:
			return nil
		case <-time.After(p.killTimeout):
			return fmt.Errorf("player did not exit after kill signal")
		}
	}
}

// streamOutput forwards player output to the module logger.
func (p *ExecPlayer) streamOutput(reader io.Reader, source string) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		p.logger.Debug(scanner.Text(), "source", source)
	}
	if err := scanner.Err(); err != nil {
		p.logger.Warn("Error reading player output", "source", source, "error", err)
	}
}

// parseCommand parses a command string into arguments.
// Handles quoted strings and basic escaping.
func parseCommand(command string) ([]string, error) {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	command = strings.TrimSpace(command)
	runes := []rune(command)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' || r == '\'':
			switch {
			case !inQuote:
				inQuote = true
				quoteChar = r
			case r == quoteChar:
				inQuote = false
				quoteChar = 0
			default:
				current.WriteRune(r)
			}
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		case r == '\\' && i+1 < len(runes):
			i++
			current.WriteRune(runes[i])
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	if inQuote {
		return nil, fmt.Errorf("unclosed quote in command")
	}

	return args, nil
}
