package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/andrewpaige1/flashcards-web/models"
)

const (
	RecordingName = "recording.wav"
	RecordingType = "audio/wav"
)

// Microphone hands out exclusive recordings.
type Microphone interface {
	Open(ctx context.Context) (Recording, error)
}

// Recording is a live capture holding the device. Stop ends the capture and
// returns the audio; Release gives the device back and must be safe to call
// after Stop and more than once.
type Recording interface {
	Stop() ([]byte, error)
	Release() error
}

// StartRecording acquires the microphone. Only an empty form can record.
func (f *Form) StartRecording(ctx context.Context, mic Microphone) error {
	if f.recording != nil {
		return ErrAlreadyRecording
	}
	if _, ok := f.input.(Empty); !ok {
		return ErrModeLocked
	}
	rec, err := mic.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMicrophoneUnavailable, err)
	}
	f.recording = rec
	return nil
}

// StopRecording stops the capture, releases the microphone and transcribes
// what was recorded into the prompt.
func (f *Form) StopRecording(ctx context.Context, tr Transcriber) (string, error) {
	rec := f.recording
	if rec == nil {
		return "", ErrNotRecording
	}
	f.recording = nil

	data, stopErr := rec.Stop()
	releaseErr := rec.Release()
	if stopErr != nil {
		return "", fmt.Errorf("stop recording: %w", stopErr)
	}
	if releaseErr != nil {
		return "", fmt.Errorf("release microphone: %w", releaseErr)
	}

	return f.AcceptRecording(ctx, tr, &models.Media{Name: RecordingName, MIMEType: RecordingType, Data: data})
}

// CommandMicrophone records through an external program that writes WAV
// audio to the path given as its last argument and finishes the file when
// interrupted, such as `arecord -f cd -t wav` or `sox -d`.
type CommandMicrophone struct {
	Command string
	Args    []string
	// Grace is how long Stop waits after an interrupt before killing.
	Grace time.Duration
}

func (m CommandMicrophone) Open(ctx context.Context) (Recording, error) {
	dir, err := os.MkdirTemp("", "flashcards-rec-")
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, RecordingName)

	args := append(append([]string{}, m.Args...), path)
	cmd := exec.Command(m.Command, args...)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	grace := m.Grace
	if grace <= 0 {
		grace = 3 * time.Second
	}
	return &commandRecording{cmd: cmd, dir: dir, path: path, grace: grace}, nil
}

type commandRecording struct {
	cmd     *exec.Cmd
	dir     string
	path    string
	grace   time.Duration
	stopped bool
}

func (r *commandRecording) Stop() ([]byte, error) {
	if r.stopped {
		return nil, ErrNotRecording
	}
	r.stopped = true

	done := make(chan error, 1)
	go func() { done <- r.cmd.Wait() }()

	if err := r.cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		_ = r.cmd.Process.Kill()
	}
	select {
	case <-done:
	case <-time.After(r.grace):
		_ = r.cmd.Process.Kill()
		<-done
	}

	return os.ReadFile(r.path)
}

func (r *commandRecording) Release() error {
	if !r.stopped {
		r.stopped = true
		_ = r.cmd.Process.Kill()
		_, _ = r.cmd.Process.Wait()
	}
	return os.RemoveAll(r.dir)
}
