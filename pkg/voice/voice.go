// Package voice captures audio and turns it into note text. Whether voice
// input works at all is decided once, at startup: the service probes the
// recorder, checks the transcription model gate, and locks in either a
// functioning pipeline or a no-op one. Callers never re-probe mid-session.
package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrUnsupported is returned by a service whose probe decided voice input
// cannot work here (no microphone, no recorder backend, or no model).
var ErrUnsupported = errors.New("voice: input not supported on this device")

// ErrNotRecording is returned by Finish without a matching Start.
var ErrNotRecording = errors.New("voice: no recording in progress")

// Recorder is a device audio capture backend.
type Recorder interface {
	// Supported reports whether this backend can capture audio here.
	// Probed once at service construction.
	Supported() bool
	// Start begins capturing.
	Start(ctx context.Context) error
	// Stop ends capturing and returns the captured audio.
	Stop(ctx context.Context) (io.ReadCloser, error)
}

// Transcriber converts captured audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// ModelGate answers whether the transcription model is provisioned.
type ModelGate interface {
	Available() bool
}

// Config wires a Service.
type Config struct {
	Recorder    Recorder
	Transcriber Transcriber
	Gate        ModelGate
	Logger      *slog.Logger
}

// Service is the voice input pipeline. Safe for use from one dictation at
// a time; concurrent dictations are not a supported mode.
type Service struct {
	recorder    Recorder
	transcriber Transcriber
	gate        ModelGate
	logger      *slog.Logger
	supported   bool
	recording   bool
}

// New probes the configured backends and returns a Service that is either
// fully functioning or permanently a no-op. The decision is final for the
// lifetime of the service.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	supported := cfg.Recorder != nil && cfg.Transcriber != nil && cfg.Recorder.Supported()
	if !supported {
		logger.Info("voice input disabled", "reason", "no capture backend")
	}

	return &Service{
		recorder:    cfg.Recorder,
		transcriber: cfg.Transcriber,
		gate:        cfg.Gate,
		logger:      logger,
		supported:   supported,
	}
}

// Supported reports the probe's verdict on the capture hardware.
func (s *Service) Supported() bool {
	return s.supported
}

// Ready reports whether a dictation can start right now: hardware support
// plus a provisioned transcription model.
func (s *Service) Ready() bool {
	if !s.supported {
		return false
	}
	return s.gate == nil || s.gate.Available()
}

// Start begins a dictation.
func (s *Service) Start(ctx context.Context) error {
	if !s.supported {
		return ErrUnsupported
	}
	if s.gate != nil && !s.gate.Available() {
		return fmt.Errorf("voice: transcription model not provisioned")
	}
	if s.recording {
		return fmt.Errorf("voice: recording already in progress")
	}

	if err := s.recorder.Start(ctx); err != nil {
		return fmt.Errorf("start recording: %w", err)
	}
	s.recording = true
	s.logger.Debug("dictation started")
	return nil
}

// Finish stops the dictation and returns the transcript. The raw text is
// returned as-is; the editor session applies the noise filter when it
// decides whether to append.
func (s *Service) Finish(ctx context.Context) (string, error) {
	if !s.supported {
		return "", ErrUnsupported
	}
	if !s.recording {
		return "", ErrNotRecording
	}
	s.recording = false

	audio, err := s.recorder.Stop(ctx)
	if err != nil {
		return "", fmt.Errorf("stop recording: %w", err)
	}
	defer audio.Close()

	text, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	s.logger.Debug("dictation transcribed", "chars", len(text))
	return text, nil
}

// Cancel abandons an in-progress dictation, discarding the audio.
func (s *Service) Cancel(ctx context.Context) error {
	if !s.supported || !s.recording {
		return nil
	}
	s.recording = false

	audio, err := s.recorder.Stop(ctx)
	if err != nil {
		return fmt.Errorf("stop recording: %w", err)
	}
	return audio.Close()
}
