// Package auth gates access to the note collection behind an optional
// local authentication challenge (biometric or device passcode). The gate
// owns the user preference and degrades gracefully: when the device cannot
// authenticate at all, access is allowed rather than locking the user out
// of their own notes.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
)

// Reason classifies why an authentication challenge did not succeed.
type Reason string

const (
	ReasonUnavailable     Reason = "unavailable"
	ReasonNotEnrolled     Reason = "not-enrolled"
	ReasonUserCancelled   Reason = "user-cancelled"
	ReasonSystemCancelled Reason = "system-cancelled"
	ReasonLockout         Reason = "lockout"
	ReasonFailed          Reason = "failed"
	ReasonPasscodeNotSet  Reason = "passcode-not-set"
	ReasonUnknown         Reason = "unknown"
)

// Message returns the user-facing explanation for a failure reason.
func (r Reason) Message() string {
	switch r {
	case ReasonUnavailable:
		return "Authentication is not available on this device."
	case ReasonNotEnrolled:
		return "No biometric credentials are enrolled. Set them up in your device settings."
	case ReasonUserCancelled:
		return "Authentication was cancelled."
	case ReasonSystemCancelled:
		return "Authentication was interrupted. Please try again."
	case ReasonLockout:
		return "Too many failed attempts. Use your device passcode to continue."
	case ReasonFailed:
		return "Authentication failed. Please try again."
	case ReasonPasscodeNotSet:
		return "No device passcode is set. Set one up to protect your notes."
	default:
		return "Something went wrong during authentication. Please try again."
	}
}

// ChallengeError is a failed authentication challenge.
type ChallengeError struct {
	Reason Reason
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// Authenticator is the device-side authentication capability.
type Authenticator interface {
	// Capable reports whether the device can run a challenge right now.
	// The error carries the reason when it cannot.
	Capable(ctx context.Context) (bool, error)
	// Challenge prompts the user and blocks until they pass, cancel, or
	// fail. A non-nil error should be a *ChallengeError when the cause is
	// known.
	Challenge(ctx context.Context, prompt string) error
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Gate decides whether the app may proceed past the lock screen. The
// enabled preference is persisted through the blob store so it survives
// restarts alongside the notes it protects.
type Gate struct {
	mu     sync.Mutex
	authn  Authenticator
	blob   core.BlobStore
	logger *slog.Logger
}

// New creates a Gate using the given device authenticator.
func New(authn Authenticator, blob core.BlobStore, opts ...Option) *Gate {
	g := &Gate{
		authn:  authn,
		blob:   blob,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether the user turned the lock on. Absent or
// unreadable preference means off.
func (g *Gate) Enabled(ctx context.Context) bool {
	data, ok, err := g.blob.Get(ctx, core.KeyBiometricPref)
	if err != nil {
		g.logger.Warn("could not read lock preference", "error", err)
		return false
	}
	return ok && string(data) == "true"
}

// SetEnabled persists the lock preference. Turning the lock on requires a
// passing challenge first, so a user cannot enable a lock they could never
// open.
func (g *Gate) SetEnabled(ctx context.Context, enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if enabled {
		capable, err := g.authn.Capable(ctx)
		if err != nil {
			return err
		}
		if !capable {
			return &ChallengeError{Reason: ReasonUnavailable}
		}
		if err := g.authn.Challenge(ctx, "Confirm to enable the app lock"); err != nil {
			return err
		}
	}

	value := "false"
	if enabled {
		value = "true"
	}
	if err := g.blob.Put(ctx, core.KeyBiometricPref, []byte(value)); err != nil {
		return fmt.Errorf("persist lock preference: %w", err)
	}
	g.logger.Info("lock preference changed", "enabled", enabled)
	return nil
}

// Require runs the gate at startup. It returns nil when access is
// granted: the lock is off, the device lost its authentication capability
// (graceful degradation, never a lockout from a capability regression), or
// the user passed the challenge. A *ChallengeError is returned when the
// user did not pass.
func (g *Gate) Require(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.Enabled(ctx) {
		return nil
	}

	capable, err := g.authn.Capable(ctx)
	if err != nil || !capable {
		// The lock was enabled when the device could authenticate. If it
		// no longer can, let the user in rather than bricking their notes.
		g.logger.Warn("device cannot authenticate, allowing access", "error", err)
		return nil
	}

	if err := g.authn.Challenge(ctx, "Unlock your notes"); err != nil {
		g.logger.Info("authentication challenge not passed", "error", err)
		return err
	}
	return nil
}
