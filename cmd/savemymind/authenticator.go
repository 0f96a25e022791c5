package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/TheReal-Flo/SaveMyMind/pkg/auth"
)

// consoleAuthenticator stands in for the device biometric prompt on the
// command line: the challenge is a y/N confirmation on the terminal.
type consoleAuthenticator struct{}

func (c *consoleAuthenticator) Capable(ctx context.Context) (bool, error) {
	return true, nil
}

func (c *consoleAuthenticator) Challenge(ctx context.Context, prompt string) error {
	fmt.Printf("%s [y/N]: ", prompt)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return &auth.ChallengeError{Reason: auth.ReasonSystemCancelled}
	}

	if strings.ToLower(strings.TrimSpace(line)) != "y" {
		return &auth.ChallengeError{Reason: auth.ReasonUserCancelled}
	}
	return nil
}

var _ auth.Authenticator = (*consoleAuthenticator)(nil)
