package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// IdentityPrompter collects a display name from the user. The blocking
// stdin implementation below suits a terminal front end; a GUI would plug
// in a modal instead.
type IdentityPrompter interface {
	PromptIdentity() (string, error)
}

// StdinPrompter reads a display name from an input stream.
type StdinPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *StdinPrompter) PromptIdentity() (string, error) {
	fmt.Fprint(p.Out, "Enter your name: ")
	reader := bufio.NewReader(p.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GuestIdentity synthesizes a display name for users who skip the prompt
// or enter a meeting through a direct room link.
func GuestIdentity() string {
	return "Guest-" + uuid.NewString()[:8]
}
