// Package pipeline holds the deal stage machine and the derived deal figures.
// Everything here is pure: callers load the deal, apply a function and persist.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"formatech/internal/domain"
)

var (
	ErrUnknownStage      = errors.New("unknown stage")
	ErrInvalidTransition = errors.New("invalid stage transition")
)

// Order is the linear pipeline. Lost sits outside of it.
var Order = []domain.Stage{
	domain.StageLeadIn,
	domain.StageQualification,
	domain.StageDemo,
	domain.StageProposal,
	domain.StageNegotiation,
	domain.StageWon,
}

var aliases = map[string]domain.Stage{
	"lead_in":     domain.StageLeadIn,
	"demo":        domain.StageDemo,
	"proposal":    domain.StageProposal,
	"negotiation": domain.StageNegotiation,
	"won":         domain.StageWon,
	"lost":        domain.StageLost,
}

// ParseStage accepts the stored stage codes and their English aliases.
func ParseStage(s string) (domain.Stage, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if st, ok := aliases[s]; ok {
		return st, nil
	}
	st := domain.Stage(s)
	if IsValid(st) {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStage, s)
}

func IsValid(s domain.Stage) bool {
	return s == domain.StageLost || indexOf(s) >= 0
}

func IsTerminal(s domain.Stage) bool {
	return s == domain.StageWon || s == domain.StageLost
}

func indexOf(s domain.Stage) int {
	for i, st := range Order {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the successor of s in Order.
func Next(s domain.Stage) (domain.Stage, error) {
	if IsTerminal(s) {
		return "", fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, s)
	}
	i := indexOf(s)
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, s)
	}
	return Order[i+1], nil
}

// Previous returns the predecessor of s in Order.
func Previous(s domain.Stage) (domain.Stage, error) {
	if IsTerminal(s) {
		return "", fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, s)
	}
	i := indexOf(s)
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, s)
	}
	if i == 0 {
		return "", fmt.Errorf("%w: %s has no previous stage", ErrInvalidTransition, s)
	}
	return Order[i-1], nil
}

// Move resolves a requested target stage against the current one.
// Only a single step forward or backward is allowed. Lost is reached
// through MarkLost only.
func Move(from, to domain.Stage) error {
	if next, err := Next(from); err == nil && next == to {
		return nil
	}
	if prev, err := Previous(from); err == nil && prev == to {
		return nil
	}
	return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
}
