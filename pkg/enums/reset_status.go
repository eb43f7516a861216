package enums

import "fmt"

// ResetStatus tracks a password-reset request through its two-party workflow.
type ResetStatus string

const (
	ResetStatusPending   ResetStatus = "pending"
	ResetStatusCompleted ResetStatus = "completed"
)

func (s ResetStatus) String() string {
	return string(s)
}

func (s ResetStatus) IsValid() bool {
	return s == ResetStatusPending || s == ResetStatusCompleted
}

func ParseResetStatus(value string) (ResetStatus, error) {
	switch ResetStatus(value) {
	case ResetStatusPending:
		return ResetStatusPending, nil
	case ResetStatusCompleted:
		return ResetStatusCompleted, nil
	}
	return "", fmt.Errorf("invalid reset status %q", value)
}
