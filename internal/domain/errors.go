package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNothingToCount is returned by the count use case when neither a prompt
// nor a file was given.
var ErrNothingToCount = errors.New("nothing to count")

// ConfigurationError is a fatal misconfiguration: missing credential,
// unknown model, dangling alias, unreadable config. It never reaches the
// network.
type ConfigurationError struct {
	Msg    string
	Remedy []string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Remediation joins the remedy lines for display.
func (e *ConfigurationError) Remediation() string {
	return strings.Join(e.Remedy, "\n")
}

// NewUnknownModelError reports a model name that resolves to no descriptor.
func NewUnknownModelError(name string) *ConfigurationError {
	return &ConfigurationError{
		Msg:    fmt.Sprintf("unknown model: %s", name),
		Remedy: []string{"List the available models with `sllm .models`."},
	}
}

// BudgetReason distinguishes the token limit checks.
type BudgetReason string

const (
	BudgetRequestTooLarge BudgetReason = "request_exceeds_model"
	BudgetNoReplyRoom     BudgetReason = "no_reply_room"
	BudgetTotalExceeded   BudgetReason = "total_exceeded"
)

// BudgetError is a recoverable token limit violation. The command reports
// it and returns without dispatching or recording history.
type BudgetError struct {
	Reason      BudgetReason
	Requested   int
	Total       int
	ModelLimit  int
	HistoryUsed bool
}

func (e *BudgetError) Error() string {
	switch e.Reason {
	case BudgetRequestTooLarge:
		return fmt.Sprintf("you requested %d which exceeds the model limit of %d", e.Requested, e.ModelLimit)
	case BudgetNoReplyRoom:
		return fmt.Sprintf("max tokens exceeded (%d), no room left for a reply", e.Total)
	default:
		return fmt.Sprintf("max tokens exceeded (%d)", e.Total)
	}
}

// IOError is a fatal file error for the current command, such as an
// unreadable prompt file or an unwritable config directory.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// TransportError wraps a failed vendor call. It is fatal for the command and
// never retried.
type TransportError struct {
	Model  string
	Beta   bool
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request to %s failed with status %d", e.Model, e.Status)
	}
	return fmt.Sprintf("request to %s failed: %v", e.Model, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Hint returns the access note for beta models, or "".
func (e *TransportError) Hint() string {
	if !e.Beta {
		return ""
	}
	return fmt.Sprintf("Note: %s is a beta model which you might not have access to!", e.Model)
}

// IsFatal reports whether err must terminate the process. Budget errors are
// the only recoverable kind.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var budget *BudgetError
	return !errors.As(err, &budget)
}
