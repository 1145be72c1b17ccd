package platform

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// ErrPermissionDenied reports that the bot lacks a required permission.
var ErrPermissionDenied = errors.New("permission denied")

// RemoteError is a failed platform call other than a permission problem.
type RemoteError struct {
	// Op names the failed operation (e.g., "create event").
	Op string
	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int
	// Err is the underlying error.
	Err error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// classify maps a discordgo error to ErrPermissionDenied or *RemoteError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	status := 0
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		status = rest.Response.StatusCode
	}
	if status == http.StatusForbidden {
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}
	return &RemoteError{Op: op, StatusCode: status, Err: err}
}
