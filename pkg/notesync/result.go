package notesync

import (
	"errors"
	"strings"

	"workspace-be/internal/entity"
)

var (
	ErrTitleRequired = errors.New("title is required")
	// ErrRemoteFailed stands in when the remote reports a failure without a message.
	ErrRemoteFailed = errors.New("failed to sync note, please try again")
)

// Result is the outcome of an optimistic mutation. A failed Result means the
// cache has already been rolled back.
type Result struct {
	// Note is the server-confirmed note of a successful create.
	Note *entity.Note
	Err  error
	// RefreshErr is set when a successful delete could not re-read the
	// remote list; the cache then keeps the optimistic state.
	RefreshErr error
}

func (r Result) Failed() bool { return r.Err != nil }

func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func success(n *entity.Note) Result {
	return Result{Note: n}
}

func failure(err error) Result {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		err = ErrRemoteFailed
	}
	return Result{Err: err}
}
