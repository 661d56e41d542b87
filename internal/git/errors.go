package git

import (
	"errors"
	"strings"

	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
)

// ErrNotRepository is returned by Open when no enclosing repository exists.
var ErrNotRepository = errors.New("not a git repository")

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op string, path string) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}

	builder := ferrors.GitError("git operation failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("path", path)

	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "permission denied"):
		builder.UserAction()
	case strings.Contains(l, "not found") || strings.Contains(l, "does not exist"):
		builder.WithContext("missing", true)
	}
	return builder.Build()
}
