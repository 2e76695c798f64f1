package git

import (
	"context"
	"errors"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// classify translates go-git errors into classified errors. Auth and
// missing-repository failures need user action; transport failures are
// retryable network errors.
func classify(err error, op, url string) error {
	if err == nil {
		return nil
	}
	if _, ok := derrors.AsClassified(err); ok {
		return err
	}

	var b *derrors.ErrorBuilder
	l := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		b = derrors.NewError(derrors.CategoryRuntime, "git operation canceled")
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed),
		strings.Contains(l, "authentication"),
		strings.Contains(l, "invalid credentials"):
		b = derrors.GitError("git authentication failed").Fatal().UserAction()
	case errors.Is(err, transport.ErrRepositoryNotFound),
		strings.Contains(l, "repository not found"),
		strings.Contains(l, "couldn't find remote ref"),
		strings.Contains(l, "reference not found"):
		b = derrors.GitError("git repository or branch not found").Fatal().UserAction()
	case strings.Contains(l, "unsupported protocol"), strings.Contains(l, "protocol not supported"):
		b = derrors.ConfigError("unsupported git URL")
	case strings.Contains(l, "timeout"),
		strings.Contains(l, "connection reset"),
		strings.Contains(l, "connection refused"),
		strings.Contains(l, "remote hung up"),
		strings.Contains(l, "no route to host"),
		strings.Contains(l, "rate limit"),
		strings.Contains(l, "too many requests"):
		b = derrors.NetworkError("git transport failed")
	default:
		b = derrors.GitError("git operation failed")
	}
	return b.WithCause(err).WithContext("op", op).WithContext("url", url).Build()
}
