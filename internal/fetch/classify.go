package fetch

import (
	"errors"
	"net"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"

	skiloerrors "github.com/samhoang/skilo/internal/errors"
)

var authMarkers = []string{
	"failed to acquire username/password",
	"authentication required",
	"authorization failed",
	"could not read Username",
	"unable to authenticate",
}

var networkMarkers = []string{
	"Could not resolve host",
	"no such host",
	"network",
	"connection",
}

// Classify maps a git transport error to the skilo taxonomy. Order matters:
// authentication markers win over network markers, which win over
// not-found, since messages can overlap.
func Classify(err error, url string) error {
	if err == nil {
		return nil
	}
	if skiloerrors.KindOf(err) != skiloerrors.KindUnknown {
		return err
	}

	msg := err.Error()

	if errors.Is(err, transport.ErrAuthenticationRequired) ||
		errors.Is(err, transport.ErrAuthorizationFailed) ||
		containsAny(msg, authMarkers) {
		return skiloerrors.NewAuthenticationFailed(url, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || containsAny(msg, networkMarkers) {
		return skiloerrors.NewNetwork(msg)
	}

	if errors.Is(err, transport.ErrRepositoryNotFound) {
		return skiloerrors.NewRepoNotFound(url)
	}

	return skiloerrors.NewGit(msg)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
