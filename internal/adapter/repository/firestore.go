package repository

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campuscloset/pkg/errors"
)

// classify maps a Firestore error onto the application taxonomy so raw
// platform errors never cross the repository boundary.
func classify(err error, resource string) error {
	if err == nil {
		return nil
	}

	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound(resource, err)
	case codes.AlreadyExists:
		return errors.Conflict(resource+" already exists", err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return errors.Forbidden("Access denied", err)
	case codes.FailedPrecondition:
		// Typically a missing collection index in an unprovisioned
		// environment; surfaced distinctly so the caller can show a setup
		// message.
		return errors.NotProvisioned("Storage is not provisioned for "+resource, err)
	case codes.Unavailable, codes.DeadlineExceeded:
		return errors.Unavailable("Storage temporarily unavailable", err)
	}

	return errors.Internal("Storage operation failed for "+resource, err)
}
