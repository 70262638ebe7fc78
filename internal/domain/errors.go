package domain

import (
	platformerrors "github.com/jmgilman/go/errors"
)

// InvalidArgumentf reports a request that violates the caller contract.
func InvalidArgumentf(format string, args ...interface{}) error {
	return platformerrors.Newf(platformerrors.CodeInvalidInput, format, args...)
}

// DataUnavailable wraps a failure of the backing store. A nil err yields nil.
func DataUnavailable(err error, message string) error {
	if err == nil {
		return nil
	}
	return platformerrors.Wrap(err, platformerrors.CodeUnavailable, message)
}

// IsInvalidArgument reports whether err was produced by InvalidArgumentf.
func IsInvalidArgument(err error) bool {
	return platformerrors.GetCode(err) == platformerrors.CodeInvalidInput
}

// IsDataUnavailable reports whether err was produced by DataUnavailable.
func IsDataUnavailable(err error) bool {
	return platformerrors.GetCode(err) == platformerrors.CodeUnavailable
}
