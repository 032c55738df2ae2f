package input

import "github.com/pkg/errors"

// Source error taxonomy. Backends wrap their failures in exactly one of
// these categories so callers can match with errors.Is and show a
// human-readable message. All categories are recoverable by retrying
// the source operation except ErrInsecureTransport, which only changes
// with the deployment.
var (
	// ErrPermissionDenied means the user or system refused capture access.
	ErrPermissionDenied = errors.New("audio source: permission denied")

	// ErrDeviceBusy means another process holds the device exclusively.
	ErrDeviceBusy = errors.New("audio source: device busy")

	// ErrDeviceNotFound means the requested device or file does not exist.
	ErrDeviceNotFound = errors.New("audio source: device not found")

	// ErrDecodeFailed means the source exists but its audio data could
	// not be decoded.
	ErrDecodeFailed = errors.New("audio source: decode failed")

	// ErrInsecureTransport means a stream URL uses plain HTTP where an
	// encrypted transport is required.
	ErrInsecureTransport = errors.New("audio source: insecure transport")
)

// Retryable reports whether re-invoking the source operation can
// plausibly succeed.
func Retryable(err error) bool {
	return !errors.Is(err, ErrInsecureTransport)
}
