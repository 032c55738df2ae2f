package input

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Device identifies a concrete input: a capture device, a file path, or
// a stream URL, depending on the backend.
type Device interface {
	String() string
}

// SessionConfig describes the stream a backend should produce.
type SessionConfig struct {
	Device     Device  // device to open
	FrameSize  int     // number of channels per frame
	SampleSize int     // number of frames per buffer write
	SampleRate float64 // sample rate
}

// Session streams sample windows into dst under mu, sending on kick
// after each write. It returns when ctx is cancelled or the source is
// exhausted.
type Session interface {
	Start(ctx context.Context, dst [][]Sample, kick chan bool, mu *sync.Mutex) error
}

// Backend constructs sessions for one kind of source.
type Backend interface {
	// Init should do nothing if called more than once.
	Init() error
	Close() error

	Devices() ([]Device, error)
	DefaultDevice() (Device, error)
	Start(SessionConfig) (Session, error)
}

// NamedBackend pairs a backend with its registry name.
type NamedBackend struct {
	Name string
	Backend
}

// Backends is the registry of all compiled-in backends.
var Backends []NamedBackend

// RegisterBackend registers a backend globally. This function is not
// thread-safe, and most packages should call it on init().
func RegisterBackend(name string, b Backend) {
	Backends = append(Backends, NamedBackend{
		Name:    name,
		Backend: b,
	})
}

// DefaultBackend picks a sensible capture backend for the platform,
// falling back to the file backend.
func DefaultBackend() string {
	if runtime.GOOS == "linux" {
		if path, _ := exec.LookPath("parec"); path != "" {
			if HasBackend("parec") {
				return "parec"
			}
		}
	}

	if HasBackend("file") {
		return "file"
	}

	return ""
}

// FindBackend returns the named backend, or nil when not registered.
func FindBackend(name string) Backend {
	for _, backend := range Backends {
		if backend.Name == name {
			return backend
		}
	}
	return nil
}

// HasBackend reports whether a backend is registered under name.
func HasBackend(name string) bool {
	return FindBackend(name) != nil
}

// InitBackend finds and initializes the named backend.
func InitBackend(name string) (Backend, error) {
	backend := FindBackend(name)
	if backend == nil {
		return nil, fmt.Errorf("backend not found: %q; check list-backends", name)
	}

	if err := backend.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize input backend")
	}

	return backend, nil
}

// GetDevice resolves a device by name, or the backend default when the
// name is empty.
func GetDevice(backend Backend, device string) (Device, error) {
	if device == "" {
		def, err := backend.DefaultDevice()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default device")
		}
		return def, nil
	}

	devices, err := backend.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get devices")
	}

	for idx := range devices {
		if devices[idx].String() == device {
			return devices[idx], nil
		}
	}

	return nil, errors.Errorf("device %q not found; check list-devices", device)
}
