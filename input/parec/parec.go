// Package parec captures microphone and monitor audio through the
// PulseAudio parec utility.
package parec

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/lawl/pulseaudio"
	"github.com/lumen-vis/lumen/input"
	"github.com/lumen-vis/lumen/input/common/execread"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("parec", Backend{})
}

// Backend enumerates PulseAudio sources and starts parec sessions.
type Backend struct{}

func (Backend) Init() error {
	if _, err := exec.LookPath("parec"); err != nil {
		return errors.Wrap(input.ErrDeviceNotFound, "parec not in PATH")
	}
	return nil
}

func (Backend) Close() error { return nil }

func (Backend) Devices() ([]input.Device, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		return nil, errors.Wrap(categorize(err), "failed to connect to pulseaudio")
	}
	defer c.Close()

	s, err := c.Sources()
	if err != nil {
		return nil, errors.Wrap(categorize(err), "failed to list sources")
	}

	devices := make([]input.Device, len(s))
	for i, source := range s {
		devices[i] = Device(source.Name)
	}

	return devices, nil
}

func (Backend) DefaultDevice() (input.Device, error) {
	return Device("default"), nil
}

func (Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// Device is a PulseAudio source name.
type Device string

func (d Device) String() string { return string(d) }

// NewSession builds a parec capture session for the configured device.
func NewSession(cfg input.SessionConfig) (*execread.Session, error) {
	dv, ok := cfg.Device.(Device)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	if cfg.FrameSize > 2 {
		return nil, errors.New("channel count not supported, mono/stereo only")
	}

	argv := []string{
		"parec",
		"--format=float32le",
		fmt.Sprintf("--rate=%.0f", cfg.SampleRate),
		fmt.Sprintf("--channels=%d", cfg.FrameSize),
		"-d", dv.String(),
	}

	return execread.NewSession(argv, true, cfg), nil
}

// categorize maps raw PulseAudio failures onto the source error
// taxonomy so callers can decide whether a retry makes sense.
func categorize(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "access denied"),
		strings.Contains(msg, "permission"):
		return input.ErrPermissionDenied
	case strings.Contains(msg, "busy"):
		return input.ErrDeviceBusy
	case strings.Contains(msg, "no such"),
		strings.Contains(msg, "not found"),
		strings.Contains(msg, "refused"):
		return input.ErrDeviceNotFound
	}

	return err
}
