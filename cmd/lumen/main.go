package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/integrii/flaggy"

	"github.com/lumen-vis/lumen"
	"github.com/lumen-vis/lumen/input"
	"github.com/lumen-vis/lumen/settings"

	_ "github.com/lumen-vis/lumen/input/file"
	_ "github.com/lumen-vis/lumen/input/parec"
	_ "github.com/lumen-vis/lumen/input/stream"
)

// AppName is the app name
const AppName = "lumen"

// AppDesc is the app description
const AppDesc = "audio-reactive terminal visualizer"

// AppSite is the app website
const AppSite = "https://github.com/lumen-vis/lumen"

var version = "unknown"

func main() {
	log.SetFlags(0)

	cfg := newCliConfig()

	if doFlags(&cfg) {
		return
	}

	chk(cfg.Sanitize(), "invalid config")

	runCfg := cfg.Build()
	chk(runCfg.Validate(), "invalid config")

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	chk(lumen.Run(ctx, &runCfg), "failed to run lumen")
}

func doFlags(cfg *cliConfig) bool {
	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	listBackendsCmd := flaggy.Subcommand{
		Name:        "list-backends",
		ShortName:   "lb",
		Description: "list all supported input backends",
	}
	parser.AttachSubcommand(&listBackendsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:        "list-devices",
		ShortName:   "ld",
		Description: "list all devices for a backend",
	}
	parser.AttachSubcommand(&listDevicesCmd, 1)

	listModesCmd := flaggy.Subcommand{
		Name:        "list-modes",
		ShortName:   "lm",
		Description: "list all visualization modes",
	}
	parser.AttachSubcommand(&listModesCmd, 1)

	listSchemesCmd := flaggy.Subcommand{
		Name:        "list-schemes",
		ShortName:   "ls",
		Description: "list all color schemes",
	}
	parser.AttachSubcommand(&listSchemesCmd, 1)

	parser.String(&cfg.ConfigPath, "", "config", "path to a yaml config file")
	parser.String(&cfg.Backend, "b", "backend", "backend name (file, parec, stream)")
	parser.String(&cfg.Device, "d", "device", "device name, file path, or stream URL")
	parser.Float64(&cfg.SampleRate, "r", "rate", "sample rate")
	parser.Int(&cfg.SampleSize, "n", "samples", "analysis window size (power of two)")
	parser.Int(&cfg.ChannelCount, "ch", "channels", "channel count (1 or 2)")
	parser.Int(&cfg.FrameRate, "f", "fps", "target frame rate (30 or 60)")
	parser.String(&cfg.Mode, "m", "mode", "visualization mode")
	parser.String(&cfg.Scheme, "c", "scheme", "color scheme name")
	parser.Float64(&cfg.Sensitivity, "s", "sensitivity", "sensitivity (0-100)")
	parser.Float64(&cfg.Amplification, "a", "amplify", "bar amplification factor")
	parser.Int(&cfg.BarWidth, "bw", "bar", "bar width [1, +Inf)")
	parser.Int(&cfg.SpaceWidth, "sw", "space", "space width [0, +Inf)")
	parser.Int(&cfg.BandCount, "bc", "bands", "frequency band count (4-12)")
	parser.Int(&cfg.WaveSamples, "ws", "wave", "waveform sample count (128-2048)")
	parser.Bool(&cfg.Glow, "g", "glow", "draw a glow halo above the bars")
	parser.Float64(&cfg.GlowIntensity, "gi", "glow-intensity", "glow halo intensity (0-100)")
	parser.Bool(&cfg.Vertical, "v", "vertical", "rotate the render surface 90 degrees")
	parser.Bool(&cfg.NoGradient, "", "no-gradient", "disable the bar gradient")
	parser.Bool(&cfg.NoRotation, "", "no-rotation", "disable idle rotation")

	chk(parser.Parse(), "failed to parse arguments")

	switch {
	case listBackendsCmd.Used:
		for _, backend := range input.Backends {
			fmt.Printf("- %s\n", backend.Name)
		}
		return true

	case listDevicesCmd.Used:
		backend, err := input.InitBackend(cfg.Backend)
		chk(err, "failed to init backend")

		devices, err := backend.Devices()
		chk(err, "failed to get devices")

		defaultDevice, _ := backend.DefaultDevice()

		fmt.Printf("all devices for %q backend. '*' marks default\n", cfg.Backend)
		for idx := range devices {
			star := ' '
			if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
				star = '*'
			}
			fmt.Printf("- %v %c\n", devices[idx], star)
		}
		return true

	case listModesCmd.Used:
		for _, name := range settings.ModeNames() {
			fmt.Printf("- %s\n", name)
		}
		return true

	case listSchemesCmd.Used:
		for _, scheme := range settings.Schemes() {
			fmt.Printf("- %s (%s)\n", scheme.ID, scheme.Name)
		}
		return true
	}

	return false
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+":", err)
	}
}
