// Package lumen implements an audio-reactive terminal visualizer: it
// captures audio from a file, microphone, or network stream, analyzes
// it into spectral and time-domain features, and renders those features
// through one of several animated visualization modes.
package lumen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/lumen-vis/lumen/graphic"
	"github.com/lumen-vis/lumen/input"
	"github.com/lumen-vis/lumen/input/file"
	"github.com/lumen-vis/lumen/input/stream"
	"github.com/lumen-vis/lumen/processor"
	"github.com/lumen-vis/lumen/settings"
)

// Run builds the pipeline and blocks until the user quits or the
// context is cancelled.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	store := settings.NewStore(cfg.Settings)

	// INPUT SETUP

	backend, err := input.InitBackend(cfg.Backend)
	if err != nil {
		return err
	}
	defer backend.Close()

	sessConfig := input.SessionConfig{
		FrameSize:  cfg.ChannelCount,
		SampleSize: cfg.SampleSize,
		SampleRate: cfg.SampleRate,
	}

	if sessConfig.Device, err = resolveDevice(backend, cfg); err != nil {
		return err
	}

	session, err := backend.Start(sessConfig)
	if err != nil {
		return errors.Wrap(err, "failed to start the input backend")
	}

	// PROCESSOR SETUP

	inputBuffers := input.MakeBuffers(cfg.ChannelCount, cfg.SampleSize)
	mu := &sync.Mutex{}
	kick := make(chan bool, 1)

	proc := processor.New(processor.Config{
		SampleRate:   cfg.SampleRate,
		SampleSize:   cfg.SampleSize,
		ChannelCount: cfg.ChannelCount,
		Buffers:      inputBuffers,
		Windower:     cfg.Windower,
		Logger:       cfg.Logger,
	}, mu)

	minDb, maxDb := store.Load().DBWindow()
	proc.Reconfigure(minDb, maxDb)

	// DISPLAY SETUP

	display := graphic.NewDisplay()
	if err := display.Init(); err != nil {
		return err
	}
	defer display.Close()

	display.SetOrientation(store.Load().Orientation)

	loop := graphic.NewLoop(graphic.LoopConfig{
		Store:   store,
		Tap:     proc,
		Surface: display,
		Logger:  cfg.Logger,
	})

	// WIRING

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctx = display.Start(ctx)
	defer display.Stop()

	proc.Start(ctx, kick)

	if err := loop.Start(ctx); err != nil {
		return err
	}
	defer loop.Stop()

	transport, _ := session.(input.Transport)
	if transport != nil {
		proc.SetPlaying(transport.Playing())
		if meta := trackMeta(session); meta != "" {
			display.SetStatus(meta)
		}
	} else {
		// Live capture has no transport; it is always "playing".
		proc.SetPlaying(true)
	}

	// Sensitivity changes rebuild the analyzer window; orientation
	// changes re-target the surface.
	go watchSettings(ctx, store, proc, display)

	go handleCommands(ctx, cancel, display, store, transport, proc)

	// Run the input session until the source ends or the user quits.
	if err := session.Start(ctx, inputBuffers, kick, mu); err != nil {
		if !errors.Is(err, context.Canceled) {
			return errors.Wrap(err, "input session failed")
		}
	}

	<-ctx.Done()
	return nil
}

func resolveDevice(backend input.Backend, cfg *Config) (input.Device, error) {
	// File and stream devices are plain paths/URLs, not enumerable.
	switch cfg.Backend {
	case "file":
		if cfg.Device == "" {
			return nil, errors.New("file backend needs a path, use -d")
		}
		return file.Device(cfg.Device), nil
	case "stream":
		if cfg.Device == "" {
			return nil, errors.New("stream backend needs a URL, use -d")
		}
		return stream.Device(cfg.Device), nil
	}

	return input.GetDevice(backend, cfg.Device)
}

func trackMeta(session input.Session) string {
	fs, ok := session.(*file.Session)
	if !ok {
		return ""
	}
	meta := fs.Meta()
	if meta.Artist != "" {
		return fmt.Sprintf("%s - %s", meta.Artist, meta.Title)
	}
	return meta.Title
}

func watchSettings(ctx context.Context, store *settings.Store, proc *processor.Processor, display *graphic.Display) {
	sub := store.Subscribe()
	last := store.Load()

	for {
		select {
		case <-ctx.Done():
			return
		case next := <-sub:
			if next.Sensitivity != last.Sensitivity {
				minDb, maxDb := next.DBWindow()
				proc.Reconfigure(minDb, maxDb)
			}
			if next.Orientation != last.Orientation {
				display.SetOrientation(next.Orientation)
			}
			last = next
		}
	}
}

func handleCommands(
	ctx context.Context,
	cancel context.CancelFunc,
	display *graphic.Display,
	store *settings.Store,
	transport input.Transport,
	proc *processor.Processor,
) {
	const seekStep = 5.0 // seconds
	volume := 1.0

	for {
		var cmd graphic.Command
		select {
		case <-ctx.Done():
			return
		case cmd = <-display.Commands():
		}

		switch cmd {
		case graphic.CmdQuit:
			cancel()
			return

		case graphic.CmdPlayPause:
			if transport == nil {
				continue
			}
			if transport.Playing() {
				transport.Pause()
			} else {
				transport.Play()
			}
			proc.SetPlaying(transport.Playing())

		case graphic.CmdStop:
			if transport != nil {
				transport.Stop()
				proc.SetPlaying(false)
			}

		case graphic.CmdSeekForward:
			if transport != nil {
				transport.Seek(transport.Position() + seekStep)
			}

		case graphic.CmdSeekBack:
			if transport != nil {
				transport.Seek(transport.Position() - seekStep)
			}

		case graphic.CmdVolumeUp:
			if transport != nil {
				volume = clampVolume(volume + 0.05)
				transport.SetVolume(volume)
			}

		case graphic.CmdVolumeDown:
			if transport != nil {
				volume = clampVolume(volume - 0.05)
				transport.SetVolume(volume)
			}

		case graphic.CmdNextMode:
			store.Update(func(s settings.Settings) settings.Settings {
				s.Mode = s.Mode.Next()
				return s
			})

		case graphic.CmdNextScheme:
			store.Update(func(s settings.Settings) settings.Settings {
				s.Scheme = nextScheme(s.Scheme)
				return s
			})

		case graphic.CmdBarWider:
			store.Update(func(s settings.Settings) settings.Settings {
				s.BarWidth++
				return s
			})

		case graphic.CmdBarNarrower:
			store.Update(func(s settings.Settings) settings.Settings {
				s.BarWidth--
				return s
			})
		}
	}
}

func nextScheme(current settings.ColorScheme) settings.ColorScheme {
	all := settings.Schemes()
	for i, s := range all {
		if s.ID == current.ID {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
