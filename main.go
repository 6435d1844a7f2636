package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/PixPMusic/gopher-launchkey/internal/actions"
	"github.com/PixPMusic/gopher-launchkey/internal/config"
	"github.com/PixPMusic/gopher-launchkey/internal/host"
	"github.com/PixPMusic/gopher-launchkey/internal/midi"
	"github.com/PixPMusic/gopher-launchkey/internal/mixer"
	"github.com/PixPMusic/gopher-launchkey/internal/notify"
	"github.com/PixPMusic/gopher-launchkey/internal/routing"
	"github.com/PixPMusic/gopher-launchkey/internal/surface"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// bridge is the host side seen by the surface: actions go to the binding
// dispatcher, raw MIDI goes out on the forward port
type bridge struct {
	*actions.Dispatcher
	forward *midi.Output
	logger  zerolog.Logger
}

func (b *bridge) ForwardRawEvent(msg gomidi.Message) {
	if err := b.forward.Send(msg); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to forward message")
	}
}

func main() {
	configPath := flag.String("config", "", "config file (default: user config dir)")
	listPorts := flag.Bool("list-ports", false, "list MIDI ports and exit")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	// Initialize MIDI manager
	midiManager := midi.NewManager()
	defer midiManager.Close()

	if *listPorts {
		for _, name := range midiManager.ListInPorts() {
			fmt.Println("in: ", name)
		}
		for _, name := range midiManager.ListOutPorts() {
			fmt.Println("out:", name)
		}
		return
	}

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		zerolog.SetGlobalLevel(level)
	} else if cfg.LogLevel != "" {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("Unknown log level, using info")
	}

	if err := run(cfg, midiManager); err != nil {
		log.Error().Err(err).Msg("Bridge stopped")
		midiManager.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, midiManager *midi.Manager) error {
	logger := log.Logger

	inPort, outPort := cfg.Device.InPort, cfg.Device.OutPort
	if inPort == "" || outPort == "" {
		in, out, ok := midiManager.FindPortPair(cfg.Device.PortHint)
		if !ok {
			return fmt.Errorf("no ports matching %q (in: %v, out: %v)",
				cfg.Device.PortHint, midiManager.ListInPorts(), midiManager.ListOutPorts())
		}
		if inPort == "" {
			inPort = in
		}
		if outPort == "" {
			outPort = out
		}
	}

	deviceOut, err := midiManager.OpenOutput(outPort)
	if err != nil {
		return fmt.Errorf("open surface output: %w", err)
	}
	forwardOut, err := midiManager.OpenOutput(cfg.ForwardPort)
	if err != nil {
		return fmt.Errorf("open forward output: %w", err)
	}

	bus := notify.NewBus(notify.DefaultQueueSize, logger)
	audioMixer := mixer.New(bus, logger)
	layout := routing.New(bus, logger)
	if err := layout.Set(cfg.Routing()); err != nil {
		return err
	}

	executor := actions.NewExecutor(midiManager)
	store := cfg.GetBindingStore()
	for i := range store.Bindings {
		if err := executor.Validate(&store.Bindings[i]); err != nil {
			logger.Warn().Err(err).Msg("Invalid binding")
		}
	}
	dispatcher := actions.NewDispatcher(executor, store, 0, logger)
	h := &bridge{Dispatcher: dispatcher, forward: forwardOut, logger: logger}

	device := midi.GetDevice(cfg.Device.Type)
	driver, err := surface.New(surface.Options{
		Device:      device,
		Host:        h,
		Mixer:       audioMixer,
		Routing:     layout,
		Output:      deviceOut,
		Notifier:    bus,
		Sequencer:   dispatcher,
		Logger:      &logger,
		SettleDelay: cfg.SettleDelay,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = bus.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = dispatcher.Run(ctx)
	}()

	if err := driver.Init(); err != nil {
		stop()
		wg.Wait()
		return err
	}

	stopListening, err := midiManager.StartListening(inPort, func(msg gomidi.Message) {
		if driver.HandleMessage(msg) == surface.PassThrough {
			h.ForwardRawEvent(msg)
		}
	})
	if err != nil {
		_ = driver.End()
		stop()
		wg.Wait()
		return err
	}

	logger.Info().
		Str("device", string(device.Type())).
		Str("in", inPort).
		Str("out", outPort).
		Str("forward", forwardOut.Name()).
		Int("chains", layout.Len()).
		Msg("Bridge running")

	// SIGHUP stands in for a host screen change: knobs re-pick up and pads
	// are redrawn
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-hup:
			bus.Publish(host.Notification{Topic: host.TopicScreenChanged, Screen: "reload"})
		case <-ctx.Done():
			stopListening()
			if err := driver.End(); err != nil {
				logger.Warn().Err(err).Msg("Failed to release surface")
			}
			wg.Wait()
			logger.Info().Msg("Bridge stopped")
			return nil
		}
	}
}
