// Command monitor connects to a MIDI input device and logs every decoded
// event. Configuration comes from an optional TOML file; see config.go for
// the recognized keys.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/leandrodaf/midiwire/internal/logger"
	"github.com/leandrodaf/midiwire/sdk/contracts"
	"github.com/leandrodaf/midiwire/sdk/midi"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	log := logger.NewZapLogger()

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			log.Fatal("failed to load config", log.Field().Error("error", err))
		}
	}

	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(cfg.LogLevel),
		contracts.WithClientName(cfg.ClientName),
	}
	if cfg.Capacity > 0 {
		opts = append(opts, contracts.WithCapacity(cfg.Capacity))
	}
	if cfg.Filter != nil {
		opts = append(opts, contracts.WithEventFilter(*cfg.Filter))
	}

	engine, err := midi.NewEngine(opts...)
	if err != nil {
		log.Fatal("failed to initialize engine", log.Field().Error("error", err))
	}

	in, err := engine.Create(contracts.DirectionIn)
	if err != nil {
		log.Fatal("failed to create IN interface", log.Field().Error("error", err))
	}
	defer engine.Destroy(in)

	err = in.RegisterEventHandler(func(_ *midi.Interface, evt contracts.Event, msg *contracts.ChannelMessage) {
		if msg == nil {
			log.Info("MIDI event", log.Field().String("event", evt.String()))
			return
		}
		log.Info("MIDI event",
			log.Field().String("event", evt.String()),
			log.Field().Uint8("channel", msg.Channel),
			log.Field().Uint8("data0", msg.Data[0]),
			log.Field().Uint8("data1", msg.Data[1]),
		)
	})
	if err != nil {
		log.Fatal("failed to register event handler", log.Field().Error("error", err))
	}

	transport, err := midi.NewTransport(opts...)
	if err != nil {
		log.Fatal("failed to initialize transport", log.Field().Error("error", err))
	}
	defer transport.Stop()

	devices, err := transport.ListDevices()
	if err != nil || len(devices) == 0 {
		log.Fatal("no MIDI devices found", log.Field().Error("error", err))
	}
	for i, device := range devices {
		log.Info("available MIDI device",
			log.Field().Int("deviceID", i),
			log.Field().String("name", device.Name),
			log.Field().String("manufacturer", device.Manufacturer),
		)
	}

	if err = transport.SelectDevice(cfg.DeviceID); err != nil {
		log.Fatal("failed to select MIDI device", log.Field().Error("error", err))
	}

	packets := make(chan contracts.Packet, 100)
	transport.StartCapture(packets)

	// Single goroutine feeds the decoder; the engine itself is unlocked.
	go func() {
		for packet := range packets {
			if err := in.Receive(packet.Data); err != nil {
				log.Error("decode failed", log.Field().Error("error", err))
				return
			}
		}
	}()

	log.Info("capturing MIDI events; press Ctrl+C to exit")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}
