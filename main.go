package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/clusteranim/api"
	"github.com/matt-g-everett/clusteranim/geo"
	"github.com/matt-g-everett/clusteranim/mapobj"
	"github.com/matt-g-everett/clusteranim/stream"
	"github.com/matt-g-everett/clusteranim/util"
)

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Placemarks *mapobj.Collection
	Streamer   *stream.Streamer
	Controller *stream.Controller
	Api        *api.Api
	log        *slog.Logger
}

func newApp() *app {
	a := new(app)
	a.Placemarks = mapobj.NewCollection()
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	a.log.Info("connected", slog.String("broker", a.Config.Mqtt.URL))
	if err := a.Controller.Subscribe(); err != nil {
		a.log.Error("subscribe failed", slog.Any("error", err))
	}
}

func (a *app) readConfig(configPath string) error {
	f, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	a.Config, err = stream.ReadConfig(f)
	if err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}
	return nil
}

func (a *app) addPlacemarks() error {
	for _, m := range a.Config.Markers {
		colour, err := m.Color()
		if err != nil {
			return err
		}
		if _, err := a.Placemarks.AddPlacemark(m.ID, geo.NewPoint(m.Lat, m.Lon), colour); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	go func() {
		if err := a.Api.Serve(a.Config.Api.Addr); err != nil {
			a.log.Error("api stopped", slog.Any("error", err))
		}
	}()
	defer a.Api.Shutdown()

	go a.Controller.Run(ctx)
	a.Streamer.Run(ctx)
	return nil
}

func main() {
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	a := newApp()
	if err := a.readConfig(*configPath); err != nil {
		log.Fatalf("config: %v", err)
	}
	a.log = util.SetupLogging(a.Config.Log.Level, a.Config.Log.Format)
	a.log.Info("config loaded", slog.Int("markers", len(a.Config.Markers)), slog.Duration("duration", a.Config.Animation.Duration))

	if err := a.addPlacemarks(); err != nil {
		log.Fatalf("placemarks: %v", err)
	}
	a.log.Info("placemarks added", slog.Int("count", a.Placemarks.Len()))

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	var err error
	a.Controller, err = stream.NewController(a.Config, a.Client, a.Placemarks, a.log)
	if err != nil {
		log.Fatalf("controller: %v", err)
	}
	a.Streamer = stream.NewStreamer(a.Config, a.Client, a.Placemarks, a.log)
	a.Api = api.NewApi(a.Placemarks, a.log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		a.log.Error("stopped", slog.Any("error", err))
		os.Exit(1)
	}
	a.log.Info("stopped")
}
