package stream

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/clusteranim/mapobj"
	"github.com/matt-g-everett/clusteranim/metrics"
)

// Streamer publishes placemark frames over MQTT.
type Streamer struct {
	client      mqtt.Client
	topic       string
	interval    time.Duration
	placemarks  *mapobj.Collection
	log         *slog.Logger
	lastVersion uint64
	sent        bool
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, client mqtt.Client, placemarks *mapobj.Collection, log *slog.Logger) *Streamer {
	s := new(Streamer)
	s.client = client
	s.topic = config.Mqtt.Topics.Frames
	s.interval = config.FrameInterval()
	s.placemarks = placemarks
	s.log = log
	return s
}

// SendFrame publishes the current placemarks if they changed since the last
// frame was sent. It reports whether a frame was published.
func (s *Streamer) SendFrame() (bool, error) {
	if s.sent && s.placemarks.Version() == s.lastVersion {
		return false, nil
	}

	f := NewFrame(s.placemarks)
	b, err := f.MarshalBinary()
	if err != nil {
		return false, fmt.Errorf("marshal frame: %w", err)
	}
	token := s.client.Publish(s.topic, 0, false, b)
	token.Wait()
	if err := token.Error(); err != nil {
		return false, fmt.Errorf("publish frame: %w", err)
	}

	s.lastVersion = f.Version
	s.sent = true
	metrics.FramesPublished.Inc()
	return true, nil
}

// Run causes the Streamer to send Frames until ctx is done.
func (s *Streamer) Run(ctx context.Context) {
	publishTimer := time.NewTicker(s.interval)
	defer publishTimer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-publishTimer.C:
			if _, err := s.SendFrame(); err != nil {
				s.log.Error("send frame", slog.Any("error", err))
			}
		}
	}
}
