package stream

import (
	"fmt"
	"io"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/clusteranim/animator"
)

// MaxFrameRate is the highest frameRate a config may ask for.
const MaxFrameRate = 1000

// MarkerConfig describes a placemark present at startup.
type MarkerConfig struct {
	ID     string  `yaml:"id"`
	Lat    float64 `yaml:"lat"`
	Lon    float64 `yaml:"lon"`
	Colour string  `yaml:"colour"`
}

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		ClientID string `yaml:"clientID"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Frames   string `yaml:"frames"`
			Commands string `yaml:"commands"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Animation struct {
		Duration  time.Duration `yaml:"duration"`
		FrameRate float64       `yaml:"frameRate"`
		Easing    string        `yaml:"easing"`
	} `yaml:"animation"`
	Api struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Markers []MarkerConfig `yaml:"markers"`
}

// DefaultConfig returns the configuration used for anything a config file
// leaves out.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.URL = "tcp://localhost:1883"
	c.Mqtt.ClientID = "clusteranim"
	c.Mqtt.Topics.Frames = "clusteranim/frames"
	c.Mqtt.Topics.Commands = "clusteranim/commands"
	c.Animation.Duration = animator.DefaultDuration
	c.Animation.FrameRate = 30
	c.Animation.Easing = "inOutSine"
	c.Api.Addr = ":3000"
	c.Log.Level = "info"
	c.Log.Format = "text"
	return c
}

// ReadConfig decodes a YAML config over the defaults and validates it.
func ReadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, c.Validate()
}

// Validate checks the values that cannot be checked by decoding alone.
func (c Config) Validate() error {
	if c.Animation.FrameRate <= 0 || c.Animation.FrameRate > MaxFrameRate {
		return fmt.Errorf("animation frameRate must be in (0, %d], got %v", MaxFrameRate, c.Animation.FrameRate)
	}
	if _, err := animator.EasingByName(c.Animation.Easing); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Markers))
	for _, m := range c.Markers {
		if m.ID == "" {
			return fmt.Errorf("marker at %v,%v has no id", m.Lat, m.Lon)
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate marker %q", m.ID)
		}
		seen[m.ID] = true
		if _, err := m.Color(); err != nil {
			return fmt.Errorf("marker %q: %w", m.ID, err)
		}
	}
	return nil
}

// FrameInterval is the time between published frames. It is never shorter
// than a millisecond.
func (c Config) FrameInterval() time.Duration {
	interval := time.Duration(float64(time.Second) / c.Animation.FrameRate)
	if c.Animation.FrameRate <= 0 || interval < time.Millisecond {
		return time.Millisecond
	}
	return interval
}

// Color parses the marker colour. An empty colour is white.
func (m MarkerConfig) Color() (colorful.Color, error) {
	if m.Colour == "" {
		return colorful.Color{R: 1, G: 1, B: 1}, nil
	}
	return colorful.Hex(m.Colour)
}
