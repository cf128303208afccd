package stream

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/clusteranim/animator"
	"github.com/matt-g-everett/clusteranim/cluster"
	"github.com/matt-g-everett/clusteranim/mapobj"
	"github.com/matt-g-everett/clusteranim/metrics"
)

// Controller turns animation commands received over MQTT into running
// placemark animations.
type Controller struct {
	config        Config
	client        mqtt.Client
	placemarks    *mapobj.Collection
	log           *slog.Logger
	easing        animator.Easing
	frameInterval time.Duration
	commands      chan Command
}

// NewController creates an instance of a Controller.
func NewController(config Config, client mqtt.Client, placemarks *mapobj.Collection, log *slog.Logger) (*Controller, error) {
	easing, err := animator.EasingByName(config.Animation.Easing)
	if err != nil {
		return nil, err
	}

	c := new(Controller)
	c.config = config
	c.client = client
	c.placemarks = placemarks
	c.log = log
	c.easing = easing
	c.frameInterval = config.FrameInterval()
	c.commands = make(chan Command, 16)
	return c, nil
}

// Subscribe listens for commands on the configured topic.
func (c *Controller) Subscribe() error {
	topic := c.config.Mqtt.Topics.Commands
	if token := c.client.Subscribe(topic, 0, c.handleCommand); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	c.log.Info("subscribed", slog.String("topic", topic))
	return nil
}

func (c *Controller) handleCommand(client mqtt.Client, msg mqtt.Message) {
	c.log.Debug("received command", slog.String("topic", msg.Topic()), slog.String("payload", string(msg.Payload())))

	cmd, err := DecodeCommand(msg.Payload())
	if err != nil {
		metrics.CommandsReceived.WithLabelValues("invalid").Inc()
		c.log.Warn("dropping command", slog.Any("error", err))
		return
	}

	// The paho callback goroutine delivers every message on the client, so
	// it must never wait for Run.
	select {
	case c.commands <- cmd:
	default:
		metrics.CommandsReceived.WithLabelValues("dropped").Inc()
		c.log.Warn("command queue full, dropping command", slog.String("type", cmd.Type))
	}
}

// Remove takes the placemarks named by ids off the map and returns how many
// were found. Animations still moving them log a failure for each frame.
func (c *Controller) Remove(ids []string) int {
	removed := 0
	for _, id := range ids {
		if c.placemarks.Remove(id) {
			removed++
		}
	}
	return removed
}

// Apply builds the animation for cmd. The returned animator has not been
// started.
func (c *Controller) Apply(cmd Command) (*animator.ValueAnimator, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if cmd.Type == CommandRemove {
		return nil, fmt.Errorf("command %s: not an animation", cmd.Type)
	}

	markers := make([]cluster.Marker, len(cmd.IDs))
	for i, id := range cmd.IDs {
		p, found := c.placemarks.Placemark(id)
		if !found {
			return nil, fmt.Errorf("command %s: unknown placemark %q", cmd.Type, id)
		}
		markers[i] = p
	}

	a := animator.New().
		SetDuration(cmd.Duration(c.config.Animation.Duration)).
		SetFrameInterval(c.frameInterval).
		SetEasing(c.easing)
	opts := []cluster.Option{cluster.WithAnimator(a), cluster.WithLogger(c.log)}

	switch cmd.Type {
	case cluster.ShapePointToBunch:
		if cmd.Center != nil {
			return cluster.PointToBunchAround(markers, cmd.To, *cmd.Center, opts...)
		}
		return cluster.PointToBunch(markers, cmd.To, opts...)
	case cluster.ShapeBunchToPoint:
		return cluster.BunchToPoint(markers, cmd.To[0], opts...)
	default:
		return cluster.PointToPoint(markers[0], cmd.To[0], opts...), nil
	}
}

// Run applies queued commands until ctx is done. Each animation runs in its
// own goroutine.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-c.commands:
			if cmd.Type == CommandRemove {
				metrics.CommandsReceived.WithLabelValues("applied").Inc()
				c.log.Info("removing", slog.Int("placemarks", c.Remove(cmd.IDs)), slog.Int("requested", len(cmd.IDs)))
				continue
			}
			a, err := c.Apply(cmd)
			if err != nil {
				metrics.CommandsReceived.WithLabelValues("rejected").Inc()
				c.log.Warn("rejecting command", slog.String("type", cmd.Type), slog.Any("error", err))
				continue
			}
			metrics.CommandsReceived.WithLabelValues("applied").Inc()
			c.log.Info("animating", slog.String("type", cmd.Type), slog.Int("placemarks", len(cmd.IDs)),
				slog.Duration("duration", a.Duration()))
			go a.Run(ctx)
		}
	}
}
