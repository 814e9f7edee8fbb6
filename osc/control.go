package osc

import (
	"context"
	"net"

	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/scorefollow/audio"
	"github.com/robmorgan/scorefollow/logger"
	"github.com/sirupsen/logrus"
)

// Addresses understood by a Controller.
const (
	PlayAddress     = "/scorefollow/play"
	PauseAddress    = "/scorefollow/pause"
	PositionAddress = "/scorefollow/position"
)

// Controller is an OSC dispatcher that drives a transport from incoming messages.
type Controller struct {
	log       *logrus.Entry
	transport audio.Transport
}

// NewController creates a Controller for t.
func NewController(t audio.Transport) *Controller {
	return &Controller{
		log:       logger.GetProjectLogger().WithField("controller", "osc"),
		transport: t,
	}
}

// Serve listens for UDP messages on addr until ctx is done or the server fails.
func (c *Controller) Serve(ctx context.Context, addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return err
	}
	c.log.WithField("addr", conn.LocalAddr().String()).Info("Listening for OSC commands")
	return c.ServeConn(ctx, conn)
}

// ServeConn reads messages from conn until ctx is done or reading fails. It closes conn on return.
func (c *Controller) ServeConn(ctx context.Context, conn net.PacketConn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	server := &osc.Server{Dispatcher: c}
	err := server.Serve(conn)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Dispatch implements osc.Dispatcher. Bundles are unpacked in order.
func (c *Controller) Dispatch(packet osc.Packet) {
	switch packet := packet.(type) {
	case *osc.Message:
		c.handle(packet)
	case *osc.Bundle:
		for _, m := range packet.Messages {
			c.handle(m)
		}
		for _, b := range packet.Bundles {
			c.Dispatch(b)
		}
	}
}

func (c *Controller) handle(msg *osc.Message) {
	switch msg.Address {
	case PlayAddress:
		c.transport.Play()
	case PauseAddress:
		c.transport.Pause()
	case PositionAddress:
		seconds, ok := number(msg)
		if !ok {
			c.log.WithField("message", msg.String()).Warn("Position message needs a number")
			return
		}
		c.transport.SetPosition(seconds)
	default:
		c.log.WithField("address", msg.Address).Debug("Ignoring OSC message")
	}
}

func number(msg *osc.Message) (float64, bool) {
	if len(msg.Arguments) == 0 {
		return 0, false
	}
	switch v := msg.Arguments[0].(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
