// Package osc publishes engine events as OSC messages and accepts transport commands over OSC.
package osc

import (
	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/scorefollow/logger"
	"github.com/sirupsen/logrus"
)

// Addresses of the messages sent by a Notifier.
const (
	BarAddress  = "/scorefollow/bar"
	SeekAddress = "/scorefollow/seek"
)

// Sender sends OSC packets. *osc.Client satisfies it.
type Sender interface {
	Send(packet osc.Packet) error
}

// Notifier forwards bar changes and seek boundaries to an OSC peer.
type Notifier struct {
	log    *logrus.Entry
	sender Sender
}

// NewNotifier creates a Notifier sending through s.
func NewNotifier(s Sender) *Notifier {
	return &Notifier{
		log:    logger.GetProjectLogger().WithField("notifier", "osc"),
		sender: s,
	}
}

// Dial creates a Notifier sending UDP messages to host:port.
func Dial(host string, port int) *Notifier {
	return NewNotifier(osc.NewClient(host, port))
}

// BarChanged sends the new and previous bar numbers. It matches the engine's bar change callback.
func (n *Notifier) BarChanged(prev, next int) {
	msg := osc.NewMessage(BarAddress)
	msg.Append(int32(next))
	msg.Append(int32(prev))
	n.send(msg)
}

// SeekStarted sends a seek start message.
func (n *Notifier) SeekStarted() {
	n.send(osc.NewMessage(SeekAddress, "start"))
}

// SeekEnded sends a seek end message.
func (n *Notifier) SeekEnded() {
	n.send(osc.NewMessage(SeekAddress, "end"))
}

func (n *Notifier) send(msg *osc.Message) {
	if err := n.sender.Send(msg); err != nil {
		n.log.WithError(err).WithField("address", msg.Address).Warn("Could not send OSC message")
	}
}
