package irc

import (
	"chanmod/internal/app/adapters/metrics"
	"chanmod/internal/app/domain/args"
	"errors"
	"fmt"
	"gopkg.in/sorcix/irc.v2"
)

var (
	ErrNotJoined = errors.New("not joined to channel")
	ErrQueueFull = errors.New("outbound queue is full")
)

const cmdRemove = "REMOVE"

func (c *Client) Kick(channel, nick, reason string) error {
	return c.enqueueTo(channel, &irc.Message{Command: irc.KICK, Params: []string{channel, nick, reason}})
}

// Remove asks the server to make nick part the channel. Servers without
// REMOVE answer with ERR_UNKNOWNCOMMAND.
func (c *Client) Remove(channel, nick, reason string) error {
	return c.enqueueTo(channel, &irc.Message{Command: cmdRemove, Params: []string{channel, nick, reason}})
}

func (c *Client) Topic(channel, text string) error {
	return c.enqueueTo(channel, &irc.Message{Command: irc.TOPIC, Params: []string{channel, text}})
}

func (c *Client) Mode(channel, modes string, targets []string) error {
	params := append([]string{channel, modes}, targets...)
	return c.enqueueTo(channel, &irc.Message{Command: irc.MODE, Params: params})
}

// Privmsg sends text to a channel the bot is in, or to a user.
func (c *Client) Privmsg(target, text string) error {
	msg := &irc.Message{Command: irc.PRIVMSG, Params: []string{target, text}}
	if args.IsChannelName(target, c.ChannelPrefixes()) {
		return c.enqueueTo(target, msg)
	}
	return c.enqueue(msg)
}

func (c *Client) enqueueTo(channel string, msg *irc.Message) error {
	if !c.isJoined(channel) {
		metrics.OutboundDropped.WithLabelValues("not_joined").Inc()
		return fmt.Errorf("%w: %s", ErrNotJoined, channel)
	}
	return c.enqueue(msg)
}

func (c *Client) enqueue(msg *irc.Message) error {
	select {
	case c.out <- msg:
		return nil
	default:
		metrics.OutboundDropped.WithLabelValues("queue_full").Inc()
		return ErrQueueFull
	}
}
