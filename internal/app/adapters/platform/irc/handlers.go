package irc

import (
	"chanmod/internal/app/adapters/metrics"
	"chanmod/internal/app/domain/args"
	"chanmod/internal/app/domain/casemap"
	"chanmod/internal/app/ports"
	"gopkg.in/sorcix/irc.v2"
	"log/slog"
	"strings"
)

const rplISupport = "005"

func (c *Client) handle(conn lineConn, msg *irc.Message) {
	switch msg.Command {
	case irc.PING:
		c.write(conn, &irc.Message{Command: irc.PONG, Params: msg.Params})
	case irc.RPL_WELCOME:
		c.onWelcome(msg)
	case rplISupport:
		c.onISupport(msg)
	case irc.ERR_NICKNAMEINUSE:
		c.onNicknameInUse(conn, msg)
	case irc.NICK:
		c.onNick(msg)
	case irc.JOIN:
		c.onJoin(msg)
	case irc.PART:
		if len(msg.Params) > 0 {
			c.onLeave(msg.Params[0], nick(msg))
		}
	case irc.KICK:
		if len(msg.Params) > 1 {
			c.onLeave(msg.Params[0], msg.Params[1])
		}
	case irc.QUIT:
		c.directory.Quit(nick(msg))
	case irc.RPL_WHOREPLY:
		c.onWhoReply(msg)
	case irc.PRIVMSG:
		c.onPrivmsg(msg)
	case irc.ERROR:
		c.log.Warn("Server error", slog.String("text", msg.Trailing()))
	}
}

func (c *Client) onWelcome(msg *irc.Message) {
	c.mu.Lock()
	if len(msg.Params) > 0 {
		c.nickname = msg.Params[0]
	}
	c.registered = true
	channels := make([]string, 0, len(c.channels))
	for _, ch := range c.channels {
		channels = append(channels, ch)
	}
	c.mu.Unlock()

	c.log.Info("Registered on IRC server", slog.String("nickname", c.CurrentNickname()))

	for _, ch := range channels {
		if err := c.enqueue(&irc.Message{Command: irc.JOIN, Params: []string{ch}}); err != nil {
			c.log.Error("Failed to join channel", err, slog.String("channel", ch))
		}
	}
}

func (c *Client) onISupport(msg *irc.Message) {
	if len(msg.Params) < 2 {
		return
	}

	// first param is our nickname, last is the human readable trailer
	for _, token := range msg.Params[1 : len(msg.Params)-1] {
		if v, ok := strings.CutPrefix(token, "CHANTYPES="); ok && v != "" {
			c.mu.Lock()
			c.chanTypes = v
			c.mu.Unlock()
			c.log.Debug("Channel prefixes advertised", slog.String("chantypes", v))
		}
	}
}

func (c *Client) onNicknameInUse(conn lineConn, msg *irc.Message) {
	c.mu.Lock()
	if c.registered {
		c.mu.Unlock()
		return
	}
	taken := c.nickname
	if len(msg.Params) > 1 {
		taken = msg.Params[1]
	}
	c.nickname = taken + "_"
	next := c.nickname
	c.mu.Unlock()

	c.log.Warn("Nickname in use, retrying", slog.String("nickname", next))
	c.write(conn, &irc.Message{Command: irc.NICK, Params: []string{next}})
}

func (c *Client) onNick(msg *irc.Message) {
	if len(msg.Params) == 0 {
		return
	}
	oldNick, newNick := nick(msg), msg.Params[0]

	if c.isSelf(oldNick) {
		c.mu.Lock()
		c.nickname = newNick
		c.mu.Unlock()
		c.log.Info("Nickname changed", slog.String("nickname", newNick))
	}
	c.directory.Rename(oldNick, newNick)
}

func (c *Client) onJoin(msg *irc.Message) {
	if len(msg.Params) == 0 || msg.Prefix == nil {
		return
	}
	channel := msg.Params[0]

	if !c.isSelf(msg.Prefix.Name) {
		c.directory.Join(channel, member(msg.Prefix))
		return
	}

	c.mu.Lock()
	c.joined[casemap.Fold(channel)] = channel
	count := len(c.joined)
	c.mu.Unlock()

	metrics.JoinedChannels.Set(float64(count))
	c.log.Named(channel).Info("Joined channel")

	if err := c.enqueue(&irc.Message{Command: irc.WHO, Params: []string{channel}}); err != nil {
		c.log.Named(channel).Error("Failed to request channel members", err)
	}
}

func (c *Client) onLeave(channel, nickname string) {
	if !c.isSelf(nickname) {
		c.directory.Part(channel, nickname)
		return
	}

	c.directory.ForgetChannel(channel)

	c.mu.Lock()
	delete(c.joined, casemap.Fold(channel))
	count := len(c.joined)
	c.mu.Unlock()

	metrics.JoinedChannels.Set(float64(count))
	c.log.Named(channel).Info("Left channel")
}

// onWhoReply handles RPL_WHOREPLY: <me> <channel> <user> <host> <server> <nick> <flags> :<hops> <realname>
func (c *Client) onWhoReply(msg *irc.Message) {
	if len(msg.Params) < 6 {
		return
	}
	channel := msg.Params[1]
	if !c.isJoined(channel) {
		return
	}

	c.directory.Join(channel, ports.Member{
		Nickname: msg.Params[5],
		Username: msg.Params[2],
		Hostname: msg.Params[3],
	})
}

func (c *Client) onPrivmsg(msg *irc.Message) {
	if len(msg.Params) < 2 || msg.Prefix == nil {
		return
	}
	target := msg.Params[0]
	if !args.IsChannelName(target, c.ChannelPrefixes()) || c.isSelf(msg.Prefix.Name) {
		return
	}

	c.directory.Join(target, member(msg.Prefix))

	c.mu.RLock()
	d := c.dispatcher
	c.mu.RUnlock()
	if d == nil {
		return
	}

	d.Dispatch(&ports.Invocation{Channel: target, Sender: msg.Prefix.Name}, msg.Trailing())
}

func nick(msg *irc.Message) string {
	if msg.Prefix == nil {
		return ""
	}
	return msg.Prefix.Name
}

func member(p *irc.Prefix) ports.Member {
	return ports.Member{Nickname: p.Name, Username: p.User, Hostname: p.Host}
}
