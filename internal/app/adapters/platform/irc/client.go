package irc

import (
	"chanmod/internal/app/adapters/metrics"
	"chanmod/internal/app/domain/args"
	"chanmod/internal/app/domain/casemap"
	"chanmod/internal/app/infrastructure/config"
	"chanmod/internal/app/ports"
	"chanmod/pkg/logger"
	"context"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"gopkg.in/sorcix/irc.v2"
	"log/slog"
	"sort"
	"sync"
	"time"
)

type Client struct {
	log       *logger.PrefixedLogger
	cfg       config.IRC
	dial      dialFunc
	directory ports.MembershipPort

	mu         sync.RWMutex
	dispatcher ports.DispatcherPort
	channels   map[string]string // folded name -> configured name
	joined     map[string]string // folded name -> name as the server reported it
	nickname   string
	registered bool
	chanTypes  string

	out     chan *irc.Message
	limiter *rate.Limiter
}

type Option func(*Client)

func withDialer(dial dialFunc) Option {
	return func(c *Client) {
		c.dial = dial
	}
}

func New(log logger.Logger, cfg config.IRC, proxyCfg *config.Proxy, directory ports.MembershipPort, opts ...Option) (*Client, error) {
	c := &Client{
		log:       logger.NewPrefixedLogger(log, "irc"),
		cfg:       cfg,
		directory: directory,
		channels:  make(map[string]string),
		joined:    make(map[string]string),
		nickname:  cfg.Nickname,
		chanTypes: cfg.ChannelPrefixes,
		out:       make(chan *irc.Message, max(cfg.QueueSize, 1)),
		limiter:   rate.NewLimiter(rate.Inf, 0),
	}
	if c.chanTypes == "" {
		c.chanTypes = args.DefaultChannelPrefixes
	}
	if c.cfg.ReconnectDelay <= 0 {
		c.cfg.ReconnectDelay = 5 * time.Second
	}
	if cfg.RateLimit.Messages > 0 && cfg.RateLimit.Per > 0 {
		c.limiter = rate.NewLimiter(rate.Every(cfg.RateLimit.Per/time.Duration(cfg.RateLimit.Messages)), cfg.RateLimit.Messages)
	}
	for _, ch := range cfg.Channels {
		c.channels[casemap.Fold(ch)] = ch
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.dial == nil {
		dial, err := newDialer(cfg, proxyCfg)
		if err != nil {
			return nil, err
		}
		c.dial = dial
	}

	return c, nil
}

// SetDispatcher routes channel messages to d. Messages received before it is
// set are not dispatched.
func (c *Client) SetDispatcher(d ports.DispatcherPort) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dispatcher = d
}

// Run keeps the connection up until ctx is cancelled.
func (c *Client) Run(ctx context.Context) {
	for {
		err := c.connectAndListen(ctx)
		if ctx.Err() != nil {
			return
		}
		c.log.Warn("IRC connection lost, retrying...", slog.String("error", errString(err)))

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

func (c *Client) connectAndListen(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		c.log.Error("Failed to connect to IRC server", err)
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	metrics.BotConnected.Set(1)
	defer c.disconnected()

	go c.writeLoop(ctx, conn)

	if c.cfg.Password != "" {
		c.write(conn, &irc.Message{Command: irc.PASS, Params: []string{c.cfg.Password}})
	}
	c.write(conn, &irc.Message{Command: irc.NICK, Params: []string{c.cfg.Nickname}})
	c.write(conn, &irc.Message{Command: irc.USER, Params: []string{c.cfg.Username, "0", "*", c.cfg.Realname}})

	return c.listen(conn)
}

func (c *Client) listen(conn lineConn) error {
	c.log.Info("Listening on IRC server")

	for {
		line, err := conn.ReadLine()
		if err != nil {
			return errors.Wrap(err, "listen")
		}

		msg := irc.ParseMessage(line)
		if msg == nil {
			c.log.Trace("Unparsable line", slog.String("line", line))
			continue
		}
		c.handle(conn, msg)
	}
}

func (c *Client) disconnected() {
	c.mu.Lock()
	left := c.joined
	c.joined = make(map[string]string)
	c.registered = false
	c.nickname = c.cfg.Nickname
	c.mu.Unlock()

	// WHO after the rejoin rebuilds membership from scratch
	for _, channel := range left {
		c.directory.ForgetChannel(channel)
	}

drain:
	for {
		select {
		case <-c.out:
			metrics.OutboundDropped.WithLabelValues("disconnected").Inc()
		default:
			break drain
		}
	}

	metrics.BotConnected.Set(0)
	metrics.JoinedChannels.Set(0)
}

// write bypasses the outbound queue. Used for registration and keep-alive.
func (c *Client) write(conn lineConn, msg *irc.Message) {
	if err := conn.WriteLine(msg.String()); err != nil {
		c.log.Error("Failed to write IRC message", err, slog.String("command", msg.Command))
		return
	}
	metrics.OutboundMessages.WithLabelValues(msg.Command).Inc()
}

func (c *Client) writeLoop(ctx context.Context, conn lineConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.out:
			if err := c.limiter.Wait(ctx); err != nil {
				return
			}
			c.write(conn, msg)
		}
	}
}

func (c *Client) CurrentNickname() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.nickname
}

func (c *Client) ChannelPrefixes() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.chanTypes
}

// Joined lists the channels the bot is currently in.
func (c *Client) Joined() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.joined))
	for _, name := range c.joined {
		out = append(out, name)
	}
	c.mu.RUnlock()

	sort.Strings(out)
	return out
}

func (c *Client) isJoined(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.joined[casemap.Fold(channel)]
	return ok
}

func (c *Client) isSelf(nickname string) bool {
	return casemap.Equal(nickname, c.CurrentNickname())
}

func errString(err error) string {
	if err == nil {
		return "closed"
	}
	return err.Error()
}
