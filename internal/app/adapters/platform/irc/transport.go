package irc

import (
	"bufio"
	"chanmod/internal/app/infrastructure/config"
	"context"
	"crypto/tls"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

const dialTimeout = 10 * time.Second

// lineConn carries one protocol line per call, without the CRLF terminator.
type lineConn interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
}

type dialFunc func(ctx context.Context) (lineConn, error)

type streamConn struct {
	conn   net.Conn
	reader *bufio.Reader
	mu     sync.Mutex
}

func (s *streamConn) ReadLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "read line")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *streamConn) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.conn.Write([]byte(line + "\r\n")); err != nil {
		return errors.Wrap(err, "write line")
	}
	return nil
}

func (s *streamConn) Close() error {
	return s.conn.Close()
}

type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) ReadLine() (string, error) {
	_, data, err := w.conn.ReadMessage()
	if err != nil {
		return "", errors.Wrap(err, "read frame")
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (w *wsConn) WriteLine(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
		return errors.Wrap(err, "write frame")
	}
	return nil
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}

func newDialer(cfg config.IRC, proxyCfg *config.Proxy) (dialFunc, error) {
	netDialer, err := netDialer(proxyCfg)
	if err != nil {
		return nil, err
	}

	if cfg.Transport == config.TransportWebsocket {
		ws := &websocket.Dialer{
			HandshakeTimeout: dialTimeout,
			Subprotocols:     []string{"text.ircv3.net"},
			NetDialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialContext(ctx, netDialer, network, addr)
			},
		}

		return func(ctx context.Context) (lineConn, error) {
			conn, _, err := ws.DialContext(ctx, cfg.Server, nil)
			if err != nil {
				return nil, errors.Wrapf(err, "websocket dial %s", cfg.Server)
			}
			return &wsConn{conn: conn}, nil
		}, nil
	}

	return func(ctx context.Context) (lineConn, error) {
		conn, err := dialContext(ctx, netDialer, "tcp", cfg.Server)
		if err != nil {
			return nil, errors.Wrapf(err, "dial %s", cfg.Server)
		}

		if cfg.TLS {
			host, _, _ := net.SplitHostPort(cfg.Server)
			tlsConn := tls.Client(conn, &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12})
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				_ = conn.Close()
				return nil, errors.Wrap(err, "tls handshake")
			}
			conn = tlsConn
		}

		return &streamConn{conn: conn, reader: bufio.NewReader(conn)}, nil
	}, nil
}

func netDialer(proxyCfg *config.Proxy) (proxy.Dialer, error) {
	base := &net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}
	if proxyCfg == nil || proxyCfg.Address == "" {
		return base, nil
	}

	addr := net.JoinHostPort(proxyCfg.Address, strconv.Itoa(proxyCfg.Port))
	d, err := proxy.SOCKS5("tcp", addr, nil, base)
	if err != nil {
		return nil, errors.Wrapf(err, "socks5 proxy %s", addr)
	}
	return d, nil
}

func dialContext(ctx context.Context, d proxy.Dialer, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, addr)
	}
	return d.Dial(network, addr)
}
