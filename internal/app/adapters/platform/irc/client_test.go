package irc

import (
	"chanmod/internal/app/infrastructure/config"
	"chanmod/internal/app/infrastructure/storage"
	"chanmod/internal/app/ports"
	"chanmod/pkg/logger"
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/sorcix/irc.v2"
	"io"
	"slices"
	"sync"
	"testing"
	"time"
)

type pipeConn struct {
	in     chan string
	out    chan string
	closed chan struct{}
	once   sync.Once
}

func newPipeConn() *pipeConn {
	return &pipeConn{
		in:     make(chan string, 64),
		out:    make(chan string, 64),
		closed: make(chan struct{}),
	}
}

func (p *pipeConn) ReadLine() (string, error) {
	select {
	case line := <-p.in:
		return line, nil
	case <-p.closed:
		return "", io.EOF
	}
}

func (p *pipeConn) WriteLine(line string) error {
	select {
	case p.out <- line:
		return nil
	case <-p.closed:
		return io.ErrClosedPipe
	}
}

func (p *pipeConn) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func (p *pipeConn) send(line string) {
	p.in <- line
}

// expect waits for a written message with the given command and params,
// skipping anything else.
func (p *pipeConn) expect(t *testing.T, command string, params ...string) {
	t.Helper()

	deadline := time.After(time.Second)
	for {
		select {
		case line := <-p.out:
			msg := irc.ParseMessage(line)
			if msg != nil && msg.Command == command && slices.Equal(msg.Params, params) {
				return
			}
		case <-deadline:
			t.Fatalf("no %s %v written", command, params)
		}
	}
}

type dispatched struct {
	inv  ports.Invocation
	text string
}

type recordingDispatcher struct {
	calls chan dispatched
}

func (d *recordingDispatcher) Dispatch(inv *ports.Invocation, text string) {
	d.calls <- dispatched{inv: *inv, text: text}
}

type testClient struct {
	*Client
	conn       *pipeConn
	directory  *storage.Directory
	dispatcher *recordingDispatcher
}

func testConfig() config.IRC {
	return config.IRC{
		Server:          "irc.test:6667",
		Nickname:        "ModBot",
		Username:        "modbot",
		Realname:        "Mod Bot",
		Channels:        []string{"#chan"},
		ChannelPrefixes: "#&",
		QueueSize:       16,
		ReconnectDelay:  time.Hour,
	}
}

func startClient(t *testing.T) *testClient {
	t.Helper()

	conn := newPipeConn()
	dir := storage.NewDirectory(100)
	c, err := New(logger.NewWithWriter(io.Discard), testConfig(), nil, dir,
		withDialer(func(ctx context.Context) (lineConn, error) { return conn, nil }))
	require.NoError(t, err)

	disp := &recordingDispatcher{calls: make(chan dispatched, 8)}
	c.SetDispatcher(disp)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn.expect(t, irc.NICK, "ModBot")
	conn.expect(t, irc.USER, "modbot", "0", "*", "Mod Bot")

	return &testClient{Client: c, conn: conn, directory: dir, dispatcher: disp}
}

// register completes registration and the join of #chan.
func (tc *testClient) register(t *testing.T) {
	t.Helper()

	tc.conn.send(":irc.test 001 ModBot :Welcome to the test network")
	tc.conn.expect(t, irc.JOIN, "#chan")
	tc.conn.send(":ModBot!modbot@bot.host JOIN #chan")
	tc.conn.expect(t, irc.WHO, "#chan")
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	assert.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func TestClient_RegistersAndJoins(t *testing.T) {
	t.Parallel()
	tc := startClient(t)

	tc.register(t)

	assert.Equal(t, []string{"#chan"}, tc.Joined())
	assert.Equal(t, "ModBot", tc.CurrentNickname())
}

func TestClient_PingPong(t *testing.T) {
	t.Parallel()
	tc := startClient(t)

	tc.conn.send("PING :irc.test")
	tc.conn.expect(t, irc.PONG, "irc.test")
}

func TestClient_WhoReplyFeedsDirectory(t *testing.T) {
	t.Parallel()
	tc := startClient(t)
	tc.register(t)

	tc.conn.send(":irc.test 352 ModBot #chan alice-user alice-host irc.test alice H :0 Alice")

	eventually(t, func() bool {
		m, ok := tc.directory.FindByNickname("#chan", "alice")
		return ok && m == ports.Member{Nickname: "alice", Username: "alice-user", Hostname: "alice-host"}
	})
}

func TestClient_MembershipTracking(t *testing.T) {
	t.Parallel()
	tc := startClient(t)
	tc.register(t)

	tc.conn.send(":bob!bob-user@bob.host JOIN #chan")
	eventually(t, func() bool {
		_, ok := tc.directory.FindByNickname("#chan", "bob")
		return ok
	})

	tc.conn.send(":bob!bob-user@bob.host NICK robert")
	eventually(t, func() bool {
		m, ok := tc.directory.FindByNickname("#chan", "robert")
		return ok && m.Hostname == "bob.host"
	})

	tc.conn.send(":op!o@op.host KICK #chan robert :bye")
	eventually(t, func() bool {
		_, ok := tc.directory.FindByNickname("#chan", "robert")
		return !ok
	})
}

func TestClient_DispatchesChannelMessages(t *testing.T) {
	t.Parallel()
	tc := startClient(t)
	tc.register(t)

	tc.conn.send(":op!op-user@op.host PRIVMSG ModBot :not a channel")
	tc.conn.send(":op!op-user@op.host PRIVMSG #chan :!kick alice")

	select {
	case got := <-tc.dispatcher.calls:
		assert.Equal(t, ports.Invocation{Channel: "#chan", Sender: "op"}, got.inv)
		assert.Equal(t, "!kick alice", got.text)
	case <-time.After(time.Second):
		t.Fatal("message was not dispatched")
	}

	m, ok := tc.directory.FindByNickname("#chan", "op")
	assert.True(t, ok)
	assert.Equal(t, "op.host", m.Hostname)
}

func TestClient_QueueRequiresJoin(t *testing.T) {
	t.Parallel()
	tc := startClient(t)

	assert.ErrorIs(t, tc.Kick("#chan", "alice", "bye"), ErrNotJoined)

	tc.register(t)

	require.NoError(t, tc.Kick("#CHAN", "alice", "bye bye"))
	tc.conn.expect(t, irc.KICK, "#CHAN", "alice", "bye bye")

	require.NoError(t, tc.Mode("#chan", "+b", []string{"*!u@h"}))
	tc.conn.expect(t, irc.MODE, "#chan", "+b", "*!u@h")

	require.NoError(t, tc.Remove("#chan", "alice", "go"))
	tc.conn.expect(t, cmdRemove, "#chan", "alice", "go")

	require.NoError(t, tc.Topic("#chan", "new topic"))
	tc.conn.expect(t, irc.TOPIC, "#chan", "new topic")

	require.NoError(t, tc.Privmsg("alice", "hello"))
	tc.conn.expect(t, irc.PRIVMSG, "alice", "hello")

	assert.ErrorIs(t, tc.Privmsg("#elsewhere", "hello"), ErrNotJoined)
}

func TestClient_QueueFull(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.QueueSize = 1
	c, err := New(logger.NewWithWriter(io.Discard), cfg, nil, storage.NewDirectory(10),
		withDialer(func(ctx context.Context) (lineConn, error) { return nil, io.EOF }))
	require.NoError(t, err)
	c.joined["#chan"] = "#chan"

	require.NoError(t, c.Topic("#chan", "one"))
	assert.ErrorIs(t, c.Topic("#chan", "two"), ErrQueueFull)
}

func TestClient_NicknameInUse(t *testing.T) {
	t.Parallel()
	tc := startClient(t)

	tc.conn.send(":irc.test 433 * ModBot :Nickname is already in use")
	tc.conn.expect(t, irc.NICK, "ModBot_")

	tc.conn.send(":irc.test 001 ModBot_ :Welcome")
	eventually(t, func() bool { return tc.CurrentNickname() == "ModBot_" })
}

func TestClient_ISupportChanTypes(t *testing.T) {
	t.Parallel()
	tc := startClient(t)

	assert.Equal(t, "#&", tc.ChannelPrefixes())
	tc.conn.send(":irc.test 005 ModBot CHANTYPES=#&! PREFIX=(ov)@+ :are supported by this server")

	eventually(t, func() bool { return tc.ChannelPrefixes() == "#&!" })
}

func TestClient_SelfNickAndPart(t *testing.T) {
	t.Parallel()
	tc := startClient(t)
	tc.register(t)
	tc.conn.send(":irc.test 352 ModBot #chan alice-user alice-host irc.test alice H :0 Alice")

	tc.conn.send(":ModBot!modbot@bot.host NICK ModBot2")
	eventually(t, func() bool { return tc.CurrentNickname() == "ModBot2" })

	tc.conn.send(":ModBot2!modbot@bot.host PART #chan")
	eventually(t, func() bool { return len(tc.Joined()) == 0 })

	assert.ErrorIs(t, tc.Kick("#chan", "alice", "bye"), ErrNotJoined)
	_, ok := tc.directory.FindByNickname("#chan", "alice")
	assert.False(t, ok)
}

func TestClient_DisconnectForgetsMembership(t *testing.T) {
	t.Parallel()
	tc := startClient(t)
	tc.register(t)

	tc.conn.send(":irc.test 352 ModBot #chan alice-user alice-host irc.test alice H :0 Alice")
	eventually(t, func() bool {
		_, ok := tc.directory.FindByNickname("#chan", "alice")
		return ok
	})

	require.NoError(t, tc.conn.Close())

	eventually(t, func() bool {
		_, ok := tc.directory.FindByNickname("#chan", "alice")
		return !ok
	})
	assert.Empty(t, tc.Joined())
}
