package osc

import (
	"errors"
	"net"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/ipv4"
)

func localPort(t *testing.T, e *Endpoint) int {
	t.Helper()
	addr, ok := e.LocalAddr().(*net.UDPAddr)
	require.True(t, ok)
	return addr.Port
}

// listener opens a logged listener on an ephemeral port.
func listener(t *testing.T) *Endpoint {
	t.Helper()
	e, err := Open(&Config{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func client(t *testing.T, port int) *Endpoint {
	t.Helper()
	e, err := Open(&Config{RemoteHost: "127.0.0.1", RemotePort: port, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

// collect polls until want messages arrived or a second passed.
func collect(t *testing.T, e *Endpoint, want int) []*Message {
	t.Helper()
	var got []*Message
	deadline := time.Now().Add(time.Second)
	for len(got) < want && time.Now().Before(deadline) {
		_, err := e.Poll(100*time.Millisecond, func(m *Message) { got = append(got, m.Clone()) })
		require.NoError(t, err)
	}
	return got
}

func TestPollTimeout(t *testing.T) {
	e := listener(t)

	start := time.Now()
	n, err := e.Poll(50*time.Millisecond, func(*Message) { t.Error("unexpected message") })
	elapsed := time.Since(start)

	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.GreaterOrEqual(t, elapsed, 45*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestPollZeroTimeout(t *testing.T) {
	e := listener(t)

	data, addr, err := e.Receive(0)
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.Nil(t, addr)
}

func TestServerMessageReceiving(t *testing.T) {
	server := listener(t)
	c := client(t, localPort(t, server))

	assert.Equal(t, RoleListener, server.Role())
	assert.Equal(t, RoleConnected, c.Role())
	assert.Nil(t, server.RemoteAddr())
	assert.NotNil(t, c.RemoteAddr())

	require.NoError(t, c.SendMessage("/address/test", ",ii", Int32(1122), Int32(3344)))
	require.NoError(t, c.SendMessage("/label1", ",s", String("Frameno: 4")))

	got := collect(t, server, 2)
	require.Len(t, got, 2)
	assert.True(t, NewMessage("/address/test", Int32(1122), Int32(3344)).Equals(got[0]), got[0].String())
	assert.True(t, NewMessage("/label1", String("Frameno: 4")).Equals(got[1]), got[1].String())
}

func TestSendBatch(t *testing.T) {
	server := listener(t)
	c := client(t, localPort(t, server))

	var b Batch
	require.NoError(t, b.Append("/avatar/parameters/parameter0", ",f", Float32(0.25)))
	require.NoError(t, b.Append("/text1", ",s", String("Frameno: 1")))
	require.NoError(t, b.Append("/box2", ",i", Int32(1)))
	require.NoError(t, b.Append("/composite", ",ifs", Int32(1), Float32(3.24), String("hello")))
	require.NoError(t, c.SendBatch(&b))
	assert.Zero(t, b.Len(), "batch is reset after sending")

	var paths []string
	n, err := server.Poll(time.Second, func(m *Message) { paths = append(paths, m.Path) })
	require.NoError(t, err)
	assert.Equal(t, 4, n, "one datagram carries the whole batch")
	assert.Equal(t, []string{"/avatar/parameters/parameter0", "/text1", "/box2", "/composite"}, paths)
}

func TestSendMore(t *testing.T) {
	server := listener(t)
	c := client(t, localPort(t, server))

	require.NoError(t, c.SendPacket(NewMessage("/first", Int32(1)), SendMore))
	require.NoError(t, c.SendPacket(NewMessage("/second", Int32(2)), 0))

	if runtime.GOOS == "linux" {
		var paths []string
		n, err := server.Poll(time.Second, func(m *Message) { paths = append(paths, m.Path) })
		require.NoError(t, err)
		assert.Equal(t, 2, n, "both sends arrive in one datagram")
		assert.Equal(t, []string{"/first", "/second"}, paths)
		return
	}

	got := collect(t, server, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "/first", got[0].Path)
	assert.Equal(t, "/second", got[1].Path)
}

func TestMalformedDatagramKeepsEndpointUsable(t *testing.T) {
	server := listener(t)
	c := client(t, localPort(t, server))

	require.NoError(t, c.Send([]byte("/bad\x00\x00\x00\x00,s\x00\x00unterminated"), 0))
	n, err := server.Poll(time.Second, func(*Message) { t.Error("handler called for malformed datagram") })
	assert.ErrorIs(t, err, ErrProtocol)
	assert.Zero(t, n)

	require.NoError(t, c.SendMessage("/good", ",i", Int32(7)))
	got := collect(t, server, 1)
	require.Len(t, got, 1)
	assert.Equal(t, Int32(7), got[0].Arguments[0])
}

func TestPollOversizedDatagram(t *testing.T) {
	server := listener(t)
	c := client(t, localPort(t, server))

	full, err := Encode("/a", ",b", Blob(make([]byte, MaxPacketSize-12)))
	require.NoError(t, err)
	require.Len(t, full, MaxPacketSize)
	tail, err := Encode("/lost", ",i", Int32(7))
	require.NoError(t, err)

	// Cut at the buffer size, the first message would still decode.
	require.NoError(t, c.Send(join(full, tail), 0))
	n, err := server.Poll(time.Second, func(*Message) { t.Error("handler called for truncated datagram") })
	assert.ErrorIs(t, err, ErrProtocol)
	assert.Zero(t, n)

	// A datagram that fills the buffer exactly is fine.
	require.NoError(t, c.Send(full, 0))
	got := collect(t, server, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "/a", got[0].Path)
}

func TestPollNilHandler(t *testing.T) {
	server := listener(t)
	c := client(t, localPort(t, server))

	require.NoError(t, c.SendMessage("/x", ",i", Int32(1)))
	n, err := server.Poll(time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTOS(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("IP_TOS is only read back on linux")
	}
	for _, tt := range []struct {
		name string
		cfg  Config
		want int
	}{
		{"default", Config{}, DefaultTOS},
		{"custom", Config{TOS: 0xb8}, 0xb8},
		{"disabled", Config{TOS: -1}, 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			e, err := Open(&cfg)
			require.NoError(t, err)
			defer e.Close()

			tos, err := ipv4.NewConn(e.conn).TOS()
			require.NoError(t, err)
			assert.Equal(t, tt.want, tos)
		})
	}
}

func TestParamsErrorSendsNothing(t *testing.T) {
	server := listener(t)
	c := client(t, localPort(t, server))

	err := c.SendMessage("/a", ",ii", Int32(1))
	assert.ErrorIs(t, err, ErrParams)
	err = c.SendMessage("a", ",i", Int32(1))
	assert.ErrorIs(t, err, ErrParams)

	n, err := server.Poll(50*time.Millisecond, func(*Message) {})
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestSendToReply(t *testing.T) {
	server := listener(t)
	c := client(t, localPort(t, server))

	require.NoError(t, c.SendMessage("/ping", ","))
	data, from, err := server.Receive(time.Second)
	require.NoError(t, err)
	require.NotNil(t, data)

	require.NoError(t, server.SendTo(data, from))
	got := collect(t, c, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "/ping", got[0].Path)
}

func TestSendWrongRole(t *testing.T) {
	server := listener(t)
	c := client(t, localPort(t, server))

	assert.ErrorIs(t, server.Send([]byte("/x\x00\x00,\x00\x00\x00"), 0), ErrTransport)
	assert.ErrorIs(t, c.SendTo([]byte("/x\x00\x00,\x00\x00\x00"), &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9}), ErrTransport)
}

func TestPairedEndpoints(t *testing.T) {
	// Find two free ports, then release them for the pair.
	a, b := listener(t), listener(t)
	portA, portB := localPort(t, a), localPort(t, b)
	require.NoError(t, a.Close())
	require.NoError(t, b.Close())

	ea, err := Open(&Config{LocalPort: portA, RemoteHost: "127.0.0.1", RemotePort: portB})
	require.NoError(t, err)
	defer ea.Close()
	eb, err := Open(&Config{LocalPort: portB, RemoteHost: "127.0.0.1", RemotePort: portA})
	require.NoError(t, err)
	defer eb.Close()

	assert.Equal(t, portA, localPort(t, ea))

	require.NoError(t, ea.SendMessage("/opc/zone6", ",i", Int32(0x00ff00)))
	require.NoError(t, eb.SendMessage("/label1", ",s", String("Frameno: 0")))

	got := collect(t, eb, 1)
	require.Len(t, got, 1)
	assert.Equal(t, Int32(0x00ff00), got[0].Arguments[0])

	got = collect(t, ea, 1)
	require.Len(t, got, 1)
	assert.Equal(t, String("Frameno: 0"), got[0].Arguments[0])
}

func TestBindError(t *testing.T) {
	busy, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	require.NoError(t, err)
	defer busy.Close()

	_, err = Listen(busy.LocalAddr().(*net.UDPAddr).Port)
	assert.ErrorIs(t, err, ErrBind)

	_, err = Listen(70000)
	assert.ErrorIs(t, err, ErrBind)
}

func TestConnectError(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		_, err := Dial("127.0.0.1", port)
		assert.ErrorIs(t, err, ErrConnect, "port %d", port)
	}
}

func TestClose(t *testing.T) {
	server := listener(t)
	c := client(t, localPort(t, server))

	require.NoError(t, c.Close())
	assert.NoError(t, c.Close(), "second close is a no-op")
	require.NoError(t, server.Close())

	err := c.SendMessage("/x", ",")
	assert.ErrorIs(t, err, ErrClosed)
	assert.True(t, errors.Is(err, net.ErrClosed))

	_, err = server.Poll(10*time.Millisecond, func(*Message) {})
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, server.LocalAddr())

	var nilEndpoint *Endpoint
	assert.NoError(t, nilEndpoint.Close())
}

func TestHostFloats(t *testing.T) {
	server, err := Open(&Config{HostFloats: true})
	require.NoError(t, err)
	defer server.Close()

	c, err := Open(&Config{RemoteHost: "127.0.0.1", RemotePort: localPort(t, server), HostFloats: true})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SendMessage("/f", ",f", Float32(0.75)))
	got := collect(t, server, 1)
	require.Len(t, got, 1)
	assert.Equal(t, Float32(0.75), got[0].Arguments[0])
}

func BenchmarkPoll(b *testing.B) {
	server, err := Listen(0)
	require.NoError(b, err)
	defer server.Close()
	c, err := Dial("127.0.0.1", server.LocalAddr().(*net.UDPAddr).Port)
	require.NoError(b, err)
	defer c.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if err := c.Send(msg, 0); err != nil {
			b.Fatal(err)
		}
		if _, err := server.Poll(time.Second, func(*Message) {}); err != nil {
			b.Fatal(err)
		}
	}
}
