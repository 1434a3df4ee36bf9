// Package demo replays the avatar/lighting loop-back exchange between two
// paired endpoints and checks that everything sent was received.
package demo

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/chabad360/miniosc/osc"
	"go.uber.org/zap"
)

// Config describes a run. Endpoint A listens on PortA and sends to PortB,
// endpoint B the other way round.
type Config struct {
	Host   string
	PortA  int
	PortB  int
	Frames int
	Drain  int
	Logger *zap.Logger
}

// DefaultConfig uses the conventional OSC in/out ports 9001 and 9000.
func DefaultConfig() Config {
	return Config{Host: "127.0.0.1", PortA: 9001, PortB: 9000, Frames: 10, Drain: 90}
}

// Totals counts received messages and the sum of their int arguments.
type Totals struct {
	Messages int
	Ints     int64
}

// Expected returns the totals of a loss-free run of frames frames.
func Expected(frames int) Totals {
	var t Totals
	for f := 0; f < frames; f++ {
		t.Messages += 9
		t.Ints += int64(f&1) + int64(f&255) + int64(f) + int64(colour(f))
	}
	return t
}

// colour returns the packed RGB value of frame f on a 1536 step hue wheel.
func colour(f int) int32 {
	channel := func(offset int) int {
		c := (f + offset) % 1536
		if c > 768 {
			c = 1024 - c
		}
		return max(0, min(c, 255))
	}
	return int32(channel(0) | channel(512)<<8 | channel(1024)<<16)
}

// Run performs the exchange and prints every received message to out.
func Run(cfg Config, out io.Writer) (Totals, error) {
	var totals Totals

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	a, err := osc.Open(&osc.Config{LocalPort: cfg.PortA, RemoteHost: cfg.Host, RemotePort: cfg.PortB, Logger: log})
	if err != nil {
		return totals, err
	}
	defer a.Close()

	b, err := osc.Open(&osc.Config{LocalPort: cfg.PortB, RemoteHost: cfg.Host, RemotePort: cfg.PortA, Logger: log})
	if err != nil {
		return totals, err
	}
	defer b.Close()

	h := func(m *osc.Message) {
		fmt.Fprintf(out, "RXCB: %s\n", m)
		totals.Messages++
		for _, arg := range m.Arguments {
			if i, ok := arg.(osc.Int32); ok {
				totals.Ints += int64(i)
			}
		}
	}
	poll := func(e *osc.Endpoint, timeout time.Duration) error {
		_, err := e.Poll(timeout, h)
		if err != nil && !errors.Is(err, osc.ErrClosed) {
			// A bad datagram or a refused send is not fatal.
			log.Warn("poll", zap.Error(err))
			return nil
		}
		return err
	}

	var (
		batch osc.Batch
		zone  osc.Message
	)
	for f := 0; f < cfg.Frames; f++ {
		if err := poll(a, 10*time.Millisecond); err != nil {
			return totals, err
		}
		if err := poll(b, 0); err != nil {
			return totals, err
		}

		label := osc.String(fmt.Sprintf("Frameno: %d", f))
		if err := a.SendMessage("/label1", ",s", label); err != nil {
			return totals, err
		}

		for _, m := range []*osc.Message{
			osc.NewMessage("/avatar/parameters/parameter0", osc.Float32(math.Sin(float64(f)/100))),
			osc.NewMessage("/avatar/parameters/parameter1", osc.Float32(float64((f/100)%256)/255)),
			osc.NewMessage("/avatar/parameters/parameter2", osc.Float32(f&1)),
			osc.NewMessage("/text1", label),
			osc.NewMessage("/label2", osc.Int32(f&1)),
			osc.NewMessage("/box2", osc.Int32(f&255)),
			osc.NewMessage("/composite", osc.Int32(f), osc.Float32(3.24), osc.String("hello")),
		} {
			if err := batch.AppendMessage(m); err != nil {
				return totals, err
			}
		}
		if err := a.SendBatch(&batch); err != nil {
			return totals, err
		}

		zone.Clear()
		zone.Path = "/opc/zone6"
		zone.Append(osc.Int32(colour(f)))
		if err := b.SendPacket(&zone, 0); err != nil {
			return totals, err
		}
	}

	want := Expected(cfg.Frames)
	for j := 0; j < cfg.Drain && totals.Messages < want.Messages; j++ {
		if err := poll(a, 2*time.Millisecond); err != nil {
			return totals, err
		}
		if err := poll(b, 2*time.Millisecond); err != nil {
			return totals, err
		}
	}

	fmt.Fprintf(out, "Totals: %d %d\n", totals.Messages, totals.Ints)
	return totals, nil
}

// Check compares totals with a loss-free run of frames frames.
func (t Totals) Check(frames int) error {
	if want := Expected(frames); t != want {
		return fmt.Errorf("demo: received %d messages summing to %d, want %d and %d", t.Messages, t.Ints, want.Messages, want.Ints)
	}
	return nil
}
