package osc

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultTOS is the IP type of service byte set on every socket. The
// telephony DSCP would be 46<<2, but most wifi drivers prioritise 0xff
// better.
const DefaultTOS = 0xff

// Config describes an Endpoint. Set RemoteHost for a connected endpoint;
// leave it empty to listen on LocalPort on all interfaces. Setting both
// binds LocalPort and connects to the remote peer.
type Config struct {
	LocalPort  int    `yaml:"local_port" toml:"local_port"`
	RemoteHost string `yaml:"remote_host" toml:"remote_host"`
	RemotePort int    `yaml:"remote_port" toml:"remote_port"`

	// ReuseAddr sets SO_REUSEADDR before binding LocalPort, so several
	// endpoints that all ask for it may share the port.
	ReuseAddr bool `yaml:"reuse_addr" toml:"reuse_addr"`

	// TOS is the type of service byte. Zero means DefaultTOS, negative
	// leaves the socket untouched.
	TOS int `yaml:"tos" toml:"tos"`

	// BufferSize is the receive buffer size. Zero means MaxPacketSize.
	BufferSize int `yaml:"buffer_size" toml:"buffer_size"`

	// MaxPacketSize limits encoded datagrams. Zero means MaxPacketSize.
	MaxPacketSize int `yaml:"max_packet_size" toml:"max_packet_size"`

	// HostFloats sends and expects float arguments in host byte order
	// instead of big-endian.
	HostFloats bool `yaml:"host_floats" toml:"host_floats"`

	// PollTimeoutMs is the poll timeout used by the command line tools.
	PollTimeoutMs int `yaml:"poll_timeout_ms" toml:"poll_timeout_ms"`

	// Logger receives debug events. Nil disables logging.
	Logger *zap.Logger `yaml:"-" toml:"-"`
}

// DefaultConfig returns the configuration used when no file is given: a
// listener on 9001 that replies to port 9000 when a host is added.
func DefaultConfig() *Config {
	return &Config{
		LocalPort:     9001,
		RemotePort:    9000,
		BufferSize:    MaxPacketSize,
		MaxPacketSize: MaxPacketSize,
		PollTimeoutMs: 10,
	}
}

// Codec returns the codec described by the configuration.
func (c *Config) Codec() Codec {
	codec := Codec{MaxPacketSize: c.MaxPacketSize}
	if c.HostFloats {
		codec.FloatOrder = binary.NativeEndian
	}
	return codec
}

func (c *Config) bufferSize() int {
	if c.BufferSize <= 0 {
		return MaxPacketSize
	}
	return c.BufferSize
}

func (c *Config) tos() int {
	if c.TOS == 0 {
		return DefaultTOS
	}
	return c.TOS
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file over the
// defaults. A missing file yields the defaults with no error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return nil, fmt.Errorf("LoadConfig: unknown config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("LoadConfig: %s: %w", path, err)
	}

	return cfg, nil
}
