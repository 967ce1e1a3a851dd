package link

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/lattesec/log"
)

type ConnState uint8

const (
	ConnStateOpen ConnState = iota
	ConnStateClosed
	ConnStateUnknown
)

func (s ConnState) String() string {
	switch s {
	case ConnStateOpen:
		return "open"
	case ConnStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var ErrLinkClosed = errors.New("link closed")

// Port is the part of a serial port the link uses.
// go.bug.st/serial.Port satisfies it.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Conn is an open serial link.
// Reads are meant for a single receiver goroutine; writes are serialised.
type Conn struct {
	Config *Config

	port  Port
	state ConnState

	muConn sync.RWMutex
	muSend sync.Mutex
}

func NewConnWithPort(port Port, cfg *Config) *Conn {
	return &Conn{
		Config: cfg,
		port:   port,
		state:  ConnStateOpen,
	}
}

func (c *Conn) String() string {
	c.muConn.RLock()
	defer c.muConn.RUnlock()
	return fmt.Sprintf("{link: %s, state: %s}", c.Config.String(), c.state.String())
}

func (c *Conn) State() ConnState {
	c.muConn.RLock()
	defer c.muConn.RUnlock()
	return c.state
}

// Read reads from the port. With a read timeout configured,
// (0, nil) means no data arrived in time.
func (c *Conn) Read(b []byte) (int, error) {
	c.muConn.RLock()
	state, port := c.state, c.port
	c.muConn.RUnlock()

	if state != ConnStateOpen {
		return 0, ErrLinkClosed
	}

	n, err := port.Read(b)
	if err != nil && c.State() == ConnStateClosed {
		return n, ErrLinkClosed
	}
	return n, err
}

func (c *Conn) Write(b []byte) (int, error) {
	c.muSend.Lock()
	defer c.muSend.Unlock()

	if c.State() != ConnStateOpen {
		return 0, ErrLinkClosed
	}
	return c.port.Write(b)
}

// Close closes the port. Closing a closed link is a no-op.
func (c *Conn) Close() error {
	c.muConn.Lock()
	defer c.muConn.Unlock()

	if c.state == ConnStateClosed {
		return nil
	}

	log.Debug().
		WithMeta("scope", "link").
		WithMeta("port", c.Config.Path).
		Msg("closing link").Send()

	if err := c.port.Close(); err != nil {
		c.state = ConnStateUnknown
		log.Error().
			WithMeta("scope", "link").
			WithMeta("port", c.Config.Path).
			Msgf("failed to close link: %v", err).Send()
		return err
	}

	c.state = ConnStateClosed
	return nil
}
