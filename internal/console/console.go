package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AdlerFarHorizons/xsftp/internal/xfer"
	"github.com/lattesec/log"
)

var ErrExitRequested = errors.New("exit requested")

const (
	verbGet  = "get"
	verbExit = "exit"
)

type Config struct {
	Device         string `yaml:"device"`          // Terminal device to use instead of stdin/stdout, e.g. /dev/tty
	LineTerminator string `yaml:"line_terminator"` // Replaces the newline of every line sent to the link
	ExitStatus     int    `yaml:"exit_status"`     // Process exit status after the exit command
}

func DefaultConfig() *Config {
	return &Config{
		LineTerminator: "\r",
		ExitStatus:     1,
	}
}

// Dispatcher forwards operator lines to the link and recognises the
// get and exit commands on the way.
type Dispatcher struct {
	cfg      *Config
	in       *bufio.Reader
	link     io.Writer
	requests *xfer.Requests
}

func NewDispatcher(cfg *Config, in io.Reader, link io.Writer, requests *xfer.Requests) *Dispatcher {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Dispatcher{
		cfg:      cfg,
		in:       bufio.NewReader(in),
		link:     link,
		requests: requests,
	}
}

// Run handles lines until the input ends (nil) or the exit command is
// given (ErrExitRequested).
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := d.in.ReadString('\n')
		if line != "" {
			if herr := d.Handle(line); herr != nil {
				return herr
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug().WithMeta("scope", "console").Msg("input closed").Send()
				return nil
			}
			return fmt.Errorf("console read failed: %w", err)
		}
	}
}

// Handle processes one input line, including its trailing newline if any.
//
// The filename of a get command is used as typed; it is not checked for
// absolute paths or "..".
func (d *Dispatcher) Handle(line string) error {
	fields := strings.Fields(line)
	verb := ""
	if len(fields) > 0 {
		verb = fields[0]
	}

	// arm before sending, the device answers as soon as it sees the line
	if verb == verbGet {
		if len(fields) > 1 {
			d.requests.Arm(fields[1])
			log.Debug().
				WithMeta("scope", "console").
				WithMeta("file", fields[1]).
				Msg("download armed").Send()
		} else {
			log.Warn().
				WithMeta("scope", "console").
				Msg("get without a filename, nothing armed").Send()
		}
	}

	d.transmit(line)

	if verb == verbExit {
		return ErrExitRequested
	}
	return nil
}

func (d *Dispatcher) transmit(line string) {
	out := strings.Replace(line, "\n", d.cfg.LineTerminator, 1)
	if _, err := io.WriteString(d.link, out); err != nil {
		log.Debug().
			WithMeta("scope", "console").
			Msgf("failed to send line: %v", err).Send()
	}
}
