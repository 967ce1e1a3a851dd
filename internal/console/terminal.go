package console

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Terminal is where operator lines come from and where link output goes.
type Terminal struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool // In is a terminal rather than a pipe or file

	device *os.File
}

// OpenTerminal returns stdin/stdout, or the configured device opened read-write.
func OpenTerminal(cfg *Config) (*Terminal, error) {
	if cfg.Device == "" {
		return &Terminal{
			In:          os.Stdin,
			Out:         os.Stdout,
			Interactive: term.IsTerminal(int(os.Stdin.Fd())),
		}, nil
	}

	f, err := os.OpenFile(cfg.Device, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal %s: %w", cfg.Device, err)
	}

	return &Terminal{
		In:          f,
		Out:         f,
		Interactive: term.IsTerminal(int(f.Fd())),
		device:      f,
	}, nil
}

func (t *Terminal) Close() error {
	if t.device == nil {
		return nil
	}
	err := t.device.Close()
	t.device = nil
	return err
}
