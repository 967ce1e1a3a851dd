package link

import (
	"errors"
	"fmt"
	"time"

	"github.com/lattesec/log"
	"go.bug.st/serial"
)

var openPort = func(path string, mode *serial.Mode) (Port, error) {
	return serial.Open(path, mode)
}

// Open opens the port described by cfg once.
func Open(cfg *Config) (*Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	port, err := openPort(cfg.Path, cfg.Mode())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Path, err)
	}

	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			return nil, errors.Join(
				fmt.Errorf("failed to set read timeout on %s: %w", cfg.Path, err),
				port.Close(),
			)
		}
	}

	log.Info().
		WithMeta("scope", "link").
		WithMeta("port", cfg.Path).
		Msgf("opened %s", cfg.String()).Send()

	return NewConnWithPort(port, cfg), nil
}

// OpenWithRetry calls Open up to cfg.OpenAttempts times.
func OpenWithRetry(cfg *Config) (*Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < cfg.OpenAttempts; i++ {
		conn, err := Open(cfg)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		log.Debug().
			WithMeta("scope", "link").
			WithMeta("port", cfg.Path).
			WithMetaf("attempt", "%d/%d", i+1, cfg.OpenAttempts).
			Msgf("failed to open: %v", err).
			Send()

		if i+1 < cfg.OpenAttempts {
			time.Sleep(cfg.OpenRetryDelay)
		}
	}

	log.Error().
		WithMeta("scope", "link").
		WithMeta("port", cfg.Path).
		WithMetaf("attempts", "%d", cfg.OpenAttempts).
		Msgf("failed to open: %v", lastErr).
		Send()
	return nil, fmt.Errorf("failed to open %s after %d attempts: %w", cfg.Path, cfg.OpenAttempts, lastErr)
}
