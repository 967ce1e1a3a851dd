package env

import (
	"errors"
	"fmt"

	"github.com/AdlerFarHorizons/xsftp/internal/helpers/mirror"
	"github.com/lattesec/log"
)

var ErrInvalidConfigFilename = errors.New("invalid config filename")

// Configurable is implemented by config structs (as pointers).
type Configurable interface {
	Validate() error
}

// Loader applies a chain of callbacks to a config, in registration order.
type Loader[T Configurable] struct {
	cfg       T
	callbacks []func(T) error
}

// NewLoader returns a loader that starts from cfg, usually the defaults.
func NewLoader[T Configurable](cfg T) *Loader[T] {
	return &Loader[T]{cfg: cfg}
}

func (l *Loader[T]) RegisterCallback(fn func(T) error) {
	l.callbacks = append(l.callbacks, fn)
}

// Load runs every callback and then validates the result.
func (l *Loader[T]) Load() (T, error) {
	if err := mirror.IsStructPointer(l.cfg); err != nil {
		return l.cfg, err
	}

	for i, fn := range l.callbacks {
		if err := fn(l.cfg); err != nil {
			log.Debug().
				WithMeta("scope", "env").
				WithMetaf("callback", "%d/%d", i+1, len(l.callbacks)).
				Msgf("config callback failed: %v", err).Send()
			return l.cfg, err
		}
	}

	if err := l.cfg.Validate(); err != nil {
		return l.cfg, fmt.Errorf("invalid config: %w", err)
	}

	log.Debug().WithMeta("scope", "env").Msgf("config loaded: %+v", l.cfg).Send()
	return l.cfg, nil
}
