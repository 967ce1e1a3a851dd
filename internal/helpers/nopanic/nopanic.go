package nopanic

import (
	"fmt"

	"github.com/AdlerFarHorizons/xsftp/internal/helpers/debughelper"
	"github.com/lattesec/log"
)

// ErrPanicked wraps the value recovered from a panicking task.
type ErrPanicked struct {
	Name  string
	Value any
}

func (e *ErrPanicked) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Name, e.Value)
}

// Run calls fn and turns a panic into an *ErrPanicked.
func Run(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				WithMeta("scope", "nopanic").
				WithMeta("task", name).
				WithMeta("stack", debughelper.Stack()).
				Msgf("panic in %s: %v", name, r).Send()
			err = &ErrPanicked{Name: name, Value: r}
		}
	}()

	return fn()
}

