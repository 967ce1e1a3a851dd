package cleanup

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/AdlerFarHorizons/xsftp/internal/helpers/nopanic"
	"github.com/lattesec/log"
)

// Exit status used when a signal ends the process.
const SignalExitStatus = 1

type CleanupFunc func() error

var (
	once sync.Once

	mu           sync.Mutex
	cleanupIdGen uint64
	cleanupFns   = make(map[uint64]CleanupFunc)

	exit = os.Exit
)

// Register registers a cleanup function
// that is called on exit
func Register(fn CleanupFunc) uint64 {
	id := atomic.AddUint64(&cleanupIdGen, 1)
	mu.Lock()
	cleanupFns[id] = fn
	mu.Unlock()
	return id
}

func Unregister(id uint64) {
	mu.Lock()
	delete(cleanupFns, id)
	mu.Unlock()
}

// Run calls every registered function once, newest first.
// The registry is empty afterwards.
func Run() {
	mu.Lock()
	ids := make([]uint64, 0, len(cleanupFns))
	for id := range cleanupFns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	fns := make([]CleanupFunc, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, cleanupFns[id])
	}
	cleanupFns = make(map[uint64]CleanupFunc)
	mu.Unlock()

	for i, fn := range fns {
		name := fmt.Sprintf("cleanup %d", i)
		if err := nopanic.Run(name, fn); err != nil {
			log.Error().
				WithMeta("scope", "cleanup").
				Msgf("%s failed: %v", name, err).Send()
		}
	}
}

// Exit runs the cleanup functions and terminates the process with status.
func Exit(status int) {
	Run()
	exit(status)
}

// Listen starts a goroutine that runs the cleanup functions and exits
// with SignalExitStatus on SIGINT or SIGTERM. Only the first call has an effect.
func Listen() {
	once.Do(func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigs
			log.Info().
				WithMeta("scope", "cleanup").
				WithMeta("signal", sig).
				Msg("signal received, cleaning up").Send()
			Exit(SignalExitStatus)
		}()
	})
}
