package xfer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/lattesec/log"
)

// Receiver is the state machine for bytes arriving from the link.
// Feed and Run are meant for a single goroutine; Close may be called from any.
type Receiver struct {
	cfg      *Config
	requests *Requests
	display  io.Writer
	open     OpenFunc

	mu      sync.Mutex
	state   State
	target  Request
	session *Session
}

func NewReceiver(cfg *Config, requests *Requests, display io.Writer) *Receiver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Receiver{
		cfg:      cfg,
		requests: requests,
		display:  display,
		open:     CreateFile,
		state:    StatePassthrough,
	}
}

// WithOpenFunc replaces the function used to create download targets.
func (r *Receiver) WithOpenFunc(fn OpenFunc) *Receiver {
	r.open = fn
	return r
}

func (r *Receiver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Active reports whether a download is in progress.
func (r *Receiver) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil
}

// Progress returns the declared size and the bytes consumed by the active download.
func (r *Receiver) Progress() (declared uint32, consumed uint64, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return 0, 0, false
	}
	return r.session.DeclaredSize, r.session.BytesConsumed, true
}

// Feed processes one byte from the link.
// The only error is ErrOpenFailed, and only with AbortOnOpenError set.
func (r *Receiver) Feed(b byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// requests are only honoured between downloads
	if r.state == StatePassthrough {
		if req, ok := r.requests.Take(); ok {
			r.target = req
			r.state = StateAwaitTransferStart
		}
	}

	switch r.state {
	case StateAwaitTransferStart:
		return r.start(b)
	case StateReceivingHeader:
		r.header(b)
	case StateReceivingPayload:
		r.payload(b)
	default:
		_, _ = r.display.Write([]byte{b})
	}
	return nil
}

func (r *Receiver) start(flag byte) error {
	req := r.target
	r.target = Request{}

	if flag == FlagFileAbsent {
		log.Info().
			WithMeta("scope", "xfer").
			WithMeta("file", req.Filename).
			Msg("download aborted by device: file not found").Send()
		r.state = StatePassthrough
		return nil
	}

	f, err := r.open(req.Filename)
	if err != nil {
		if r.cfg.AbortOnOpenError {
			r.state = StatePassthrough
			return fmt.Errorf("%w %q: %w", ErrOpenFailed, req.Filename, err)
		}

		log.Error().
			WithMeta("scope", "xfer").
			WithMeta("file", req.Filename).
			Msgf("cannot create download target, discarding transfer: %v", err).Send()
		fmt.Fprintf(r.display, "\nCan't create %s: %v\n", req.Filename, err)
		f = nil
	}

	r.session = newSession(req.Filename, f)
	r.state = StateReceivingHeader

	log.Debug().
		WithMeta("scope", "xfer").
		WithMeta("session", r.session.ID).
		WithMeta("file", req.Filename).
		Msg("download started").Send()
	return nil
}

func (r *Receiver) header(b byte) {
	s := r.session
	s.accumulate(b)
	if s.BytesConsumed < headerLen {
		return
	}

	log.Debug().
		WithMeta("scope", "xfer").
		WithMeta("session", s.ID).
		WithMetaf("size", "%d", s.DeclaredSize).
		Msg("header received").Send()

	if s.DeclaredSize == 0 {
		r.notice("\nTransferring %d bytes...", s.DeclaredSize)
		r.finish()
		return
	}
	r.state = StateReceivingPayload
}

func (r *Receiver) payload(b byte) {
	s := r.session
	if s.BytesConsumed == headerLen {
		r.notice("\nTransferring %d bytes...", s.DeclaredSize)
	}

	s.write(b)

	// The counter starts at 0 on the first size byte, so the last payload
	// byte is seen at DeclaredSize+3.
	last := s.BytesConsumed == uint64(s.DeclaredSize)+3
	s.BytesConsumed++
	if last {
		r.finish()
	}
}

func (r *Receiver) finish() {
	s := r.session
	r.session = nil
	r.state = StatePassthrough

	err := s.close()
	switch {
	case s.discarding():
		log.Warn().
			WithMeta("scope", "xfer").
			WithMeta("session", s.ID).
			WithMeta("file", s.Filename).
			Msgf("discarded %d bytes", s.DeclaredSize).Send()
		r.notice("discarded\n")
	case err != nil:
		log.Error().
			WithMeta("scope", "xfer").
			WithMeta("session", s.ID).
			WithMeta("file", s.Filename).
			Msgf("download failed: %v", err).Send()
		r.notice("failed: %v\n", err)
	default:
		log.Info().
			WithMeta("scope", "xfer").
			WithMeta("session", s.ID).
			WithMeta("file", s.Filename).
			Msgf("downloaded %d bytes", s.DeclaredSize).Send()
		r.notice("done\n")
	}
}

func (r *Receiver) notice(format string, v ...any) {
	if r.cfg.Quiet {
		return
	}
	fmt.Fprintf(r.display, format, v...)
}

// Close abandons a download in progress, keeping what was received so far.
func (r *Receiver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.session
	if s == nil {
		return nil
	}
	r.session = nil
	r.state = StatePassthrough

	log.Warn().
		WithMeta("scope", "xfer").
		WithMeta("session", s.ID).
		WithMeta("file", s.Filename).
		WithMetaf("progress", "%d/%d", s.BytesConsumed, uint64(s.DeclaredSize)+headerLen).
		Msg("closing incomplete download").Send()
	return s.close()
}

// Run feeds everything read from src until ctx is done or src fails.
// A read returning no bytes and no error is treated as an idle link.
func (r *Receiver) Run(ctx context.Context, src io.Reader) error {
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := src.Read(buf)
		for _, b := range buf[:n] {
			if ferr := r.Feed(b); ferr != nil {
				return ferr
			}
		}

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("link read failed: %w", err)
		}
	}
}

