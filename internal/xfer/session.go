package xfer

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/lattesec/log"
)

// OpenFunc opens a download target for writing.
type OpenFunc func(name string) (io.WriteCloser, error)

// CreateFile creates or truncates name. No directories are created and the
// name is used as given.
func CreateFile(name string) (io.WriteCloser, error) {
	return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}

// Session is one file download in progress.
type Session struct {
	ID            uuid.UUID
	Filename      string
	DeclaredSize  uint32
	BytesConsumed uint64 // header and payload bytes seen so far

	file     io.WriteCloser // nil while discarding
	out      *bufio.Writer
	writeErr error
}

func newSession(name string, file io.WriteCloser) *Session {
	s := &Session{
		ID:       uuid.New(),
		Filename: name,
		file:     file,
	}
	if file != nil {
		s.out = bufio.NewWriter(file)
	} else {
		s.out = bufio.NewWriter(io.Discard)
	}
	return s
}

func (s *Session) discarding() bool {
	return s.file == nil
}

func (s *Session) accumulate(b byte) {
	s.DeclaredSize = s.DeclaredSize*256 + uint32(b)
	s.BytesConsumed++
}

func (s *Session) write(b byte) {
	if s.writeErr != nil {
		return
	}
	if err := s.out.WriteByte(b); err != nil {
		s.writeErr = err
		log.Error().
			WithMeta("scope", "xfer").
			WithMeta("session", s.ID).
			WithMeta("file", s.Filename).
			Msgf("write failed, discarding rest of payload: %v", err).Send()
	}
}

func (s *Session) close() error {
	if s.discarding() {
		return nil
	}
	var flushErr error
	if s.writeErr == nil {
		flushErr = s.out.Flush()
	}
	return errors.Join(s.writeErr, flushErr, s.file.Close())
}
