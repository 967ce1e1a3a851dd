package link

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"
)

var errFakePortClosed = errors.New("fake port closed")

// fakePort is an in-memory Port. Reads drain rx; writes append to tx.
type fakePort struct {
	mu      sync.Mutex
	rx      bytes.Buffer
	tx      bytes.Buffer
	timeout time.Duration
	closed  bool
	closeFn func() error
}

func newFakePort(rx []byte) *fakePort {
	p := &fakePort{}
	p.rx.Write(rx)
	return p
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errFakePortClosed
	}
	n, err := p.rx.Read(b)
	if errors.Is(err, io.EOF) {
		// a serial port with a read timeout reports no data, not EOF
		return 0, nil
	}
	return n, err
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errFakePortClosed
	}
	return p.tx.Write(b)
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closeFn != nil {
		if err := p.closeFn(); err != nil {
			return err
		}
	}
	p.closed = true
	return nil
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeout = t
	return nil
}

func (p *fakePort) written() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.tx.Bytes()...)
}

func testConfig(path string) *Config {
	cfg := DefaultConfig()
	cfg.Path = path
	cfg.OpenRetryDelay = time.Millisecond
	return cfg
}
