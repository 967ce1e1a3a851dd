package link

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestConfig_Validate(t *testing.T) {
	cfg := testConfig("/dev/ttyACM0")
	assert.NoError(t, cfg.Validate())

	bad := &Config{DataBits: 9, StopBits: 3}
	err := bad.Validate()
	assert.ErrorIs(t, err, ErrPathRequired)
	assert.ErrorIs(t, err, ErrInvalidBitRate)
	assert.ErrorIs(t, err, ErrInvalidDataBits)
	assert.ErrorIs(t, err, ErrInvalidStopBits)
	assert.ErrorIs(t, err, ErrInvalidAttempts)
}

func TestConfig_Mode(t *testing.T) {
	cfg := testConfig("/dev/ttyUSB0")
	cfg.BitsPerSecond = 115200
	cfg.DataBits = 7
	cfg.StopBits = 2

	mode := cfg.Mode()
	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 7, mode.DataBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)

	cfg.StopBits = 1
	assert.Equal(t, serial.OneStopBit, cfg.Mode().StopBits)
	assert.Equal(t, "/dev/ttyUSB0 115200 7-N-1", cfg.String())
}

func TestConn_ReadWriteClose(t *testing.T) {
	port := newFakePort([]byte("hello"))
	c := NewConnWithPort(port, testConfig("fake"))

	buf := make([]byte, 16)
	n, err := c.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	// idle link reports no data
	n, err = c.Read(buf)
	assert.NoError(t, err)
	assert.Zero(t, n)

	_, err = c.Write([]byte("ls\r"))
	require.NoError(t, err)
	assert.Equal(t, "ls\r", string(port.written()))

	require.NoError(t, c.Close())
	assert.Equal(t, ConnStateClosed, c.State())
	assert.NoError(t, c.Close(), "second close is a no-op")

	_, err = c.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrLinkClosed)
	_, err = c.Read(buf)
	assert.ErrorIs(t, err, ErrLinkClosed)
}

func TestConn_CloseFailure(t *testing.T) {
	port := newFakePort(nil)
	port.closeFn = func() error { return errors.New("stuck") }
	c := NewConnWithPort(port, testConfig("fake"))

	assert.Error(t, c.Close())
	assert.Equal(t, ConnStateUnknown, c.State())
	assert.Contains(t, c.String(), "unknown")
}

func TestOpen_SetsReadTimeout(t *testing.T) {
	port := newFakePort(nil)
	orig := openPort
	defer func() { openPort = orig }()

	var gotPath string
	var gotMode *serial.Mode
	openPort = func(path string, mode *serial.Mode) (Port, error) {
		gotPath, gotMode = path, mode
		return port, nil
	}

	cfg := testConfig("/dev/ttyS1")
	cfg.ReadTimeout = 50 * time.Millisecond
	c, err := Open(cfg)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyS1", gotPath)
	assert.Equal(t, 9600, gotMode.BaudRate)
	assert.Equal(t, 50*time.Millisecond, port.timeout)
	assert.Equal(t, ConnStateOpen, c.State())
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(&Config{})
	assert.ErrorIs(t, err, ErrPathRequired)
}

func TestOpenWithRetry(t *testing.T) {
	orig := openPort
	defer func() { openPort = orig }()

	attempts := 0
	openPort = func(string, *serial.Mode) (Port, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("no such device")
		}
		return newFakePort(nil), nil
	}

	cfg := testConfig("/dev/ttyACM0")
	cfg.OpenAttempts = 5
	c, err := OpenWithRetry(cfg)
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, 3, attempts)
}

func TestOpenWithRetry_Exhausted(t *testing.T) {
	orig := openPort
	defer func() { openPort = orig }()

	want := errors.New("no such device")
	attempts := 0
	openPort = func(string, *serial.Mode) (Port, error) {
		attempts++
		return nil, want
	}

	cfg := testConfig("/dev/ttyACM0")
	cfg.OpenAttempts = 2
	_, err := OpenWithRetry(cfg)
	assert.ErrorIs(t, err, want)
	assert.Equal(t, 2, attempts)
}

func TestPortInfo_String(t *testing.T) {
	assert.Equal(t, "/dev/ttyS0", PortInfo{Name: "/dev/ttyS0"}.String())
	assert.Equal(t,
		"/dev/ttyACM0 [USB 16c0:0483] serial=12345 Teensy",
		PortInfo{Name: "/dev/ttyACM0", IsUSB: true, VID: "16c0", PID: "0483", SerialNumber: "12345", Product: "Teensy"}.String(),
	)
}
