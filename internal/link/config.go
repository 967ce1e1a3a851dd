package link

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"
)

var (
	ErrPathRequired    = errors.New("port path is required")
	ErrInvalidBitRate  = errors.New("bits per second must be positive")
	ErrInvalidDataBits = errors.New("data bits must be between 5 and 8")
	ErrInvalidStopBits = errors.New("stop bits must be 1 or 2")
	ErrInvalidAttempts = errors.New("open attempts must be at least 1")
)

type Config struct {
	Path          string `yaml:"path"`           // The device to open, e.g. /dev/ttyACM0 or COM3
	BitsPerSecond int    `yaml:"bits_per_second"`
	DataBits      int    `yaml:"data_bits"`
	StopBits      int    `yaml:"stop_bits"` // 1 or 2. Parity is always none.

	ReadTimeout time.Duration `yaml:"read_timeout"` // Read returns (0, nil) after this long without data. 0 blocks.

	OpenAttempts   int           `yaml:"open_attempts"`
	OpenRetryDelay time.Duration `yaml:"open_retry_delay"` // The amount of time to wait between open attempts
}

func DefaultConfig() *Config {
	return &Config{
		BitsPerSecond: 9600,
		DataBits:      8,
		StopBits:      1,

		ReadTimeout: 250 * time.Millisecond,

		OpenAttempts:   1,
		OpenRetryDelay: time.Second,
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Path == "" {
		errs = append(errs, ErrPathRequired)
	}
	if c.BitsPerSecond <= 0 {
		errs = append(errs, ErrInvalidBitRate)
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		errs = append(errs, ErrInvalidDataBits)
	}
	if c.StopBits != 1 && c.StopBits != 2 {
		errs = append(errs, ErrInvalidStopBits)
	}
	if c.OpenAttempts < 1 {
		errs = append(errs, ErrInvalidAttempts)
	}
	return errors.Join(errs...)
}

// Mode returns the serial mode for the config, with no parity.
func (c *Config) Mode() *serial.Mode {
	stop := serial.OneStopBit
	if c.StopBits == 2 {
		stop = serial.TwoStopBits
	}

	return &serial.Mode{
		BaudRate: c.BitsPerSecond,
		DataBits: c.DataBits,
		Parity:   serial.NoParity,
		StopBits: stop,
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("%s %d %d-N-%d", c.Path, c.BitsPerSecond, c.DataBits, c.StopBits)
}
