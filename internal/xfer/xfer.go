// Package xfer implements the receive side of the serial link: bytes are shown
// on the terminal until a requested download starts, then collected into a file.
//
// Wire format of a download, sent by the device in answer to "get <name>":
//
//	[flag]          0x00 = no such file (human readable text follows), anything else = file follows
//	[size 4 bytes]  big-endian payload length
//	[payload]       exactly size bytes
//
// There is no checksum, escaping or terminator.
package xfer

import "errors"

// FlagFileAbsent is the flag byte the device sends when it cannot open the file.
const FlagFileAbsent byte = 0x00

const headerLen = 4

var ErrOpenFailed = errors.New("failed to open download target")

type State uint8

const (
	StatePassthrough State = iota
	StateAwaitTransferStart
	StateReceivingHeader
	StateReceivingPayload
)

func (s State) String() string {
	switch s {
	case StatePassthrough:
		return "passthrough"
	case StateAwaitTransferStart:
		return "await-transfer-start"
	case StateReceivingHeader:
		return "receiving-header"
	case StateReceivingPayload:
		return "receiving-payload"
	default:
		return "unknown"
	}
}

type Config struct {
	// Fail the receiver when the target file cannot be created, instead of
	// discarding the transfer and carrying on.
	AbortOnOpenError bool `yaml:"abort_on_open_error"`
	// Suppress the progress and completion notices on the display.
	Quiet bool `yaml:"quiet"`
}

func DefaultConfig() *Config {
	return &Config{}
}
