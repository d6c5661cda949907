// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"encoding/json"
	"fmt"
	"os"

	"go.bug.st/serial"
)

// Link parameter defaults for the E3J controller.
const (
	DefaultBaudRate     = 9600
	DefaultDataBits     = 8
	DefaultParity       = ParityEven
	DefaultStopBits     = StopBitsTwo
	DefaultHandshake    = "RTS/CTS"
	DefaultRtsEnable    = true
	DefaultReadTimeout  = 5000
	DefaultWriteTimeout = 2000

	// DefaultSettingsPath is where settings are persisted when no path
	// is given.
	DefaultSettingsPath = "SerialSettings.json"
)

// Parity names a parity scheme as stored in the settings file.
type Parity string

// Parity values
const (
	ParityNone Parity = "None"
	ParityOdd  Parity = "Odd"
	ParityEven Parity = "Even"
)

var parityModes = map[Parity]serial.Parity{
	ParityNone: serial.NoParity,
	ParityOdd:  serial.OddParity,
	ParityEven: serial.EvenParity,
}

// ParseParity maps a settings-file parity name to the driver value.
// An unknown name is a recoverable error; callers keep the default.
func ParseParity(s string) (serial.Parity, error) {
	if mode, ok := parityModes[Parity(s)]; ok {
		return mode, nil
	}
	return serial.NoParity, fmt.Errorf("movemaster: unknown parity %q", s)
}

// StopBits names a stop-bit count as stored in the settings file.
type StopBits string

// Stop bit values
const (
	StopBitsOne          StopBits = "One"
	StopBitsOnePointFive StopBits = "OnePointFive"
	StopBitsTwo          StopBits = "Two"
)

var stopBitModes = map[StopBits]serial.StopBits{
	StopBitsOne:          serial.OneStopBit,
	StopBitsOnePointFive: serial.OnePointFiveStopBits,
	StopBitsTwo:          serial.TwoStopBits,
}

// ParseStopBits maps a settings-file stop-bit name to the driver value.
func ParseStopBits(s string) (serial.StopBits, error) {
	if bits, ok := stopBitModes[StopBits(s)]; ok {
		return bits, nil
	}
	return serial.OneStopBit, fmt.Errorf("movemaster: unknown stop bits %q", s)
}

// Settings describes the physical parameters of the serial link. The
// combination is validated when the port is opened, not at construction.
type Settings struct {
	BaudRate     int        `json:"BaudRate"`
	DataBits     int        `json:"DataBits"`
	Parity       Parity     `json:"Parity"`
	StopBits     StopBits   `json:"StopBits"`
	// Handshake and WriteTimeout are carried in the settings file but
	// never programmed into the port: go.bug.st/serial's Mode has no
	// flow-control or write-timeout knobs. RTS is asserted directly via
	// RtsEnable instead.
	Handshake    string     `json:"Handshake"`
	RtsEnable    bool       `json:"RtsEnable"`
	ReadTimeout  int        `json:"ReadTimeout"`  // milliseconds
	WriteTimeout int        `json:"WriteTimeout"` // milliseconds
	Terminator   Terminator `json:"Terminator"`

	// Path is the file the settings were loaded from, if any.
	Path string `json:"-"`
}

// DefaultSettings returns the E3J factory link parameters.
func DefaultSettings() *Settings {
	return &Settings{
		BaudRate:     DefaultBaudRate,
		DataBits:     DefaultDataBits,
		Parity:       DefaultParity,
		StopBits:     DefaultStopBits,
		Handshake:    DefaultHandshake,
		RtsEnable:    DefaultRtsEnable,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		Terminator:   TerminatorCR,
	}
}

// LoadSettings reads settings from a JSON file. The returned settings are
// always usable: on a missing or corrupt file the defaults are returned
// together with the error that explains what was wrong, so the session can
// continue while the caller reports the problem.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("movemaster: read settings: %w", err)
	}
	if err := json.Unmarshal(data, settings); err != nil {
		return DefaultSettings(), fmt.Errorf("movemaster: parse settings: %w", err)
	}
	settings.Path = path

	// Unknown enum names degrade to defaults, loudly.
	if _, err := ParseParity(string(settings.Parity)); err != nil {
		settings.Parity = DefaultParity
		return settings, err
	}
	if _, err := ParseStopBits(string(settings.StopBits)); err != nil {
		settings.StopBits = DefaultStopBits
		return settings, err
	}
	if settings.Terminator == "" {
		settings.Terminator = TerminatorCR
	}
	return settings, nil
}

// SaveToFile persists the settings as JSON.
func (s *Settings) SaveToFile(path string) error {
	if path == "" {
		path = DefaultSettingsPath
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("movemaster: encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("movemaster: write settings: %w", err)
	}
	s.Path = path
	return nil
}

// Mode translates the settings into a serial port mode. Invalid
// combinations are rejected here, at open time.
func (s *Settings) Mode() (*serial.Mode, error) {
	parity, err := ParseParity(string(s.Parity))
	if err != nil {
		return nil, err
	}
	stopBits, err := ParseStopBits(string(s.StopBits))
	if err != nil {
		return nil, err
	}
	return &serial.Mode{
		BaudRate: s.BaudRate,
		DataBits: s.DataBits,
		Parity:   parity,
		StopBits: stopBits,
	}, nil
}
