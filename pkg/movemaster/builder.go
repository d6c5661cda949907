// SPDX-License-Identifier: Apache-2.0

package movemaster

// SettingsBuilder constructs custom link settings starting from the
// defaults.
type SettingsBuilder struct {
	settings *Settings
}

// NewSettingsBuilder starts a builder seeded with the factory defaults.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{settings: DefaultSettings()}
}

// Build returns the accumulated settings.
func (b *SettingsBuilder) Build() *Settings {
	return b.settings
}

// BuildAndSave persists the accumulated settings and returns them.
// An empty path saves to the default settings file.
func (b *SettingsBuilder) BuildAndSave(path string) (*Settings, error) {
	if err := b.settings.SaveToFile(path); err != nil {
		return b.settings, err
	}
	return b.settings, nil
}

// BaudRate sets the baud rate.
func (b *SettingsBuilder) BaudRate(baud int) *SettingsBuilder {
	b.settings.BaudRate = baud
	return b
}

// DataBits sets the data bit count.
func (b *SettingsBuilder) DataBits(bits int) *SettingsBuilder {
	b.settings.DataBits = bits
	return b
}

// Parity sets the parity scheme.
func (b *SettingsBuilder) Parity(parity Parity) *SettingsBuilder {
	b.settings.Parity = parity
	return b
}

// StopBits sets the stop bit count.
func (b *SettingsBuilder) StopBits(bits StopBits) *SettingsBuilder {
	b.settings.StopBits = bits
	return b
}

// RtsEnable sets the RTS line state.
func (b *SettingsBuilder) RtsEnable(enabled bool) *SettingsBuilder {
	b.settings.RtsEnable = enabled
	return b
}

// ReadTimeout sets the hardware read timeout in milliseconds.
func (b *SettingsBuilder) ReadTimeout(ms int) *SettingsBuilder {
	b.settings.ReadTimeout = ms
	return b
}

// WriteTimeout sets the hardware write timeout in milliseconds.
func (b *SettingsBuilder) WriteTimeout(ms int) *SettingsBuilder {
	b.settings.WriteTimeout = ms
	return b
}

// FrameTerminator sets the frame terminator for outgoing commands.
func (b *SettingsBuilder) FrameTerminator(t Terminator) *SettingsBuilder {
	b.settings.Terminator = t
	return b
}
