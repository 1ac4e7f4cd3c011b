package config

import (
	"fmt"

	"enigma/internal/machine"
	"enigma/internal/plugboard"
	"enigma/internal/reflector"
	"enigma/internal/rotor"
)

// BuildMachine assembles the machine described by the key sheet.
func (c *Config) BuildMachine() (*machine.Machine, error) {
	return c.Machine.Build()
}

// Build assembles a fresh machine at the configured start positions.
func (m MachineConfig) Build() (*machine.Machine, error) {
	if len(m.Rotors) != 3 {
		return nil, fmt.Errorf("build machine: exactly 3 rotors required, got %d", len(m.Rotors))
	}

	var mounted [3]*rotor.Rotor
	for i, rc := range m.Rotors {
		model, err := rotor.Lookup(rc.Model)
		if err != nil {
			return nil, fmt.Errorf("build machine: %w", err)
		}
		if !rc.Ring.Valid() || !rc.Position.Valid() {
			return nil, fmt.Errorf("build machine: rotor %d: ring or position out of range", i)
		}
		mounted[i] = rotor.New(model, rc.Ring, rc.Position)
	}

	refl, err := reflector.Lookup(m.Reflector)
	if err != nil {
		return nil, fmt.Errorf("build machine: %w", err)
	}

	pb, err := plugboard.Parse(m.Plugboard)
	if err != nil {
		return nil, fmt.Errorf("build machine: %w", err)
	}

	return machine.New(mounted[machine.Left], mounted[machine.Middle], mounted[machine.Right], refl, pb)
}
