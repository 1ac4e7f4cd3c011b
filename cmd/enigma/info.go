package main

import (
	"flag"
	"fmt"

	"enigma/internal/reflector"
	"enigma/internal/rotor"
)

func (a *app) cmdSettings(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	m, err := cfg.BuildMachine()
	if err != nil {
		return err
	}
	d := m.Describe()

	plugboard := d.Plugboard
	if plugboard == "" {
		plugboard = "(none)"
	}

	fmt.Fprintf(a.stdout, "%-11s %s\n", "Rotors:", d.Models())
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Rings:", d.Rings())
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Positions:", d.InitialPositions())
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Reflector:", d.Reflector)
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Plugboard:", plugboard)
	fmt.Fprintf(a.stdout, "%-11s %d\n", "Group size:", cfg.Console.GroupSize)
	return nil
}

func (a *app) cmdCatalog(args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "Rotors:")
	for _, name := range rotor.Models() {
		m, err := rotor.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "  %-4s %s  notch %s\n", m.Name, m.Wiring, m.NotchString())
	}

	fmt.Fprintln(a.stdout, "Reflectors:")
	for _, name := range reflector.Models() {
		r, err := reflector.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "  %-4s %s\n", r.Name(), r.Wiring())
	}
	return nil
}
