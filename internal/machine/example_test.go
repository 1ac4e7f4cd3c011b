package machine_test

import (
	"fmt"

	"enigma/internal/alphabet"
	"enigma/internal/machine"
	"enigma/internal/reflector"
	"enigma/internal/rotor"
)

func Example() {
	mount := func(name string) *rotor.Rotor {
		m, _ := rotor.Lookup(name)
		return rotor.New(m, alphabet.A, alphabet.A)
	}
	refl, _ := reflector.Lookup("B")

	m, err := machine.New(mount("I"), mount("II"), mount("III"), refl, nil)
	if err != nil {
		fmt.Println(err)
		return
	}

	out, _ := m.Encode("ENIGMA")
	fmt.Println(out, m.SettingsString())

	_, err = m.Press('e')
	fmt.Println(err)
	// Output:
	// FQGAHW AAG
	// 'e' is not an uppercase character
}
