package reflector

import (
	"fmt"
	"sort"
	"strings"
)

// Wirings of the historical Army reflectors, keyed by model name.
var catalog = map[string]string{
	"A": "EJMZALYXVBWFCRQUONTSPIKHGD",
	"B": "YRUHQSLDPXNGOKMIEBFZCWVJAT",
	"C": "FVPJIAOYEDRZXWGCTKUQSBNMHL",
}

// Lookup returns the catalog reflector with the given name. Names are
// case-insensitive.
func Lookup(name string) (*Reflector, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	ordering, ok := catalog[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return Parse(key, ordering)
}

// Models lists the catalog reflector names in order.
func Models() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
