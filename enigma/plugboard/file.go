package plugboard

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/TheusHen/Enigma/enigma/alphabet"
)

var ErrInvalidPair = errors.New("plugboard: pair must be exactly two symbols")

// File is the on-disk plugboard configuration.
type File struct {
	Pairs []string `yaml:"pairs"`
}

const template = `# Plugboard configuration
# Each pair swaps two symbols in both directions.
# Use two-symbol strings such as "ab", "CD" or "X " (X and space).
# At most 13 pairs; a symbol may appear in only one pair.

pairs: []
  # - "ab"  # a <-> b
  # - "CD"  # C <-> D
  # - "X "  # X <-> space
`

// Template returns a commented starter file with no cables.
func Template() []byte { return []byte(template) }

// ParsePairs converts two-symbol strings into alphabet index pairs.
func ParsePairs(specs []string) ([]Pair, error) {
	pairs := make([]Pair, 0, len(specs))
	for _, s := range specs {
		runes := []rune(s)
		if len(runes) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPair, s)
		}
		var p Pair
		for i, r := range runes {
			idx, err := alphabet.IndexOf(r)
			if err != nil {
				return nil, fmt.Errorf("pair %q: %w", s, err)
			}
			p[i] = idx
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// Load parses a YAML plugboard file and builds the board it describes.
func Load(data []byte) (*Plugboard, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("plugboard: parse file: %w", err)
	}
	pairs, err := ParsePairs(f.Pairs)
	if err != nil {
		return nil, err
	}
	return New(pairs)
}

// Marshal renders a board back into the file format.
func Marshal(pb *Plugboard) ([]byte, error) {
	f := File{Pairs: make([]string, 0, pb.Len())}
	for _, p := range pb.pairs {
		f.Pairs = append(f.Pairs, string([]rune{alphabet.SymbolAt(p[0]), alphabet.SymbolAt(p[1])}))
	}
	return yaml.Marshal(f)
}
