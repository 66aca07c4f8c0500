package price

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed selectors.yaml
var defaultSelectorsYAML []byte

// SelectorTable maps a domain keyword to the CSS selectors tried, in
// order, when resolving a selling price on that site.
type SelectorTable map[string][]string

// LoadSelectors returns the embedded default table, merged with an
// optional override file. Override entries replace the defaults for
// their domain key.
func LoadSelectors(path string) (SelectorTable, error) {
	table := SelectorTable{}
	if err := yaml.Unmarshal(defaultSelectorsYAML, &table); err != nil {
		return nil, eris.Wrap(err, "price: parse embedded selectors")
	}

	if path == "" {
		return table, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "price: read selectors file %s", path)
	}
	override := SelectorTable{}
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, eris.Wrapf(err, "price: parse selectors file %s", path)
	}
	for domain, sels := range override {
		table[domain] = sels
	}
	return table, nil
}
