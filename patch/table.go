package patch

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	yaml "gopkg.in/yaml.v3"
)

//go:embed replacements.yaml
var replacementsData []byte

// Replacement maps garbled fragment to its correction. Matching is literal.
type Replacement struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Table is ordered: every entry operates on text already rewritten by
// entries before it.
type Table []Replacement

// LoadTable decodes replacement table from YAML sequence of from/to pairs.
func LoadTable(r io.Reader) (Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, nil
		}
		return nil, fmt.Errorf("failed to decode replacement table: %w", err)
	}
	return t, nil
}

var defaultTable = sync.OnceValue(func() Table {
	t, err := LoadTable(bytes.NewReader(replacementsData))
	if err != nil {
		// embedded data is broken, nothing could be done at runtime
		panic(err)
	}
	return t
})

// DefaultTable returns a copy of built-in replacement table.
func DefaultTable() Table {
	return append(Table(nil), defaultTable()...)
}

// ApplyLiteralReplacements replaces every non-overlapping occurrence of each
// entry in table order and returns number of replacements made per entry.
// Empty fragments are skipped.
func ApplyLiteralReplacements(text string, table Table) (string, []int) {
	counts := make([]int, len(table))
	for i, r := range table {
		if len(r.From) == 0 {
			continue
		}
		n := strings.Count(text, r.From)
		if n == 0 {
			continue
		}
		counts[i] = n
		text = strings.ReplaceAll(text, r.From, r.To)
	}
	return text, counts
}
