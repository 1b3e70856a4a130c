// Package directory serves the static symbol-to-company-name mapping
// used by the HTTP boundary. The core fetch path never reads it.
package directory

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/epsilonstar-02/AlphaTrack/internal/market"
)

// Company is one directory entry.
type Company struct {
	Symbol string `json:"symbol" validate:"required,alpha,max=5"`
	Name   string `json:"name" validate:"required"`
}

// Directory is an immutable symbol-to-name lookup loaded at startup.
type Directory struct {
	companies []Company
	bySymbol  map[string]string
}

// Load reads a JSON file mapping symbol to company name and validates
// every entry. Symbols are canonicalized to uppercase.
func Load(path string) (*Directory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse directory: %w", err)
	}

	validate := validator.New()
	d := &Directory{
		companies: make([]Company, 0, len(raw)),
		bySymbol:  make(map[string]string, len(raw)),
	}
	for sym, name := range raw {
		c := Company{Symbol: market.CanonicalSymbol(sym), Name: name}
		if err := validate.Struct(&c); err != nil {
			return nil, fmt.Errorf("directory entry %q: %w", sym, err)
		}
		d.companies = append(d.companies, c)
		d.bySymbol[c.Symbol] = c.Name
	}
	sort.Slice(d.companies, func(i, j int) bool { return d.companies[i].Symbol < d.companies[j].Symbol })
	return d, nil
}

// Empty returns a directory with no entries.
func Empty() *Directory {
	return &Directory{bySymbol: map[string]string{}}
}

// Companies lists all entries sorted by symbol.
func (d *Directory) Companies() []Company { return d.companies }

// Name returns the company name for a symbol, if known.
func (d *Directory) Name(symbol string) (string, bool) {
	name, ok := d.bySymbol[market.CanonicalSymbol(symbol)]
	return name, ok
}
