// Package importer parses ledger export files into raw postings.
package importer

import (
	"io"
	"strings"

	"github.com/finrep-dev/finrep/internal/model"
)

// Parser converts a ledger export into raw postings.
type Parser interface {
	Parse(r io.Reader) ([]model.RawEntry, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
	order   []string
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
	r.order = append(r.order, key)
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Detect returns the registered parser whose header matches the given CSV
// header row, in registration order.
func (r *Registry) Detect(header []string) (Parser, bool) {
	for _, key := range r.order {
		if d, ok := r.parsers[key].(headerDetector); ok && d.matchHeader(header) {
			return r.parsers[key], true
		}
	}
	return nil, false
}

type headerDetector interface {
	matchHeader(header []string) bool
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&DebitCreditParser{})
	r.Register(&SignedParser{})
	return r
}
