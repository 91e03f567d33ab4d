// Package patch repairs stylesheet damaged by a wrong encoding round trip:
// garbled fragments are replaced, legacy accent colors unified and a few
// selector blocks patched. All transformations are textual, stylesheet is
// never parsed.
package patch

import (
	"go.uber.org/zap"
)

// Stats describes what each stage of the pipeline did.
type Stats struct {
	// per table entry, same order as table
	Fragments []int
	Colors    int
	// per rule, same order as rules
	Rules []int
}

// FragmentsTotal returns total number of literal replacements.
func (s Stats) FragmentsTotal() int {
	total := 0
	for _, n := range s.Fragments {
		total += n
	}
	return total
}

// Patcher holds replacement table and structural rules.
type Patcher struct {
	table Table
	rules []*Rule
	log   *zap.Logger
}

// Option configures Patcher.
type Option func(*Patcher)

// WithTable replaces built-in replacement table.
func WithTable(t Table) Option {
	return func(p *Patcher) {
		p.table = t
	}
}

// WithRules replaces built-in structural rules.
func WithRules(rules ...*Rule) Option {
	return func(p *Patcher) {
		p.rules = rules
	}
}

// New creates patcher with built-in table and rules unless options say
// otherwise.
func New(log *zap.Logger, options ...Option) *Patcher {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Patcher{
		table: DefaultTable(),
		rules: DefaultRules(),
		log:   log.Named("patch"),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Table returns replacement table in use.
func (p *Patcher) Table() Table {
	return p.table
}

// Rules returns structural rules in use.
func (p *Patcher) Rules() []*Rule {
	return p.rules
}

// Process runs the whole pipeline on text: literal replacements, color
// unification and structural rules, in this order.
func (p *Patcher) Process(text string) (string, Stats) {
	var st Stats

	text, st.Fragments = ApplyLiteralReplacements(text, p.table)
	p.log.Debug("Garbled fragments replaced", zap.Int("count", st.FragmentsTotal()))

	text, st.Colors = UnifyColorLiterals(text)
	p.log.Debug("Legacy colors replaced", zap.Int("count", st.Colors))

	st.Rules = make([]int, len(p.rules))
	for i, r := range p.rules {
		text, st.Rules[i] = r.Apply(text)
		p.log.Debug("Structural rule applied", zap.Stringer("rule", r), zap.Int("matches", st.Rules[i]))
	}
	return text, st
}
