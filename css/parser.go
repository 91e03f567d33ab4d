// Package css provides read-only view of a stylesheet: rulesets with their
// selectors and declarations. It never rewrites anything.
package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Declaration is a single "property: value" pair.
type Declaration struct {
	Property string
	Value    string
}

// Rule is a ruleset with one or more comma separated selectors.
type Rule struct {
	Selectors    []string
	Declarations []Declaration
	// enclosing at-rule, e.g. "@media (max-width: 600px)", empty on top level
	Context string
}

// Stylesheet is a parsed stylesheet.
type Stylesheet struct {
	Rules []Rule
	// every hash token encountered, lower-cased and without "#"
	Hashes   []string
	Warnings []string
}

// Parser parses CSS stylesheets into rulesets.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text. Malformed input does not fail, whatever could be
// recognized is returned and problems are recorded as warnings.
func (p *Parser) Parse(data []byte) *Stylesheet {
	sheet := &Stylesheet{}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	var (
		contexts  []string
		current   *Rule
		errOffset = -1
	)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			err := parser.Err()
			if !parser.HasParseError() || parser.Offset() == errOffset {
				// end of input or no progress since previous error
				if err != nil && !errors.Is(err, io.EOF) {
					sheet.Warnings = append(sheet.Warnings, err.Error())
				}
				if current != nil {
					sheet.Rules = append(sheet.Rules, *current)
				}
				return sheet
			}
			errOffset = parser.Offset()
			sheet.Warnings = append(sheet.Warnings, err.Error())
			p.log.Debug("CSS parse error", zap.Error(err))

		case css.BeginAtRuleGrammar:
			contexts = append(contexts, joinTokens(data, parser.Values()))

		case css.EndAtRuleGrammar:
			if len(contexts) > 0 {
				contexts = contexts[:len(contexts)-1]
			}

		case css.AtRuleGrammar:
			p.log.Debug("Skipping @-rule", zap.String("rule", string(data)))

		case css.BeginRulesetGrammar:
			current = &Rule{
				Selectors: splitSelectors(joinTokens(data, parser.Values())),
				Context:   strings.Join(contexts, " "),
			}

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			values := parser.Values()
			sheet.Hashes = appendHashes(sheet.Hashes, values)
			if current == nil {
				// declarations directly in at-rule block (@font-face, @page)
				continue
			}
			current.Declarations = append(current.Declarations, Declaration{
				Property: strings.ToLower(string(data)),
				Value:    strings.TrimSpace(joinTokens(nil, values)),
			})

		case css.EndRulesetGrammar:
			if current != nil {
				sheet.Rules = append(sheet.Rules, *current)
				current = nil
			}
		}
	}
}

// appendHashes collects hash tokens from declaration value. Custom property
// values come as a single raw token and have to be tokenized again.
func appendHashes(hashes []string, values []css.Token) []string {
	for _, t := range values {
		switch t.TokenType {
		case css.HashToken:
			hashes = append(hashes, strings.ToLower(strings.TrimPrefix(string(t.Data), "#")))
		case css.CustomPropertyValueToken:
			l := css.NewLexer(parse.NewInputBytes(bytes.Clone(t.Data)))
			for {
				tt, data := l.Next()
				if tt == css.ErrorToken {
					break
				}
				if tt == css.HashToken {
					hashes = append(hashes, strings.ToLower(strings.TrimPrefix(string(data), "#")))
				}
			}
		}
	}
	return hashes
}

// joinTokens restores text from grammar data and its tokens collapsing
// whitespace runs into single space.
func joinTokens(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	space := false
	for _, t := range values {
		if t.TokenType == css.WhitespaceToken || t.TokenType == css.CommentToken {
			space = sb.Len() > 0
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.Write(t.Data)
	}
	return sb.String()
}

func splitSelectors(s string) []string {
	var selectors []string
	for sel := range strings.SplitSeq(s, ",") {
		if sel = NormalizeSelector(sel); sel != "" {
			selectors = append(selectors, sel)
		}
	}
	return selectors
}

// NormalizeSelector collapses whitespace so selectors could be compared as
// strings.
func NormalizeSelector(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RulesBySelector returns all rules (in any context) having selector.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	selector = NormalizeSelector(selector)

	var rules []Rule
	for _, r := range s.Rules {
		for _, sel := range r.Selectors {
			if sel == selector {
				rules = append(rules, r)
				break
			}
		}
	}
	return rules
}

// HasSelector reports whether any rule uses selector.
func (s *Stylesheet) HasSelector(selector string) bool {
	return len(s.RulesBySelector(selector)) > 0
}

// Values returns values of property in all rules with selector in
// document order.
func (s *Stylesheet) Values(selector, property string) []string {
	property = strings.ToLower(property)

	var values []string
	for _, r := range s.RulesBySelector(selector) {
		for _, d := range r.Declarations {
			if d.Property == property {
				values = append(values, d.Value)
			}
		}
	}
	return values
}

// CountHashes returns how many hash tokens (colors) match any of colors,
// which are compared case-insensitively with or without leading "#".
func (s *Stylesheet) CountHashes(colors ...string) int {
	want := make(map[string]bool, len(colors))
	for _, c := range colors {
		want[strings.ToLower(strings.TrimPrefix(c, "#"))] = true
	}
	n := 0
	for _, h := range s.Hashes {
		if want[h] {
			n++
		}
	}
	return n
}
