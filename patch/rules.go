package patch

import (
	"fmt"
	"regexp"
	"strings"
)

// RuleKind defines what structural rule does with selector block.
type RuleKind int

const (
	// AppendToBlock adds declarations right before closing brace of the block.
	AppendToBlock RuleKind = iota
	// OverwriteValue replaces value of a single declaration in the block.
	OverwriteValue
)

func (k RuleKind) String() string {
	switch k {
	case AppendToBlock:
		return "append"
	case OverwriteValue:
		return "overwrite"
	default:
		return fmt.Sprintf("RuleKind(%d)", int(k))
	}
}

// space is Unicode aware whitespace: besides ASCII it matches \v, information
// separators, NEL and every Unicode space (NBSP included).
const space = `[\s\v\x{1C}-\x{1F}\x{85}\p{Z}]`

// Rule is a structural patch targeting one selector block. Rules are
// immutable after construction.
type Rule struct {
	Kind     RuleKind
	Selector string

	// AppendToBlock
	Declarations []string

	// OverwriteValue
	Property string
	Old      string
	New      string

	re   *regexp.Regexp
	repl string
}

// NewAppendRule creates rule appending declarations, each on its own line,
// to the end of every block of selector.
func NewAppendRule(selector string, declarations ...string) *Rule {
	var sb strings.Builder
	sb.WriteString("${1}")
	for _, d := range declarations {
		sb.WriteString("\n  ")
		sb.WriteString(escapeTemplate(d))
	}
	return &Rule{
		Kind:         AppendToBlock,
		Selector:     selector,
		Declarations: declarations,
		re:           regexp.MustCompile(`(` + blockStart(selector) + `)`),
		repl:         sb.String(),
	}
}

// NewOverwriteRule creates rule replacing old value of property with new one
// in every block of selector. Everything around the value is kept.
func NewOverwriteRule(selector, property, oldValue, newValue string) *Rule {
	return &Rule{
		Kind:     OverwriteValue,
		Selector: selector,
		Property: property,
		Old:      oldValue,
		New:      newValue,
		re: regexp.MustCompile(`(` + blockStart(selector) + regexp.QuoteMeta(property) + `:` + space + `*)` +
			regexp.QuoteMeta(oldValue) + `(` + space + `*;[^}]*\})`),
		repl: "${1}" + escapeTemplate(newValue) + "${2}",
	}
}

// blockStart matches selector, opening brace and everything up to closing
// one.
func blockStart(selector string) string {
	return regexp.QuoteMeta(selector) + space + `*\{[^}]*`
}

func escapeTemplate(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// Apply patches all matching blocks. When selector block is absent text is
// returned unchanged and match count is 0.
func (r *Rule) Apply(text string) (string, int) {
	n := len(r.re.FindAllStringIndex(text, -1))
	if n == 0 {
		return text, 0
	}
	return r.re.ReplaceAllString(text, r.repl), n
}

func (r *Rule) String() string {
	switch r.Kind {
	case OverwriteValue:
		return fmt.Sprintf("%s %s { %s: %s -> %s }", r.Kind, r.Selector, r.Property, r.Old, r.New)
	default:
		return fmt.Sprintf("%s %s { +%d }", r.Kind, r.Selector, len(r.Declarations))
	}
}

// DefaultRules returns built-in structural patches in application order.
func DefaultRules() []*Rule {
	return []*Rule{
		NewAppendRule(".deck-selection-screen .deck-card",
			"display: flex; /* Added */",
			"flex-direction: column; /* Added */",
			"justify-content: space-between; /* Adjusted to push actions to bottom */",
			"position: relative; /* badgeのために必要 */",
			"overflow: hidden;",
			"background-color: #2a2a2a; /* 暗めのグレーに統一 */",
		),
		NewAppendRule(".deck-selection-screen .deck-card h3",
			"margin: 0 60px 10px 0; /* バッジとの重なり防止のため右マージンを追加 */",
			"color: "+CanonicalColor+"; /* 黄緑 */",
			"font-size: 16px;",
			"white-space: normal; /* Added */",
			"word-break: break-word; /* Added */",
			"flex-grow: 1; /* Added */",
		),
		NewOverwriteRule(".invalid-tag", "color", "#e74c3c", CanonicalColor),
		NewAppendRule(".card-library-screen .library-card",
			"background-color: #2a2a2a; /* 暗めのグレーに統一 */",
			"border: 1px solid #444;",
			"color: white; /* テキスト色を白に */",
		),
	}
}
