package repair

import (
	"context"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssfix/css"
	"cssfix/patch"
	"cssfix/state"
)

// Target tells whether structural rule finds anything to do.
type Target struct {
	Rule *patch.Rule
	// selector block exists in parsed stylesheet
	Found bool
	// number of blocks the rule would change
	Matches int
}

// Pending reports whether the rule would change stylesheet.
func (t Target) Pending() bool {
	return t.Matches > 0
}

// Summary is a result of stylesheet inspection.
type Summary struct {
	Targets []Target
	// legacy accent colors patcher would replace
	LegacyColors int
	// garbled fragments patcher would replace, in table order
	Garbled  []string
	Warnings []string
}

// Inspect reports what patcher would do with stylesheet text. Counters come
// from a dry run of the patcher, parser only tells whether selector blocks are
// present and collects parse warnings. Nothing is modified.
func Inspect(text string, p *patch.Patcher, parser *css.Parser) Summary {
	sheet := parser.Parse([]byte(text))
	_, st := p.Process(text)

	sum := Summary{
		LegacyColors: st.Colors,
		Warnings:     sheet.Warnings,
	}

	for i, r := range p.Rules() {
		sum.Targets = append(sum.Targets, Target{
			Rule:    r,
			Found:   sheet.HasSelector(r.Selector),
			Matches: st.Rules[i],
		})
	}

	for i, r := range p.Table() {
		if st.Fragments[i] > 0 && r.From != r.To {
			sum.Garbled = append(sum.Garbled, r.From)
		}
	}
	return sum
}

// Check inspects configured stylesheet without modifying it.
func Check(ctx context.Context, _ *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger().Named("check")

	path := env.Cfg.Patch.StylesheetPath
	text, err := patch.Load(path)
	if err != nil {
		return err
	}

	sum := Inspect(text, patch.New(log), css.NewParser(log))

	for _, t := range sum.Targets {
		log.Info("Structural rule", zap.Stringer("rule", t.Rule), zap.Bool("found", t.Found), zap.Int("matches", t.Matches))
	}
	log.Info("Stylesheet inspected",
		zap.String("path", path),
		zap.Int("legacy colors", sum.LegacyColors),
		zap.Int("garbled fragments", len(sum.Garbled)),
		zap.Int("parse warnings", len(sum.Warnings)))
	for _, w := range sum.Warnings {
		log.Debug("Parse warning", zap.String("warning", w))
	}
	return nil
}
