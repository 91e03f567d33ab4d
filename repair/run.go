// Package repair implements program commands: patching stylesheet in place
// and read-only inspection of what patching would do.
package repair

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssfix/patch"
	"cssfix/state"
)

// Run patches configured stylesheet in place.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 0 {
		env.Logger().Warn("Malformed command line, arguments are ignored", zap.Strings("ignoring", cmd.Args().Slice()))
	}
	return Patch(env, os.Stdout)
}

// Patch runs the whole pipeline against configured stylesheet and reports
// completion to out.
func Patch(env *state.LocalEnv, out io.Writer) error {
	log := env.Logger().Named("repair")

	path := env.Cfg.Patch.StylesheetPath
	name := filepath.Base(path)

	if err := env.Rpt.StoreCopy("source/"+name, path); err != nil {
		// real problem will be reported when stylesheet is loaded
		log.Debug("Unable to store stylesheet in report", zap.Error(err))
	}

	write := patch.Saver(env.Cfg.Patch.AtomicWrite)
	save := func(dst, text string) error {
		env.Rpt.StoreData("patched/"+name, []byte(text))
		return write(dst, text)
	}

	st, err := patch.New(log).PatchFile(path, save)
	if err != nil {
		return err
	}

	log.Debug("Stylesheet patched",
		zap.String("path", path),
		zap.Int("fragments", st.FragmentsTotal()),
		zap.Int("colors", st.Colors),
		zap.Ints("rules", st.Rules),
		zap.Bool("atomic", env.Cfg.Patch.AtomicWrite))

	fmt.Fprintf(out, "%s has been updated.\n", path)
	return nil
}
