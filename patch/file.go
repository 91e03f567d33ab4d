package patch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// newlines mirrors universal newline translation stylesheet was always
// read with.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Load reads whole file as UTF-8 text. Invalid UTF-8 is an error. Line
// endings are normalized to "\n".
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read stylesheet: %w", err)
	}
	if _, _, err := transform.Bytes(encoding.UTF8Validator, data); err != nil {
		return "", fmt.Errorf("unable to decode stylesheet '%s': %w", path, err)
	}
	return newlines.Replace(string(data)), nil
}

// SaveFunc persists patched text.
type SaveFunc func(path, text string) error

// Saver returns function writing text either directly or through temporary
// file renamed over destination.
func Saver(replace bool) SaveFunc {
	if replace {
		return SaveAtomic
	}
	return Save
}

// Save truncates file and writes text into it.
func Save(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return nil
}

// SaveAtomic replaces destination with text through a temporary file in the
// same directory, so destination is either fully written or left as it was.
// Permissions of existing destination are kept, new file gets 0644.
func SaveAtomic(path, text string) error {
	_, err := os.Stat(path)
	fresh := errors.Is(err, fs.ErrNotExist)

	if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	if fresh {
		// temporary files are created private
		if err := os.Chmod(path, 0644); err != nil {
			return fmt.Errorf("unable to set stylesheet permissions: %w", err)
		}
	}
	return nil
}

// PatchFile loads stylesheet, processes it and hands result to save.
func (p *Patcher) PatchFile(path string, save SaveFunc) (Stats, error) {
	text, err := Load(path)
	if err != nil {
		return Stats{}, err
	}
	out, st := p.Process(text)
	if err := save(path, out); err != nil {
		return st, err
	}
	return st, nil
}
