// Package misc keeps build time information.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set by linker at build time.
var (
	version = "dev"
	githash = "unknown"
)

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns git hash of the sources program was built from.
func GetGitHash() string {
	return githash
}

// GetAppName returns executable name without extension.
func GetAppName() string {
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, filepath.Ext(name))
}
