package options

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Require a non-empty value that names an existing directory.  Returns the cleaned path.
func RequireDirectory(optval, optname string) (string, error) {
	if optval == "" {
		return "", fmt.Errorf("Required argument: %s", optname)
	}

	optval = filepath.Clean(optval)
	info, err := os.DirFS(optval).(fs.StatFS).Stat(".")
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("Bad %s directory %s", optname, optval)
	}

	return optval, nil
}
