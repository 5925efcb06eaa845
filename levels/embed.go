package levels

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.yaml scripts/*.tengo
var LevelsFS embed.FS

// Dir is the on-disk level directory checked before the embedded copy.
var Dir = "levels"

// Read returns the named level or script file, preferring the disk copy.
func Read(name string) ([]byte, error) {
	clean := cleanLevelPath(name)
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return LevelsFS.ReadFile(clean)
}

func cleanLevelPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		return after
	}
	return s
}
