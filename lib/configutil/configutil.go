package configutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// Load reads a json5 configuration file along with an optional
// "<name>.local.<ext>" sibling whose values override the base file.
// It returns os.ErrNotExist when neither file is present.
func Load[T any](path string) (T, error) {
	var out T

	base, err := readInto(path, &out)
	if err != nil {
		return out, err
	}

	var override T
	local, err := readInto(localPath(path), &override)
	if err != nil {
		return out, err
	}
	if local {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Debug("applied local config overrides", "path", localPath(path))
	}

	if !base && !local {
		return out, os.ErrNotExist
	}
	return out, nil
}

// Discover walks from the working directory up to the filesystem root
// looking for `name`, then loads the first match with Load.
func Discover[T any](name string) (T, error) {
	var zero T

	dir, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for {
		config, err := Load[T](filepath.Join(dir, name))
		if os.IsNotExist(err) {
			parent := filepath.Dir(dir)
			if parent == dir {
				return zero, os.ErrNotExist
			}
			dir = parent
			continue
		}
		return config, err
	}
}

// readInto reports whether the file existed and had contents.
func readInto[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	return true, json5.Unmarshal(contents, out)
}

func localPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}
