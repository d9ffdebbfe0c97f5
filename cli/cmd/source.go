package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source is one script input named on the command line.
type Source struct {
	Name string // as given
	Path string // resolved absolute path; empty for stdin
}

// IsStdin reports whether s reads from standard input.
func (s Source) IsStdin() bool { return s.Path == "" }

// Read returns the full text of s. Standard input is read from stdin.
func (s Source) Read(stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)

	if s.IsStdin() {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(s.Path)
	}

	if err != nil {
		return "", ErrReadSource.With(slog.String("source", s.Name)).Wrap(err)
	}

	return string(data), nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// Sources resolves the given names to a list of distinct sources.
//
// Duplicates are detected by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" collapse into a single stdin source placed
// last, so it is read after all regular files. A name that cannot be
// resolved is an error.
func Sources(names []string) ([]Source, error) {
	srcs := make([]Source, 0, len(names))
	seen := make(map[fileKey]struct{})
	seenPath := make(map[string]struct{})

	var stdin *Source

	stdinKey, _ := stdinFileKey()

	for _, name := range names {
		if name == stdinSource {
			stdin = &Source{Name: stdinSource}

			continue
		}

		path, key, err := resolve(name)
		if err != nil {
			return nil, ErrReadSource.With(slog.String("source", name)).Wrap(err)
		}

		if key == stdinKey && key != (fileKey{}) {
			stdin = &Source{Name: stdinSource}

			continue
		}

		if key == (fileKey{}) {
			if _, exists := seenPath[path]; exists {
				continue
			}

			seenPath[path] = struct{}{}
		} else {
			if _, exists := seen[key]; exists {
				continue
			}

			seen[key] = struct{}{}
		}

		srcs = append(srcs, Source{Name: name, Path: path})
	}

	if stdin != nil {
		srcs = append(srcs, *stdin)
	}

	return srcs, nil
}

// resolve returns the absolute, symlink-free path of name and its identity.
func resolve(name string) (string, fileKey, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fileKey{}, err
	}

	key, _ := makeFileKey(info)

	return resolved, key, nil
}

func stdinFileKey() (fileKey, bool) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
