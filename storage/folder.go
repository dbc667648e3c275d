package storage

import (
	"fmt"
	"os"
	"strings"
)

// Engine names of on-disk databases recognized by DetectEngine.
const (
	EnginePebble = "pebble"
	EngineBadger = "badger"
)

// DetectEngine inspects the files of a database directory. It returns the
// engine that created the database, or the empty string if the directory is
// missing or empty.
func DetectEngine(dir string) (string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}

	var pebbleManifest, badgerManifest, keyRegistry, current, wal, vlog bool
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasPrefix(name, "MANIFEST-"):
			pebbleManifest = true
		case name == "MANIFEST":
			badgerManifest = true
		case name == "CURRENT":
			current = true
		case name == "KEYREGISTRY":
			keyRegistry = true
		case strings.HasSuffix(name, ".log"):
			wal = true
		case strings.HasSuffix(name, ".vlog"):
			vlog = true
		}
	}

	switch {
	case pebbleManifest && current && wal:
		return EnginePebble, nil
	case badgerManifest && keyRegistry && vlog:
		return EngineBadger, nil
	default:
		return "", fmt.Errorf("%s holds %d files of no known database", dir, len(entries))
	}
}
