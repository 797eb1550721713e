package mutation

import (
	"os"

	"github.com/rs/zerolog/log"
)

// fileGuard holds a snapshot of a file's content and writes it back on
// release. Pairing acquisition with a deferred restore makes the revert run
// on every exit path of a mutant's life cycle.
type fileGuard struct {
	path     string
	original []byte
}

func newFileGuard(path string, original []byte) *fileGuard {
	return &fileGuard{path: path, original: original}
}

// restore writes the snapshot back to disk. A restore failure is logged and
// swallowed: the remaining mutants still run.
func (g *fileGuard) restore() {
	if err := os.WriteFile(g.path, g.original, 0644); err != nil {
		log.Error().
			Err(err).
			Str("file", g.path).
			Msg("failed to restore original source content")
	}
}
