// Package cookies manages a rotating pool of authentication cookie files
// used to bypass anti-bot restrictions on extraction requests. Cookie files
// are deposited out-of-band into a well-known directory; this package only
// ever reads them.
package cookies

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

// logName is the selection log kept alongside the cookie files.
const logName = "logs.csv"

// Pool selects cookie files from a directory. Selection is uniform-random
// with replacement; concurrent selections need no locking because the files
// are immutable and the directory is only ever listed.
type Pool struct {
	dir string
}

// New returns a pool over dir, creating the directory if it is absent.
func New(dir string) (*Pool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cookie directory: %w", err)
	}
	return &Pool{dir: dir}, nil
}

// Dir returns the directory the pool scans.
func (p *Pool) Dir() string {
	return p.dir
}

// Select picks one cookie file at random, or returns "" when the directory
// holds none. An empty pool is a normal outcome, not an error: invocations
// proceed without cookies. Each selection is appended to the log file on a
// best-effort basis.
func (p *Pool) Select() string {
	matches, err := filepath.Glob(filepath.Join(p.dir, "*.txt"))
	if err != nil || len(matches) == 0 {
		return ""
	}

	chosen := matches[rand.Intn(len(matches))]
	p.logSelection(chosen)
	return chosen
}

// logSelection appends the chosen path to the selection log. Failures are
// swallowed: the log is diagnostic only and must never fail a selection.
// Concurrent appends may interleave at the line level, which is acceptable
// for this file.
func (p *Pool) logSelection(path string) {
	f, err := os.OpenFile(filepath.Join(p.dir, logName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "Chosen File : %s\n", path)
}
