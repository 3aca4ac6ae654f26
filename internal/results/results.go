// Package results reads and writes per-run outcome files. Each file holds the
// JSON array of a run's round outcomes and is named <run>_results.json.
package results

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lox/blackjacksim/internal/fileutil"
	"github.com/lox/blackjacksim/internal/game"
)

// Suffix ends every results file name
const Suffix = "_results.json"

// Path returns the results file for a run in dir
func Path(dir, name string) string {
	return filepath.Join(dir, name+Suffix)
}

// NameFromPath returns the run name of a results file
func NameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Suffix)
}

// Save writes the outcomes of a run and returns the file written
func Save(dir, name string, outcomes []game.Outcome) (string, error) {
	if outcomes == nil {
		outcomes = []game.Outcome{}
	}
	path := Path(dir, name)
	if err := fileutil.WriteJSON(path, outcomes); err != nil {
		return "", fmt.Errorf("save results for %s: %w", name, err)
	}
	return path, nil
}

// Load reads the outcomes stored in a results file
func Load(path string) ([]game.Outcome, error) {
	var outcomes []game.Outcome
	if err := fileutil.ReadJSON(path, &outcomes); err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return outcomes, nil
}

// Find returns every results file in dir, sorted by name
func Find(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+Suffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
