// Package diff computes the line-level diff summary for whole-file edits.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/Kaztic/crosshair/pkg/models"
)

// Compute returns the unified diff between the original and improved code
// together with line counts. A changed line shows up in a unified diff as a
// deletion plus an addition, so matched pairs are reported as changes and
// only the unmatched remainder as additions or deletions. Identical inputs
// yield an empty diff and zero counts.
func Compute(originalCode, improvedCode string) models.DiffInfo {
	diffText, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(originalCode),
		B:        difflib.SplitLines(improvedCode),
		FromFile: "original",
		ToFile:   "improved",
		Context:  3,
	})
	if err != nil {
		// GetUnifiedDiffString only fails on writer errors, which a
		// string builder never produces.
		diffText = ""
	}

	additions := 0
	deletions := 0
	for _, line := range strings.Split(diffText, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}

	changes := min(additions, deletions)
	return models.DiffInfo{
		Additions: additions - changes,
		Deletions: deletions - changes,
		Changes:   changes,
		Diff:      diffText,
	}
}
