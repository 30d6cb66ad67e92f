// Package report renders a finished analysis into a markdown document
// on disk. Pure formatting plus file creation; reports are never
// overwritten.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"greenlight/internal/analyzer"
)

// Writer creates one markdown report per analysis run.
type Writer struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// NewWriter writes reports under dir, creating it on first use.
func NewWriter(dir string, logger *zap.Logger) *Writer {
	return &Writer{dir: dir, logger: logger, now: time.Now}
}

// Write renders the aggregate into a new file and returns its path.
// The filename combines the project name, a timestamp, and the run ID,
// so repeated runs in the same second still get distinct files.
func (w *Writer) Write(req analyzer.ProjectRequest, agg *analyzer.Aggregate) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s.md",
		SanitizeFilename(ProjectName(req.Description)),
		w.now().Format("20060102_150405"),
		shortID(agg.RunID))
	path := filepath.Join(w.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(w.render(req, agg)); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	w.logger.Info("report written", zap.String("path", path))
	return path, nil
}

func (w *Writer) render(req analyzer.ProjectRequest, agg *analyzer.Aggregate) string {
	var b strings.Builder

	b.WriteString("# Project Greenlighting Analysis Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", w.now().Format("January 2, 2006 at 3:04 PM"))
	fmt.Fprintf(&b, "**Run ID:** %s\n\n---\n\n", agg.RunID)

	b.WriteString("## Project Information\n\n")
	fmt.Fprintf(&b, "**Description:** %s\n", req.Description)
	fmt.Fprintf(&b, "**Budget:** $%d (%s)\n", req.Budget, analyzer.BudgetTier(req.Budget))
	fmt.Fprintf(&b, "**Genre:** %s\n", req.Genre)
	fmt.Fprintf(&b, "**Platform:** %s\n", req.Platform)
	if req.TargetAudience != "" {
		fmt.Fprintf(&b, "**Target Audience:** %s\n", req.TargetAudience)
	}
	if len(req.Comparables) > 0 {
		fmt.Fprintf(&b, "**Comparable Titles:** %s\n", strings.Join(req.Comparables, ", "))
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## Final Recommendation\n\n")
	fmt.Fprintf(&b, "### %s\n\n", agg.Recommendation)
	fmt.Fprintf(&b, "**Confidence Level:** %.1f%%\n\n", agg.Confidence*100)
	fmt.Fprintf(&b, "**Executive Summary:** %s\n\n", agg.Summary)
	if !agg.Synthesized {
		b.WriteString("*The synthesis step was unavailable for this run; the final recommendation is a deterministic majority vote across the individual analyses.*\n\n")
	}
	b.WriteString("---\n\n")

	if agg.Narrative != "" {
		b.WriteString("## Detailed Analysis\n\n")
		b.WriteString(agg.Narrative)
		b.WriteString("\n\n---\n\n")
	}

	b.WriteString("## Subagent Analyses\n\n")
	for _, r := range agg.Results {
		fmt.Fprintf(&b, "### %s\n\n", r.Role.DisplayName())
		if r.Status == analyzer.Failed {
			fmt.Fprintf(&b, "**Status:** FAILED\n\n%s\n\n---\n\n", r.Narrative)
			continue
		}
		fmt.Fprintf(&b, "**Recommendation:** %s\n", r.Recommendation)
		fmt.Fprintf(&b, "**Confidence:** %.1f%%\n", r.Confidence*100)
		fmt.Fprintf(&b, "**Elapsed:** %s\n\n", r.Elapsed.Round(time.Millisecond))
		fmt.Fprintf(&b, "%s\n\n---\n\n", r.Narrative)
	}

	b.WriteString("*This report was generated by the greenlight analysis pipeline. ")
	b.WriteString("Always conduct additional due diligence before making production decisions.*\n")

	return b.String()
}

// ProjectName extracts a short name from a project description: the
// first few words, before any punctuation break.
func ProjectName(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return "untitled"
	}
	if i := strings.IndexAny(description, ".,:;!?"); i > 0 {
		description = description[:i]
	}
	words := strings.Fields(description)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ")
}

// SanitizeFilename lowercases and strips everything that is not safe
// in a filename.
func SanitizeFilename(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ', r == '-', r == '_':
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "untitled"
	}
	return out
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
