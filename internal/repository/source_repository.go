package repository

import (
	"os"
	"path/filepath"
	"strings"

	"pdf-manager/internal/domain"
)

// Built-in reference texts used when no sources directory is configured.
// They keep the plagiarism endpoint functional out of the box.
var builtinSources = []domain.KnownSource{
	{
		Source: "sample-essay",
		Lines: []string{
			"The quick brown fox jumps over the lazy dog near the river bank.",
			"Climate change is one of the most pressing challenges of our time.",
			"The industrial revolution transformed economies across the world.",
		},
	},
	{
		Source: "sample-report",
		Lines: []string{
			"Quarterly revenue increased by twelve percent compared to the previous year.",
			"The committee recommends further investment in renewable energy sources.",
		},
	},
}

// FileSourceRepository loads known sources from a directory of .txt files.
// The file name (without extension) becomes the source label and each line
// of the file one comparable unit.
type FileSourceRepository struct {
	sources []domain.KnownSource
	logger  domain.Logger
}

// NewFileSourceRepository reads dir once at startup. An empty dir path or a
// directory with no .txt files falls back to the built-in samples.
func NewFileSourceRepository(dir string, logger domain.Logger) *FileSourceRepository {
	r := &FileSourceRepository{logger: logger}

	if dir == "" {
		r.sources = builtinSources
		logger.Info("Using built-in plagiarism sources", "count", len(r.sources))
		return r
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("Cannot read sources directory; using built-ins", "dir", dir, "error", err)
		r.sources = builtinSources
		return r
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable source file", "path", path, "error", err)
			continue
		}
		label := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		r.sources = append(r.sources, domain.KnownSource{
			Source: label,
			Lines:  splitLines(string(data)),
		})
	}

	if len(r.sources) == 0 {
		logger.Warn("No source files found; using built-ins", "dir", dir)
		r.sources = builtinSources
		return r
	}
	logger.Info("Loaded plagiarism sources", "dir", dir, "count", len(r.sources))
	return r
}

// KnownSources returns the loaded sources.
func (r *FileSourceRepository) KnownSources() ([]domain.KnownSource, error) {
	return r.sources, nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
