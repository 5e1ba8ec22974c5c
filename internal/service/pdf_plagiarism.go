package service

import (
	"context"
	"sort"
	"strings"

	"pdf-manager/internal/domain"
	apperrors "pdf-manager/pkg/errors"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	// similarityThreshold is the ratio above which two lines count as the
	// same content.
	similarityThreshold = 0.8
	// minMatchLength keeps trivially short lines (page numbers, headings)
	// from matching everything.
	minMatchLength = 10
	// partialScanThreshold: lines at least this similar are rescanned in
	// three-word chunks to catch embedded copied phrases.
	partialScanThreshold = 0.3
	chunkWords           = 3
)

// checkPlagiarism compares every extracted line against every line of every
// known source and reports the best match per document line.
func (s *pdfService) checkPlagiarism(ctx context.Context, files []domain.FileUpload) (*domain.OperationOutcome, error) {
	f, err := singlePDF(files)
	if err != nil {
		return nil, err
	}

	pages, err := s.extractor.ExtractPages(f.Data)
	if err != nil {
		return nil, apperrors.NewProcessingError("Error extracting text", err)
	}
	lines := domain.TextExtraction{Pages: pages}.Lines()

	sources, err := s.sources.KnownSources()
	if err != nil {
		return nil, apperrors.NewProcessingError("Error loading known sources", err)
	}

	report := buildPlagiarismReport(lines, sources)
	s.logger.Debug("Plagiarism check finished",
		"lines", len(lines), "matches", len(report.MatchedSources), "score", report.SimilarityScore)

	return &domain.OperationOutcome{Payload: report}, nil
}

func buildPlagiarismReport(lines []string, sources []domain.KnownSource) *domain.PlagiarismReport {
	dmp := diffmatchpatch.New()

	var matches []domain.PlagiarismMatch
	considered := 0
	for i, line := range lines {
		if len(normalizeLine(line)) >= minMatchLength {
			considered++
		}
		for _, source := range sources {
			for j, sourceLine := range source.Lines {
				sim := similarityRatio(dmp, line, sourceLine)
				switch {
				case sim >= similarityThreshold:
					matches = append(matches, domain.PlagiarismMatch{
						Text:       line,
						Source:     source.Source,
						Line:       i + 1,
						SourceLine: j + 1,
						Similarity: sim,
					})
				case sim >= partialScanThreshold:
					if hasMatchingChunk(dmp, line, sourceLine) {
						matches = append(matches, domain.PlagiarismMatch{
							Text:       line,
							Source:     source.Source,
							Line:       i + 1,
							SourceLine: j + 1,
							Similarity: sim,
						})
					}
				}
			}
		}
	}

	// Best match first, then one match per document line.
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Similarity > matches[b].Similarity
	})
	seen := make(map[int]bool, len(matches))
	unique := make([]domain.PlagiarismMatch, 0, len(matches))
	for _, m := range matches {
		if seen[m.Line] {
			continue
		}
		seen[m.Line] = true
		unique = append(unique, m)
	}

	score := 0.0
	if considered > 0 {
		score = float64(len(unique)) / float64(considered)
	}
	return &domain.PlagiarismReport{
		Plagiarized:     len(unique) > 0,
		SimilarityScore: score,
		MatchedSources:  unique,
	}
}

// similarityRatio is the classic diff ratio 2*common/total over normalized
// text, zero when either side is shorter than minMatchLength.
func similarityRatio(dmp *diffmatchpatch.DiffMatchPatch, a, b string) float64 {
	na, nb := normalizeLine(a), normalizeLine(b)
	if len(na) < minMatchLength || len(nb) < minMatchLength {
		return 0
	}

	common := 0
	for _, d := range dmp.DiffMain(na, nb, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			common += len(d.Text)
		}
	}
	return 2 * float64(common) / float64(len(na)+len(nb))
}

// hasMatchingChunk slides three-word windows over both lines looking for one
// pair above the similarity threshold.
func hasMatchingChunk(dmp *diffmatchpatch.DiffMatchPatch, line, sourceLine string) bool {
	words := strings.Fields(line)
	sourceWords := strings.Fields(sourceLine)
	for i := 0; i+chunkWords <= len(words); i++ {
		chunk := strings.Join(words[i:i+chunkWords], " ")
		for j := 0; j+chunkWords <= len(sourceWords); j++ {
			if similarityRatio(dmp, chunk, strings.Join(sourceWords[j:j+chunkWords], " ")) >= similarityThreshold {
				return true
			}
		}
	}
	return false
}

// normalizeLine collapses whitespace and lowercases for comparison.
func normalizeLine(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
