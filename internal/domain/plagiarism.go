package domain

// KnownSource is one labeled reference text that uploads are compared
// against, line by line.
type KnownSource struct {
	Source string
	Lines  []string
}

// PlagiarismMatch records one document line that matched a known source.
type PlagiarismMatch struct {
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	Line       int     `json:"line_number"`
	SourceLine int     `json:"source_line_number"`
	Similarity float64 `json:"similarity_score"`
}

// PlagiarismReport is the JSON result of a plagiarism check. Matches are
// sorted by similarity, best first, at most one per document line.
// SimilarityScore is the fraction of considered lines that matched.
type PlagiarismReport struct {
	Plagiarized     bool              `json:"plagiarized"`
	SimilarityScore float64           `json:"similarity_score"`
	MatchedSources  []PlagiarismMatch `json:"matched_sources"`
}
