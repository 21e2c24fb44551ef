package vcf

// RecordParser is the interface for parsers that read raw variant records.
// Both VCF and MAF source parsers implement this interface.
type RecordParser interface {
	// Next reads the next record.
	// Returns nil, nil when there are no more records.
	Next() (*Record, error)

	// Close closes the parser and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}
