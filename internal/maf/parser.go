// Package maf provides MAF (Mutation Annotation Format) source file
// parsing functionality. MAF rows are mapped to the same raw record type
// as VCF rows so cohort sources can mix both formats.
package maf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hammerlab/gocohorts/internal/vcf"
)

// Standard MAF column names
const (
	ColChromosome      = "Chromosome"
	ColStartPosition   = "Start_Position"
	ColReferenceAllele = "Reference_Allele"
	ColTumorSeqAllele2 = "Tumor_Seq_Allele2"
	ColHugoSymbol      = "Hugo_Symbol"
	ColNCBIBuild       = "NCBI_Build"
)

// ColumnIndices holds the indices of important MAF columns.
type ColumnIndices struct {
	Chromosome      int
	StartPosition   int
	ReferenceAllele int
	TumorSeqAllele2 int
	HugoSymbol      int
	NCBIBuild       int
}

// Parser reads raw variant records from a MAF file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	columns    ColumnIndices
	headerLine string
}

// NewParser creates a new MAF parser for the given file.
// Supports both plain MAF and gzipped MAF (.maf.gz) files.
func NewParser(path string) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open maf file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read maf header: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek maf file: %w", err)
	}

	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// parseHeader reads and parses the MAF header line to find column indices.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return &ParseError{
					Line:    p.lineNumber,
					Message: "no header line found",
				}
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		// Skip comment and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		p.headerLine = line
		return p.parseColumnIndices(line)
	}
}

// parseColumnIndices parses the header line to find column indices.
func (p *Parser) parseColumnIndices(headerLine string) error {
	columns := strings.Split(headerLine, "\t")

	p.columns = ColumnIndices{
		Chromosome:      -1,
		StartPosition:   -1,
		ReferenceAllele: -1,
		TumorSeqAllele2: -1,
		HugoSymbol:      -1,
		NCBIBuild:       -1,
	}

	for i, col := range columns {
		switch col {
		case ColChromosome:
			p.columns.Chromosome = i
		case ColStartPosition:
			p.columns.StartPosition = i
		case ColReferenceAllele:
			p.columns.ReferenceAllele = i
		case ColTumorSeqAllele2:
			p.columns.TumorSeqAllele2 = i
		case ColHugoSymbol:
			p.columns.HugoSymbol = i
		case ColNCBIBuild:
			p.columns.NCBIBuild = i
		}
	}

	for _, required := range []struct {
		name  string
		index int
	}{
		{ColChromosome, p.columns.Chromosome},
		{ColStartPosition, p.columns.StartPosition},
		{ColReferenceAllele, p.columns.ReferenceAllele},
		{ColTumorSeqAllele2, p.columns.TumorSeqAllele2},
	} {
		if required.index == -1 {
			return &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("required column %q not found in header", required.name),
			}
		}
	}

	return nil
}

// Next reads the next record from the MAF file.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*vcf.Record, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line == "" {
				return nil, nil
			}
		} else {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
	}
	p.lineNumber++

	line = strings.TrimRight(line, "\r\n")
	if line == "" || strings.HasPrefix(line, "#") {
		if err == io.EOF {
			return nil, nil
		}
		return p.Next()
	}

	return p.parseLine(line)
}

// parseLine parses a single MAF data line into a Record.
func (p *Parser) parseLine(line string) (*vcf.Record, error) {
	fields := strings.Split(line, "\t")

	minCols := maxIndex(p.columns.Chromosome, p.columns.StartPosition,
		p.columns.ReferenceAllele, p.columns.TumorSeqAllele2)
	if len(fields) <= minCols {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minCols+1, len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[p.columns.StartPosition], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[p.columns.StartPosition]),
		}
	}

	ref := fields[p.columns.ReferenceAllele]
	alt := fields[p.columns.TumorSeqAllele2]

	// MAF deletion/insertion convention uses "-" for the empty allele.
	if alt == "-" {
		alt = ""
	}
	if ref == "-" {
		ref = ""
	}

	info := make(map[string]string)
	if p.columns.HugoSymbol >= 0 && p.columns.HugoSymbol < len(fields) {
		info["GENE"] = fields[p.columns.HugoSymbol]
	}
	if p.columns.NCBIBuild >= 0 && p.columns.NCBIBuild < len(fields) {
		info["NCBI_BUILD"] = fields[p.columns.NCBIBuild]
	}

	return &vcf.Record{
		Chrom:  fields[p.columns.Chromosome],
		Pos:    pos,
		ID:     ".",
		Ref:    ref,
		Alt:    alt,
		Filter: ".",
		Info:   info,
	}, nil
}

// Header returns the MAF header line.
func (p *Parser) Header() string {
	return p.headerLine
}

// Columns returns the parsed column indices.
func (p *Parser) Columns() ColumnIndices {
	return p.columns
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during MAF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("maf parse error at line %d: %s", e.Line, e.Message)
}

// maxIndex returns the maximum of the provided integers.
func maxIndex(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
