package output

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hammerlab/gocohorts/internal/variant"
)

// VCFWriter writes a merged variant collection in VCF format with
// per-source provenance carried in the INFO column.
type VCFWriter struct {
	w     *bufio.Writer
	build string
}

// NewVCFWriter creates a new VCF output writer for the given reference
// genome build.
func NewVCFWriter(w io.Writer, build string) *VCFWriter {
	return &VCFWriter{w: bufio.NewWriter(w), build: build}
}

// WriteHeader writes the VCF meta lines and column header.
func (vw *VCFWriter) WriteHeader() error {
	lines := []string{
		"##fileformat=VCFv4.2",
		"##reference=" + vw.build,
		"##source=gocohorts",
		`##INFO=<ID=SRC,Number=.,Type=String,Description="Source files that called this variant">`,
		`##INFO=<ID=NSRC,Number=1,Type=Integer,Description="Number of sources that called this variant">`,
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO",
	}
	for _, line := range lines {
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write writes every variant in the collection, sorted by genomic
// position, one line per variant with its source provenance.
func (vw *VCFWriter) Write(c *variant.Collection) error {
	for _, v := range c.Variants() {
		records := c.MetadataFor(v)
		sources := make([]string, 0, len(records))
		for src := range records {
			sources = append(sources, filepath.Base(src))
		}
		sort.Strings(sources)

		info := fmt.Sprintf("NSRC=%d", len(sources))
		if len(sources) > 0 {
			info += ";SRC=" + strings.Join(sources, ",")
		}

		line := fmt.Sprintf("%s\t%d\t%s\t%s\t%s\t.\t.\t%s\n",
			v.Chrom, v.Pos, v.ID(), v.Ref, v.Alt, info)
		if _, err := vw.w.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (vw *VCFWriter) Flush() error {
	return vw.w.Flush()
}
