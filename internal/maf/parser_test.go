package maf

import (
	"strings"
	"testing"
)

const sampleMAF = `#version 2.4
Hugo_Symbol	Chromosome	Start_Position	Reference_Allele	Tumor_Seq_Allele2	NCBI_Build
KRAS	12	25245351	C	A	GRCh37
MAST2	1	46501738	G	C	GRCh37
`

func TestParser_Records(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(sampleMAF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	r, err := parser.Next()
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if r == nil {
		t.Fatal("Expected a record, got nil")
	}
	if r.Chrom != "12" || r.Pos != 25245351 {
		t.Errorf("Unexpected position: %s:%d", r.Chrom, r.Pos)
	}
	if r.Ref != "C" || r.Alt != "A" {
		t.Errorf("Expected C>A, got %s>%s", r.Ref, r.Alt)
	}
	if r.Info["GENE"] != "KRAS" {
		t.Errorf("Expected GENE=KRAS, got %q", r.Info["GENE"])
	}
	if r.Info["NCBI_BUILD"] != "GRCh37" {
		t.Errorf("Expected NCBI_BUILD=GRCh37, got %q", r.Info["NCBI_BUILD"])
	}

	r2, err := parser.Next()
	if err != nil || r2 == nil {
		t.Fatalf("Failed to read second record: %v", err)
	}
	if r2.Info["GENE"] != "MAST2" {
		t.Errorf("Expected GENE=MAST2, got %q", r2.Info["GENE"])
	}

	r3, err := parser.Next()
	if err != nil {
		t.Fatalf("Error checking for more records: %v", err)
	}
	if r3 != nil {
		t.Error("Expected no more records")
	}
}

func TestParser_MissingRequiredColumn(t *testing.T) {
	input := "Hugo_Symbol\tChromosome\tStart_Position\tReference_Allele\nKRAS\t12\t25245351\tC\n"

	_, err := NewParserFromReader(strings.NewReader(input))
	if err == nil {
		t.Fatal("Expected error for missing Tumor_Seq_Allele2")
	}
	if !strings.Contains(err.Error(), "Tumor_Seq_Allele2") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestParser_DeletionConvention(t *testing.T) {
	input := "Chromosome\tStart_Position\tReference_Allele\tTumor_Seq_Allele2\n1\t100\tAC\t-\n"

	parser, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	r, err := parser.Next()
	if err != nil || r == nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if r.Alt != "" {
		t.Errorf("Expected empty alt for deletion, got %q", r.Alt)
	}
}

func TestParser_InvalidPosition(t *testing.T) {
	input := "Chromosome\tStart_Position\tReference_Allele\tTumor_Seq_Allele2\n1\tabc\tA\tT\n"

	parser, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	_, err = parser.Next()
	if err == nil {
		t.Fatal("Expected error for non-numeric position")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("Expected ParseError, got %T", err)
	}
}
