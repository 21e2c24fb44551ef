package effect

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hammerlab/gocohorts/internal/variant"
)

// Predictor is the external effect-prediction collaborator: given a
// variant with a specified reference build, it returns zero or more
// effects across overlapping transcripts.
type Predictor interface {
	PredictEffects(v variant.Variant) ([]Effect, error)
}

// PredictorFunc adapts a plain function to the Predictor interface.
type PredictorFunc func(v variant.Variant) ([]Effect, error)

func (f PredictorFunc) PredictEffects(v variant.Variant) ([]Effect, error) {
	return f(v)
}

// TablePredictor serves effects from a precomputed annotation table, the
// tab-delimited output of an external variant effect predictor. Columns:
// chrom, pos, ref, alt, transcript_id, gene_name, consequence.
type TablePredictor struct {
	effects map[variant.Variant][]Effect
}

// NewTablePredictor loads a plain or gzipped effect table.
func NewTablePredictor(path, build string) (*TablePredictor, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open effect table: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("open gzipped effect table: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	p := &TablePredictor{effects: make(map[variant.Variant][]Effect)}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			return nil, fmt.Errorf("effect table line %d: expected 7 columns, found %d", lineNum, len(fields))
		}
		pos, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("effect table line %d: invalid position %q", lineNum, fields[1])
		}
		v, err := variant.New(fields[0], pos, fields[2], fields[3], build)
		if err != nil {
			return nil, fmt.Errorf("effect table line %d: %w", lineNum, err)
		}
		kind := fields[6]
		p.effects[v] = append(p.effects[v], Effect{
			Variant:      v,
			TranscriptID: fields[4],
			GeneName:     fields[5],
			Kind:         kind,
			Impact:       GetImpact(kind),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read effect table: %w", err)
	}
	return p, nil
}

// PredictEffects returns the precomputed effects for v. Variants absent
// from the table produce no effects.
func (p *TablePredictor) PredictEffects(v variant.Variant) ([]Effect, error) {
	return p.effects[v], nil
}

// EffectsFor runs the predictor over every variant in the collection and
// returns the combined effect collection, sharing the source metadata.
func EffectsFor(vc *variant.Collection, pred Predictor) (*Collection, error) {
	var all []Effect
	for _, v := range vc.Variants() {
		effects, err := pred.PredictEffects(v)
		if err != nil {
			return nil, fmt.Errorf("predict effects for %s: %w", v.ID(), err)
		}
		all = append(all, effects...)
	}
	return NewCollection(all, vc.Metadata()), nil
}
