package cohort

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/hammerlab/gocohorts/internal/effect"
	"github.com/hammerlab/gocohorts/internal/maf"
	"github.com/hammerlab/gocohorts/internal/merge"
	"github.com/hammerlab/gocohorts/internal/store"
	"github.com/hammerlab/gocohorts/internal/variant"
	"github.com/hammerlab/gocohorts/internal/vcf"
)

// Cohort is an ordered sequence of patients plus cached derived
// per-patient variant and effect collections.
type Cohort struct {
	patients  []*Patient
	byID      map[string]*Patient
	mergeMode merge.Mode
	build     string
	predictor effect.Predictor
	cache     *derivedCache
	store     *store.Store
	logger    *zap.Logger
}

// New creates a cohort over the given patients. Patient order is
// preserved in every tabular output.
func New(patients []*Patient, mergeMode merge.Mode, build string) (*Cohort, error) {
	if _, err := merge.ParseMode(string(mergeMode)); err != nil {
		return nil, err
	}
	if build == "" {
		return nil, &merge.ConfigurationError{Message: "reference genome build is required"}
	}
	byID := make(map[string]*Patient, len(patients))
	for _, p := range patients {
		if p.ID == "" {
			return nil, &merge.ConfigurationError{Message: "patient with empty id"}
		}
		if _, dup := byID[p.ID]; dup {
			return nil, &merge.ConfigurationError{Message: fmt.Sprintf("duplicate patient id %q", p.ID)}
		}
		byID[p.ID] = p
	}
	return &Cohort{
		patients:  patients,
		byID:      byID,
		mergeMode: mergeMode,
		build:     build,
		cache:     newDerivedCache(),
		logger:    zap.NewNop(),
	}, nil
}

// SetPredictor sets the effect-prediction collaborator.
func (c *Cohort) SetPredictor(p effect.Predictor) {
	c.predictor = p
}

// SetStore attaches a persistent derived-data store. Merged collections
// are served from it when the source files are unchanged.
func (c *Cohort) SetStore(s *store.Store) {
	c.store = s
}

// SetLogger sets the logger for progress and cache messages.
func (c *Cohort) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Patients returns the cohort's patients in order.
func (c *Cohort) Patients() []*Patient {
	return c.patients
}

// Patient returns the patient with the given id, or nil.
func (c *Cohort) Patient(id string) *Patient {
	return c.byID[id]
}

// MergeMode returns the cohort's merge configuration.
func (c *Cohort) MergeMode() merge.Mode {
	return c.mergeMode
}

// Build returns the cohort's reference genome build.
func (c *Cohort) Build() string {
	return c.build
}

// ClearCaches drops all cached derived collections, forcing
// recomputation on next access. Idempotent. When a persistent store is
// attached it is cleared as well.
func (c *Cohort) ClearCaches() error {
	c.cache.clear()
	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			return fmt.Errorf("clear persistent store: %w", err)
		}
	}
	return nil
}

// LoadVariants returns the merged variant collection for every patient,
// filtered by the given predicate. A nil predicate keeps everything.
// Collections are cached unfiltered; filtering happens per call.
func (c *Cohort) LoadVariants(filter variant.Predicate) (map[string]*variant.Collection, error) {
	out := make(map[string]*variant.Collection, len(c.patients))
	for _, p := range c.patients {
		vc, err := c.variantsFor(p)
		if err != nil {
			return nil, err
		}
		out[p.ID] = vc.Filter(filter)
	}
	return out, nil
}

// variantsFor returns the merged, unfiltered collection for one patient,
// from cache when possible.
func (c *Cohort) variantsFor(p *Patient) (*variant.Collection, error) {
	if vc, ok := c.cache.getVariants(p.ID); ok {
		return vc, nil
	}

	if len(p.SNVSources) == 0 {
		return nil, &merge.MissingSourceError{Source: p.ID}
	}

	fingerprints, err := c.sourceFingerprints(p)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		fresh, err := c.store.Fresh(p.ID, string(c.mergeMode), fingerprints)
		if err != nil {
			return nil, err
		}
		if fresh {
			vc, ok, err := c.store.LoadCollection(p.ID, string(c.mergeMode))
			if err != nil {
				return nil, err
			}
			if ok {
				c.logger.Debug("serving variants from store",
					zap.String("patient", p.ID),
					zap.Int("variants", vc.Len()))
				c.cache.putVariants(p.ID, vc)
				return vc, nil
			}
		}
	}

	sources := make([]*variant.Collection, 0, len(p.SNVSources))
	for _, path := range p.SNVSources {
		sc, err := c.loadSource(path)
		if err != nil {
			return nil, fmt.Errorf("patient %s: %w", p.ID, err)
		}
		sources = append(sources, sc)
	}

	vc, err := merge.Merge(sources, c.mergeMode)
	if err != nil {
		return nil, fmt.Errorf("patient %s: %w", p.ID, err)
	}

	c.logger.Debug("merged patient variants",
		zap.String("patient", p.ID),
		zap.Int("sources", len(sources)),
		zap.String("mode", string(c.mergeMode)),
		zap.Int("variants", vc.Len()))

	if c.store != nil {
		if err := c.store.SaveCollection(p.ID, string(c.mergeMode), vc, fingerprints); err != nil {
			return nil, fmt.Errorf("patient %s: persist variants: %w", p.ID, err)
		}
	}

	c.cache.putVariants(p.ID, vc)
	return vc, nil
}

func (c *Cohort) sourceFingerprints(p *Patient) ([]store.FileFingerprint, error) {
	if c.store == nil {
		return nil, nil
	}
	fps := make([]store.FileFingerprint, 0, len(p.SNVSources))
	for _, path := range p.SNVSources {
		fp, err := store.StatFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &merge.MissingSourceError{Source: path}
			}
			return nil, err
		}
		fps = append(fps, fp)
	}
	return fps, nil
}

// loadSource parses one source file into a per-source collection.
func (c *Cohort) loadSource(path string) (*variant.Collection, error) {
	parser, err := openSource(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &merge.MissingSourceError{Source: path}
		}
		return nil, err
	}
	defer parser.Close()

	sc := variant.NewCollection()
	for {
		rec, err := parser.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}
		for _, r := range vcf.SplitMultiAllelic(rec) {
			v, err := variant.New(r.Chrom, r.Pos, r.Ref, r.Alt, c.build)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", path, parser.LineNumber(), err)
			}
			sc.Add(v, variant.SourceRecord{
				Source: path,
				Qual:   r.Qual,
				Filter: r.Filter,
				Info:   r.Info,
			})
		}
	}
	return sc, nil
}

// openSource picks a parser from the file extension.
func openSource(path string) (vcf.RecordParser, error) {
	base := strings.TrimSuffix(path, ".gz")
	if strings.HasSuffix(base, ".maf") || strings.HasSuffix(base, ".txt") {
		return maf.NewParser(path)
	}
	return vcf.NewParser(path)
}

// LoadEffects returns the effect collection for every patient, derived
// from the merged variants through the predictor. With onlyNonsynonymous
// set, only protein-altering effects are returned. A nil filter keeps
// everything. The full collection is cached; subsetting happens per call.
func (c *Cohort) LoadEffects(onlyNonsynonymous bool, filter effect.Predicate) (map[string]*effect.Collection, error) {
	if c.predictor == nil {
		return nil, &merge.ConfigurationError{Message: "no effect predictor configured"}
	}
	out := make(map[string]*effect.Collection, len(c.patients))
	for _, p := range c.patients {
		ec, ok := c.cache.getEffects(p.ID)
		if !ok {
			vc, err := c.variantsFor(p)
			if err != nil {
				return nil, err
			}
			ec, err = effect.EffectsFor(vc, c.predictor)
			if err != nil {
				return nil, fmt.Errorf("patient %s: %w", p.ID, err)
			}
			c.cache.putEffects(p.ID, ec)
		}
		if onlyNonsynonymous {
			ec = ec.Nonsynonymous()
		}
		out[p.ID] = ec.Filter(filter)
	}
	return out, nil
}
