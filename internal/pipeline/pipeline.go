// Package pipeline orders the preparation stages, skips the ones whose
// fingerprints are already in the ledger, and fans per-video work out over a
// bounded worker pool.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"srlprep/internal/associate"
	"srlprep/internal/cachestore"
	"srlprep/internal/config"
	"srlprep/internal/gtk"
	"srlprep/internal/lemma"
	"srlprep/internal/logging"
	"srlprep/internal/report"
	"srlprep/internal/rolefilter"
	"srlprep/internal/sources"
	"srlprep/internal/stageerr"
)

// Pipeline runs the preparation stages against one cache store.
type Pipeline struct {
	cfg    *config.Config
	store  *cachestore.Store
	logger *slog.Logger
	runID  string
}

// New builds a Pipeline with a fresh run identifier.
func New(cfg *config.Config, store *cachestore.Store, logger *slog.Logger) *Pipeline {
	runID := uuid.NewString()
	return &Pipeline{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "pipeline").With(logging.String(logging.FieldRunID, runID)),
		runID:  runID,
	}
}

// RunID returns the run's identifier.
func (p *Pipeline) RunID() string {
	return p.runID
}

// runState carries lazily computed intermediates shared between stages.
type runState struct {
	corpus      *sources.Corpus
	resolver    *lemma.Resolver
	filter      *rolefilter.Filter
	matcher     *associate.Matcher
	association *associate.Result
}

type stage struct {
	name    string
	outputs []string
	run     func(ctx context.Context, st *runState) (cachestore.Counts, error)
}

func (p *Pipeline) stages() []stage {
	gtPrefix := gtk.Prefix(p.cfg.Pipeline.NGTProp)
	return []stage{
		{
			name:    "captions",
			outputs: []string{ArtifactCapAnnots},
			run:     p.runCaptions,
		},
		{
			name:    "lemmas",
			outputs: []string{ArtifactLemmaDict},
			run:     p.runLemmas,
		},
		{
			name:    "verbs",
			outputs: []string{ArtifactVerbEnt, ArtifactVerbEntTrain, ArtifactVerbEntVal},
			run:     p.runVerbs,
		},
		{
			name:    "index",
			outputs: []string{ArtifactTrainDict, ArtifactValDict, ArtifactTrainAnnots, ArtifactValAnnots},
			run:     p.runIndex,
		},
		{
			name:    "vocab",
			outputs: []string{ArtifactArgVocab},
			run:     p.runVocab,
		},
		{
			name: "gtk",
			outputs: []string{
				gtPrefix + ArtifactTrainDict,
				gtPrefix + ArtifactValDict,
				gtPrefix + ArtifactTrainAnnots,
				gtPrefix + ArtifactValAnnots,
			},
			run: p.runGTK,
		},
	}
}

// StageNames lists the runnable stages in dependency order.
func (p *Pipeline) StageNames() []string {
	all := p.stages()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.name
	}
	return names
}

// Run executes every stage in order.
func (p *Pipeline) Run(ctx context.Context) (*report.RunSummary, error) {
	return p.RunStages(ctx, p.StageNames()...)
}

// RunStages executes the named stages in dependency order. A stage whose
// fingerprint matches the ledger and whose outputs exist is skipped; its
// in-memory intermediates are still recomputed when a later stage needs
// them, which is deterministic by construction.
func (p *Pipeline) RunStages(ctx context.Context, names ...string) (*report.RunSummary, error) {
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		requested[name] = true
	}
	for _, name := range names {
		if !p.knownStage(name) {
			return nil, stageerr.Wrap(stageerr.ErrConfiguration, "pipeline", "select stages",
				fmt.Sprintf("unknown stage %q", name), nil)
		}
	}

	summary := &report.RunSummary{
		RunID:    p.runID,
		CacheDir: p.store.Dir(),
	}
	started := time.Now()
	st := &runState{}

	inputs := []string{
		p.cfg.Paths.CaptionFile,
		p.cfg.Paths.SplitFile,
		p.cfg.Paths.EntityAnnotFile,
		p.cfg.Paths.SRLFile,
	}

	for _, s := range p.stages() {
		if !requested[s.name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stageStart := time.Now()
		fingerprint, err := cachestore.Fingerprint(p.cfg, s.name, inputs)
		if err != nil {
			return nil, stageerr.Wrap(stageerr.ErrMissingSource, "pipeline", "fingerprint stage", s.name, err)
		}

		fresh, err := p.store.Fresh(ctx, s.name, fingerprint, s.outputs)
		if err != nil {
			return nil, err
		}
		if fresh {
			p.logger.Info("stage cached",
				logging.String(logging.FieldStage, s.name),
				logging.String(logging.FieldEventType, "stage_cached"))
			summary.Stages = append(summary.Stages, report.StageSummary{
				Stage:    s.name,
				Cached:   true,
				Duration: time.Since(stageStart),
			})
			continue
		}

		p.logger.Info("stage started",
			logging.String(logging.FieldStage, s.name),
			logging.String(logging.FieldEventType, "stage_started"))

		counts, err := s.run(ctx, st)
		if err != nil {
			p.logger.Error("stage failed",
				logging.String(logging.FieldStage, s.name),
				logging.Error(err))
			return nil, err
		}
		if err := p.store.RecordStage(ctx, s.name, fingerprint, p.runID, counts); err != nil {
			return nil, err
		}

		elapsed := time.Since(stageStart)
		p.logger.Info("stage finished",
			logging.String(logging.FieldStage, s.name),
			logging.String(logging.FieldEventType, "stage_finished"),
			logging.Int("rows", counts.Rows),
			logging.Int("skipped", counts.Skipped),
			logging.Int("dropped", counts.Dropped),
			logging.Duration("elapsed", elapsed))

		summary.Stages = append(summary.Stages, report.StageSummary{
			Stage:    s.name,
			Rows:     counts.Rows,
			Skipped:  counts.Skipped,
			Dropped:  counts.Dropped,
			Duration: elapsed,
		})
	}

	summary.Duration = time.Since(started)
	p.logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_finished"),
		logging.String("stages", report.Oneline(*summary)),
		logging.Duration("elapsed", summary.Duration))
	return summary, nil
}

func (p *Pipeline) knownStage(name string) bool {
	for _, s := range p.stages() {
		if s.name == name {
			return true
		}
	}
	return false
}

func (p *Pipeline) ensureCorpus(st *runState) (*sources.Corpus, error) {
	if st.corpus != nil {
		return st.corpus, nil
	}
	corpus, err := sources.Load(sources.Paths{
		CaptionFile:     p.cfg.Paths.CaptionFile,
		SplitFile:       p.cfg.Paths.SplitFile,
		EntityAnnotFile: p.cfg.Paths.EntityAnnotFile,
		SRLFile:         p.cfg.Paths.SRLFile,
	}, p.logger)
	if err != nil {
		return nil, err
	}
	st.corpus = corpus
	return corpus, nil
}

// ensureResolver loads the cached lemma dictionary when one exists and
// otherwise builds it from the corpus. The build path does not persist; the
// lemmas stage owns the artifact write.
func (p *Pipeline) ensureResolver(st *runState) (*lemma.Resolver, error) {
	if st.resolver != nil {
		return st.resolver, nil
	}

	if data, err := os.ReadFile(p.store.Path(ArtifactLemmaDict)); err == nil {
		var dict map[string]string
		if err := json.Unmarshal(data, &dict); err != nil {
			return nil, stageerr.Wrap(stageerr.ErrConfiguration, "lemmas", "parse cached dictionary",
				ArtifactLemmaDict, err)
		}
		st.resolver = lemma.FromDict(dict)
		return st.resolver, nil
	}

	corpus, err := p.ensureCorpus(st)
	if err != nil {
		return nil, err
	}
	st.resolver = lemma.Build(corpus.DistinctVerbs())
	return st.resolver, nil
}

func (p *Pipeline) ensureFilter(st *runState) *rolefilter.Filter {
	if st.filter == nil {
		st.filter = rolefilter.New(p.cfg)
	}
	return st.filter
}

func (p *Pipeline) ensureAssociation(ctx context.Context, st *runState) (*associate.Result, error) {
	if st.association != nil {
		return st.association, nil
	}
	corpus, err := p.ensureCorpus(st)
	if err != nil {
		return nil, err
	}
	resolver, err := p.ensureResolver(st)
	if err != nil {
		return nil, err
	}
	if st.matcher == nil {
		st.matcher = associate.NewMatcher(p.cfg)
	}
	result, err := associate.Run(ctx, corpus, p.ensureFilter(st), resolver, st.matcher, p.cfg.Pipeline.Workers, p.logger)
	if err != nil {
		return nil, err
	}
	st.association = result
	return result, nil
}

func (p *Pipeline) segmentsByID(st *runState) (map[string]sources.Record, error) {
	corpus, err := p.ensureCorpus(st)
	if err != nil {
		return nil, err
	}
	segments := make(map[string]sources.Record, len(corpus.Records))
	for _, record := range corpus.Records {
		segments[record.ID()] = record
	}
	return segments, nil
}
