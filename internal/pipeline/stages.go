package pipeline

import (
	"context"
	"sync"

	"srlprep/internal/asrl"
	"srlprep/internal/associate"
	"srlprep/internal/cachestore"
	"srlprep/internal/gtk"
	"srlprep/internal/indexer"
	"srlprep/internal/lemma"
	"srlprep/internal/sources"
	"srlprep/internal/vocab"
)

func (p *Pipeline) runCaptions(ctx context.Context, st *runState) (cachestore.Counts, error) {
	corpus, err := p.ensureCorpus(st)
	if err != nil {
		return cachestore.Counts{}, err
	}
	resolver, err := p.ensureResolver(st)
	if err != nil {
		return cachestore.Counts{}, err
	}

	rows := p.ensureFilter(st).AnnotRows(corpus.Records, resolver)
	if err := p.store.WriteCSV(ArtifactCapAnnots, rows); err != nil {
		return cachestore.Counts{}, err
	}
	return cachestore.Counts{
		Rows:    len(rows) - 1,
		Dropped: corpus.DroppedSRL,
	}, nil
}

func (p *Pipeline) runLemmas(ctx context.Context, st *runState) (cachestore.Counts, error) {
	corpus, err := p.ensureCorpus(st)
	if err != nil {
		return cachestore.Counts{}, err
	}

	resolver := lemma.Build(corpus.DistinctVerbs())
	st.resolver = resolver

	if err := p.store.WriteJSON(ArtifactLemmaDict, resolver.Dict()); err != nil {
		return cachestore.Counts{}, err
	}
	return cachestore.Counts{Rows: len(resolver.Verbs())}, nil
}

func (p *Pipeline) runVerbs(ctx context.Context, st *runState) (cachestore.Counts, error) {
	result, err := p.ensureAssociation(ctx, st)
	if err != nil {
		return cachestore.Counts{}, err
	}

	if err := p.store.WriteCSV(ArtifactVerbEntTrain, associate.CSVRows(result.Train)); err != nil {
		return cachestore.Counts{}, err
	}
	if err := p.store.WriteCSV(ArtifactVerbEntVal, associate.CSVRows(result.Val)); err != nil {
		return cachestore.Counts{}, err
	}
	if err := p.store.WriteCSV(ArtifactVerbEnt, associate.CSVRows(result.All())); err != nil {
		return cachestore.Counts{}, err
	}
	return cachestore.Counts{
		Rows:    len(result.Train) + len(result.Val),
		Skipped: result.Unresolved,
	}, nil
}

func (p *Pipeline) runIndex(ctx context.Context, st *runState) (cachestore.Counts, error) {
	result, err := p.ensureAssociation(ctx, st)
	if err != nil {
		return cachestore.Counts{}, err
	}
	segments, err := p.segmentsByID(st)
	if err != nil {
		return cachestore.Counts{}, err
	}
	return p.writeIndexArtifacts(result, segments, "")
}

// writeIndexArtifacts builds both splits and persists them under the given
// artifact prefix ("" for the full-proposal run, "gt5_" for the variant).
func (p *Pipeline) writeIndexArtifacts(result *associate.Result, segments map[string]sources.Record, prefix string) (cachestore.Counts, error) {
	var counts cachestore.Counts
	splits := []struct {
		split  asrl.Split
		rows   []associate.Row
		dict   string
		annots string
	}{
		{asrl.SplitTrain, result.Train, prefix + ArtifactTrainDict, prefix + ArtifactTrainAnnots},
		{asrl.SplitVal, result.Val, prefix + ArtifactValDict, prefix + ArtifactValAnnots},
	}

	for _, s := range splits {
		out, err := indexer.Build(s.split, s.rows, segments,
			p.cfg.Pipeline.NumFrms, p.cfg.Pipeline.TemporalSkipRatio, p.logger)
		if err != nil {
			return cachestore.Counts{}, err
		}
		if err := p.store.WriteJSON(s.dict, out.Dict.Payload()); err != nil {
			return cachestore.Counts{}, err
		}
		if err := p.store.WriteCSV(s.annots, out.Rows); err != nil {
			return cachestore.Counts{}, err
		}
		counts.Rows += len(out.Rows) - 1
		counts.Skipped += out.SkippedSegments
	}
	return counts, nil
}

func (p *Pipeline) runVocab(ctx context.Context, st *runState) (cachestore.Counts, error) {
	result, err := p.ensureAssociation(ctx, st)
	if err != nil {
		return cachestore.Counts{}, err
	}

	rows := result.All()
	workers := p.cfg.Pipeline.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(rows) && len(rows) > 0 {
		workers = len(rows)
	}

	// Each worker counts into a private table over its row range; the
	// partials are merged sequentially so the result never depends on
	// scheduling.
	partials := make([]vocab.Counts, workers)
	chunk := (len(rows) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if lo > len(rows) {
			lo = len(rows)
		}
		if hi > len(rows) {
			hi = len(rows)
		}
		partials[w] = vocab.Counts{}
		wg.Add(1)
		go func(counts vocab.Counts, rows []associate.Row) {
			defer wg.Done()
			for _, row := range rows {
				counts.Add(row.Arg, p.cfg.Pipeline.NoneWord)
			}
		}(partials[w], rows[lo:hi])
	}
	wg.Wait()

	merged := vocab.Counts{}
	for _, partial := range partials {
		merged.Merge(partial)
	}

	vocabulary, err := vocab.Build(merged, p.cfg.Pipeline.NoneWord)
	if err != nil {
		return cachestore.Counts{}, err
	}
	if err := p.store.WriteJSON(ArtifactArgVocab, vocabulary.Payload()); err != nil {
		return cachestore.Counts{}, err
	}
	return cachestore.Counts{Rows: vocabulary.Size()}, nil
}

func (p *Pipeline) runGTK(ctx context.Context, st *runState) (cachestore.Counts, error) {
	corpus, err := p.ensureCorpus(st)
	if err != nil {
		return cachestore.Counts{}, err
	}
	resolver, err := p.ensureResolver(st)
	if err != nil {
		return cachestore.Counts{}, err
	}
	if st.matcher == nil {
		st.matcher = associate.NewMatcher(p.cfg)
	}

	derived := gtk.Corpus(corpus, p.cfg.Pipeline.NGTProp)
	result, err := associate.Run(ctx, derived, p.ensureFilter(st), resolver, st.matcher, p.cfg.Pipeline.Workers, p.logger)
	if err != nil {
		return cachestore.Counts{}, err
	}

	segments := make(map[string]sources.Record, len(derived.Records))
	for _, record := range derived.Records {
		segments[record.ID()] = record
	}
	return p.writeIndexArtifacts(result, segments, gtk.Prefix(p.cfg.Pipeline.NGTProp))
}
