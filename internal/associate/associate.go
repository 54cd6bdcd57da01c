// Package associate grounds filtered SRL arguments to entity proposals and
// partitions the result by dataset split.
package associate

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"srlprep/internal/asrl"
	"srlprep/internal/lemma"
	"srlprep/internal/logging"
	"srlprep/internal/rolefilter"
	"srlprep/internal/sources"
	"srlprep/internal/stageerr"
)

// Row is one grounded (verb occurrence, role) pair.
type Row struct {
	VidSeg   string
	Split    asrl.Split
	VerbIdx  int
	Verb     string
	Lemma    string
	Role     string
	Arg      string
	PropIdx  int
	FrameIdx int
	Label    string
	Score    float64
}

// Result carries the grounded rows of both splits plus stage counters.
type Result struct {
	Train      []Row
	Val        []Row
	Grounded   int
	Unresolved int
}

// All returns train rows followed by val rows, the order the merged
// verb-entity file uses.
func (r *Result) All() []Row {
	all := make([]Row, 0, len(r.Train)+len(r.Val))
	all = append(all, r.Train...)
	return append(all, r.Val...)
}

// Header returns the verb-entity file column layout.
func Header() []string {
	return []string{"vid_seg", "split", "verb_idx", "verb", "lemma", "role", "arg", "prop_idx", "frm_idx", "label", "score"}
}

// CSVRows renders rows under the Header layout.
func CSVRows(rows []Row) [][]string {
	out := [][]string{Header()}
	for _, row := range rows {
		out = append(out, []string{
			row.VidSeg,
			string(row.Split),
			strconv.Itoa(row.VerbIdx),
			row.Verb,
			row.Lemma,
			row.Role,
			row.Arg,
			strconv.Itoa(row.PropIdx),
			strconv.Itoa(row.FrameIdx),
			row.Label,
			strconv.FormatFloat(row.Score, 'f', -1, 64),
		})
	}
	return out
}

type recordResult struct {
	rows       []Row
	grounded   int
	unresolved int
}

// Run grounds every record's filtered frames against its proposals. Records
// fan out over a bounded worker pool; results are reassembled in record
// order so output is deterministic regardless of worker count. A video id
// absent from the split file is fatal.
func Run(ctx context.Context, corpus *sources.Corpus, filter *rolefilter.Filter, resolver *lemma.Resolver, matcher *Matcher, workers int, logger *slog.Logger) (*Result, error) {
	logger = logging.NewComponentLogger(logger, "associate")

	for _, record := range corpus.Records {
		if _, ok := corpus.Splits[record.VideoID]; !ok {
			return nil, stageerr.Wrap(stageerr.ErrUnknownSplit, "associate", "partition records",
				fmt.Sprintf("video %s is not in the split file", record.VideoID), nil)
		}
	}

	if workers < 1 {
		workers = 1
	}

	results := make([]recordResult, len(corpus.Records))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				record := corpus.Records[idx]
				results[idx] = groundRecord(record, corpus.Splits[record.VideoID], filter, resolver, matcher)
			}
		}()
	}

	for idx := range corpus.Records {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	result := &Result{}
	for _, rr := range results {
		result.Grounded += rr.grounded
		result.Unresolved += rr.unresolved
		for _, row := range rr.rows {
			if row.Split == asrl.SplitTrain {
				result.Train = append(result.Train, row)
			} else {
				result.Val = append(result.Val, row)
			}
		}
	}

	logger.Info("grounded srl arguments",
		logging.Int("train_rows", len(result.Train)),
		logging.Int("val_rows", len(result.Val)),
		logging.Int("grounded", result.Grounded),
		logging.Int("unresolved", result.Unresolved))

	return result, nil
}

func groundRecord(record sources.Record, split asrl.Split, filter *rolefilter.Filter, resolver *lemma.Resolver, matcher *Matcher) recordResult {
	var rr recordResult
	id := record.ID()
	for _, frame := range filter.Apply(record.Verbs, resolver) {
		for _, role := range frame.Roles {
			grounded := matcher.Ground(role.Role, role.Text, record.Proposals)
			row := Row{
				VidSeg:   id,
				Split:    split,
				VerbIdx:  frame.VerbIdx,
				Verb:     frame.Verb,
				Lemma:    frame.Lemma,
				Role:     grounded.Role,
				Arg:      grounded.Text,
				PropIdx:  grounded.PropIdx,
				FrameIdx: grounded.FrameIdx,
			}
			if grounded.PropIdx != asrl.UnresolvedIdx {
				proposal := record.Proposals[grounded.PropIdx]
				row.Label = proposal.Label
				row.Score = proposal.Score
				rr.grounded++
			} else {
				rr.unresolved++
			}
			rr.rows = append(rr.rows, row)
		}
	}
	return rr
}
