// Package indexer turns grounded rows into object dictionaries and
// index-augmented annotation rows, one dictionary namespace per split.
package indexer

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"srlprep/internal/asrl"
	"srlprep/internal/associate"
	"srlprep/internal/logging"
	"srlprep/internal/sources"
	"srlprep/internal/stageerr"
)

// Output is one split's index build.
type Output struct {
	Dict *ObjectDict
	// Rows is the csv payload, header included.
	Rows [][]string
	// SkippedSegments counts vid_segs dropped for out-of-range timing.
	SkippedSegments int
	Segments        int
}

// Header returns the index-augmented annotation column layout.
func Header() []string {
	return []string{"vid_seg", "verb_idx", "verb", "lemma", "role", "arg", "obj_ind", "prop_idx", "frm_idx", "time_ind"}
}

// TemporalIndex quantizes a segment's midpoint into [0, numFrms) sampled
// frame positions over the video duration. The exact upper boundary maps to
// the last frame; anything outside [0, duration] is an error, never a clamp.
func TemporalIndex(start, end, duration float64, numFrms int) (int, error) {
	if duration <= 0 {
		return 0, stageerr.Wrap(stageerr.ErrTemporalIndex, "index", "quantize timing",
			fmt.Sprintf("non-positive duration %v", duration), nil)
	}
	mid := (start + end) / 2
	if mid < 0 || mid > duration {
		return 0, stageerr.Wrap(stageerr.ErrTemporalIndex, "index", "quantize timing",
			fmt.Sprintf("segment midpoint %v outside [0, %v]", mid, duration), nil)
	}
	idx := int(math.Floor(float64(numFrms) * mid / duration))
	if idx >= numFrms {
		idx = numFrms - 1
	}
	return idx, nil
}

// Build scans one split's grounded rows in order and produces the split's
// object dictionary plus its index-augmented rows. A segment whose timing
// falls outside the video is skipped whole and counted; the build fails when
// the skip rate crosses skipRatio.
func Build(split asrl.Split, rows []associate.Row, segments map[string]sources.Record, numFrms int, skipRatio float64, logger *slog.Logger) (*Output, error) {
	logger = logging.NewComponentLogger(logger, "indexer")

	out := &Output{
		Dict: NewObjectDict(),
		Rows: [][]string{Header()},
	}

	// Temporal index per vid_seg; a failure drops every row of the segment.
	timeIdx := make(map[string]int)
	skipped := make(map[string]bool)
	for _, row := range rows {
		if _, done := timeIdx[row.VidSeg]; done || skipped[row.VidSeg] {
			continue
		}
		record, ok := segments[row.VidSeg]
		if !ok {
			return nil, stageerr.Wrap(stageerr.ErrSchemaMismatch, "index", "resolve timing",
				fmt.Sprintf("no segment record for %s", row.VidSeg), nil)
		}
		idx, err := TemporalIndex(record.Start, record.End, record.Duration, numFrms)
		if err != nil {
			skipped[row.VidSeg] = true
			logger.Warn("skipping segment with out-of-range timing",
				logging.String(logging.FieldEventType, "segment_skipped"),
				logging.String(logging.FieldVideoID, record.VideoID),
				logging.String("vid_seg", row.VidSeg),
				logging.Error(err))
			continue
		}
		timeIdx[row.VidSeg] = idx
	}

	out.Segments = len(timeIdx) + len(skipped)
	out.SkippedSegments = len(skipped)
	if out.Segments > 0 {
		rate := float64(out.SkippedSegments) / float64(out.Segments)
		if rate > skipRatio {
			return nil, stageerr.Wrap(stageerr.ErrConfiguration, "index", "sanity check",
				fmt.Sprintf("%d of %d segments in %s skipped for bad timing, above the %.0f%% threshold",
					out.SkippedSegments, out.Segments, split, skipRatio*100), nil)
		}
	}

	for _, row := range rows {
		if skipped[row.VidSeg] {
			continue
		}
		record := segments[row.VidSeg]

		objInd := asrl.UnresolvedIdx
		if row.PropIdx != asrl.UnresolvedIdx {
			objInd = out.Dict.Assign(record.VideoID, row.Label)
		}

		out.Rows = append(out.Rows, []string{
			row.VidSeg,
			strconv.Itoa(row.VerbIdx),
			row.Verb,
			row.Lemma,
			row.Role,
			row.Arg,
			strconv.Itoa(objInd),
			strconv.Itoa(row.PropIdx),
			strconv.Itoa(row.FrameIdx),
			strconv.Itoa(timeIdx[row.VidSeg]),
		})
	}

	logger.Info("built split index",
		logging.String(logging.FieldSplit, string(split)),
		logging.Int("rows", len(out.Rows)-1),
		logging.Int("videos", out.Dict.Videos()),
		logging.Int("objects", out.Dict.Objects()),
		logging.Int("skipped_segments", out.SkippedSegments))

	return out, nil
}
