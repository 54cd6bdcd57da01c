// Package gtk derives the ground-truth-box variant of the dataset: the same
// association and indexing run against a fixed number of annotated boxes per
// segment instead of detector proposals.
package gtk

import (
	"fmt"

	"srlprep/internal/asrl"
	"srlprep/internal/sources"
)

// Prefix returns the artifact name prefix for a given box budget, "gt5_"
// under the default configuration.
func Prefix(ngtProp int) string {
	return fmt.Sprintf("gt%d_", ngtProp)
}

// Corpus derives a variant corpus whose proposals are the first ngtProp
// ground-truth boxes of each segment, in annotation order. Ground-truth
// boxes carry no detector score, so each gets a full-confidence score to
// pass candidate masking. The variant's indices share nothing with the
// full-proposal run.
func Corpus(corpus *sources.Corpus, ngtProp int) *sources.Corpus {
	derived := &sources.Corpus{
		Records:    make([]sources.Record, len(corpus.Records)),
		Splits:     corpus.Splits,
		DroppedSRL: corpus.DroppedSRL,
	}
	for i, record := range corpus.Records {
		boxes := record.GTBoxes
		if len(boxes) > ngtProp {
			boxes = boxes[:ngtProp]
		}
		proposals := make([]asrl.Proposal, len(boxes))
		for j, box := range boxes {
			box.Score = 1.0
			proposals[j] = box
		}
		record.Proposals = proposals
		record.GTBoxes = nil
		derived.Records[i] = record
	}
	return derived
}
