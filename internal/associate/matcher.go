package associate

import (
	"srlprep/internal/asrl"
	"srlprep/internal/config"
	"srlprep/internal/textutil"
)

// Matcher resolves argument text to a region proposal within one segment.
type Matcher struct {
	scoreThreshold    float64
	excludeBackground bool
	noneWord          string
}

// NewMatcher builds a Matcher from the pipeline configuration.
func NewMatcher(cfg *config.Config) *Matcher {
	return &Matcher{
		scoreThreshold:    cfg.Pipeline.PropScoreThreshold,
		excludeBackground: cfg.Pipeline.ExcludeBackground,
		noneWord:          textutil.Normalize(cfg.Pipeline.NoneWord),
	}
}

// candidate reports whether a proposal may serve as a grounding target.
// Excluded proposals keep their position in the list so indices stay stable.
func (m *Matcher) candidate(p asrl.Proposal) bool {
	if p.Score < m.scoreThreshold {
		return false
	}
	if m.excludeBackground && p.Label == asrl.BackgroundLabel {
		return false
	}
	return true
}

// Ground matches one argument text against the segment's proposals: exact
// match of the normalized head noun against proposal labels, largest box
// area first, lowest proposal index on ties. A miss, an empty head noun, or
// the none word yields the unresolved sentinel.
func (m *Matcher) Ground(role, text string, proposals []asrl.Proposal) asrl.GroundedArgument {
	arg := asrl.GroundedArgument{
		Role:     role,
		Text:     text,
		PropIdx:  asrl.UnresolvedIdx,
		FrameIdx: asrl.UnresolvedIdx,
	}

	head := textutil.HeadNoun(text)
	if head == "" || head == m.noneWord {
		return arg
	}

	bestArea := -1.0
	for idx, proposal := range proposals {
		if !m.candidate(proposal) {
			continue
		}
		if textutil.Normalize(proposal.Label) != head {
			continue
		}
		if area := proposal.Box.Area(); area > bestArea {
			bestArea = area
			arg.PropIdx = idx
			arg.FrameIdx = proposal.FrameIdx
		}
	}
	return arg
}
