package asrl

import "fmt"

// Split identifies dataset partition membership.
type Split string

const (
	SplitTrain Split = "train"
	SplitVal   Split = "val"
)

// UnresolvedIdx is the sentinel for arguments with no spatial or temporal
// grounding. 0 is a valid real index, so the sentinel must stay negative.
const UnresolvedIdx = -1

// BackgroundLabel marks detector outputs that cover no annotated entity.
const BackgroundLabel = "__background__"

// Box is an axis-aligned bounding box in resized-image coordinates.
type Box struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Area returns the box area; degenerate boxes report zero.
func (b Box) Area() float64 {
	w := b.X2 - b.X1
	h := b.Y2 - b.Y1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Proposal is one candidate region: a bounding box with the frame it was
// detected in, the entity label, and the detection score.
type Proposal struct {
	Box      Box
	FrameIdx int
	Label    string
	Score    float64
}

// RoleArg pairs a role label with its argument text. Roles from the
// configured allow-list that the SRL output lacks carry the none word.
type RoleArg struct {
	Role string
	Text string
}

// SRLFrame is one verb occurrence within a segment. Roles keep the order of
// the configured allow-list so downstream output is deterministic.
type SRLFrame struct {
	VerbIdx int
	Verb    string
	Lemma   string
	Roles   []RoleArg
}

// GroundedArgument is an SRLFrame argument after entity resolution. PropIdx
// is the position in the owning segment's proposal list and FrameIdx the
// sampled-frame position; both use UnresolvedIdx when no grounding exists.
type GroundedArgument struct {
	Role     string
	Text     string
	PropIdx  int
	FrameIdx int
}

// SegmentID formats a video id and segment ordinal into the canonical
// vid_seg identifier.
func SegmentID(videoID string, segIdx int) string {
	return fmt.Sprintf("%s_segment_%02d", videoID, segIdx)
}
