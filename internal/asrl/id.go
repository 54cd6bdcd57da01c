package asrl

import (
	"fmt"
	"strconv"
	"strings"
)

const segmentMarker = "_segment_"

// ParseSegmentID splits a vid_seg identifier into its video id and segment
// ordinal. The ordinal may carry leading zeros.
func ParseSegmentID(id string) (string, int, error) {
	pos := strings.LastIndex(id, segmentMarker)
	if pos <= 0 {
		return "", 0, fmt.Errorf("malformed vid_seg id %q", id)
	}
	videoID := id[:pos]
	ordinal := id[pos+len(segmentMarker):]
	segIdx, err := strconv.Atoi(ordinal)
	if err != nil || segIdx < 0 {
		return "", 0, fmt.Errorf("malformed segment ordinal in %q", id)
	}
	return videoID, segIdx, nil
}
