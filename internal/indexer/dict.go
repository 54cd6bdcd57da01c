package indexer

// ObjectDict assigns dense object indices scoped per video: the first time
// an (video, object) pair is seen, the video's local counter hands out the
// next integer starting at 0, and every later occurrence reuses it. Frozen
// after the build pass.
type ObjectDict struct {
	indices map[string]map[string]int
}

// NewObjectDict returns an empty dictionary.
func NewObjectDict() *ObjectDict {
	return &ObjectDict{indices: make(map[string]map[string]int)}
}

// Assign returns the index of (video, object), allocating the video's next
// counter value on first sight.
func (d *ObjectDict) Assign(video, object string) int {
	perVideo, ok := d.indices[video]
	if !ok {
		perVideo = make(map[string]int)
		d.indices[video] = perVideo
	}
	if idx, ok := perVideo[object]; ok {
		return idx
	}
	idx := len(perVideo)
	perVideo[object] = idx
	return idx
}

// Lookup returns the stored index and whether the pair has been assigned.
func (d *ObjectDict) Lookup(video, object string) (int, bool) {
	idx, ok := d.indices[video][object]
	return idx, ok
}

// Videos returns how many videos hold at least one assignment.
func (d *ObjectDict) Videos() int {
	return len(d.indices)
}

// Objects returns the total number of assigned (video, object) pairs.
func (d *ObjectDict) Objects() int {
	total := 0
	for _, perVideo := range d.indices {
		total += len(perVideo)
	}
	return total
}

// Payload exposes the dictionary for JSON persistence. encoding/json sorts
// map keys, so serialization is reproducible.
func (d *ObjectDict) Payload() map[string]map[string]int {
	return d.indices
}
