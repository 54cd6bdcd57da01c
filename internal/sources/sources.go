package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"srlprep/internal/asrl"
	"srlprep/internal/logging"
	"srlprep/internal/stageerr"
)

// Verb is one raw verb occurrence as produced by the upstream SRL tagger.
type Verb struct {
	Verb  string            `json:"verb"`
	Roles map[string]string `json:"roles"`
}

// Record is one merged per-segment record: caption timing, entity proposals,
// ground-truth boxes, and the segment's verb occurrences.
type Record struct {
	VideoID   string
	SegIdx    int
	Start     float64
	End       float64
	Duration  float64
	Caption   string
	Proposals []asrl.Proposal
	GTBoxes   []asrl.Proposal
	Verbs     []Verb
}

// ID returns the canonical vid_seg identifier of the record.
func (r Record) ID() string {
	return asrl.SegmentID(r.VideoID, r.SegIdx)
}

// Corpus is the loader output: ordered records plus split membership and the
// count of SRL entries dropped for missing caption or entity data.
type Corpus struct {
	Records    []Record
	Splits     map[string]asrl.Split
	DroppedSRL int
}

// DistinctVerbs returns every distinct verb surface form in the corpus,
// sorted so downstream cache builds are reproducible.
func (c *Corpus) DistinctVerbs() []string {
	seen := make(map[string]struct{})
	for _, record := range c.Records {
		for _, verb := range record.Verbs {
			seen[verb.Verb] = struct{}{}
		}
	}
	verbs := make([]string, 0, len(seen))
	for verb := range seen {
		verbs = append(verbs, verb)
	}
	sort.Strings(verbs)
	return verbs
}

// Paths names the four raw annotation inputs.
type Paths struct {
	CaptionFile     string
	SplitFile       string
	EntityAnnotFile string
	SRLFile         string
}

type captionEntry struct {
	Duration   float64      `json:"duration"`
	Timestamps [][2]float64 `json:"timestamps"`
	Sentences  []string     `json:"sentences"`
}

type entityBox struct {
	Label  string     `json:"label"`
	Box    [4]float64 `json:"box"`
	FrmIdx int        `json:"frm_idx"`
	Score  float64    `json:"score"`
}

type entitySegment struct {
	Proposals []entityBox `json:"proposals"`
	GTBoxes   []entityBox `json:"gt_boxes"`
}

type entityEntry struct {
	Segments map[string]entitySegment `json:"segments"`
}

type srlEntry struct {
	VidSeg string `json:"vid_seg"`
	Verbs  []Verb `json:"verbs"`
}

// Load merges the caption corpus, split file, entity annotations, and SRL
// predictions into one ordered record stream. Missing files are fatal; SRL
// entries whose vid_seg has no caption or entity counterpart are dropped and
// counted.
func Load(paths Paths, logger *slog.Logger) (*Corpus, error) {
	logger = logging.NewComponentLogger(logger, "sources")

	var captions map[string]captionEntry
	if err := readJSON(paths.CaptionFile, "caption corpus", &captions); err != nil {
		return nil, err
	}

	var rawSplits map[string]string
	if err := readJSON(paths.SplitFile, "split file", &rawSplits); err != nil {
		return nil, err
	}

	var entities map[string]entityEntry
	if err := readJSON(paths.EntityAnnotFile, "entity annotations", &entities); err != nil {
		return nil, err
	}

	var srl []srlEntry
	if err := readJSON(paths.SRLFile, "srl predictions", &srl); err != nil {
		return nil, err
	}

	splits := make(map[string]asrl.Split, len(rawSplits))
	for videoID, name := range rawSplits {
		switch asrl.Split(name) {
		case asrl.SplitTrain, asrl.SplitVal:
			splits[videoID] = asrl.Split(name)
		default:
			return nil, stageerr.Wrap(stageerr.ErrConfiguration, "load", "parse splits",
				fmt.Sprintf("video %s has unknown split %q", videoID, name), nil)
		}
	}

	corpus := &Corpus{Splits: splits}
	merged := make(map[string]*Record)

	for _, entry := range srl {
		videoID, segIdx, err := asrl.ParseSegmentID(entry.VidSeg)
		if err != nil {
			corpus.DroppedSRL++
			logger.Warn("dropping malformed srl record",
				logging.String(logging.FieldEventType, "srl_record_dropped"),
				logging.String("vid_seg", entry.VidSeg),
				logging.Error(err))
			continue
		}

		record, ok := merged[entry.VidSeg]
		if !ok {
			record, err = mergeRecord(videoID, segIdx, captions, entities)
			if err != nil {
				corpus.DroppedSRL++
				logger.Warn("dropping srl record without matching annotation",
					logging.String(logging.FieldEventType, "srl_record_dropped"),
					logging.String("vid_seg", entry.VidSeg),
					logging.Error(err))
				continue
			}
			merged[entry.VidSeg] = record
		}
		record.Verbs = append(record.Verbs, entry.Verbs...)
	}

	corpus.Records = make([]Record, 0, len(merged))
	for _, record := range merged {
		corpus.Records = append(corpus.Records, *record)
	}
	sort.Slice(corpus.Records, func(i, j int) bool {
		a, b := corpus.Records[i], corpus.Records[j]
		if a.VideoID != b.VideoID {
			return a.VideoID < b.VideoID
		}
		return a.SegIdx < b.SegIdx
	})

	logger.Info("merged annotation sources",
		logging.Int("records", len(corpus.Records)),
		logging.Int("dropped_srl", corpus.DroppedSRL),
		logging.Int("videos_with_split", len(corpus.Splits)))

	return corpus, nil
}

func mergeRecord(videoID string, segIdx int, captions map[string]captionEntry, entities map[string]entityEntry) (*Record, error) {
	caption, ok := captions[videoID]
	if !ok {
		return nil, stageerr.Wrap(stageerr.ErrSchemaMismatch, "load", "join captions",
			fmt.Sprintf("video %s has no caption entry", videoID), nil)
	}
	if segIdx >= len(caption.Timestamps) {
		return nil, stageerr.Wrap(stageerr.ErrSchemaMismatch, "load", "join captions",
			fmt.Sprintf("video %s has no timestamp for segment %d", videoID, segIdx), nil)
	}

	entity, ok := entities[videoID]
	if !ok {
		return nil, stageerr.Wrap(stageerr.ErrSchemaMismatch, "load", "join entities",
			fmt.Sprintf("video %s has no entity entry", videoID), nil)
	}
	segKey := fmt.Sprintf("%d", segIdx)
	entSeg, ok := entity.Segments[segKey]
	if !ok {
		return nil, stageerr.Wrap(stageerr.ErrSchemaMismatch, "load", "join entities",
			fmt.Sprintf("video %s has no entity segment %d", videoID, segIdx), nil)
	}

	start, end := caption.Timestamps[segIdx][0], caption.Timestamps[segIdx][1]
	// A handful of caption records carry reversed intervals; swap instead of
	// dropping them.
	if start > end {
		start, end = end, start
	}

	sentence := ""
	if segIdx < len(caption.Sentences) {
		sentence = caption.Sentences[segIdx]
	}

	return &Record{
		VideoID:   videoID,
		SegIdx:    segIdx,
		Start:     start,
		End:       end,
		Duration:  caption.Duration,
		Caption:   sentence,
		Proposals: convertBoxes(entSeg.Proposals),
		GTBoxes:   convertBoxes(entSeg.GTBoxes),
	}, nil
}

func convertBoxes(boxes []entityBox) []asrl.Proposal {
	if len(boxes) == 0 {
		return nil
	}
	out := make([]asrl.Proposal, len(boxes))
	for i, box := range boxes {
		out[i] = asrl.Proposal{
			Box:      asrl.Box{X1: box.Box[0], Y1: box.Box[1], X2: box.Box[2], Y2: box.Box[3]},
			FrameIdx: box.FrmIdx,
			Label:    box.Label,
			Score:    box.Score,
		}
	}
	return out
}

func readJSON(path, describe string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stageerr.Wrap(stageerr.ErrMissingSource, "load", "open "+describe, path, nil)
		}
		return stageerr.Wrap(stageerr.ErrMissingSource, "load", "read "+describe, path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return stageerr.Wrap(stageerr.ErrConfiguration, "load", "parse "+describe, path, err)
	}
	return nil
}
