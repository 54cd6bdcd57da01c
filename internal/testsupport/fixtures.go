package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteJSON marshals value and writes it to path, creating parent directories.
func WriteJSON(t testing.TB, path string, value any) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteCorpus writes the standard four-file annotation fixture into dir:
// two train segments and one val segment, plus one orphan SRL record whose
// video has no caption entry.
func WriteCorpus(t testing.TB, dir string) {
	t.Helper()

	WriteJSON(t, filepath.Join(dir, "captions.json"), map[string]any{
		"v_train1": map[string]any{
			"duration":   40.0,
			"timestamps": [][]float64{{0, 10}, {15, 25}},
			"sentences": []string{
				"A man runs with a dog in the park.",
				"The man watches the dog.",
			},
		},
		"v_val1": map[string]any{
			"duration":   30.0,
			"timestamps": [][]float64{{0, 15}},
			"sentences":  []string{"A woman throws a ball."},
		},
	})

	WriteJSON(t, filepath.Join(dir, "splits.json"), map[string]string{
		"v_train1": "train",
		"v_val1":   "val",
	})

	WriteJSON(t, filepath.Join(dir, "entities.json"), map[string]any{
		"v_train1": map[string]any{
			"segments": map[string]any{
				"0": map[string]any{
					"proposals": []map[string]any{
						{"label": "man", "box": []float64{0, 0, 100, 200}, "frm_idx": 2, "score": 0.92},
						{"label": "dog", "box": []float64{50, 40, 120, 90}, "frm_idx": 3, "score": 0.81},
						{"label": "man", "box": []float64{10, 10, 40, 60}, "frm_idx": 4, "score": 0.55},
						{"label": "__background__", "box": []float64{0, 0, 720, 405}, "frm_idx": 2, "score": 0.90},
						{"label": "park", "box": []float64{0, 0, 720, 405}, "frm_idx": 5, "score": 0.10},
					},
					"gt_boxes": []map[string]any{
						{"label": "man", "box": []float64{0, 0, 100, 200}, "frm_idx": 2},
						{"label": "dog", "box": []float64{50, 40, 120, 90}, "frm_idx": 3},
					},
				},
				"1": map[string]any{
					"proposals": []map[string]any{
						{"label": "man", "box": []float64{5, 5, 110, 210}, "frm_idx": 1, "score": 0.88},
						{"label": "dog", "box": []float64{60, 50, 130, 95}, "frm_idx": 6, "score": 0.76},
					},
					"gt_boxes": []map[string]any{
						{"label": "man", "box": []float64{5, 5, 110, 210}, "frm_idx": 1},
					},
				},
			},
		},
		"v_val1": map[string]any{
			"segments": map[string]any{
				"0": map[string]any{
					"proposals": []map[string]any{
						{"label": "woman", "box": []float64{20, 10, 90, 180}, "frm_idx": 4, "score": 0.90},
						{"label": "ball", "box": []float64{100, 60, 130, 90}, "frm_idx": 4, "score": 0.70},
					},
					"gt_boxes": []map[string]any{
						{"label": "woman", "box": []float64{20, 10, 90, 180}, "frm_idx": 4},
						{"label": "ball", "box": []float64{100, 60, 130, 90}, "frm_idx": 4},
					},
				},
			},
		},
	})

	WriteJSON(t, filepath.Join(dir, "srl.json"), []map[string]any{
		{
			"vid_seg": "v_train1_segment_00",
			"verbs": []map[string]any{
				{"verb": "running", "roles": map[string]string{"ARG0": "a man", "ARGM-LOC": "in the park"}},
				{"verb": "seeing", "roles": map[string]string{"ARG0": "the man", "ARG1": "a dog"}},
			},
		},
		{
			"vid_seg": "v_train1_segment_01",
			"verbs": []map[string]any{
				{"verb": "watches", "roles": map[string]string{"ARG0": "the man", "ARG1": "the dog"}},
			},
		},
		{
			"vid_seg": "v_val1_segment_00",
			"verbs": []map[string]any{
				{"verb": "throwing", "roles": map[string]string{"ARG0": "a woman", "ARG1": "a ball"}},
			},
		},
		{
			"vid_seg": "v_orphan_segment_00",
			"verbs": []map[string]any{
				{"verb": "jumping", "roles": map[string]string{"ARG0": "a cat"}},
			},
		},
	})
}
