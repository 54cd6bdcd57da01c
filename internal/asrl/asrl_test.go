package asrl

import "testing"

func TestSegmentIDRoundTrip(t *testing.T) {
	id := SegmentID("v_QOlSCBRmfWY", 3)
	if id != "v_QOlSCBRmfWY_segment_03" {
		t.Fatalf("unexpected id: %q", id)
	}
	vid, seg, err := ParseSegmentID(id)
	if err != nil {
		t.Fatalf("ParseSegmentID: %v", err)
	}
	if vid != "v_QOlSCBRmfWY" || seg != 3 {
		t.Fatalf("unexpected parse result: %q %d", vid, seg)
	}
}

func TestParseSegmentIDHandlesUnderscoreVideoIDs(t *testing.T) {
	vid, seg, err := ParseSegmentID("v_ab_segment_cd_segment_12")
	if err != nil {
		t.Fatalf("ParseSegmentID: %v", err)
	}
	if vid != "v_ab_segment_cd" || seg != 12 {
		t.Fatalf("unexpected parse result: %q %d", vid, seg)
	}
}

func TestParseSegmentIDRejectsMalformed(t *testing.T) {
	for _, id := range []string{"", "v_abc", "_segment_01", "v_abc_segment_x", "v_abc_segment_-1"} {
		if _, _, err := ParseSegmentID(id); err == nil {
			t.Fatalf("expected error for %q", id)
		}
	}
}

func TestBoxArea(t *testing.T) {
	if got := (Box{X1: 10, Y1: 10, X2: 30, Y2: 20}).Area(); got != 200 {
		t.Fatalf("unexpected area: %v", got)
	}
	if got := (Box{X1: 30, Y1: 10, X2: 10, Y2: 20}).Area(); got != 0 {
		t.Fatalf("degenerate box should have zero area, got %v", got)
	}
}
