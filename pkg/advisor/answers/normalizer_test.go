package answers

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		question string
		answer   string
		want     string
	}{
		{name: "terrain road", question: "terrain", answer: "mostly on the road", want: TerrainRoad},
		{name: "terrain tarmac", question: "terrain", answer: "tarmac only", want: TerrainRoad},
		{name: "terrain gravel", question: "terrain", answer: "gravel and dirt paths", want: TerrainGravel},
		{name: "terrain mtb", question: "terrain", answer: "singletrack in the mountains", want: TerrainMTB},
		{name: "terrain unknown", question: "terrain", answer: "on the moon", want: ""},
		{name: "light changing", question: "light_variation", answer: "it changes a lot in the woods", want: LightVariable},
		{name: "light sun and shade", question: "light_variation", answer: "sun then shade then sun", want: LightVariable},
		{name: "light stable", question: "light_variation", answer: "pretty constant all day", want: LightStable},
		{name: "light unknown", question: "light_variation", answer: "blue", want: ""},
		{name: "priority protection", question: "priority", answer: "I want my eyes protected", want: PriorityProtection},
		{name: "priority ventilation", question: "priority", answer: "my lenses fog up", want: PriorityVentilation},
		{name: "priority comfort", question: "priority", answer: "comfort on long rides", want: PriorityComfort},
		{name: "priority unknown", question: "priority", answer: "whatever", want: ""},
		{name: "unknown question key", question: "budget", answer: "cheap", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.question, tt.answer)
			if got != tt.want {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tt.question, tt.answer, got, tt.want)
			}
		})
	}
}

func TestDetectExclusion(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue string
		wantOk    bool
	}{
		{name: "no mirrored lenses", input: "no mirrored lenses", wantValue: "mirrored_lens", wantOk: true},
		{name: "without photochromic", input: "without photochromic", wantValue: "photochromic_lens", wantOk: true},
		{name: "avoid premium", input: "avoid premium", wantValue: "premium", wantOk: true},
		{name: "dont want full frame", input: "I don't want full frame", wantValue: "full_frame", wantOk: true},
		{name: "unknown value becomes slug", input: "no red frames", wantValue: "red_frames", wantOk: true},
		{name: "trailing punctuation", input: "no mirrored lenses!", wantValue: "mirrored_lens", wantOk: true},
		{name: "ordinary answer", input: "mostly road", wantValue: "", wantOk: false},
		{name: "bare negation", input: "no ", wantValue: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := DetectExclusion(tt.input)
			if ok != tt.wantOk {
				t.Fatalf("DetectExclusion(%q) ok = %v, want %v", tt.input, ok, tt.wantOk)
			}
			if value != tt.wantValue {
				t.Errorf("DetectExclusion(%q) = %q, want %q", tt.input, value, tt.wantValue)
			}
		})
	}
}
