package subtitle

import (
	"strings"
	"testing"
	"time"
)

func TestValidateTrack(t *testing.T) {
	tests := []struct {
		name    string
		cues    []Cue
		wantErr string
	}{
		{name: "empty"},
		{
			name: "abutting",
			cues: []Cue{{Start: 0, End: time.Second}, {Start: time.Second, End: 2 * time.Second}},
		},
		{
			name:    "zero length",
			cues:    []Cue{{Start: time.Second, End: time.Second}},
			wantErr: "cue 0",
		},
		{
			name:    "overlap",
			cues:    []Cue{{Start: 0, End: 2 * time.Second}, {Start: time.Second, End: 3 * time.Second}},
			wantErr: "overlaps",
		},
		{
			name:    "unsorted",
			cues:    []Cue{{Start: 5 * time.Second, End: 6 * time.Second}, {Start: 0, End: time.Second}},
			wantErr: "precedes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTrack(tt.cues)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"", CategoryDialogue, false},
		{"Dialogue", CategoryDialogue, false},
		{" music ", CategoryMusic, false},
		{"sound", CategorySound, false},
		{"onscreen", CategoryOnscreen, false},
		{"lyrics", CategoryDialogue, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCloneCopiesMeta(t *testing.T) {
	orig := Cue{Meta: map[string]string{"style": "Default"}}
	cp := orig.Clone()
	cp.Meta["style"] = "Italic"
	if orig.Meta["style"] != "Default" {
		t.Error("Clone shared the Meta map with the original")
	}
}

func TestSecondsRoundsToMillis(t *testing.T) {
	if got := Seconds(1.225); got != 1225*time.Millisecond {
		t.Errorf("Seconds(1.225) = %v, want 1.225s", got)
	}
	if got := Seconds(23.656); got != 23656*time.Millisecond {
		t.Errorf("Seconds(23.656) = %v, want 23.656s", got)
	}
}
