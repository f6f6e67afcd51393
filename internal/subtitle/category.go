package subtitle

import (
	"fmt"
	"strings"
)

// kind of content a cue carries
type Category int

const (
	CategoryDialogue Category = iota
	CategorySound
	CategoryMusic
	CategoryOnscreen
)

var categoryNames = [...]string{
	CategoryDialogue: "dialogue",
	CategorySound:    "sound",
	CategoryMusic:    "music",
	CategoryOnscreen: "onscreen",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// empty string maps to dialogue
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryDialogue, nil
	}
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return CategoryDialogue, fmt.Errorf("unknown cue category: %q", s)
}
