package tokens

import (
	"sort"
	"strings"
)

// ChangeKind says how a token differs between two snapshots
type ChangeKind string

// Change kinds
const (
	ChangeAdded   ChangeKind = "added"
	ChangeChanged ChangeKind = "changed"
	ChangeRemoved ChangeKind = "removed"
)

// Change is one token difference
type Change struct {
	Section string     `json:"section"` // "colors", "semantic", "radius", ...
	Name    string     `json:"name"`
	Kind    ChangeKind `json:"kind"`
	Old     string     `json:"old,omitempty"`
	New     string     `json:"new,omitempty"`
}

// Diff compares two snapshots section by section
func Diff(before, after *Snapshot) []Change {
	if before == nil {
		before = NewSnapshot("")
	}
	if after == nil {
		after = NewSnapshot("")
	}

	var changes []Change
	changes = append(changes, diffMaps("colors", colorMap(before), colorMap(after))...)
	changes = append(changes, diffMaps("semantic", semanticMap(before), semanticMap(after))...)
	changes = append(changes, diffMaps("radius", before.Radius, after.Radius)...)
	changes = append(changes, diffMaps("shadows", before.Shadows, after.Shadows)...)
	changes = append(changes, diffMaps("modes", modeMap(before), modeMap(after))...)
	changes = append(changes, diffMaps("typography", typographyMap(before), typographyMap(after))...)
	changes = append(changes, diffMaps("fonts", fontMap(before), fontMap(after))...)
	return changes
}

// diffMaps compares two name -> value maps, sorted by name for determinism
func diffMaps(section string, before, after map[string]string) []Change {
	var changes []Change

	for name, newValue := range after {
		oldValue, exists := before[name]
		switch {
		case !exists:
			changes = append(changes, Change{Section: section, Name: name, Kind: ChangeAdded, New: newValue})
		case oldValue != newValue:
			changes = append(changes, Change{Section: section, Name: name, Kind: ChangeChanged, Old: oldValue, New: newValue})
		}
	}
	for name, oldValue := range before {
		if _, exists := after[name]; !exists {
			changes = append(changes, Change{Section: section, Name: name, Kind: ChangeRemoved, Old: oldValue})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Name < changes[j].Name
	})
	return changes
}

func colorMap(s *Snapshot) map[string]string {
	m := make(map[string]string, len(s.Colors))
	for _, c := range s.Colors {
		m[c.Name] = c.Value
	}
	return m
}

func semanticMap(s *Snapshot) map[string]string {
	m := make(map[string]string, len(s.Semantic))
	for _, t := range s.Semantic {
		m[t.Name] = t.Reference
	}
	return m
}

// modeMap flattens overrides to "mode/token" keys
func modeMap(s *Snapshot) map[string]string {
	m := make(map[string]string)
	for _, mode := range s.Modes {
		for tok, ref := range mode.Overrides {
			m[mode.Name+"/"+tok] = ref
		}
	}
	return m
}

func typographyMap(s *Snapshot) map[string]string {
	m := make(map[string]string, len(s.Typography))
	for _, t := range s.Typography {
		parts := []string{t.FontFamilyID, t.FontSize, t.FontWeight, t.LineHeight, t.LetterSpacing, t.BaseColorID}
		parts = append(parts, t.Utilities...)
		m[t.Element] = strings.Join(parts, " ")
	}
	return m
}

func fontMap(s *Snapshot) map[string]string {
	m := make(map[string]string)
	for _, f := range s.Fonts {
		for _, file := range f.Files {
			m[f.Family+"/"+file.Path] = file.Weight + " " + file.Style
		}
	}
	return m
}
