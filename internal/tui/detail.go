package tui

import (
	"strings"

	"github.com/jask/holocron/internal/catalog"
)

type detailField struct {
	label string
	value func(catalog.Item) string
	unit  string
}

var detailFields = []detailField{
	{"Height", func(it catalog.Item) string { return it.Height }, "cm"},
	{"Mass", func(it catalog.Item) string { return it.Mass }, "kg"},
	{"Hair Color", func(it catalog.Item) string { return it.HairColor }, ""},
	{"Skin Color", func(it catalog.Item) string { return it.SkinColor }, ""},
	{"Eye Color", func(it catalog.Item) string { return it.EyeColor }, ""},
	{"Birth Year", func(it catalog.Item) string { return it.BirthYear }, ""},
	{"Gender", func(it catalog.Item) string { return it.Gender }, ""},
}

// renderDetail renders the fixed attribute set of it.
func renderDetail(it catalog.Item) string {
	lines := make([]string, 0, len(detailFields)+2)
	lines = append(lines, detailHeadStyle.Render(it.Name), "")
	for _, f := range detailFields {
		lines = append(lines, detailLabelStyle.Render(f.label+": ")+withUnit(f.value(it), f.unit))
	}
	return strings.Join(lines, "\n")
}

// withUnit appends unit unless v is a placeholder the API uses for
// missing data.
func withUnit(v, unit string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "unknown", "n/a", "none":
		if v == "" {
			return "unknown"
		}
		return v
	}
	if unit == "" {
		return v
	}
	return v + " " + unit
}
