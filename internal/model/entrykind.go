package model

//go:generate go tool stringer -type=EntryKind -trimprefix=Kind -output=entrykind_string.go

// EntryKind tags the variant held by an Entry.
type EntryKind int

const (
	_ EntryKind = iota // zero value is an invalid kind

	KindText
	KindOneLine
	KindBullet
	KindNumbered
	KindReversedNumbered
	KindPublication
	KindEducation
	KindExperience
	KindNormal
)

// TemplateName returns the template file stem of the kind, e.g. "ExperienceEntry".
func (k EntryKind) TemplateName() string {
	return k.String() + "Entry"
}

// HasDateRange reports whether entries of the kind carry start and end dates.
func (k EntryKind) HasDateRange() bool {
	switch k {
	case KindEducation, KindExperience, KindNormal:
		return true
	default:
		return false
	}
}

// discriminators lists the required keys per kind, in discrimination order.
var discriminators = []struct {
	kind     EntryKind
	required []string
}{
	{KindEducation, []string{"institution", "area"}},
	{KindExperience, []string{"company", "position"}},
	{KindPublication, []string{"title", "authors"}},
	{KindNormal, []string{"name"}},
	{KindOneLine, []string{"label", "details"}},
	{KindBullet, []string{"bullet"}},
	{KindNumbered, []string{"number"}},
	{KindReversedNumbered, []string{"reversed_number"}},
	{KindText, []string{"text"}},
}

// Kinds returns every entry kind in discrimination order.
func Kinds() []EntryKind {
	out := make([]EntryKind, len(discriminators))
	for i, d := range discriminators {
		out[i] = d.kind
	}

	return out
}
