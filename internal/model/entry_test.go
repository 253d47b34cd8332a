package model

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendercv/internal/locale"
	"rendercv/internal/primitive"
)

func date(t *testing.T, raw any) primitive.Date {
	t.Helper()

	d, err := primitive.ParseDate(raw, true)
	require.NoError(t, err)

	return d
}

func TestEntryKind(t *testing.T) {
	assert.Equal(t, "ReversedNumbered", KindReversedNumbered.String())
	assert.Equal(t, "ExperienceEntry", KindExperience.TemplateName())
	assert.Equal(t, "EntryKind(0)", EntryKind(0).String())
	assert.True(t, KindNormal.HasDateRange())
	assert.False(t, KindPublication.HasDateRange())
}

func TestSocialNetwork_URL(t *testing.T) {
	tests := []struct {
		network  string
		username string
		url      string
	}{
		{"LinkedIn", "johndoe", "https://linkedin.com/in/johndoe"},
		{"GitHub", "johndoe", "https://github.com/johndoe"},
		{"GitLab", "johndoe", "https://gitlab.com/johndoe"},
		{"IMDB", "nm0000001", "https://imdb.com/name/nm0000001"},
		{"Instagram", "johndoe", "https://instagram.com/johndoe"},
		{"ORCID", "0000-0002-1825-009X", "https://orcid.org/0000-0002-1825-009X"},
		{"Mastodon", "@alice@example.org", "https://example.org/@alice"},
		{"StackOverflow", "12323/johndoe", "https://stackoverflow.com/users/12323/johndoe"},
		{"ResearchGate", "John-Doe", "https://researchgate.net/profile/John-Doe"},
		{"YouTube", "johndoe", "https://youtube.com/@johndoe"},
		{"Google Scholar", "abcDEF123", "https://scholar.google.com/citations?user=abcDEF123"},
		{"Telegram", "johndoe", "https://t.me/johndoe"},
		{"Leetcode", "johndoe", "https://leetcode.com/u/johndoe"},
		{"X", "johndoe", "https://x.com/johndoe"},
	}

	require.Len(t, tests, len(Networks()), "every network is covered")

	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			sn, err := NewSocialNetwork(tt.network, tt.username)
			require.NoError(t, err)

			u := sn.URL()
			assert.Equal(t, tt.url, u)
			assert.Regexp(t, regexp.MustCompile(`^https://[^\s]+$`), u)
		})
	}
}

func TestSocialNetwork_Invalid(t *testing.T) {
	tests := []struct {
		network  string
		username string
		err      error
	}{
		{"Mastodon", "invalidmastodon", ErrInvalidUsername},
		{"Mastodon", "@alice", ErrInvalidUsername},
		{"StackOverflow", "johndoe", ErrInvalidUsername},
		{"ORCID", "0000-0002-1825", ErrInvalidUsername},
		{"IMDB", "johndoe", ErrInvalidUsername},
		{"YouTube", "@johndoe", ErrInvalidUsername},
		{"GitHub", "john doe", ErrInvalidUsername},
		{"MySpace", "johndoe", ErrUnknownNetwork},
		{"github", "johndoe", ErrUnknownNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.network+"/"+tt.username, func(t *testing.T) {
			_, err := NewSocialNetwork(tt.network, tt.username)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPhone(t *testing.T) {
	e164, err := ParsePhone("+90 541 999 99 99")
	require.NoError(t, err)
	assert.Equal(t, "+905419999999", e164)

	assert.Equal(t, "+90 541 999 99 99", FormatPhone(e164, locale.PhoneInternational))
	assert.Equal(t, "+905419999999", FormatPhone(e164, locale.PhoneE164))

	national := FormatPhone(e164, locale.PhoneNational)
	assert.NotContains(t, national, "+90")
	assert.Contains(t, national, "541")

	for _, raw := range []string{"5419999999", "+90", "+abc"} {
		_, err := ParsePhone(raw)
		assert.ErrorIs(t, err, ErrInvalidPhone, raw)
	}
}

func experience(t *testing.T, company string, start, end any) Entry {
	t.Helper()

	e := ExperienceEntry{Company: company, Position: "Engineer"}
	if start != nil {
		e.Start = date(t, start)
	}

	if end != nil {
		e.End = date(t, end)
	}

	return NewExperience(e)
}

func companies(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Experience.Company
	}

	return out
}

func TestSort(t *testing.T) {
	today := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		experience(t, "undated-1", nil, nil),
		experience(t, "2015-2017", 2015, 2017),
		experience(t, "2018-present", 2018, "present"),
		experience(t, "undated-2", nil, nil),
		experience(t, "2020-2022", 2020, 2022),
		experience(t, "2016-2017", 2016, "2017"),
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortNone, []string{"undated-1", "2015-2017", "2018-present", "undated-2", "2020-2022", "2016-2017"}},
		{SortReverseChronological, []string{"2018-present", "2020-2022", "2015-2017", "2016-2017", "undated-1", "undated-2"}},
		{SortChronological, []string{"undated-1", "undated-2", "2015-2017", "2016-2017", "2020-2022", "2018-present"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			sorted := Sort(entries, tt.order, today)
			assert.Equal(t, tt.want, companies(sorted))
			assert.Equal(t, tt.want, companies(Sort(sorted, tt.order, today)), "sorting is idempotent")
		})
	}

	assert.Equal(t, "undated-1", entries[0].Experience.Company, "input is not modified")
}

func TestSort_PresentFollowsCurrentDate(t *testing.T) {
	src := `
cv:
  name: J
  sections:
    experience:
      - company: Current
        position: Engineer
        start_date: 2018
        end_date: present
      - company: Previous
        position: Engineer
        start_date: 2016
        end_date: 2022
settings:
  sort_entries: reverse-chronological
  current_date: DATE
`
	tests := []struct {
		current string
		want    []string
	}{
		{"2024-01-01", []string{"Current", "Previous"}},
		{"2019-01-01", []string{"Previous", "Current"}},
	}

	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			root := mustBuild(t, strings.Replace(src, "DATE", tt.current, 1))

			sorted, err := root.ForVersion("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, companies(sorted.CV.Sections[0].Entries))
		})
	}
}

func TestFilter(t *testing.T) {
	entries := []Entry{
		NewText("industry", "industry"),
		NewText("research", "research"),
		NewText("both", "industry", "research"),
		NewText("untagged"),
	}

	texts := func(es []Entry) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = e.Text.Content
		}

		return out
	}

	tests := []struct {
		name    string
		version Version
		want    []string
	}{
		{"include", Version{Include: []string{"research"}}, []string{"research", "both"}},
		{"exclude", Version{Exclude: []string{"research"}}, []string{"industry", "untagged"}},
		{"exclude wins", Version{Include: []string{"industry"}, Exclude: []string{"research"}}, []string{"industry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := Filter(entries, tt.version)
			assert.Equal(t, tt.want, texts(once))
			assert.Equal(t, texts(once), texts(Filter(once, tt.version)), "filtering is idempotent")
		})
	}
}

func TestDates_SortKey(t *testing.T) {
	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	_, ok := Dates{}.SortKey(today)
	assert.False(t, ok)

	key, ok := Dates{Start: date(t, 2020), End: date(t, "present")}.SortKey(today)
	require.True(t, ok)
	assert.Equal(t, today, key)

	key, ok = Dates{Start: date(t, 2020), End: date(t, 2021), Date: date(t, "2010-05")}.SortKey(today)
	require.True(t, ok)
	assert.Equal(t, time.Date(2010, time.May, 1, 0, 0, 0, 0, time.UTC), key)
}
