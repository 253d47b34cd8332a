package model

import (
	"fmt"
	"slices"
	"time"

	"rendercv/internal/common"
	"rendercv/internal/diagnostic"
)

// Sort returns the entries ordered by their date key. The sort is stable;
// entries without a date keep their relative order and go last in
// reverse-chronological order and first in chronological order.
func Sort(entries []Entry, order SortOrder, today time.Time) []Entry {
	out := common.Clone(entries)
	if order != SortReverseChronological && order != SortChronological {
		return out
	}

	keys := make(map[int]time.Time, len(out))
	idx := make([]int, len(out))

	for i, e := range out {
		idx[i] = i
		if k, ok := e.SortKey(today); ok {
			keys[i] = k
		}
	}

	slices.SortStableFunc(idx, func(a, b int) int {
		ka, okA := keys[a]
		kb, okB := keys[b]

		switch {
		case !okA && !okB:
			return 0
		case !okA:
			if order == SortReverseChronological {
				return 1
			}

			return -1
		case !okB:
			if order == SortReverseChronological {
				return -1
			}

			return 1
		case order == SortReverseChronological:
			return kb.Compare(ka)
		default:
			return ka.Compare(kb)
		}
	})

	sorted := make([]Entry, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}

	return sorted
}

// Filter returns the entries kept by v.
func Filter(entries []Entry, v Version) []Entry {
	out := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if v.Keep(e.Tags) {
			out = append(out, e)
		}
	}

	return out
}

// ForVersion returns a copy of r with every section filtered by the named
// version and sorted by settings.sort_entries. An empty name keeps every
// entry. Filtered sections may end up empty.
func (r *RenderCV) ForVersion(name string) (*RenderCV, error) {
	var (
		v      Version
		filter bool
	)

	if name != "" {
		var ok bool
		if v, ok = r.FindVersion(name); !ok {
			return nil, diagnostic.NewUserError(fmt.Sprintf("unknown version %q", name), nil)
		}

		filter = true
	}

	out := *r
	out.Version = name
	out.CV.Sections = make([]Section, len(r.CV.Sections))

	for i, s := range r.CV.Sections {
		entries := s.Entries
		if filter {
			entries = Filter(entries, v)
		}

		s.Entries = Sort(entries, r.Settings.SortEntries, r.Today)
		out.CV.Sections[i] = s
	}

	return &out, nil
}
