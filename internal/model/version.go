package model

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"rendercv/internal/common"
	"rendercv/internal/diagnostic"
)

// VersionNamePattern is the accepted syntax of version names.
const VersionNamePattern = `^[A-Za-z0-9_-]+$`

var versionName = regexp.MustCompile(VersionNamePattern)

// Version is a named tag filter over the entries of the CV.
type Version struct {
	Name    string
	Include []string
	Exclude []string
}

// Keep reports whether an entry with the given tags survives the filter.
// Exclusion wins over inclusion.
func (v Version) Keep(tags []string) bool {
	if common.Intersects(tags, v.Exclude) {
		return false
	}

	if v.Include != nil {
		return common.Intersects(tags, v.Include)
	}

	return true
}

func (b *binder) bindVersions(n *yaml.Node, path diagnostic.Path) []Version {
	if isNull(n) {
		return nil
	}

	n = deref(n)
	if n.Kind != yaml.SequenceNode {
		b.diags.AddError(path, diagnostic.KindType, "Expected a list of versions.", inputOf(n))
		return nil
	}

	out := make([]Version, 0, len(n.Content))
	seen := map[string]struct{}{}

	for i, item := range n.Content {
		at := path.Index(i)
		if !b.mapping(item, at) {
			continue
		}

		v, ok := b.bindVersion(item, at)

		if v.Name != "" {
			if _, dup := seen[v.Name]; dup {
				b.diags.AddError(at.Child("name"), diagnostic.KindDuplicate,
					fmt.Sprintf("Version %q is defined more than once.", v.Name), v.Name)

				ok = false
			}

			seen[v.Name] = struct{}{}
		}

		if ok {
			out = append(out, v)
		}
	}

	return out
}

func (b *binder) bindVersion(n *yaml.Node, at diagnostic.Path) (Version, bool) {
	var v Version

	ok := true

	for _, p := range pairs(n) {
		pa := at.Child(p.key)

		switch p.key {
		case "name":
			name, good := b.str(p.value, pa)
			if good && !versionName.MatchString(name) {
				b.diags.AddError(pa, diagnostic.KindValue,
					"Version names may only contain letters, digits, underscores and hyphens.", name)

				good = false
			}

			v.Name, ok = name, ok && good

		case "include", "exclude":
			tags, good := b.strList(p.value, pa)
			if good && len(tags) == 0 {
				b.diags.AddError(pa, diagnostic.KindValue, fmt.Sprintf("%s must list at least one tag.", p.key), "[]")
				good = false
			}

			if p.key == "include" {
				v.Include = tags
			} else {
				v.Exclude = tags
			}

			ok = ok && good

		default:
			b.unknown(p, at, []string{"name", "include", "exclude"})
			ok = false
		}
	}

	if !hasKey(n, "name") {
		b.diags.AddError(at.Child("name"), diagnostic.KindMissing, `Field "name" is required.`, "")
		ok = false
	}

	if !hasKey(n, "include") && !hasKey(n, "exclude") {
		b.diags.AddError(at, diagnostic.KindValue, "A version needs include, exclude or both.", inputOf(n))
		ok = false
	}

	return v, ok
}
