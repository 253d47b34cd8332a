package model

import (
	"errors"
	"fmt"
	"net/mail"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"rendercv/internal/diagnostic"
	"rendercv/internal/primitive"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrNotAnImage   = errors.New("photo must be a PNG, JPEG, GIF or SVG file")
)

var cvKeys = []string{
	"name", "label", "location", "email", "phone", "website", "photo", "social_networks", "sections",
}

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".svg"}

var snakeKey = regexp.MustCompile(`^[a-z0-9_]+$`)

var titleCaser = cases.Title(language.English)

// CV is the personal information and the content of the document.
type CV struct {
	Name     string
	Label    string
	Location string
	Email    string
	// Phone is kept in E.164 form and formatted when rendering.
	Phone   string
	Website string
	// Photo is the absolute path of the photo file.
	Photo          string
	SocialNetworks []SocialNetwork
	Sections       []Section
}

// Section is a titled, ordered list of entries of a single kind.
type Section struct {
	Key     string
	Title   string
	Kind    EntryKind
	Entries []Entry
}

// SectionTitle derives the display title of a section key. snake_case keys
// are title-cased; any other key is used verbatim.
func SectionTitle(key string) string {
	if !snakeKey.MatchString(key) {
		return key
	}

	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

func (b *binder) bindCV(n *yaml.Node, path diagnostic.Path) CV {
	var cv CV
	if !b.mapping(n, path) {
		return cv
	}

	if !hasKey(n, "name") {
		b.diags.AddError(path.Child("name"), diagnostic.KindMissing, `Field "name" is required.`, "")
	}

	for _, p := range pairs(n) {
		at := path.Child(p.key)

		if isNull(p.value) && p.key != "name" {
			continue
		}

		switch p.key {
		case "name":
			cv.Name, _ = b.str(p.value, at)
		case "label":
			cv.Label, _ = b.str(p.value, at)
		case "location":
			cv.Location, _ = b.str(p.value, at)
		case "email":
			cv.Email = b.bindEmail(p.value, at)
		case "phone":
			cv.Phone = b.bindPhone(p.value, at)
		case "website":
			if v, ok := b.str(p.value, at); ok {
				if err := checkURL(v); err != nil {
					b.diags.AddCause(at, diagnostic.KindValue, err, v)
				} else {
					cv.Website = v
				}
			}
		case "photo":
			cv.Photo = b.bindPhoto(p.value, at)
		case "social_networks":
			cv.SocialNetworks = b.bindSocialNetworks(p.value, at)
		case "sections":
			cv.Sections = b.bindSections(p.value, at)
		default:
			b.unknown(p, path, cvKeys)
		}
	}

	return cv
}

func (b *binder) bindEmail(n *yaml.Node, at diagnostic.Path) string {
	v, ok := b.str(n, at)
	if !ok {
		return ""
	}

	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != strings.TrimSpace(v) {
		b.diags.AddCause(at, diagnostic.KindValue, fmt.Errorf("%w: %q", ErrInvalidEmail, v), v)
		return ""
	}

	return addr.Address
}

func (b *binder) bindPhone(n *yaml.Node, at diagnostic.Path) string {
	v, ok := b.str(n, at)
	if !ok {
		return ""
	}

	e164, err := ParsePhone(v)
	if err != nil {
		b.diags.AddCause(at, diagnostic.KindValue, err, v)
		return ""
	}

	return e164
}

func (b *binder) bindPhoto(n *yaml.Node, at diagnostic.Path) string {
	v, ok := b.str(n, at)
	if !ok {
		return ""
	}

	p, err := primitive.ExistingPath(v, b.inputDir)
	if err == nil && !slices.Contains(imageExts, strings.ToLower(filepath.Ext(p))) {
		err = fmt.Errorf("%w: %s", ErrNotAnImage, p)
	}

	if err != nil {
		b.diags.AddCause(at, diagnostic.KindValue, err, v)
		return ""
	}

	return p
}

func (b *binder) bindSocialNetworks(n *yaml.Node, path diagnostic.Path) []SocialNetwork {
	n = deref(n)
	if n.Kind != yaml.SequenceNode {
		b.diags.AddError(path, diagnostic.KindType, "Expected a list of social networks.", inputOf(n))
		return nil
	}

	out := make([]SocialNetwork, 0, len(n.Content))

	for i, item := range n.Content {
		at := path.Index(i)
		if !b.mapping(item, at) {
			continue
		}

		var network, username string

		for _, p := range pairs(item) {
			switch p.key {
			case "network":
				network, _ = b.str(p.value, at.Child(p.key))
			case "username":
				username, _ = b.str(p.value, at.Child(p.key))
			default:
				b.unknown(p, at, []string{"network", "username"})
			}
		}

		if !hasKey(item, "network") || !hasKey(item, "username") {
			for _, key := range []string{"network", "username"} {
				if !hasKey(item, key) {
					b.diags.AddError(at.Child(key), diagnostic.KindMissing, fmt.Sprintf("Field %q is required.", key), "")
				}
			}

			continue
		}

		sn, err := NewSocialNetwork(network, username)

		switch {
		case errors.Is(err, ErrUnknownNetwork):
			b.diags.AddUnknown(at.Child("network"), diagnostic.KindValue,
				fmt.Sprintf("%q is not a supported social network.", network), network, Networks())
		case err != nil:
			b.diags.AddCause(at.Child("username"), diagnostic.KindValue, err, username)
		default:
			out = append(out, sn)
		}
	}

	return out
}

func (b *binder) bindSections(n *yaml.Node, path diagnostic.Path) []Section {
	if !b.mapping(n, path) {
		return nil
	}

	seen := map[string]string{}
	out := make([]Section, 0, len(deref(n).Content)/2)

	for _, p := range pairs(n) {
		at := path.Child(p.key)
		title := SectionTitle(p.key)

		if prev, dup := seen[title]; dup {
			b.diags.AddError(at, diagnostic.KindDuplicate,
				fmt.Sprintf("Section title %q is already used by the section %q.", title, prev), p.key)

			continue
		}

		seen[title] = p.key

		if sec, ok := b.bindSection(p, title, at); ok {
			out = append(out, sec)
		}
	}

	return out
}

func (b *binder) bindSection(p pair, title string, at diagnostic.Path) (Section, bool) {
	items := p.value
	if isNull(items) || (items.Kind == yaml.SequenceNode && len(items.Content) == 0) {
		b.diags.AddError(at, diagnostic.KindValue, "A section must contain at least one entry.", "")
		return Section{}, false
	}

	if items.Kind != yaml.SequenceNode {
		b.diags.AddError(at, diagnostic.KindType, "Expected a list of entries.", inputOf(items))
		return Section{}, false
	}

	sec := Section{Key: p.key, Title: title}
	ok := true

	for i, item := range items.Content {
		ip := at.Index(i)

		kind, matched := kindOf(item)
		if !matched {
			b.diags.AddError(ip, diagnostic.KindType,
				"This entry does not match any entry type. Use a string or a mapping with the keys of one of: "+entryShapes()+".",
				inputOf(item))

			ok = false

			continue
		}

		if sec.Kind == 0 {
			sec.Kind = kind
		}

		if kind != sec.Kind {
			b.diags.AddError(ip, diagnostic.KindHeterogeneous,
				fmt.Sprintf("All entries of a section must have the same type. This section holds %s items, but this entry is a %s.",
					sec.Kind.TemplateName(), kind.TemplateName()),
				inputOf(item))

			ok = false

			continue
		}

		entry, good := b.bindEntry(item, kind, ip)
		if !good {
			ok = false
			continue
		}

		sec.Entries = append(sec.Entries, entry)
	}

	return sec, ok
}
