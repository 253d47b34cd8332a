package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Network names a supported social network.
type Network string

const (
	LinkedIn      Network = "LinkedIn"
	GitHub        Network = "GitHub"
	GitLab        Network = "GitLab"
	IMDB          Network = "IMDB"
	Instagram     Network = "Instagram"
	ORCID         Network = "ORCID"
	Mastodon      Network = "Mastodon"
	StackOverflow Network = "StackOverflow"
	ResearchGate  Network = "ResearchGate"
	YouTube       Network = "YouTube"
	GoogleScholar Network = "Google Scholar"
	Telegram      Network = "Telegram"
	Leetcode      Network = "Leetcode"
	X             Network = "X"
)

var (
	ErrUnknownNetwork  = errors.New("unknown social network")
	ErrInvalidUsername = errors.New("invalid username")
)

type networkRule struct {
	name    Network
	pattern *regexp.Regexp
	hint    string
	url     func(username string) string
}

func prefixed(base string) func(string) string {
	return func(u string) string { return base + u }
}

var plainUsername = regexp.MustCompile(`^[^\s/]+$`)

var networkRules = []networkRule{
	{LinkedIn, plainUsername, "", prefixed("https://linkedin.com/in/")},
	{GitHub, plainUsername, "", prefixed("https://github.com/")},
	{GitLab, plainUsername, "", prefixed("https://gitlab.com/")},
	{IMDB, regexp.MustCompile(`^nm\d{7,8}$`), "nm followed by seven digits, for example nm0000001", prefixed("https://imdb.com/name/")},
	{Instagram, plainUsername, "", prefixed("https://instagram.com/")},
	{ORCID, regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`), "NNNN-NNNN-NNNN-NNNN, for example 0000-0000-0000-0000", prefixed("https://orcid.org/")},
	{Mastodon, regexp.MustCompile(`^@[^@\s/]+@[^@\s/]+\.[^@\s/]+$`), "@user@domain, for example @johndoe@mastodon.social", mastodonURL},
	{StackOverflow, regexp.MustCompile(`^\d+/[^\s/]+$`), "user-id/slug, for example 12323/johndoe", prefixed("https://stackoverflow.com/users/")},
	{ResearchGate, plainUsername, "", prefixed("https://researchgate.net/profile/")},
	{YouTube, regexp.MustCompile(`^[^@\s/][^\s/]*$`), "the channel handle without the leading @", prefixed("https://youtube.com/@")},
	{GoogleScholar, plainUsername, "", prefixed("https://scholar.google.com/citations?user=")},
	{Telegram, plainUsername, "", prefixed("https://t.me/")},
	{Leetcode, plainUsername, "", prefixed("https://leetcode.com/u/")},
	{X, plainUsername, "", prefixed("https://x.com/")},
}

func mastodonURL(u string) string {
	user, domain, _ := strings.Cut(strings.TrimPrefix(u, "@"), "@")
	return "https://" + domain + "/@" + user
}

// Networks returns the supported network names in declaration order.
func Networks() []string {
	out := make([]string, len(networkRules))
	for i, r := range networkRules {
		out[i] = string(r.name)
	}

	return out
}

func ruleFor(n Network) (networkRule, bool) {
	for _, r := range networkRules {
		if r.name == n {
			return r, true
		}
	}

	return networkRule{}, false
}

// SocialNetwork is a profile on one of the supported networks.
type SocialNetwork struct {
	Network  Network
	Username string
}

// NewSocialNetwork validates the username against the network's format.
func NewSocialNetwork(network, username string) (SocialNetwork, error) {
	r, ok := ruleFor(Network(network))
	if !ok {
		return SocialNetwork{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, network)
	}

	if !r.pattern.MatchString(username) {
		if r.hint == "" {
			return SocialNetwork{}, fmt.Errorf("%w: %s usernames cannot contain spaces or slashes", ErrInvalidUsername, network)
		}

		return SocialNetwork{}, fmt.Errorf("%w: %s usernames look like %s", ErrInvalidUsername, network, r.hint)
	}

	return SocialNetwork{Network: r.name, Username: username}, nil
}

// URL returns the profile URL.
func (s SocialNetwork) URL() string {
	r, ok := ruleFor(s.Network)
	if !ok {
		return ""
	}

	return r.url(s.Username)
}
