package portfolio

import (
	"slices"
	"sort"
	"time"
)

// NoDescription is shown for repositories without a description
const NoDescription = "No description available"

// Repository is one card of the portfolio
type Repository struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Homepage     string   `json:"homepage,omitempty"`
	HTMLURL      string   `json:"html_url"`
	Technologies []string `json:"technologies"`
	Stars        int      `json:"stars"`
	Language     string   `json:"language,omitempty"`
}

// HasTechnology reports whether tech was detected for the repository
func (r Repository) HasTechnology(tech string) bool {
	return slices.Contains(r.Technologies, tech)
}

// Snapshot is the result of one fetch cycle
type Snapshot struct {
	User         string       `json:"user"`
	FetchedAt    time.Time    `json:"fetched_at"`
	Technologies []string     `json:"technologies"`
	Repositories []Repository `json:"repositories"`
}

// NewSnapshot bundles repos with the technology set derived from them
func NewSnapshot(user string, repos []Repository, fetchedAt time.Time) Snapshot {
	if repos == nil {
		repos = []Repository{}
	}
	return Snapshot{
		User:         user,
		FetchedAt:    fetchedAt.UTC(),
		Technologies: Technologies(repos),
		Repositories: repos,
	}
}

// Technologies returns the sorted union of every repository's tags
func Technologies(repos []Repository) []string {
	seen := make(map[string]struct{})
	techs := []string{}
	for _, repo := range repos {
		for _, tech := range repo.Technologies {
			if _, ok := seen[tech]; ok {
				continue
			}
			seen[tech] = struct{}{}
			techs = append(techs, tech)
		}
	}
	sort.Strings(techs)
	return techs
}

// Languages returns the sorted, distinct primary languages of repos
func Languages(repos []Repository) []string {
	languages := []string{}
	for _, repo := range repos {
		if repo.Language != "" && !slices.Contains(languages, repo.Language) {
			languages = append(languages, repo.Language)
		}
	}
	sort.Strings(languages)
	return languages
}
