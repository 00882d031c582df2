package portfolio

import "slices"

// FilterAll selects every repository
const FilterAll = "all"

// Filter returns the repositories tagged with key or whose language equals
// key. FilterAll returns repos unchanged.
func Filter(repos []Repository, key string) []Repository {
	if key == FilterAll {
		return repos
	}

	filtered := []Repository{}
	for _, repo := range repos {
		if repo.HasTechnology(key) || repo.Language == key {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}

// Portfolio holds one fetched batch together with the active filter. The
// batch is written once by New and only read afterwards.
type Portfolio struct {
	repos        []Repository
	technologies []string
	languages    []string
	active       string
}

// New creates a Portfolio with FilterAll active
func New(repos []Repository) *Portfolio {
	return &Portfolio{
		repos:        repos,
		technologies: Technologies(repos),
		languages:    Languages(repos),
		active:       FilterAll,
	}
}

// Repositories returns the full batch
func (p *Portfolio) Repositories() []Repository {
	return p.repos
}

// Technologies returns the keys of the technology filter buttons
func (p *Portfolio) Technologies() []string {
	return p.technologies
}

// Languages returns the primary languages present in the batch
func (p *Portfolio) Languages() []string {
	return p.languages
}

// IsLanguage reports whether key selects by primary language only, that is
// it names a language of the batch but no technology tag
func (p *Portfolio) IsLanguage(key string) bool {
	return slices.Contains(p.languages, key) && !slices.Contains(p.technologies, key)
}

// Active returns the active filter key
func (p *Portfolio) Active() string {
	return p.active
}

// Select makes key the active filter and returns the matching repositories.
// A key naming neither a tag nor a language of the batch falls back to
// FilterAll.
func (p *Portfolio) Select(key string) []Repository {
	if !slices.Contains(p.technologies, key) && !slices.Contains(p.languages, key) {
		key = FilterAll
	}
	p.active = key
	return Filter(p.repos, key)
}
