// Package render turns portfolio repositories into HTML.
package render

import (
	"fmt"
	"html/template"
	"io"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/serper/portfolio/internal/portfolio"
	"github.com/serper/portfolio/internal/theme"
)

// ErrorMessage is the only failure text visitors see
const ErrorMessage = "An error occurred while loading projects. Please try again later."

// FilterButton is one entry of the technology filter bar
type FilterButton struct {
	Key    string
	Label  string
	Active bool
}

// Page is the data of a full portfolio document
type Page struct {
	User         string
	Theme        theme.Preference
	Active       string
	Filters      []FilterButton
	Repositories []portfolio.Repository
	Err          bool
	Year         int
	// Static drops the links and forms that need the server
	Static bool
}

// Renderer executes the portfolio templates
type Renderer struct {
	tmpl *template.Template
}

// New parses the templates
func New() (*Renderer, error) {
	tmpl, err := template.New("portfolio").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page writes a complete HTML document
func (r *Renderer) Page(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, "page", p)
}

// Cards writes one card per repository, or the "no results" placeholder
func (r *Renderer) Cards(w io.Writer, repos []portfolio.Repository) error {
	return r.tmpl.ExecuteTemplate(w, "cards", repos)
}

// Filters writes the filter bar
func (r *Renderer) Filters(w io.Writer, buttons []FilterButton) error {
	return r.tmpl.ExecuteTemplate(w, "filters", Page{Filters: buttons})
}

// NewPage selects key on p and builds the page showing the result
func NewPage(user string, p *portfolio.Portfolio, key string, pref theme.Preference) Page {
	repos := p.Select(key)
	buttons := FilterButtons(p.Technologies(), p.Active())
	if p.IsLanguage(p.Active()) {
		// A language has no button of its own; show it so one stays active
		buttons[0].Active = false
		buttons = append(buttons, FilterButton{Key: p.Active(), Label: p.Active(), Active: true})
	}
	return Page{
		User:         user,
		Theme:        pref,
		Active:       p.Active(),
		Filters:      buttons,
		Repositories: repos,
		Year:         time.Now().Year(),
	}
}

// ErrorPage builds the page shown when the repositories could not be loaded
func ErrorPage(user string, pref theme.Preference) Page {
	return Page{
		User:   user,
		Theme:  pref,
		Active: portfolio.FilterAll,
		Err:    true,
		Year:   time.Now().Year(),
	}
}

// FilterButtons returns the "all" button followed by one button per
// technology in alphabetical order. The button matching active is marked;
// when none matches, "all" is.
func FilterButtons(technologies []string, active string) []FilterButton {
	techs := slices.Clone(technologies)
	sort.Strings(techs)
	techs = slices.Compact(techs)
	techs = slices.DeleteFunc(techs, func(t string) bool { return t == portfolio.FilterAll })

	if active != portfolio.FilterAll && !slices.Contains(techs, active) {
		active = portfolio.FilterAll
	}

	buttons := make([]FilterButton, 0, len(techs)+1)
	buttons = append(buttons, FilterButton{
		Key:    portfolio.FilterAll,
		Label:  Label(portfolio.FilterAll),
		Active: active == portfolio.FilterAll,
	})
	for _, tech := range techs {
		buttons = append(buttons, FilterButton{
			Key:    tech,
			Label:  Label(tech),
			Active: tech == active,
		})
	}
	return buttons
}

// Label upper-cases the first letter of a technology for display
func Label(tech string) string {
	r, size := utf8.DecodeRuneInString(tech)
	if r == utf8.RuneError {
		return tech
	}
	return string(unicode.ToUpper(r)) + tech[size:]
}
