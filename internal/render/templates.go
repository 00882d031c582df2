package render

// pageTemplate holds every template of the portfolio page. "cards" and
// "filters" are also executed on their own for partial updates.
const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.User}} · Projects</title>
  <style>{{template "css"}}</style>
</head>
<body class="{{.Theme.Class}}">
  <header class="site-header">
    <h1>{{.User}}</h1>
    {{if not .Static}}<form class="theme-switch" method="post" action="/theme">
      <input type="hidden" name="filter" value="{{.Active}}">
      <button type="submit" id="theme-toggle" aria-pressed="{{.Theme.IsDark}}">{{if .Theme.IsDark}}Light mode{{else}}Dark mode{{end}}</button>
    </form>{{end}}
  </header>
  <main>
    {{if .Err}}{{template "error"}}{{else}}<nav id="tech-filters">{{template "filters" .}}</nav>
    <section id="projects-container">{{template "cards" .Repositories}}</section>{{end}}
  </main>
  <footer>&copy; <span id="year">{{.Year}}</span> {{.User}}</footer>
</body>
</html>
{{end}}

{{define "filters"}}{{$static := .Static}}{{range .Filters}}{{if $static}}<span class="filter-btn{{if .Active}} active{{end}}" data-filter="{{.Key}}">{{.Label}}</span>{{else}}<a class="filter-btn{{if .Active}} active{{end}}" data-filter="{{.Key}}" href="/?filter={{.Key}}">{{.Label}}</a>{{end}}{{end}}{{end}}

{{define "cards"}}{{if not .}}<div class="no-projects">
  <p>No projects found matching the filters.</p>
</div>{{else}}{{range .}}<div class="project-card" data-technologies="{{join .Technologies " "}}">
  <div class="project-content">
    <h3 class="project-title">{{.Name}}</h3>
    <p class="project-description">{{.Description}}</p>
    <div class="project-tech">{{range .Technologies}}<span class="tech-tag">{{.}}</span>{{end}}{{if .Language}}<span class="tech-tag language">{{.Language}}</span>{{end}}</div>
    <div class="project-links">
      <a class="repo-link" href="{{.HTMLURL}}" target="_blank" rel="noopener">Repository</a>
      {{if .Homepage}}<a class="demo-link" href="{{.Homepage}}" target="_blank" rel="noopener">Demo</a>{{end}}
    </div>
  </div>
</div>
{{end}}{{end}}{{end}}

{{define "error"}}<div class="error-message">
  <p>An error occurred while loading projects.</p>
  <p>Please try again later.</p>
</div>{{end}}

{{define "css"}}
:root { --bg: #f7f7f9; --fg: #1d1d1f; --card: #ffffff; --accent: #3867d6; --muted: #6b6b75; }
body.dark-theme { --bg: #15161a; --fg: #e8e8ec; --card: #1f2026; --accent: #7aa2f7; --muted: #9a9aa5; }
body { margin: 0; font-family: system-ui, sans-serif; background: var(--bg); color: var(--fg); }
.site-header, main, footer { max-width: 1100px; margin: 0 auto; padding: 1rem; }
.site-header { display: flex; justify-content: space-between; align-items: center; }
#tech-filters { display: flex; flex-wrap: wrap; gap: .5rem; margin-bottom: 1.5rem; }
.filter-btn { padding: .3rem .8rem; border: 1px solid var(--accent); border-radius: 999px; color: var(--accent); text-decoration: none; }
.filter-btn.active { background: var(--accent); color: var(--card); }
#projects-container { display: grid; grid-template-columns: repeat(auto-fill, minmax(300px, 1fr)); gap: 1rem; }
.project-card { background: var(--card); border-radius: 8px; padding: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,.15); }
.project-description { color: var(--muted); }
.tech-tag { display: inline-block; margin: 0 .3rem .3rem 0; padding: .1rem .5rem; border-radius: 4px; background: var(--bg); font-size: .8rem; }
.project-links a { margin-right: 1rem; color: var(--accent); }
.error-message, .no-projects { text-align: center; color: var(--muted); grid-column: 1 / -1; }
{{end}}`
