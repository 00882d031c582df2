// Package detect tags repositories with the technologies mentioned in their
// README and description.
package detect

import "strings"

// Technology associates a tag with the keywords that reveal it.
type Technology struct {
	Name     string
	Keywords []string
}

// table is matched in order; a repository may carry any number of tags.
var table = []Technology{
	{Name: "javascript", Keywords: []string{"javascript", "js", "node", "react", "vue", "angular", "nextjs", "typescript", "ts"}},
	{Name: "python", Keywords: []string{"python", "django", "flask", "fastapi", "pandas", "numpy"}},
	{Name: "java", Keywords: []string{"java", "spring", "maven", "gradle"}},
	{Name: "c#", Keywords: []string{"c#", "csharp", ".net", "dotnet", "asp.net"}},
	{Name: "php", Keywords: []string{"php", "laravel", "symfony"}},
	{Name: "ruby", Keywords: []string{"ruby", "rails"}},
	{Name: "html", Keywords: []string{"html", "html5"}},
	{Name: "css", Keywords: []string{"css", "scss", "sass", "less", "bootstrap", "tailwind"}},
	{Name: "go", Keywords: []string{"go", "golang"}},
	{Name: "rust", Keywords: []string{"rust"}},
	{Name: "mobile", Keywords: []string{"react native", "flutter", "android", "ios", "swift", "kotlin"}},
	{Name: "database", Keywords: []string{"sql", "mysql", "postgresql", "mongodb", "database", "firebase"}},
	{Name: "devops", Keywords: []string{"docker", "kubernetes", "aws", "azure", "ci/cd", "jenkins"}},
}

// Technologies returns the tags whose keywords occur in the README or the
// description. Matching is a case-insensitive substring test, so "go" also
// matches "mongodb". The result follows table order and never repeats a tag.
func Technologies(readme, description string) []string {
	content := strings.ToLower(readme + " " + description)

	technologies := []string{}
	for _, tech := range table {
		for _, keyword := range tech.Keywords {
			if strings.Contains(content, keyword) {
				technologies = append(technologies, tech.Name)
				break
			}
		}
	}
	return technologies
}

// Vocabulary lists every tag Technologies can return.
func Vocabulary() []string {
	names := make([]string, len(table))
	for i, tech := range table {
		names[i] = tech.Name
	}
	return names
}
