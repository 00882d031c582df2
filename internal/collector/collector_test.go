package collector

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v72/github"
	"github.com/serper/portfolio/internal/config"
	"github.com/serper/portfolio/internal/portfolio"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCollectorCreation(t *testing.T) {
	tests := []struct {
		name          string
		config        *config.Config
		expectError   bool
		errorContains string
		wantBaseURL   string
	}{
		{
			name: "anonymous client",
			config: &config.Config{
				GitHubUser: "serper",
			},
			wantBaseURL: "https://api.github.com/",
		},
		{
			name: "token and custom API URL",
			config: &config.Config{
				GitHubUser:   "serper",
				GitHubToken:  "token123",
				GitHubAPIURL: "http://localhost:9999/api",
			},
			wantBaseURL: "http://localhost:9999/api/",
		},
		{
			name: "invalid API URL",
			config: &config.Config{
				GitHubUser:   "serper",
				GitHubAPIURL: "http://[::1",
			},
			expectError:   true,
			errorContains: "invalid GitHub API URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector, err := New(tt.config, zap.NewNop())

			if tt.expectError {
				if err == nil {
					t.Errorf("New() expected error, got nil")
					return
				}
				if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("New() error = %v, want to contain %v", err, tt.errorContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if collector.config != tt.config {
				t.Error("Collector config not set correctly")
			}
			if collector.ghClient == nil {
				t.Fatal("GitHub client not initialized")
			}
			if got := collector.ghClient.BaseURL.String(); got != tt.wantBaseURL {
				t.Errorf("BaseURL = %v, want %v", got, tt.wantBaseURL)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	var repos []*github.Repository
	repos = append(repos,
		createMockGitHubRepo("serper.github.io", false),
		createMockGitHubRepo("forked", true),
	)
	for i := 1; i <= 14; i++ {
		repos = append(repos, createMockGitHubRepo(fmt.Sprintf("repo%d", i), false))
	}

	tests := []struct {
		name   string
		suffix string
		limit  int
		want   []string
	}{
		{
			name:   "limit applies after filtering",
			suffix: ".github.io",
			limit:  3,
			want:   []string{"repo1", "repo2", "repo3"},
		},
		{
			name:   "no suffix keeps pages repository",
			suffix: "",
			limit:  2,
			want:   []string{"serper.github.io", "repo1"},
		},
		{
			name:   "zero limit",
			suffix: ".github.io",
			limit:  0,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repoNames(Select(repos, tt.suffix, tt.limit))
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}

	selected := Select(repos, ".github.io", MaxRepositories)
	if len(selected) != MaxRepositories {
		t.Fatalf("Select() kept %d repositories, want %d", len(selected), MaxRepositories)
	}
	for _, repo := range selected {
		if repo.GetFork() {
			t.Errorf("Select() kept fork %s", repo.GetName())
		}
		if strings.Contains(repo.GetName(), ".github.io") {
			t.Errorf("Select() kept pages repository %s", repo.GetName())
		}
	}
}

func TestCollect(t *testing.T) {
	repos := []map[string]interface{}{
		createMockRepoJSON("serper.github.io", "My site", "HTML", false, ""),
		createMockRepoJSON("forked-lib", "Someone else's Python lib", "Python", true, ""),
		createMockRepoJSON("foo", "A Flask API", "Python", false, ""),
		createMockRepoJSON("bar", "", "", false, "https://bar.example.com"),
	}
	for i := 1; i <= 12; i++ {
		repos = append(repos, createMockRepoJSON(fmt.Sprintf("filler%d", i), "", "", false, ""))
	}
	readmes := map[string]string{
		"bar": "# Bar\nDocker and Kubernetes setup",
	}

	gh := newMockGitHub(t, repos, readmes)
	defer gh.server.Close()

	core, logs := observer.New(zap.WarnLevel)
	collector, err := New(&config.Config{
		GitHubUser:        "serper",
		GitHubAPIURL:      gh.server.URL,
		HostingSuffix:     ".github.io",
		ReadmeConcurrency: 1,
	}, zap.New(core))
	if err != nil {
		t.Fatalf("Failed to create collector: %v", err)
	}

	got, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() unexpected error: %v", err)
	}

	if len(got) != MaxRepositories {
		t.Fatalf("Collect() returned %d repositories, want %d", len(got), MaxRepositories)
	}

	foo := got[0]
	if foo.Name != "foo" {
		t.Errorf("first repository = %v, want foo", foo.Name)
	}
	if len(foo.Technologies) != 1 || foo.Technologies[0] != "python" {
		t.Errorf("foo technologies = %v, want [python]", foo.Technologies)
	}
	if foo.Language != "Python" {
		t.Errorf("foo language = %v, want Python", foo.Language)
	}
	if foo.Description != "A Flask API" {
		t.Errorf("foo description = %v, want A Flask API", foo.Description)
	}
	if foo.HTMLURL != "https://github.com/serper/foo" {
		t.Errorf("foo html_url = %v", foo.HTMLURL)
	}
	if foo.Stars != 7 {
		t.Errorf("foo stars = %v, want 7", foo.Stars)
	}

	bar := got[1]
	if bar.Description != portfolio.NoDescription {
		t.Errorf("bar description = %q, want placeholder", bar.Description)
	}
	if len(bar.Technologies) != 1 || bar.Technologies[0] != "devops" {
		t.Errorf("bar technologies = %v, want [devops]", bar.Technologies)
	}
	if bar.Homepage != "https://bar.example.com" {
		t.Errorf("bar homepage = %v", bar.Homepage)
	}

	if got[MaxRepositories-1].Name != "filler10" {
		t.Errorf("last repository = %v, want filler10", got[MaxRepositories-1].Name)
	}

	// READMEs are requested sequentially in list order, only for kept repos
	requested := gh.readmeRequests()
	wantRequested := []string{"foo", "bar"}
	for i := 1; i <= 10; i++ {
		wantRequested = append(wantRequested, fmt.Sprintf("filler%d", i))
	}
	if strings.Join(requested, ",") != strings.Join(wantRequested, ",") {
		t.Errorf("README requests = %v, want %v", requested, wantRequested)
	}

	// Every missing README is a warning, not an error
	if n := logs.FilterMessage("could not get README").Len(); n != MaxRepositories-1 {
		t.Errorf("logged %d README warnings, want %d", n, MaxRepositories-1)
	}
}

func TestCollectConcurrentReadmesKeepOrder(t *testing.T) {
	var repos []map[string]interface{}
	readmes := map[string]string{}
	for i := 1; i <= 8; i++ {
		name := fmt.Sprintf("repo%d", i)
		repos = append(repos, createMockRepoJSON(name, "", "", false, ""))
		if i%2 == 0 {
			readmes[name] = "Rust crate"
		}
	}

	gh := newMockGitHub(t, repos, readmes)
	defer gh.server.Close()

	collector, err := New(&config.Config{
		GitHubUser:        "serper",
		GitHubAPIURL:      gh.server.URL,
		HostingSuffix:     ".github.io",
		ReadmeConcurrency: 4,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create collector: %v", err)
	}

	got, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() unexpected error: %v", err)
	}

	if len(got) != 8 {
		t.Fatalf("Collect() returned %d repositories, want 8", len(got))
	}
	for i, repo := range got {
		wantName := fmt.Sprintf("repo%d", i+1)
		if repo.Name != wantName {
			t.Errorf("repository %d = %v, want %v", i, repo.Name, wantName)
		}
		wantTags := 0
		if (i+1)%2 == 0 {
			wantTags = 1
		}
		if len(repo.Technologies) != wantTags {
			t.Errorf("%s technologies = %v, want %d tags", repo.Name, repo.Technologies, wantTags)
		}
	}
	if n := len(gh.readmeRequests()); n != 8 {
		t.Errorf("README requests = %d, want 8", n)
	}
}

func TestCollectMalformedReadme(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/readme") {
			_ = json.NewEncoder(w).Encode(map[string]string{
				"type":     "file",
				"encoding": "base64",
				"content":  "!!!not base64!!!",
			})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			createMockRepoJSON("broken", "Django site", "Python", false, ""),
		})
	}))
	defer server.Close()

	core, logs := observer.New(zap.WarnLevel)
	collector, err := New(&config.Config{
		GitHubUser:   "serper",
		GitHubAPIURL: server.URL,
	}, zap.New(core))
	if err != nil {
		t.Fatalf("Failed to create collector: %v", err)
	}

	got, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].HasTechnology("python") {
		t.Errorf("Collect() = %+v, want broken tagged python from its description", got)
	}
	if logs.FilterMessage("could not decode README").Len() != 1 {
		t.Error("Expected a decode warning for the malformed README")
	}
}

func TestCollectListError(t *testing.T) {
	// Create mock GitHub API server that returns error
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "API rate limit exceeded"})
	}))
	defer server.Close()

	collector, err := New(&config.Config{
		GitHubUser:   "serper",
		GitHubAPIURL: server.URL,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create collector: %v", err)
	}

	repos, err := collector.Collect(context.Background())
	if err == nil {
		t.Fatal("Expected error from Collect, got nil")
	}
	if !strings.Contains(err.Error(), "failed to list repositories") {
		t.Errorf("Expected 'failed to list repositories' error, got: %v", err)
	}
	if repos != nil {
		t.Errorf("Expected no repositories on failure, got %v", repos)
	}
}

func TestCollectCanceledContext(t *testing.T) {
	gh := newMockGitHub(t, []map[string]interface{}{
		createMockRepoJSON("foo", "", "", false, ""),
	}, nil)
	defer gh.server.Close()

	collector, err := New(&config.Config{
		GitHubUser:   "serper",
		GitHubAPIURL: gh.server.URL,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create collector: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := collector.Collect(ctx); err == nil {
		t.Error("Expected error from Collect with canceled context")
	}
}

// Test helper functions

type mockGitHub struct {
	server *httptest.Server

	mu      sync.Mutex
	readmes []string
}

func (m *mockGitHub) readmeRequests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.readmes...)
}

func newMockGitHub(t *testing.T, repos []map[string]interface{}, readmes map[string]string) *mockGitHub {
	t.Helper()
	m := &mockGitHub{}

	mux := http.NewServeMux()
	mux.HandleFunc("/users/serper/repos", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("sort") != "updated" || q.Get("direction") != "desc" {
			http.Error(w, "unexpected query "+r.URL.RawQuery, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(repos)
	})
	mux.HandleFunc("/repos/serper/", func(w http.ResponseWriter, r *http.Request) {
		name, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/repos/serper/"), "/readme")
		if !ok {
			http.NotFound(w, r)
			return
		}

		m.mu.Lock()
		m.readmes = append(m.readmes, name)
		m.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		text, found := readmes[name]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"type":     "file",
			"name":     "README.md",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(text)),
		})
	})

	m.server = httptest.NewServer(mux)
	return m
}

func createMockGitHubRepo(name string, fork bool) *github.Repository {
	return &github.Repository{
		Name: github.Ptr(name),
		Fork: github.Ptr(fork),
	}
}

func createMockRepoJSON(name, description, language string, fork bool, homepage string) map[string]interface{} {
	repo := map[string]interface{}{
		"name":             name,
		"html_url":         fmt.Sprintf("https://github.com/serper/%s", name),
		"fork":             fork,
		"stargazers_count": 7,
	}
	if description != "" {
		repo["description"] = description
	}
	if language != "" {
		repo["language"] = language
	}
	if homepage != "" {
		repo["homepage"] = homepage
	}
	return repo
}

func repoNames(repos []*github.Repository) []string {
	names := []string{}
	for _, repo := range repos {
		names = append(names, repo.GetName())
	}
	return names
}
