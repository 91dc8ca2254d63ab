package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kevinmichaelchen/showcase/internal/cache"
	"github.com/kevinmichaelchen/showcase/internal/github"
	"github.com/kevinmichaelchen/showcase/internal/models"
	"github.com/kevinmichaelchen/showcase/internal/pipeline"
	"github.com/kevinmichaelchen/showcase/internal/profile"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	os.Exit(m.Run())
}

type fixedUpstream string

func (u fixedUpstream) State() string { return string(u) }

var updated = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func liveRepos() []models.RawRepo {
	lang := "Go"
	return []models.RawRepo{
		{ID: 1, Name: "api", URL: "https://github.com/octo/api", Stars: 1, UpdatedAt: updated, Topics: []string{"backend"}, Language: &lang},
		{ID: 2, Name: "site", URL: "https://github.com/octo/site", Stars: 9, UpdatedAt: updated.Add(-time.Hour), Topics: []string{"frontend", "oss"}},
		{ID: 3, Name: "game", URL: "https://github.com/octo/game", Stars: 5, UpdatedAt: updated.Add(-2 * time.Hour)},
	}
}

// testRouter serves both bundled locales against f. Without samples the
// fallback catalog is emptied so listings only show what f returns.
func testRouter(t *testing.T, f github.Fetcher, samples bool) *gin.Engine {
	t.Helper()
	all, err := profile.LoadAll("")
	if err != nil {
		t.Fatalf("loading profiles: %v", err)
	}

	engines := make(map[string]*pipeline.Engine, len(all))
	for locale, p := range all {
		p.PinnedProjects = nil
		p.HiddenProjects = nil
		if !samples {
			p.SampleProjects = nil
		}
		p.Overrides = []models.Override{{
			Repo:            "game",
			DisplayName:     "Mafia Game",
			LongDescription: "A **text** game.",
		}}
		engines[locale] = pipeline.New(f, p, cache.New[pipeline.Snapshot](), time.Minute,
			pipeline.WithAccount("octo"),
			pipeline.WithLogger(log.New(io.Discard, "", 0)))
	}
	return New(engines, fixedUpstream("closed"))
}

func get(t *testing.T, r http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding %s: %v\n%s", target, err, w.Body.String())
	}
	return w, body
}

func projectNames(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, ok := body["projects"].([]any)
	if !ok {
		t.Fatalf("projects missing: %v", body)
	}
	var out []string
	for _, p := range raw {
		out = append(out, p.(map[string]any)["name"].(string))
	}
	return out
}

func live(context.Context, string) ([]models.RawRepo, error) {
	return liveRepos(), nil
}

func TestListProjects(t *testing.T) {
	r := testRouter(t, github.FetcherFunc(live), false)

	w, body := get(t, r, "/api/projects")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["status"] != "success" || body["source"] != "github" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["notice"]; ok {
		t.Error("notice set for live data")
	}

	names := projectNames(t, body)
	if strings.Join(names, ",") != "api,site,game" {
		t.Errorf("default order = %v, want newest first", names)
	}
}

func TestListProjectsQuery(t *testing.T) {
	r := testRouter(t, github.FetcherFunc(live), false)

	tests := []struct {
		target string
		want   []string
	}{
		{"/api/projects?category=backend", []string{"api"}},
		{"/api/projects?category=open-source", []string{"site"}},
		{"/api/projects?q=MAFIA", []string{"game"}},
		{"/api/projects?q=e&sort=stars&limit=2", []string{"site", "game"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w, body := get(t, r, tt.target)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			got := projectNames(t, body)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("projects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListProjectsBadInput(t *testing.T) {
	r := testRouter(t, github.FetcherFunc(live), false)

	for _, target := range []string{
		"/api/projects?lang=de",
		"/api/projects?category=mobile",
		"/api/projects?sort=name",
		"/api/projects?limit=-1",
		"/api/projects?limit=ten",
	} {
		w, body := get(t, r, target)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, w.Code)
		}
		if msg, _ := body["error"].(string); msg == "" {
			t.Errorf("%s: missing error", target)
		}
	}
}

func TestListProjectsFallback(t *testing.T) {
	r := testRouter(t, github.FetcherFunc(func(context.Context, string) ([]models.RawRepo, error) {
		return nil, errors.New("rate limited")
	}), true)

	w, body := get(t, r, "/api/projects?lang=no")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["source"] != "sample" || body["error"] != "rate limited" {
		t.Errorf("body = %v", body)
	}
	if notice, _ := body["notice"].(string); notice == "" {
		t.Error("expected fallback notice")
	}
	if len(projectNames(t, body)) == 0 {
		t.Error("expected sample projects")
	}
}

func TestGetProject(t *testing.T) {
	r := testRouter(t, github.FetcherFunc(live), false)

	w, body := get(t, r, "/api/projects/mafia-game")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["displayName"] != "Mafia Game" {
		t.Errorf("displayName = %v", body["displayName"])
	}
	html, _ := body["longDescriptionHtml"].(string)
	if !strings.Contains(html, "<strong>text</strong>") {
		t.Errorf("longDescriptionHtml = %q", html)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	r := testRouter(t, github.FetcherFunc(live), false)
	all, err := profile.LoadAll("")
	if err != nil {
		t.Fatal(err)
	}

	for _, locale := range profile.Locales {
		w, body := get(t, r, "/api/projects/missing?lang="+locale)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d", locale, w.Code)
		}
		if body["state"] != "not_found" {
			t.Errorf("%s: state = %v", locale, body["state"])
		}
		if body["title"] != all[locale].Labels.ProjectNotFoundTitle {
			t.Errorf("%s: title = %v", locale, body["title"])
		}
	}
}

func TestHealth(t *testing.T) {
	r := testRouter(t, github.FetcherFunc(live), false)

	_, body := get(t, r, "/healthz")
	if body["upstream"] != "closed" {
		t.Errorf("upstream = %v", body["upstream"])
	}
	locales := body["locales"].(map[string]any)
	en := locales["en"].(map[string]any)
	if en["status"] != "idle" || en["account"] != "octo" {
		t.Errorf("en before load = %v", en)
	}

	get(t, r, "/api/projects?lang=en")
	_, body = get(t, r, "/healthz")
	en = body["locales"].(map[string]any)["en"].(map[string]any)
	if en["status"] != "success" {
		t.Errorf("en after load = %v", en)
	}
}

func TestHealthReportsOpenBreaker(t *testing.T) {
	down := github.FetcherFunc(func(context.Context, string) ([]models.RawRepo, error) {
		return nil, errors.New("connection refused")
	})
	breaker := github.NewBreakerFetcher(down, github.WithTripThreshold(1), github.WithCooldown(time.Hour, time.Hour))

	p, err := profile.Load("", profile.English)
	if err != nil {
		t.Fatal(err)
	}
	e := pipeline.New(breaker, p, cache.New[pipeline.Snapshot](), time.Minute,
		pipeline.WithLogger(log.New(io.Discard, "", 0)))
	r := New(map[string]*pipeline.Engine{profile.English: e}, breaker)

	_, body := get(t, r, "/api/projects")
	if body["source"] != "sample" {
		t.Errorf("source = %v, want sample", body["source"])
	}
	_, body = get(t, r, "/healthz")
	if body["upstream"] != "open" {
		t.Errorf("upstream = %v, want open", body["upstream"])
	}
}
