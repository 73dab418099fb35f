package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matheuslc/snipnest_api/internal/db"
	"github.com/matheuslc/snipnest_api/internal/httpapi"
	"github.com/matheuslc/snipnest_api/internal/snippets"
)

type testEnv struct {
	server *httptest.Server
	repo   *snippets.Repository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	d, err := db.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	t.Cleanup(d.Close)

	if err := d.EnsureSchema(ctx); err != nil {
		t.Fatalf("db schema: %v", err)
	}
	if _, err := d.Pool.Exec(ctx, "TRUNCATE snippets RESTART IDENTITY"); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	var redisClient *redis.Client
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			t.Fatalf("redis url: %v", err)
		}
		redisClient = redis.NewClient(opt)
		t.Cleanup(func() { _ = redisClient.Close() })
	}

	base := db.NewBase(d.Pool, 3*time.Second)
	repo := snippets.NewRepository(base)
	svc := &snippets.Service{
		Store: repo,
		Cache: snippets.NewRedisCache(redisClient, "snipnest:test:"),
	}

	app := &httpapi.App{
		ServiceName: "snipnest-integration",
		Health:      &httpapi.HealthHandler{DB: d.Pool, Redis: redisClient},
		Snippets:    &httpapi.SnippetsHandler{Service: svc},
		Search:      &httpapi.SearchHandler{Service: svc},
		Tags:        &httpapi.TagsHandler{Service: svc},
	}

	server := httptest.NewServer(httpapi.NewRouter(app))
	t.Cleanup(server.Close)

	return &testEnv{server: server, repo: repo}
}

func (e *testEnv) request(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, out.Bytes()
}

func TestSnippetLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, http.MethodPost, "/snippets/", map[string]any{
		"title":    "Go slices",
		"content":  "Slices share backing arrays",
		"category": "go",
		"tags":     []string{"go", "memory"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d: %s", resp.StatusCode, body)
	}

	var created snippets.Snippet
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == 0 || len(created.Tags) != 2 || created.Tags[0] != "go" {
		t.Fatalf("unexpected created snippet: %+v", created)
	}

	resp, body = env.request(t, http.MethodGet, fmt.Sprintf("/snippets/%d", created.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status %d", resp.StatusCode)
	}
	var got snippets.Snippet
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if got.Title != created.Title || got.UpdatedAt != nil {
		t.Fatalf("unexpected snippet: %+v", got)
	}

	resp, body = env.request(t, http.MethodPut, fmt.Sprintf("/snippets/%d", created.ID), map[string]any{
		"title": "Go slices, revisited",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status %d: %s", resp.StatusCode, body)
	}
	var updated snippets.Snippet
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if updated.Title != "Go slices, revisited" || updated.Content != created.Content {
		t.Fatalf("partial update wrong: %+v", updated)
	}
	if updated.UpdatedAt == nil {
		t.Fatal("updated_at not set after update")
	}

	// immediate re-read must see the update, never a stale cached copy
	resp, body = env.request(t, http.MethodGet, fmt.Sprintf("/snippets/%d", created.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("re-read status %d", resp.StatusCode)
	}
	var reread snippets.Snippet
	if err := json.Unmarshal(body, &reread); err != nil {
		t.Fatalf("decode re-read: %v", err)
	}
	if reread.Title != "Go slices, revisited" {
		t.Fatalf("stale read after update: %+v", reread)
	}

	resp, _ = env.request(t, http.MethodDelete, fmt.Sprintf("/snippets/%d", created.ID), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", resp.StatusCode)
	}

	resp, _ = env.request(t, http.MethodGet, fmt.Sprintf("/snippets/%d", created.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status %d", resp.StatusCode)
	}

	resp, _ = env.request(t, http.MethodDelete, fmt.Sprintf("/snippets/%d", created.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status %d", resp.StatusCode)
	}
}

func TestSearchAndTags(t *testing.T) {
	env := newTestEnv(t)

	for _, s := range []map[string]any{
		{"title": "Greeting", "content": "Hello World", "tags": []string{"b", "a"}},
		{"title": "Farewell", "content": "Goodbye", "tags": []string{"a", "c"}},
	} {
		resp, body := env.request(t, http.MethodPost, "/snippets/", s)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create status %d: %s", resp.StatusCode, body)
		}
	}

	resp, body := env.request(t, http.MethodGet, "/search/snippets?q=hello", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status %d", resp.StatusCode)
	}
	var res struct {
		Results []snippets.Snippet `json:"results"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].Title != "Greeting" {
		t.Fatalf("case-insensitive search failed: %+v", res.Results)
	}

	resp, body = env.request(t, http.MethodGet, "/search/snippets?q=o&tag=c", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tag search status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("decode tag search: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].Title != "Farewell" {
		t.Fatalf("tag filter failed: %+v", res.Results)
	}

	resp, _ = env.request(t, http.MethodGet, "/search/snippets", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("missing q status %d, want 422", resp.StatusCode)
	}

	resp, body = env.request(t, http.MethodGet, "/tags/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tags status %d", resp.StatusCode)
	}
	var tagsRes struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(body, &tagsRes); err != nil {
		t.Fatalf("decode tags: %v", err)
	}
	if len(tagsRes.Tags) != 3 || tagsRes.Tags[0] != "a" || tagsRes.Tags[2] != "c" {
		t.Fatalf("tag listing not deduped+sorted: %v", tagsRes.Tags)
	}
}

func TestListNewestFirst(t *testing.T) {
	env := newTestEnv(t)

	for i := 1; i <= 3; i++ {
		resp, body := env.request(t, http.MethodPost, "/snippets/", map[string]any{
			"title":   fmt.Sprintf("snippet %d", i),
			"content": "c",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create status %d: %s", resp.StatusCode, body)
		}
	}

	resp, body := env.request(t, http.MethodGet, "/snippets/?limit=2&offset=0", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status %d", resp.StatusCode)
	}
	var list []snippets.Snippet
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 || list[0].ID < list[1].ID {
		t.Fatalf("list not newest-first: %+v", list)
	}
}
