package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseRobots_Wildcard(t *testing.T) {
	body := `
User-agent: *
Disallow: /ajax
Disallow: /usuario/
Allow: /usuario/publico
Crawl-delay: 5

User-agent: Googlebot
Disallow: /
`
	r := ParseRobots([]byte(body), DefaultUserAgent)

	for _, path := range []string{"/venta-viviendas/madrid/", "/inmueble/123/", "/usuario/publico/x"} {
		if !r.Allowed(path) {
			t.Errorf("expected path %q to be allowed", path)
		}
	}
	for _, path := range []string{"/ajax", "/ajax/listing", "/usuario/favoritos"} {
		if r.Allowed(path) {
			t.Errorf("expected path %q to be disallowed", path)
		}
	}
}

func TestParseRobots_NamedGroupWins(t *testing.T) {
	body := `
User-agent: *
Disallow: /

User-agent: RelentlessHousehunter
Disallow:
`
	r := ParseRobots([]byte(body), DefaultUserAgent)
	if !r.Allowed("/inmueble/1/") {
		t.Fatal("expected named empty group to allow everything")
	}
}

func TestParseRobots_NilEmptyAllowed(t *testing.T) {
	var r *RobotsRules
	if !r.Allowed("/anything") {
		t.Error("nil rules should allow all")
	}
	empty := ParseRobots([]byte("User-agent: *\n"), DefaultUserAgent)
	if !empty.AllowedURL("https://www.idealista.com/ajax") {
		t.Error("empty rule set should allow all")
	}
}

func TestPathFromURL(t *testing.T) {
	if got := PathFromURL("https://www.idealista.com/inmueble/1/?x=1"); got != "/inmueble/1/" {
		t.Errorf("PathFromURL = %q", got)
	}
	if got := PathFromURL(""); got != "/" {
		t.Errorf("PathFromURL empty = %q", got)
	}
}

func TestFetchRobots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("unexpected user agent %q", ua)
		}
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /ajax\n"))
	}))
	defer srv.Close()

	body, err := FetchRobots(context.Background(), srv.Client(), srv.URL+"/venta-viviendas/?page=2")
	if err != nil {
		t.Fatalf("fetch robots: %v", err)
	}
	if ParseRobots(body, DefaultUserAgent).Allowed("/ajax/x") {
		t.Fatal("expected fetched rules to apply")
	}
}

func TestFetchRobotsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	if _, err := FetchRobots(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Fatal("expected error for 404 robots.txt")
	}
}

func TestLoadRobotsFailureAllowsAll(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	rules := LoadRobots(context.Background(), srv.Client(), srv.URL, nil)
	if rules != nil {
		t.Fatalf("expected nil rules, got %+v", rules)
	}
	if !rules.AllowedURL(srv.URL + "/ajax") {
		t.Fatal("expected nil rules to allow everything")
	}
}

func TestLoadRobots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /ajax\n"))
	}))
	defer srv.Close()
	if LoadRobots(context.Background(), srv.Client(), srv.URL, nil).Allowed("/ajax") {
		t.Fatal("expected /ajax to be disallowed")
	}
}
