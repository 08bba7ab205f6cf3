package domain_test

import (
	"testing"

	"suerga/internal/modules/preview/domain"
)

func TestMountPath(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"":                          "",
		"/":                         "",
		"/pandas/":                  "/pandas",
		"https://example.org/docs/": "/docs",
		"https://example.org":       "",
	}
	for in, want := range cases {
		got, err := domain.MountPath(in)
		if err != nil {
			t.Fatalf("mount path %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("mount path %q: expected %q, got %q", in, want, got)
		}
	}
}

func TestShouldRebuild(t *testing.T) {
	t.Parallel()
	cases := []struct {
		rel  string
		want bool
	}{
		{rel: "try.md", want: true},
		{rel: "static/css/pandas.css", want: true},
		{rel: ".suerga/suerga.db", want: false},
		{rel: "build/try.html", want: false},
		{rel: "try.md~", want: false},
		{rel: ".try.md.swp", want: false},
		{rel: "4913", want: false},
	}
	for _, tc := range cases {
		if got := domain.ShouldRebuild(tc.rel, "build"); got != tc.want {
			t.Fatalf("should rebuild %q: expected %v, got %v", tc.rel, tc.want, got)
		}
	}
}
