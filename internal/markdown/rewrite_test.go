package markdown

import (
	"strings"
	"testing"
)

func stdPages() map[string]string {
	return map[string]string{
		"aiken/list":   "aiken/list.html",
		"aiken/option": "aiken/option.html",
	}
}

func TestResolveModuleLinks_InlineLinks(t *testing.T) {
	t.Parallel()
	src := "See [list](aiken/list) for details."
	got := ResolveModuleLinks(src, stdPages())
	want := "See [list](aiken/list.html) for details."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveModuleLinks_KeepsAnchor(t *testing.T) {
	t.Parallel()
	src := "See [map](aiken/list#map)."
	got := ResolveModuleLinks(src, stdPages())
	if !strings.Contains(got, "(aiken/list.html#map)") {
		t.Errorf("anchor lost: %q", got)
	}
}

func TestResolveModuleLinks_ReferenceStyleLinks(t *testing.T) {
	t.Parallel()
	src := "See [list][ref] for details.\n\n[ref]: aiken/list"
	got := ResolveModuleLinks(src, stdPages())
	if !strings.Contains(got, "[ref]: aiken/list.html") {
		t.Errorf("reference link not rewritten: %q", got)
	}
}

func TestResolveModuleLinks_UnknownDestinationsUntouched(t *testing.T) {
	t.Parallel()
	src := "Check [this](https://example.com) and [that](some/other) out."
	got := ResolveModuleLinks(src, stdPages())
	if got != src {
		t.Errorf("expected unchanged, got %q", got)
	}
}

func TestResolveModuleLinks_EmptyMap(t *testing.T) {
	t.Parallel()
	src := "Hello [list](aiken/list)."
	if got := ResolveModuleLinks(src, nil); got != src {
		t.Errorf("expected unchanged, got %q", got)
	}
	if got := ResolveModuleLinks(src, map[string]string{}); got != src {
		t.Errorf("expected unchanged for empty map, got %q", got)
	}
}

func TestResolveModuleLinks_MultipleLinks(t *testing.T) {
	t.Parallel()
	src := "[A](aiken/list) and [B](aiken/option) together."
	got := ResolveModuleLinks(src, stdPages())
	if !strings.Contains(got, "(aiken/list.html)") {
		t.Error("first link not rewritten")
	}
	if !strings.Contains(got, "(aiken/option.html)") {
		t.Error("second link not rewritten")
	}
}
