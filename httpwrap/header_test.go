package httpwrap

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHeaderCaseInsensitive(t *testing.T) {
	h := NewHeader()
	h.Set("content-type", "text/plain")
	if !h.Has("Content-Type") || h.Get("CONTENT-TYPE") != "text/plain" {
		t.Fatalf("expected case-insensitive lookup, got %v", h)
	}
	h.Del("Content-type")
	if len(h) != 0 {
		t.Errorf("expected header removed, got %v", h)
	}
}

func TestHeaderSetDefault(t *testing.T) {
	h := HeaderFrom(map[string]string{"accept": "text/csv"})
	h.SetDefault("Accept", "application/json")
	h.SetDefault("X-New", "1")
	want := Header{"Accept": "text/csv", "X-New": "1"}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderMergeDoesNotMutate(t *testing.T) {
	base := Header{"A": "1", "B": "2"}
	merged := base.Merge(map[string]string{"b": "3", "c": "4"})

	if diff := cmp.Diff(Header{"A": "1", "B": "2"}, base); diff != "" {
		t.Errorf("base mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Header{"A": "1", "B": "3", "C": "4"}, merged); diff != "" {
		t.Errorf("merged mismatch (-want +got):\n%s", diff)
	}

	var nilHeader Header
	if got := nilHeader.Merge(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil header, got %#v", got)
	}
}

func TestHeaderAuth(t *testing.T) {
	h := NewHeader().WithAuthorization("JWT", "abc")
	if got := h.Get("Authorization"); got != "JWT abc" {
		t.Errorf("expected JWT abc, got %q", got)
	}
	h.WithBearerToken("xyz")
	if got := h.Get("Authorization"); got != "Bearer xyz" {
		t.Errorf("expected Bearer xyz, got %q", got)
	}
	h.AddBasicAuth("user", "pass")
	if got := h.Get("Authorization"); got != "Basic dXNlcjpwYXNz" {
		t.Errorf("unexpected basic auth %q", got)
	}
}

func TestHeaderApply(t *testing.T) {
	dst := http.Header{}
	dst.Set("X-Keep", "1")
	Header{"X-A": "a", "X-Keep": "2"}.Apply(dst)
	if dst.Get("X-A") != "a" || dst.Get("X-Keep") != "2" {
		t.Errorf("unexpected applied header %v", dst)
	}
}
