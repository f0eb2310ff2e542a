package util

import (
	"strings"
	"testing"
	"time"
)

func TestViewerKey(t *testing.T) {
	if got := ViewerKey(42, "1.2.3.4", "ua"); got != "user:42" {
		t.Fatalf("logged-in viewer key = %q", got)
	}

	anon := ViewerKey(0, "1.2.3.4", "reader-app")
	if !strings.HasPrefix(anon, "anon:") {
		t.Fatalf("anonymous key should carry anon prefix: %q", anon)
	}

	// 相同指纹稳定，不同指纹区分
	if ViewerKey(0, "1.2.3.4", "reader-app") != anon {
		t.Fatal("same fingerprint must produce a stable key")
	}
	if ViewerKey(0, "5.6.7.8", "reader-app") == anon {
		t.Fatal("different ip must produce a different key")
	}
	if ViewerKey(0, "1.2.3.4", "other-app") == anon {
		t.Fatal("different user agent must produce a different key")
	}

	if got := ViewerKey(0, "", ""); got != "anon:0" {
		t.Fatalf("empty fingerprint fallback = %q", got)
	}
}

func TestGetMidnight(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	in := time.Date(2025, 3, 14, 15, 9, 26, 535, loc)
	got := GetMidnight(in)

	want := time.Date(2025, 3, 14, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("GetMidnight() = %v, want %v", got, want)
	}
}
