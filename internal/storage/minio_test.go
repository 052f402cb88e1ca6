package storage

import (
	"strings"
	"testing"
)

func TestObjectKeyKeepsFolderAndExtension(t *testing.T) {
	key := objectKey("avatars", "Me.PNG")

	if !strings.HasPrefix(key, "avatars/") {
		t.Fatalf("expected avatars/ prefix got %q", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("expected lower-cased extension got %q", key)
	}
	if objectKey("avatars", "Me.PNG") == key {
		t.Fatalf("expected unique keys")
	}
}

func TestKeyFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{"own object", "http://cdn.local/videotube/videos/abc.mp4", "videos/abc.mp4", true},
		{"other bucket", "http://cdn.local/other/videos/abc.mp4", "", false},
		{"foreign host", "https://example.com/videotube/abc.mp4", "", false},
		{"bucket root", "http://cdn.local/videotube/", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := keyFromURL("http://cdn.local", "videotube", tc.url)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("got (%q, %v) want (%q, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}
