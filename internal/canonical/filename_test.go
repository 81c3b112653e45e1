package canonical

import "testing"

// TestFileName tests the URL to file name mapping.
func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{url: "https://example.test/", want: "home"},
		{url: "https://example.test", want: "home"},
		{url: "https://example.test/a/b", want: "a-b"},
		{url: "https://example.test/a/", want: "a-"},
		{url: "https://example.test/dir/page.html", want: "dir-page.html"},
		{url: "https://example.test/snake_case-name", want: "snake_case-name"},
		{url: "https://example.test/a%20b/c%3Fd", want: "a20b-c3Fd"},
		{url: "https://example.test/~user", want: "user"},
		{url: "https://example.test/~", want: "home"},
		{url: "https://example.test/2024/05/hello-world/", want: "2024-05-hello-world-"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			if got := FileName(tt.url); got != tt.want {
				t.Errorf("FileName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
