package telegram

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	_ = r.ParseMultipartForm(32 << 20)

	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()

	w.Header().Set("content-type", "application/json")
	msg := `{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}`
	switch method {
	case "getMe":
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"mockups","username":"mockup_bot"}}`)
	case "sendMediaGroup":
		fmt.Fprintf(w, `{"ok":true,"result":[%s]}`, msg)
	default:
		fmt.Fprintf(w, `{"ok":true,"result":%s}`, msg)
	}
}

func (f *fakeAPI) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{calls: map[string]int{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := New(Options{Token: "123:abc", Endpoint: srv.URL + "/bot%s/%s", PreferIPv4: false})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, api
}

func photos(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("tpl_%02d.png", i))
		if err := os.WriteFile(p, []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
		out = append(out, p)
	}
	return out
}

func TestNew_RequiresToken(t *testing.T) {
	if _, err := New(Options{Token: "  "}); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestSendAlbum_Chunks(t *testing.T) {
	tests := []struct {
		n          int
		wantGroups int
		wantPhotos int
	}{
		{n: 1, wantGroups: 0, wantPhotos: 1},
		{n: 10, wantGroups: 1, wantPhotos: 0},
		{n: 11, wantGroups: 1, wantPhotos: 1},
		{n: 23, wantGroups: 3, wantPhotos: 0},
	}
	for _, tt := range tests {
		c, api := newTestClient(t)
		if c.Username() != "mockup_bot" {
			t.Fatalf("username = %q", c.Username())
		}
		if err := c.SendAlbum(42, "Coastal", photos(t, tt.n)); err != nil {
			t.Fatalf("n=%d: %v", tt.n, err)
		}
		if got := api.count("sendMediaGroup"); got != tt.wantGroups {
			t.Fatalf("n=%d: %d media groups, want %d", tt.n, got, tt.wantGroups)
		}
		if got := api.count("sendPhoto"); got != tt.wantPhotos {
			t.Fatalf("n=%d: %d single photos, want %d", tt.n, got, tt.wantPhotos)
		}
	}
}

func TestSendText_Splits(t *testing.T) {
	c, api := newTestClient(t)
	if err := c.SendText(42, strings.Repeat("a", maxTextBytes+10)); err != nil {
		t.Fatal(err)
	}
	if got := api.count("sendMessage"); got != 2 {
		t.Fatalf("sent %d messages, want 2", got)
	}
}

func TestChunk(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	got := chunk(items, 2)
	if len(got) != 3 || len(got[2]) != 1 || got[2][0] != "e" {
		t.Fatalf("chunk = %v", got)
	}
	if chunk(nil, 10) != nil {
		t.Fatalf("empty input should give no chunks")
	}
}

func TestSplitAndTruncateByBytes(t *testing.T) {
	text := strings.Repeat("ж", 5) // 2 bytes each
	parts := splitByBytes(text, 4)
	if len(parts) != 3 || parts[0] != "жж" || parts[2] != "ж" {
		t.Fatalf("split = %q", parts)
	}
	if got := truncateByBytes(text, 5); got != "жж" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncateByBytes("short", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
}
