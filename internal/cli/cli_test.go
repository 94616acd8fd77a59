package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/ui"
)

type result struct {
	code        int
	stdout, err string
}

// env isolates config and credentials and starts a dev server seeded with items.
func env(t *testing.T, seed ...model.TodoItem) (string, *jsonstore.File) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("TADA_TOKEN", "")
	t.Setenv("TADA_API_URL", "")
	t.Setenv("TADA_CREDENTIALS_DIR", filepath.Join(dir, "creds"))
	t.Setenv("TADA_LOG_LEVEL", "fatal")
	t.Setenv("TADA_THEME", "mono")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(func() { ui.SetTheme("classic") })

	data := jsonstore.Open(filepath.Join(dir, "todos.json"))
	if err := data.Seed(seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ts := httptest.NewServer(server.New(data, server.Options{Logger: log.New(io.Discard)}).Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/todos", data
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	code := Run(context.Background(), args, Streams{In: strings.NewReader(stdin), Out: &out, Err: &errb})
	return result{code: code, stdout: out.String(), err: errb.String()}
}

func seed() []model.TodoItem {
	return []model.TodoItem{
		{UserID: 1, ID: 1, Title: "first"},
		{UserID: 1, ID: 2, Title: "second", Completed: true},
	}
}

func TestAdd(t *testing.T) {
	url, data := env(t, seed()...)

	res := run(t, "", "--api-url", url, "add", "Buy", "milk")
	if res.code != ExitOK {
		t.Fatalf("exit %d, stderr %q", res.code, res.err)
	}
	if !strings.Contains(res.stdout, "Todo added successfully") {
		t.Errorf("stdout = %q", res.stdout)
	}
	items, _ := data.List()
	if len(items) != 3 || items[2].Title != "Buy milk" {
		t.Errorf("unexpected data %+v", items)
	}
}

func TestAddEmptyTitle(t *testing.T) {
	url, _ := env(t)

	res := run(t, "", "--api-url", url, "add", "  ")
	if res.code != ExitUsage || !strings.Contains(res.err, "empty title") {
		t.Errorf("got exit %d, stderr %q", res.code, res.err)
	}
}

func TestDoneTogglesCompletion(t *testing.T) {
	url, data := env(t, seed()...)

	res := run(t, "", "--api-url", url, "done", "1")
	if res.code != ExitOK {
		t.Fatalf("exit %d, stderr %q", res.code, res.err)
	}
	if !strings.Contains(res.stdout, "Todo updated successfully") {
		t.Errorf("stdout = %q", res.stdout)
	}
	item, _ := data.Get(1)
	if !item.Completed {
		t.Error("todo 1 should be completed")
	}
}

func TestEdit(t *testing.T) {
	url, data := env(t, seed()...)

	res := run(t, "", "--api-url", url, "edit", "2", "second", "renamed")
	if res.code != ExitOK {
		t.Fatalf("exit %d, stderr %q", res.code, res.err)
	}
	item, _ := data.Get(2)
	if item.Title != "second renamed" || !item.Completed {
		t.Errorf("unexpected item %+v", item)
	}
}

func TestRemove(t *testing.T) {
	url, data := env(t, seed()...)

	res := run(t, "", "--api-url", url, "rm", "2")
	if res.code != ExitOK {
		t.Fatalf("exit %d, stderr %q", res.code, res.err)
	}
	if !strings.Contains(res.stdout, "Todo deleted") {
		t.Errorf("stdout = %q", res.stdout)
	}
	items, _ := data.List()
	if len(items) != 1 || items[0].ID != 1 {
		t.Errorf("unexpected data %+v", items)
	}
}

func TestIndexErrors(t *testing.T) {
	url, _ := env(t, seed()...)

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"out of range", []string{"done", "3"}, "index out of range: have 2, got 3"},
		{"zero", []string{"rm", "0"}, "index out of range"},
		{"not a number", []string{"rm", "two"}, "not a number: two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, "", append([]string{"--api-url", url}, tt.args...)...)
			if res.code != ExitUsage || !strings.Contains(res.err, tt.msg) {
				t.Errorf("got exit %d, stderr %q", res.code, res.err)
			}
		})
	}
}

func TestBackendFailure(t *testing.T) {
	env(t)

	// Nothing listens on port 1.
	res := run(t, "", "--api-url", "http://127.0.0.1:1/todos", "add", "x")
	if res.code != ExitError || !strings.Contains(res.err, "Failed to add todo") {
		t.Errorf("got exit %d, stderr %q", res.code, res.err)
	}

	res = run(t, "", "--api-url", "http://127.0.0.1:1/todos", "rm", "1")
	if res.code != ExitError || !strings.Contains(res.err, "Failed to fetch todos") {
		t.Errorf("got exit %d, stderr %q", res.code, res.err)
	}
}

func TestUsageErrors(t *testing.T) {
	env(t)

	for _, args := range [][]string{
		{"nope"},
		{"done"},
		{"add"},
		{"--no-such-flag", "ls"},
	} {
		if res := run(t, "", args...); res.code != ExitUsage {
			t.Errorf("%v: exit %d, want %d (stderr %q)", args, res.code, ExitUsage, res.err)
		}
	}
}

func TestBadConfig(t *testing.T) {
	env(t)
	if res := run(t, "", "--log-format", "xml", "ls", "--plain"); res.code != ExitUsage {
		t.Errorf("exit %d, stderr %q", res.code, res.err)
	}
}

func TestListPlain(t *testing.T) {
	url, _ := env(t, seed()...)

	res := run(t, "", "--api-url", url, "ls", "--plain")
	if res.code != ExitOK {
		t.Fatalf("exit %d, stderr %q", res.code, res.err)
	}
	for _, want := range []string{"Todos x 1  - 1  Total 2", " 1. [ ] first", " 2. [x] second", "50%"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("missing %q in:\n%s", want, res.stdout)
		}
	}
}

func TestListGrouped(t *testing.T) {
	url, _ := env(t, seed()...)

	res := run(t, "", "--api-url", url, "ls", "--plain", "--group")
	if res.code != ExitOK {
		t.Fatalf("exit %d, stderr %q", res.code, res.err)
	}
	pending := strings.Index(res.stdout, "Pending")
	done := strings.Index(res.stdout, "Done")
	if pending < 0 || done < pending {
		t.Fatalf("unexpected grouping:\n%s", res.stdout)
	}
	// Grouped output keeps the global index.
	if !strings.Contains(res.stdout, " 2. [x] second") {
		t.Errorf("grouped index lost:\n%s", res.stdout)
	}
}

func TestAuthFlow(t *testing.T) {
	env(t)

	res := run(t, "", "auth", "status")
	if res.code != ExitOK || !strings.Contains(res.stdout, "not logged in") {
		t.Fatalf("status before login: exit %d, %q", res.code, res.stdout)
	}

	if res := run(t, "", "auth", "whoami"); res.code != ExitUsage {
		t.Errorf("whoami without token: exit %d", res.code)
	}

	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"ada"}`))
	jwt := "e30." + payload + ".sig"
	if res := run(t, jwt+"\n", "auth", "login"); res.code != ExitOK || !strings.Contains(res.stdout, "logged in") {
		t.Fatalf("login: exit %d, %q %q", res.code, res.stdout, res.err)
	}

	res = run(t, "", "auth", "whoami")
	if res.code != ExitOK || !strings.Contains(res.stdout, `"sub": "ada"`) {
		t.Errorf("whoami: exit %d, %q", res.code, res.stdout)
	}

	res = run(t, "", "auth", "status")
	if !strings.Contains(res.stdout, "source: file") || !strings.Contains(res.stdout, "expires: (unknown)") {
		t.Errorf("status after login: %q", res.stdout)
	}

	if res := run(t, "", "auth", "logout"); res.code != ExitOK {
		t.Errorf("logout: exit %d", res.code)
	}
	if res := run(t, "", "auth", "status"); !strings.Contains(res.stdout, "not logged in") {
		t.Errorf("status after logout: %q", res.stdout)
	}
}

func TestLogoutWithEnvToken(t *testing.T) {
	env(t)
	t.Setenv("TADA_TOKEN", "abc")

	res := run(t, "", "auth", "logout")
	if res.code != ExitOK || !strings.Contains(res.stdout, "nothing to delete") {
		t.Errorf("exit %d, %q", res.code, res.stdout)
	}
}
