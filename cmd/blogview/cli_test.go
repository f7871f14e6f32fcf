package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// helpText calls the help function and returns the output as a string.
func helpText() string {
	var sb strings.Builder
	printUsage(&sb)
	return sb.String()
}

// longHelpText returns the long help for a named command.
func longHelpText(name string) string {
	var sb strings.Builder
	printCommandHelp(&sb, name)
	return sb.String()
}

// capture runs dispatch with stdout redirected and HOME pointed at a
// temporary directory.
func capture(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var sb strings.Builder
	old := stdout
	stdout = &sb
	t.Cleanup(func() { stdout = old })
	err := dispatch(args)
	return sb.String(), err
}

func withTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

// writeBlog lays out a small blog: posts.json plus pages/.
func writeBlog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"posts.json": `[
  {"file":"hello.md","title":"Hello World","date":"2024-03-01","category":"general","description":"First post","tags":["intro","go"]},
  {"file":"deep.md","title":"Deep Dive","date":"2024-02-01","excerpt":"Channels in depth","tags":["go"]}
]`,
		"pages/hello.md": "---\ntitle: Hello World\ndate: 2024-03-01\ncategory: general\ntags: [\"intro\", \"go\"]\n---\n# Hello\n\nHello gophers.\n",
		"pages/deep.md":  "No front matter here.\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// TestHelpContainsAllCommands checks the listing is derived from the
// commands slice.
func TestHelpContainsAllCommands(t *testing.T) {
	help := helpText()
	for _, cmd := range commands {
		if !strings.Contains(help, cmd.name) {
			t.Errorf("help output missing command %q", cmd.name)
		}
		if !strings.Contains(help, cmd.short) {
			t.Errorf("help output missing short description for %q", cmd.short)
		}
	}
	if !strings.Contains(help, "Usage:") || !strings.Contains(help, "blogview") {
		t.Errorf("help output missing usage header:\n%s", help)
	}
}

func TestLongHelpForKnownCommands(t *testing.T) {
	for _, cmd := range commands {
		t.Run(cmd.name, func(t *testing.T) {
			out := longHelpText(cmd.name)
			if !strings.Contains(out, cmd.usage) {
				t.Errorf("long help for %q missing usage line %q\ngot: %s", cmd.name, cmd.usage, out)
			}
		})
	}
}

func TestLongHelpUnknownCommand(t *testing.T) {
	out := longHelpText("no-such-command")
	if !strings.Contains(out, "unknown") {
		t.Errorf("expected unknown-command message, got: %s", out)
	}
}

func TestDispatchHelp(t *testing.T) {
	for _, args := range [][]string{nil, {"--help"}, {"-h"}, {"help"}, {"help", "list"}} {
		if _, err := capture(t, args...); err != nil {
			t.Errorf("dispatch(%q) returned error: %v", args, err)
		}
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	_, err := capture(t, "no-such-command-xyz")
	if err == nil || !strings.Contains(err.Error(), "unknown") {
		t.Errorf("expected unknown command error, got %v", err)
	}
}

// TestSubcommandBadArgsGivesUsage checks that wrong arguments reach the
// subcommand and come back as a usage error.
func TestSubcommandBadArgsGivesUsage(t *testing.T) {
	withTempHome(t)
	cases := [][]string{
		{"show"},
		{"show", "a.md", "b.md"},
		{"list", "extra"},
		{"list", "-nope"},
		{"theme", "purple"},
	}
	for _, args := range cases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := capture(t, args...)
			if err == nil {
				t.Fatalf("dispatch(%q) should return error", args)
			}
			if strings.Contains(err.Error(), "unknown command") {
				t.Errorf("dispatch(%q) gave 'unknown command'", args)
			}
			if !strings.Contains(err.Error(), "usage") {
				t.Errorf("dispatch(%q) error lacks usage: %v", args, err)
			}
		})
	}
}

func TestCommandsHaveRequiredFields(t *testing.T) {
	if len(commands) == 0 {
		t.Fatal("commands slice is empty")
	}
	for _, cmd := range commands {
		if cmd.name == "" || cmd.short == "" || cmd.usage == "" || cmd.run == nil {
			t.Errorf("command %q is missing fields", cmd.name)
		}
	}
}

func TestList(t *testing.T) {
	withTempHome(t)
	blog := writeBlog(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "all",
			args: nil,
			want: []string{"DATE", "Hello World", "Deep Dive", "intro,go"},
		},
		{
			name:    "tag",
			args:    []string{"-tag", "intro"},
			want:    []string{"Hello World"},
			notWant: []string{"Deep Dive"},
		},
		{
			name:    "query matches excerpt",
			args:    []string{"-q", "CHANNELS"},
			want:    []string{"Deep Dive"},
			notWant: []string{"Hello World"},
		},
		{
			name:    "tag and query",
			args:    []string{"-tag", "intro", "-q", "channels"},
			want:    []string{"No posts found."},
			notWant: []string{"Deep Dive", "Hello World"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"list", "-site", blog}, tt.args...)
			out, err := capture(t, args...)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestListHTML(t *testing.T) {
	withTempHome(t)
	blog := writeBlog(t)

	out, err := capture(t, "list", "-site", blog, "-tag", "go", "-html")
	if err != nil {
		t.Fatalf("list -html: %v", err)
	}
	for _, want := range []string{
		`<div id="tags-container">`,
		`data-tag="go">go (2)</button>`,
		`href="post.html?file=hello.md"`,
		`2024-03-01 &middot; general`,
		`<p id="no-results" hidden>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListMissingManifest(t *testing.T) {
	withTempHome(t)

	out, err := capture(t, "list", "-site", t.TempDir(), "-html")
	if err == nil {
		t.Fatal("expected error for missing posts.json")
	}
	if !strings.Contains(out, `id="load-error"`) || !strings.Contains(out, `<p id="no-results">`) {
		t.Errorf("error state not rendered:\n%s", out)
	}
}

func TestTags(t *testing.T) {
	withTempHome(t)
	blog := writeBlog(t)

	out, err := capture(t, "tags", "-site", blog)
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	goAt, introAt := strings.Index(out, "go"), strings.Index(out, "intro")
	if goAt < 0 || introAt < 0 || goAt > introAt {
		t.Errorf("tags not sorted by name:\n%s", out)
	}
	if !strings.Contains(out, "2") || !strings.Contains(out, "1") {
		t.Errorf("counts missing:\n%s", out)
	}
}

func TestShow(t *testing.T) {
	withTempHome(t)
	blog := writeBlog(t)

	for _, arg := range []string{"hello.md", "?file=hello.md", "file=hello.md"} {
		t.Run(arg, func(t *testing.T) {
			out, err := capture(t, "show", "-site", blog, arg)
			if err != nil {
				t.Fatalf("show: %v", err)
			}
			if !strings.HasPrefix(out, "Hello World\n2024-03-01 · general\n#intro #go\n") {
				t.Errorf("header:\n%s", out)
			}
		})
	}
}

func TestShowUntitled(t *testing.T) {
	withTempHome(t)
	blog := writeBlog(t)

	out, err := capture(t, "show", "-site", blog, "-html", "deep.md")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"<title>Post - Blog</title>", `<h1 id="post-title">Untitled</h1>`, "No front matter here."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowHTML(t *testing.T) {
	withTempHome(t)
	blog := writeBlog(t)

	out, err := capture(t, "show", "-site", blog, "-html", "hello.md")
	if err != nil {
		t.Fatalf("show -html: %v", err)
	}
	for _, want := range []string{
		"<style>",
		"<title>Hello World - Blog</title>",
		`<span class="tag-btn">intro</span>`,
		"Hello gophers.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowMissingPost(t *testing.T) {
	withTempHome(t)
	blog := writeBlog(t)

	out, err := capture(t, "show", "-site", blog, "-html", "nope.md")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "file not found: nope.md") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(out, "file not found: nope.md") || !strings.Contains(out, "Back to posts") {
		t.Errorf("error page:\n%s", out)
	}
}

func TestThemeCommands(t *testing.T) {
	home := withTempHome(t)

	out, err := capture(t, "theme", "light")
	if err != nil || strings.TrimSpace(out) != "light" {
		t.Fatalf("theme light: %q, %v", out, err)
	}

	out, err = capture(t, "theme", "toggle")
	if err != nil || strings.TrimSpace(out) != "dark" {
		t.Fatalf("theme toggle: %q, %v", out, err)
	}

	out, err = capture(t, "theme", "status")
	if err != nil {
		t.Fatalf("theme status: %v", err)
	}
	if !strings.HasPrefix(out, "dark (stored in ") {
		t.Errorf("status = %q", out)
	}

	data, err := os.ReadFile(filepath.Join(home, ".blogview", "prefs.yaml"))
	if err != nil {
		t.Fatalf("read prefs: %v", err)
	}
	if !strings.Contains(string(data), "blog-theme: dark") {
		t.Errorf("prefs file:\n%s", data)
	}

	out, err = capture(t, "theme", "reset")
	if err != nil || !strings.HasSuffix(out, "(terminal)\n") {
		t.Fatalf("theme reset: %q, %v", out, err)
	}
	data, _ = os.ReadFile(filepath.Join(home, ".blogview", "prefs.yaml"))
	if strings.Contains(string(data), "blog-theme") {
		t.Errorf("reset left the stored theme:\n%s", data)
	}
}

func TestPostName(t *testing.T) {
	tests := map[string]string{
		"hello.md":            "hello.md",
		"?file=hello.md":      "hello.md",
		"file=a%20b.md":       "a b.md",
		"?other=x":            "",
		"notes/file=weird.md": "notes/file=weird.md",
	}
	for in, want := range tests {
		if got := postName(in); got != want {
			t.Errorf("postName(%q) = %q, want %q", in, got, want)
		}
	}
}
