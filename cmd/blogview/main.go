package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"blogview/internal/config"
	"blogview/internal/listing"
	"blogview/internal/manifest"
	"blogview/internal/post"
	"blogview/internal/prefs"
	"blogview/internal/search"
	"blogview/internal/source"
	"blogview/internal/theme"
	"blogview/internal/ui"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(ctx context.Context, args []string) error
}

var commands = []command{
	{
		name:  "list",
		short: "List posts, optionally filtered by tag and search text",
		usage: "blogview list [-site S] [-config F] [-tag T] [-q QUERY] [-html]",
		long: `List the posts in the blog manifest (posts.json), newest first as
published.

-tag keeps only posts carrying that tag. -q keeps posts whose title,
description, excerpt, category or tags contain QUERY, ignoring case.
-html prints the tag buttons and post cards as HTML fragments.
`,
		run: runList,
	},
	{
		name:  "tags",
		short: "Print the tag index with post counts",
		usage: "blogview tags [-site S] [-config F]",
		long: `Print every tag in the manifest with the number of posts carrying it,
sorted by name.
`,
		run: runTags,
	},
	{
		name:  "show",
		short: "Render a single post",
		usage: "blogview show [-site S] [-config F] [-html] <file | ?file=NAME>",
		long: `Load pages/<file> from the blog and render it.

The post may be named directly or as a query string (?file=hello.md).
Without -html the body is rendered for the terminal. With -html the page
fragments are printed: title, meta line, tags, body, highlight CSS and the
comment embed when comments are configured.
`,
		run: runShow,
	},
	{
		name:  "theme",
		short: "Show or change the colour theme",
		usage: "blogview theme [status | toggle | light | dark | reset | watch]",
		long: `Inspect or change the stored theme preference.

  status   print the applied theme and where it came from (default)
  toggle   switch to the opposite theme and remember it
  light    remember the light theme
  dark     remember the dark theme
  reset    forget the stored choice and follow the terminal again
  watch    print the theme whenever the terminal background changes

The choice is kept in ~/.blogview/prefs.yaml under "blog-theme".
`,
		run: runTheme,
	},
	{
		name:  "browse",
		short: "Open the interactive reader",
		usage: "blogview browse [-site S] [-config F]",
		long: `Open a full-screen reader with tag filters, live search and a post
viewer.

Set BLOGVIEW_DEBUG=1 to write a log to ~/.blogview/debug.log.
`,
		run: runBrowse,
	},
}

// stdout receives command output.
var stdout io.Writer = os.Stdout

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "blogview: read a static blog from the terminal\n\n")
	fmt.Fprintf(w, "Usage:\n  blogview <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'blogview help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "blogview: unknown command %q\n\nRun 'blogview help' for usage.\n", name)
}

func dispatch(args []string) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(stdout, args[1])
		} else {
			printUsage(stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return cmd.run(ctx, args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'blogview help' for usage.", args[0])
}

// ---------------------------------------------------------------------------
// shared flags
// ---------------------------------------------------------------------------

type siteFlags struct {
	site   string
	config string
}

func newFlagSet(name string) (*flag.FlagSet, *siteFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sf := &siteFlags{}
	fs.StringVar(&sf.site, "site", "", "blog root: directory or http(s) URL")
	fs.StringVar(&sf.config, "config", "", "settings file (default ~/.blogview/settings.yaml)")
	return fs, sf
}

func parseFlags(fs *flag.FlagSet, args []string, usage string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%v\nusage: %s", err, usage)
	}
	return nil
}

// settings loads the settings file and applies -site over it.
func (sf *siteFlags) settings() (config.Settings, error) {
	path := sf.config
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Settings{}, err
		}
		path = p
	}
	s, err := config.Load(path)
	if err != nil {
		return config.Settings{}, err
	}
	if sf.site != "" {
		s.Site = sf.site
	}
	return s, nil
}

func (sf *siteFlags) open() (config.Settings, source.Source, error) {
	s, err := sf.settings()
	if err != nil {
		return s, nil, err
	}
	src, err := source.New(s.Site, &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		return s, nil, err
	}
	return s, src, nil
}

func themeController() (*theme.Controller, *prefs.File, error) {
	store, err := prefs.OpenDefault()
	if err != nil {
		return nil, nil, err
	}
	c := theme.NewController(store, theme.Terminal{})
	c.Start()
	return c, store, nil
}

// ---------------------------------------------------------------------------
// list / tags
// ---------------------------------------------------------------------------

// textView collects listing output for plain-text printing.
type textView struct {
	tags   []manifest.TagCount
	active string
	posts  []manifest.Post
	err    error
}

func (v *textView) RenderTags(tags []manifest.TagCount, active string) {
	v.tags, v.active = tags, active
}

func (v *textView) RenderPosts(posts []manifest.Post) { v.posts = posts }

func (v *textView) RenderError(err error) { v.err = err }

func (v *textView) writePosts(w io.Writer) error {
	if len(v.posts) == 0 {
		_, err := fmt.Fprintln(w, "No posts found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTITLE\tCATEGORY\tTAGS\tFILE")
	for _, p := range v.posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Date, p.Title, p.Category, strings.Join(p.Tags, ","), p.File)
	}
	return tw.Flush()
}

func (v *textView) writeTags(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range v.tags {
		marker := " "
		if t.Name == v.active {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%d\n", marker, t.Name, t.Count)
	}
	return tw.Flush()
}

func runList(ctx context.Context, args []string) error {
	const usage = "blogview list [-site S] [-config F] [-tag T] [-q QUERY] [-html]"
	fs, sf := newFlagSet("list")
	tag := fs.String("tag", "", "only posts with this tag")
	query := fs.String("q", "", "search text")
	asHTML := fs.Bool("html", false, "print HTML fragments")
	if err := parseFlags(fs, args, usage); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q\nusage: %s", fs.Arg(0), usage)
	}

	s, src, err := sf.open()
	if err != nil {
		return err
	}

	var view listing.Renderer
	text := &textView{}
	page := &listing.HTMLView{}
	if *asHTML {
		view = page
	} else {
		view = text
	}

	app := listing.New(src, view, log.Default())
	loadErr := app.Init(ctx)
	if loadErr == nil {
		if *tag != "" {
			app.SelectTag(*tag)
		}
		if *query != "" {
			search.New(app, nil, nil, s.SearchDelay).Confirm(*query)
		}
	}

	if *asHTML {
		if _, err := page.WriteTo(stdout); err != nil {
			return err
		}
	} else if loadErr == nil {
		if err := text.writePosts(stdout); err != nil {
			return err
		}
	}
	if loadErr != nil {
		return fmt.Errorf("load posts: %w", loadErr)
	}
	return nil
}

func runTags(ctx context.Context, args []string) error {
	fs, sf := newFlagSet("tags")
	if err := parseFlags(fs, args, "blogview tags [-site S] [-config F]"); err != nil {
		return err
	}
	_, src, err := sf.open()
	if err != nil {
		return err
	}
	view := &textView{}
	if err := listing.New(src, view, log.Default()).Init(ctx); err != nil {
		return fmt.Errorf("load posts: %w", err)
	}
	if len(view.tags) == 0 {
		fmt.Fprintln(stdout, "no tags")
		return nil
	}
	return view.writeTags(stdout)
}

// ---------------------------------------------------------------------------
// show
// ---------------------------------------------------------------------------

// postName accepts "hello.md", "?file=hello.md" or "file=hello.md".
func postName(arg string) string {
	if strings.HasPrefix(arg, "?") || strings.HasPrefix(arg, post.Param+"=") {
		return post.FileParam(arg)
	}
	return arg
}

func runShow(ctx context.Context, args []string) error {
	const usage = "blogview show [-site S] [-config F] [-html] <file | ?file=NAME>"
	fs, sf := newFlagSet("show")
	asHTML := fs.Bool("html", false, "print HTML fragments")
	if err := parseFlags(fs, args, usage); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s", usage)
	}
	file := postName(fs.Arg(0))

	s, src, err := sf.open()
	if err != nil {
		return err
	}
	themes, _, err := themeController()
	if err != nil {
		return err
	}

	doc, loadErr := post.NewLoader(src).Load(ctx, file)
	if loadErr != nil {
		if *asHTML {
			if _, err := post.ErrorPage(loadErr.Error(), s.Title).WriteTo(stdout); err != nil {
				return err
			}
		}
		return loadErr
	}

	if *asHTML {
		page, err := post.NewRenderer(s.Title, s.Comments).Render(doc, themes.Current())
		if err != nil {
			return err
		}
		css, err := post.StyleSheet(themes.Current())
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "<style>\n%s</style>\n", css)
		_, err = page.WriteTo(stdout)
		return err
	}

	header := post.Header(doc.Meta, s.Title)
	fmt.Fprintln(stdout, header.Title)
	if header.Meta != "" {
		fmt.Fprintln(stdout, header.Meta)
	}
	if len(header.Tags) > 0 {
		fmt.Fprintln(stdout, "#"+strings.Join(header.Tags, " #"))
	}
	body, err := post.Terminal(doc.Body, themes.Current(), 80)
	if err != nil {
		return fmt.Errorf("render %s: %w", file, err)
	}
	fmt.Fprint(stdout, body)
	if url := s.Comments.DiscussionsURL(); url != "" {
		fmt.Fprintf(stdout, "\ncomments: %s\n", url)
	}
	return nil
}

// ---------------------------------------------------------------------------
// theme
// ---------------------------------------------------------------------------

// printNotifier reports theme changes on stdout.
type printNotifier struct{ w io.Writer }

func (p printNotifier) ThemeChanged(t theme.Theme) { fmt.Fprintf(p.w, "theme: %s\n", t) }

func runTheme(ctx context.Context, args []string) error {
	action := "status"
	if len(args) > 0 {
		action = args[0]
	}
	if len(args) > 1 {
		return fmt.Errorf("usage: blogview theme [status | toggle | light | dark | reset | watch]")
	}

	themes, store, err := themeController()
	if err != nil {
		return err
	}

	switch action {
	case "status":
		origin := "terminal"
		if themes.Pinned() {
			origin = "stored in " + store.Path()
		}
		fmt.Fprintf(stdout, "%s (%s)\n", themes.Current(), origin)
		return nil
	case "toggle":
		t, err := themes.Toggle()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, t)
		return nil
	case "light", "dark":
		t, err := theme.Parse(action)
		if err != nil {
			return err
		}
		if err := themes.Set(t); err != nil {
			return err
		}
		fmt.Fprintln(stdout, t)
		return nil
	case "reset":
		t, err := themes.Reset()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s (terminal)\n", t)
		return nil
	case "watch":
		watched := theme.NewController(store, theme.Terminal{}, theme.WithNotifier(printNotifier{w: stdout}))
		watched.Start()
		if watched.Pinned() {
			fmt.Fprintln(stdout, "theme is pinned; run 'blogview theme reset' to follow the terminal")
		}
		err := watched.Watch(ctx, 2*time.Second)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return fmt.Errorf("unknown theme action %q\nusage: blogview theme [status | toggle | light | dark | reset | watch]", action)
}

// ---------------------------------------------------------------------------
// browse
// ---------------------------------------------------------------------------

func runBrowse(ctx context.Context, args []string) error {
	fs, sf := newFlagSet("browse")
	if err := parseFlags(fs, args, "blogview browse [-site S] [-config F]"); err != nil {
		return err
	}
	s, src, err := sf.open()
	if err != nil {
		return err
	}
	themes, _, err := themeController()
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if os.Getenv("BLOGVIEW_DEBUG") != "" {
		dir, err := prefs.Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		f, err := tea.LogToFile(filepath.Join(dir, "debug.log"), "blogview")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	return ui.Run(ctx, ui.Options{
		Source:   src,
		Settings: s,
		Themes:   themes,
		Logger:   logger,
	})
}

func main() {
	if err := dispatch(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
