// Package ui is the interactive terminal reader: a filterable post list and
// a post viewer.
//
// The listing, search and theme packages do the work; this package only
// turns their output into bubbletea messages. Renders, whether issued from
// Update itself or from the manifest load or debounce timer goroutines, are
// queued without blocking and applied in Update as one batch.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"blogview/internal/comments"
	"blogview/internal/config"
	"blogview/internal/frontmatter"
	"blogview/internal/listing"
	"blogview/internal/manifest"
	"blogview/internal/post"
	"blogview/internal/prefs"
	"blogview/internal/search"
	"blogview/internal/source"
	"blogview/internal/theme"
)

type screen int

const (
	screenList screen = iota
	screenPost
)

// Messages bridged from listing/search.
type (
	tagsMsg struct {
		tags   []manifest.TagCount
		active string
	}
	postsMsg    []manifest.Post
	listErrMsg  struct{ err error }
	searchValue string
)

type postLoadedMsg struct {
	file string
	doc  frontmatter.Document
	err  error
}

// bridge implements listing.Renderer and search.Input. Renders are queued
// without blocking, since some of them are issued from inside Update, and
// handed to Update in batches.
type bridge struct {
	mu     sync.Mutex
	queue  []tea.Msg
	notify chan struct{}
}

func newBridge() *bridge {
	return &bridge{notify: make(chan struct{}, 1)}
}

func (b *bridge) push(msg tea.Msg) {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// take removes and returns everything queued so far.
func (b *bridge) take() []tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.queue
	b.queue = nil
	return q
}

func (b *bridge) RenderTags(tags []manifest.TagCount, active string) {
	b.push(tagsMsg{tags: tags, active: active})
}

func (b *bridge) RenderPosts(posts []manifest.Post) { b.push(postsMsg(posts)) }

func (b *bridge) RenderError(err error) { b.push(listErrMsg{err: err}) }

func (b *bridge) SetValue(v string) { b.push(searchValue(v)) }

// eventBatch is every render queued since the last batch, in order.
type eventBatch []tea.Msg

func waitForEvent(ctx context.Context, events *bridge) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-events.notify:
			return eventBatch(events.take())
		case <-ctx.Done():
			return nil
		}
	}
}

// Options configures the reader.
type Options struct {
	Source   source.Source
	Settings config.Settings
	// Themes nil means a light theme that is not stored.
	Themes *theme.Controller
	Logger *log.Logger
	// Clock drives the search debounce; nil means the real clock.
	Clock search.Clock
}

// Model is the bubbletea model.
type Model struct {
	ctx       context.Context
	app       *listing.App
	search    *search.Search
	loader    *post.Loader
	themes    *theme.Controller
	comments  comments.Config
	siteTitle string
	logger    *log.Logger
	events    *bridge

	keys   keyMap
	help   help.Model
	input  textinput.Model
	vp     viewport.Model
	styles styles

	screen  screen
	loading bool
	tags    []manifest.TagCount
	active  string
	posts   []manifest.Post
	cursor  int
	listErr error
	status  string

	file    string
	doc     *frontmatter.Document
	header  post.Page
	postErr error

	width, height int
}

// New wires the listing, search and loader around one event channel.
func New(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Themes == nil {
		opts.Themes = theme.NewController(prefs.NewMemory(), theme.Fixed(false))
	}
	events := newBridge()

	app := listing.New(opts.Source, events, opts.Logger)
	s := search.New(app, events, opts.Clock, opts.Settings.SearchDelay)
	app.SetResetter(s)

	in := textinput.New()
	in.Placeholder = "search title, description, category, tags"
	in.Prompt = "/ "
	in.CharLimit = 128

	return Model{
		ctx:       ctx,
		app:       app,
		search:    s,
		loader:    post.NewLoader(opts.Source),
		themes:    opts.Themes,
		comments:  opts.Settings.Comments,
		siteTitle: opts.Settings.Title,
		logger:    opts.Logger,
		events:    events,
		keys:      defaultKeys(),
		help:      help.New(),
		input:     in,
		vp:        viewport.New(80, 20),
		styles:    newStyles(opts.Themes.Current()),
		loading:   true,
	}
}

func (m Model) loadManifest() tea.Cmd {
	return func() tea.Msg {
		// Errors reach the view through RenderError.
		m.app.Init(m.ctx)
		return nil
	}
}

func (m Model) loadPost(file string) tea.Cmd {
	return func() tea.Msg {
		doc, err := m.loader.Load(m.ctx, file)
		return postLoadedMsg{file: file, doc: doc, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadManifest(), waitForEvent(m.ctx, m.events), tea.SetWindowTitle(m.siteTitle))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, msg.Width-4)
		m.help.Width = msg.Width
		m.vp.Width = msg.Width
		m.vp.Height = max(3, msg.Height-postChromeHeight)
		if m.screen == screenPost {
			m.refreshPost()
		}
		return m, nil

	case eventBatch:
		for _, e := range msg {
			m = m.apply(e)
		}
		return m, waitForEvent(m.ctx, m.events)

	case tagsMsg, postsMsg, listErrMsg, searchValue:
		return m.apply(msg), nil

	case postLoadedMsg:
		if m.screen != screenPost || msg.file != m.file {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Printf("load post %s: %v", msg.file, msg.err)
			m.postErr = msg.err
			m.header = post.ErrorPage(msg.err.Error(), m.siteTitle)
		} else {
			m.doc = &msg.doc
			m.header = post.Header(msg.doc.Meta, m.siteTitle)
		}
		m.refreshPost()
		return m, tea.SetWindowTitle(m.header.DocumentTitle)

	case tea.KeyMsg:
		if m.screen == screenPost {
			return m.updatePost(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

// apply folds one bridged render into the model.
func (m Model) apply(msg tea.Msg) Model {
	switch msg := msg.(type) {
	case tagsMsg:
		m.tags, m.active = msg.tags, msg.active
	case postsMsg:
		m.loading = false
		m.posts = msg
		m.cursor = 0
	case listErrMsg:
		m.listErr = msg.err
	case searchValue:
		m.input.SetValue(string(msg))
	}
	return m
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input.Focused() {
		switch msg.Type {
		case tea.KeyCtrlC:
			m.search.Stop()
			return m, tea.Quit
		case tea.KeyEnter:
			m.search.Confirm(m.input.Value())
			m.input.Blur()
			return m, nil
		case tea.KeyEsc:
			m.input.Blur()
			return m, nil
		}
		prev := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != prev {
			m.search.Changed(v)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.search.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.NextTag):
		m.app.SelectTag(cycleTag(m.app.Tags(), m.app.ActiveTag(), 1))
	case key.Matches(msg, m.keys.PrevTag):
		m.app.SelectTag(cycleTag(m.app.Tags(), m.app.ActiveTag(), -1))
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		m.listErr = nil
		m.search.Reset()
		return m, m.loadManifest()
	case key.Matches(msg, m.keys.Open):
		if len(m.posts) == 0 {
			return m, nil
		}
		m.screen = screenPost
		m.file = m.posts[m.cursor].File
		m.doc = nil
		m.postErr = nil
		m.header = post.Page{Title: m.posts[m.cursor].Title}
		m.refreshPost()
		return m, m.loadPost(m.file)
	}
	return m, nil
}

func (m Model) updatePost(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.search.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.screen = screenList
		m.file = ""
		return m, tea.SetWindowTitle(m.siteTitle)
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
		m.refreshPost()
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// cycleTag returns the tag step positions away from active, where
// position 0 is "all". Callers pass the app's tags and active tag; the
// model's copies lag until queued renders are applied.
func cycleTag(tags []manifest.TagCount, active string, step int) string {
	options := make([]string, 0, len(tags)+1)
	options = append(options, "")
	for _, t := range tags {
		options = append(options, t.Name)
	}
	i := 0
	for j, name := range options {
		if name == active {
			i = j
			break
		}
	}
	n := len(options)
	return options[((i+step)%n+n)%n]
}

func (m *Model) toggleTheme() {
	t, err := m.themes.Toggle()
	if err != nil {
		m.logger.Printf("toggle theme: %v", err)
		m.status = fmt.Sprintf("theme not saved: %v", err)
	} else {
		m.status = ""
	}
	m.styles = newStyles(t)
}

// refreshPost re-renders the post body into the viewport.
func (m *Model) refreshPost() {
	switch {
	case m.postErr != nil:
		m.vp.SetContent(m.errorPanel())
	case m.doc == nil:
		m.vp.SetContent(m.styles.muted.Render("loading…"))
	default:
		body, err := post.Terminal(m.doc.Body, m.themes.Current(), m.width)
		if err != nil {
			m.logger.Printf("render post %s: %v", m.file, err)
			body = m.doc.Body
		}
		m.vp.SetContent(body)
	}
	m.vp.GotoTop()
}

func (m Model) errorPanel() string {
	msg := m.postErr.Error()
	if errors.Is(m.postErr, post.ErrNoFile) {
		msg = "No post file was specified."
	}
	return m.styles.errText.Render(msg) + "\n\n" + m.styles.muted.Render("← esc: back to posts")
}

// Run starts the reader and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
