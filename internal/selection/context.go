package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/query"
)

// DashboardPath is the top-level view.
const DashboardPath = "/dashboard"

// ErrSuperseded is returned by a selection overtaken by a later one. Its
// result was discarded.
var ErrSuperseded = errors.New("selection superseded by a later request")

var projectPath = regexp.MustCompile(`/projects/([^/]+)`)

// ProjectPath returns the page path of a project.
func ProjectPath(id string) string {
	return DashboardPath + "/projects/" + id
}

// ProjectIDFromPath extracts the project id a path refers to.
func ProjectIDFromPath(path string) (string, bool) {
	m := projectPath.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Navigator is the navigation surface the selection drives.
type Navigator interface {
	Path() string
	Push(path string)
}

// Loader resolves a project by id.
type Loader func(ctx context.Context, id string) (domain.Project, error)

// QueryLoader loads projects through the query cache.
func QueryLoader(q *query.Queries) Loader {
	return q.Projects.Get
}

// Context holds the active project of one session. It is created at the
// root of the view tree and passed to whatever needs it.
type Context struct {
	nav    Navigator
	load   Loader
	logger *slog.Logger

	mu        sync.Mutex
	active    *domain.Project
	seq       uint64
	pushing   string
	listeners map[uint64]func(domain.Project, bool)
	nextID    uint64
}

// Option configures a Context.
type Option func(*Context)

// WithLogger logs discarded selections at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// New creates a Context with no active project.
func New(nav Navigator, load Loader, opts ...Option) *Context {
	c := &Context{
		nav:       nav,
		load:      load,
		logger:    slog.New(slog.DiscardHandler),
		listeners: make(map[uint64]func(domain.Project, bool)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Active returns the active project, if any.
func (c *Context) Active() (domain.Project, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return domain.Project{}, false
	}
	return *c.active, true
}

// ActiveID returns the active project id or "".
func (c *Context) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return ""
	}
	return c.active.ID
}

// OnChange calls fn whenever the active project changes. The bool is false
// after a clear. The returned func stops the notifications.
func (c *Context) OnChange(fn func(p domain.Project, ok bool)) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// SelectProject loads id and makes it active, then navigates to its page
// unless the current path already refers to it. Selecting the active
// project fetches nothing but still supersedes a selection in flight. On
// failure the selection is left unchanged.
func (c *Context) SelectProject(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.active != nil && c.active.ID == id {
		c.seq++
		c.mu.Unlock()
		return nil
	}
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	p, err := c.load(ctx, id)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("selection discarded", "project_id", id)
		return ErrSuperseded
	}
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("selecting project %s: %w", id, err)
	}
	c.active = &p
	notify := c.notifierLocked(p, true)
	c.mu.Unlock()
	notify()

	if cur, ok := ProjectIDFromPath(c.nav.Path()); !ok || cur != id {
		c.push(ProjectPath(id))
	}
	return nil
}

// push navigates to path. SyncPath ignores the change it causes, so the
// echo of a settled selection cannot supersede a later one.
func (c *Context) push(path string) {
	c.mu.Lock()
	c.pushing = path
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.pushing = ""
		c.mu.Unlock()
	}()
	c.nav.Push(path)
}

// ClearSelection drops the active project and returns to the dashboard. A
// selection still loading is discarded.
func (c *Context) ClearSelection() {
	c.mu.Lock()
	c.seq++
	c.active = nil
	notify := c.notifierLocked(domain.Project{}, false)
	c.mu.Unlock()
	notify()
	c.nav.Push(DashboardPath)
}

// SyncPath makes the project path refers to the active one. Returning to
// the active project's path discards any selection still loading. Paths
// without a project are ignored.
func (c *Context) SyncPath(ctx context.Context, path string) error {
	id, ok := ProjectIDFromPath(path)
	if !ok {
		return nil
	}
	c.mu.Lock()
	echo := c.pushing == path
	c.mu.Unlock()
	if echo {
		return nil
	}
	return c.SelectProject(ctx, id)
}

func (c *Context) notifierLocked(p domain.Project, ok bool) func() {
	fns := make([]func(domain.Project, bool), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(p, ok)
		}
	}
}
