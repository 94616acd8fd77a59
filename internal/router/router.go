// Package router maps screen paths and names to routes, following
// redirects and running guards before every navigation.
package router

import (
	"errors"
	"fmt"
	"path"
	"sync"
)

var (
	ErrNotFound      = errors.New("route not found")
	ErrDuplicate     = errors.New("route already registered")
	ErrRedirectLoop  = errors.New("redirect loop")
	ErrUnknownLayout = errors.New("unknown layout")
)

const maxRedirects = 8

// Layout names the frame a screen is drawn in.
type Layout string

const (
	LayoutDefault Layout = "default"
	LayoutEmpty   Layout = "empty"
)

// Meta carries per-route data read by guards and the renderer.
type Meta struct {
	// Layout requested by the route. Empty means LayoutDefault.
	Layout Layout
	// Resolved is filled in by LoadLayout.
	Resolved Layout
}

// Route is a navigable screen.
type Route struct {
	Path string
	Name string
	Meta Meta
}

// Guard runs before a navigation commits. A non-nil error aborts it.
// Guards may modify to.
type Guard func(to *Route, from *Route) error

// Module registers its routes on a router.
type Module interface {
	Register(r *Router) error
}

// ModuleFunc adapts a function to Module.
type ModuleFunc func(r *Router) error

func (f ModuleFunc) Register(r *Router) error { return f(r) }

// Router holds routes, redirects and guards.
type Router struct {
	mu        sync.RWMutex
	routes    map[string]Route
	names     map[string]string
	redirects map[string]string
	guards    []Guard
	current   *Route
}

// New returns an empty router.
func New() *Router {
	return &Router{
		routes:    make(map[string]Route),
		names:     make(map[string]string),
		redirects: make(map[string]string),
	}
}

// Default returns the application router: "/" redirects to "/todos" and
// LoadLayout runs before each navigation.
func Default() *Router {
	r := New()
	r.Redirect("/", "/todos")
	r.BeforeEach(LoadLayout)
	return r
}

// RegisterModules lets each module add its routes.
func RegisterModules(r *Router, modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			return err
		}
	}
	return nil
}

// AddRoute registers rt. Paths and non-empty names must be unique.
func (r *Router) AddRoute(rt Route) error {
	rt.Path = clean(rt.Path)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routes[rt.Path]; ok {
		return fmt.Errorf("%w: path %s", ErrDuplicate, rt.Path)
	}
	if rt.Name != "" {
		if _, ok := r.names[rt.Name]; ok {
			return fmt.Errorf("%w: name %s", ErrDuplicate, rt.Name)
		}
		r.names[rt.Name] = rt.Path
	}
	r.routes[rt.Path] = rt
	return nil
}

// Redirect sends navigations to from on to to. Redirects win over routes
// registered on the same path.
func (r *Router) Redirect(from, to string) {
	r.mu.Lock()
	r.redirects[clean(from)] = clean(to)
	r.mu.Unlock()
}

// BeforeEach appends a guard. Guards run in registration order.
func (r *Router) BeforeEach(g Guard) {
	r.mu.Lock()
	r.guards = append(r.guards, g)
	r.mu.Unlock()
}

// Resolve follows redirects from p and returns the matching route.
func (r *Router) Resolve(p string) (Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p = clean(p)
	for hops := 0; ; hops++ {
		to, ok := r.redirects[p]
		if !ok {
			break
		}
		if hops == maxRedirects {
			return Route{}, fmt.Errorf("%w at %s", ErrRedirectLoop, p)
		}
		p = to
	}
	rt, ok := r.routes[p]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return rt, nil
}

// ResolveName returns the route registered under name. Redirects do not apply.
func (r *Router) ResolveName(name string) (Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.names[name]
	if !ok {
		return Route{}, fmt.Errorf("%w: name %s", ErrNotFound, name)
	}
	return r.routes[p], nil
}

// Push navigates to the route resolved from p.
func (r *Router) Push(p string) (Route, error) {
	rt, err := r.Resolve(p)
	if err != nil {
		return Route{}, err
	}
	return r.navigate(rt)
}

// PushName navigates to the named route.
func (r *Router) PushName(name string) (Route, error) {
	rt, err := r.ResolveName(name)
	if err != nil {
		return Route{}, err
	}
	return r.navigate(rt)
}

// Current returns the route of the last successful navigation.
func (r *Router) Current() (Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return Route{}, false
	}
	return *r.current, true
}

func (r *Router) navigate(to Route) (Route, error) {
	r.mu.RLock()
	guards := append([]Guard(nil), r.guards...)
	var from *Route
	if r.current != nil {
		f := *r.current
		from = &f
	}
	r.mu.RUnlock()

	for _, g := range guards {
		if err := g(&to, from); err != nil {
			return Route{}, fmt.Errorf("navigate to %s: %w", to.Path, err)
		}
	}

	r.mu.Lock()
	r.current = &to
	r.mu.Unlock()
	return to, nil
}

// LoadLayout resolves the layout of the target route.
func LoadLayout(to *Route, _ *Route) error {
	layout := to.Meta.Layout
	if layout == "" {
		layout = LayoutDefault
	}
	switch layout {
	case LayoutDefault, LayoutEmpty:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}
	to.Meta.Resolved = layout
	return nil
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}
