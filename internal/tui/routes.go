package tui

import "github.com/Makepad-fr/tada/internal/router"

// Route names of the screens.
const (
	ScreenHome  = "home"
	ScreenTodos = "todos"
	ScreenHelp  = "help"
)

// HomeModule is the full todo list backed by the mock API.
var HomeModule = router.ModuleFunc(func(r *router.Router) error {
	return r.AddRoute(router.Route{Path: "/", Name: ScreenHome})
})

// TodosModule is the title-only list backed by the HTTP API.
var TodosModule = router.ModuleFunc(func(r *router.Router) error {
	return r.AddRoute(router.Route{Path: "/todos", Name: ScreenTodos})
})

// HelpModule shows key bindings without the default frame.
var HelpModule = router.ModuleFunc(func(r *router.Router) error {
	return r.AddRoute(router.Route{Path: "/help", Name: ScreenHelp, Meta: router.Meta{Layout: router.LayoutEmpty}})
})

// NewRouter returns the application router with every screen registered.
func NewRouter() (*router.Router, error) {
	r := router.Default()
	if err := router.RegisterModules(r, HomeModule, TodosModule, HelpModule); err != nil {
		return nil, err
	}
	return r, nil
}
