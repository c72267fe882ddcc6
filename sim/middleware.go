package sim

// Middleware is a piece of behavior of a component. A component runs its
// middlewares in order on every tick.
type Middleware interface {
	// Tick processes a tick event. It returns true if progress is made.
	Tick() bool
}

// MiddlewareHolder can maintain a list of middleware.
type MiddlewareHolder struct {
	middlewares []Middleware
}

// AddMiddleware appends a middleware to the holder.
func (h *MiddlewareHolder) AddMiddleware(m Middleware) {
	h.middlewares = append(h.middlewares, m)
}

// Middlewares returns the list of middleware.
func (h *MiddlewareHolder) Middlewares() []Middleware {
	return h.middlewares
}

// Tick ticks every middleware once. It returns true if any of them makes
// progress.
func (h *MiddlewareHolder) Tick() bool {
	progress := false

	for _, m := range h.middlewares {
		progress = m.Tick() || progress
	}

	return progress
}
