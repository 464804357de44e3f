package controller

import (
	"sync"
)

// Route names
const (
	RouteHome       = "home"
	RouteChangePin  = "changePin"
	RouteSession    = "session"
	RouteEnrollment = "enrollment"
)

// Route identifies a screen.
type Route struct {
	Name      string `json:"name"`
	SessionID int    `json:"sessionId,omitempty"`
	Manager   string `json:"manager,omitempty"`
}

// RouteStack is a Navigator that keeps the visited routes in memory. Its root route is never
// popped.
type RouteStack struct {
	mu     sync.RWMutex
	routes []Route
}

var _ Navigator = (*RouteStack)(nil)

func NewRouteStack(root Route) *RouteStack {
	return &RouteStack{routes: []Route{root}}
}

func (rs *RouteStack) Navigate(route Route) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.routes = append(rs.routes, route)
}

func (rs *RouteStack) Back() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.routes) > 1 {
		rs.routes = rs.routes[:len(rs.routes)-1]
	}
}

// Current returns the route on top of the stack.
func (rs *RouteStack) Current() Route {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.routes[len(rs.routes)-1]
}

func (rs *RouteStack) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.routes)
}
