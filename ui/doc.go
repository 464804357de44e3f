// Package ui contains the declarative description of what the app displays. Views are pure
// functions from state to a tree of Nodes; hosts (a terminal, a browser, tests) render that
// tree and send the Commands attached to its buttons and inputs to a single Dispatcher.
package ui
