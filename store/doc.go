// Package store holds the application state of the wallet. The state consists of six
// independent slices, each with its own reducer. A Store applies events to the state one at a
// time and notifies subscribers of every new state; preferences and enrollment are persisted
// in a bbolt database.
package store
