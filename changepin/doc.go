// Package changepin contains the screen on which the user changes the PIN of their keyshare
// enrollments, together with the state it renders and the reducer that maintains that state.
//
// The screen is in exactly one of six statuses. Each status is its own type, carrying only
// the data that is meaningful in that status: the number of remaining attempts exists only in
// PinError, the blocking timeout only in KeyshareBlocked, and the error only in Failed.
package changepin
