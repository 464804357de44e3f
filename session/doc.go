// Package session contains the state of disclosure and signing sessions, the reducer that
// applies client callbacks to it, and the signing session screen.
//
// A session goes through the statuses of the IRMA session protocol as reported by the client.
// The screen is a pure function of the session: every part of it decides from the session
// alone whether it shows anything. Actions of the user are sent to a ui.Dispatcher as commands.
package session
