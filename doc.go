// Package irmamobile contains the types shared by all parts of the IRMA app's view core:
// attribute and credential identifiers, translated strings, session errors, the events that
// drive the application store, and the package logger.
//
// The views themselves live in the changepin and session packages; the store that holds the
// state they render lives in the store package.
package irmamobile
