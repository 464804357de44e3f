// Package controller connects the views to the rest of the wallet. It is the single handler of
// the commands sent by the views, and it receives the callbacks of the IRMA client, turning both
// into store events and client calls.
package controller
