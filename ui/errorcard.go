package ui

import (
	"fmt"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/i18n"
)

// ErrorCard displays a session error. The error is not interpreted, only its fields are listed.
func ErrorCard(err *irmamobile.SessionError, t *i18n.Translator) *Node {
	t = t.Namespaced("ErrorCard")
	n := newNode(KindErrorCard, nil)
	n.Error = err
	if err == nil {
		return n
	}

	row := func(key, value string) {
		if value != "" {
			n.Children = append(n.Children, CardItem(
				Text(t.T(key)).WithBold(),
				Text(value),
			))
		}
	}
	row(".type", string(err.ErrorType))
	row(".info", err.Info)
	row(".error", err.WrappedError())
	if remote := err.RemoteError; remote != nil {
		if remote.Status != 0 {
			row(".remoteStatus", fmt.Sprintf("%d", remote.Status))
		}
		row(".remoteError", remote.ErrorName)
		row(".remoteDescription", remote.Description)
		row(".remoteMessage", remote.Message)
	}
	row(".stacktrace", err.Stack())
	return n
}
