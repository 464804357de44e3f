package irmamobile

import (
	"encoding/json"
	"testing"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestIdentifiers(t *testing.T) {
	id := NewAttributeTypeIdentifier("irma-demo.MijnOverheid.ageLower.over18")
	require.Equal(t, "over18", id.Name())
	require.Equal(t, "irma-demo.MijnOverheid.ageLower", id.CredentialTypeIdentifier().String())
	require.Equal(t, "irma-demo", id.CredentialTypeIdentifier().IssuerIdentifier().SchemeManagerIdentifier().String())
	require.True(t, NewSchemeManagerIdentifier("").Empty())

	bts, err := json.Marshal(map[AttributeTypeIdentifier]string{id: "yes"})
	require.NoError(t, err)
	require.JSONEq(t, `{"irma-demo.MijnOverheid.ageLower.over18": "yes"}`, string(bts))

	var parsed AttributeTypeIdentifier
	require.NoError(t, json.Unmarshal([]byte(`"irma-demo.RU.studentCard.over18"`), &parsed))
	require.Equal(t, "studentCard", parsed.CredentialTypeIdentifier().Name())
}

func TestTranslate(t *testing.T) {
	ts := TranslatedString{"en": "Name", "nl": "Naam"}
	require.Equal(t, "Naam", ts.Translate("nl"))
	require.Equal(t, "Name", ts.Translate("de"))
	require.Equal(t, "Nom", TranslatedString{"fr": "Nom"}.Translate("nl"))
	require.Empty(t, TranslatedString(nil).Translate("en"))
}

func TestSessionError(t *testing.T) {
	var nilErr *SessionError
	require.Empty(t, nilErr.Error())
	require.Empty(t, nilErr.Stack())

	err := &SessionError{ErrorType: ErrorTransport}
	require.Equal(t, "transport", err.Error())

	err = &SessionError{ErrorType: ErrorKeyshare, Info: "server down"}
	require.Equal(t, "keyshare: server down", err.Error())

	wrapped := errors.New("connection refused")
	err = &SessionError{ErrorType: ErrorTransport, Err: wrapped}
	require.Equal(t, "transport: connection refused", err.Error())
	require.True(t, errors.Is(err, wrapped))
	require.NotEmpty(t, err.Stack())
	require.Equal(t, "connection refused", err.WrappedError())

	err = &SessionError{
		ErrorType:   ErrorApi,
		RemoteError: &RemoteError{ErrorName: "SESSION_UNKNOWN", Message: "gone", Stacktrace: "trace"},
	}
	require.Equal(t, "api: gone", err.Error())
	require.Equal(t, "trace", err.Stack())
}

func TestNewLogger(t *testing.T) {
	require.Equal(t, logrus.InfoLevel, Verbosity(0))
	require.Equal(t, logrus.DebugLevel, Verbosity(1))
	require.Equal(t, logrus.TraceLevel, Verbosity(5))

	logger := NewLogger(1, false, true)
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}
