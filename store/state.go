package store

import (
	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/changepin"
	"github.com/privacybydesign/irmamobile/session"
)

// Preferences of the user.
type Preferences struct {
	EnableCrashReporting bool   `json:"enableCrashReporting"`
	Language             string `json:"language"`
}

// Preference keys, as used by PreferenceSet
const (
	PreferenceCrashReporting = "enableCrashReporting"
	PreferenceLanguage       = "language"
)

func DefaultPreferences() Preferences {
	return Preferences{EnableCrashReporting: true, Language: "en"}
}

type EnrollmentStatus string

const (
	EnrollmentStatusNone      EnrollmentStatus = ""
	EnrollmentStatusStarted   EnrollmentStatus = "started"
	EnrollmentStatusSucceeded EnrollmentStatus = "success"
	EnrollmentStatusFailed    EnrollmentStatus = "failure"
)

// Enrollment is the state of the registration at keyshare servers.
type Enrollment struct {
	Status  EnrollmentStatus `json:"status"`
	Manager string           `json:"manager,omitempty"`
	// Enrolled lists the scheme managers at whose keyshare server the user is registered.
	Enrolled []string                 `json:"enrolled,omitempty"`
	Error    *irmamobile.SessionError `json:"error,omitempty" cbor:"-"`
}

// IsEnrolled returns whether the user is registered at the keyshare server of manager.
func (e Enrollment) IsEnrolled(manager irmamobile.SchemeManagerIdentifier) bool {
	for _, m := range e.Enrolled {
		if m == manager.String() {
			return true
		}
	}
	return false
}

// State is the application state.
type State struct {
	Credentials       irmamobile.CredentialInfoList `json:"credentials"`
	IrmaConfiguration *irmamobile.Configuration     `json:"irmaConfiguration"`
	Preferences       Preferences                   `json:"preferences"`
	Enrollment        Enrollment                    `json:"enrollment"`
	Sessions          session.Sessions              `json:"sessions"`
	ChangePin         changepin.State               `json:"changePin"`
}

// Initial returns the state of a freshly started app.
func Initial() State {
	return State{
		Preferences: DefaultPreferences(),
		Sessions:    session.Sessions{},
		ChangePin:   changepin.Initial(),
	}
}
