package store

import (
	irmamobile "github.com/privacybydesign/irmamobile"
)

// CredentialsUpdated replaces the credentials.
type CredentialsUpdated struct {
	Credentials irmamobile.CredentialInfoList
}

// ConfigurationUpdated replaces the irma_configuration.
type ConfigurationUpdated struct {
	Configuration *irmamobile.Configuration
}

// PreferencesLoaded replaces the preferences, e.g. with those read from storage.
type PreferencesLoaded struct {
	Preferences Preferences
}

// PreferenceSet sets a single preference. Values are converted to the type of the preference;
// unknown keys and values that cannot be converted are ignored.
type PreferenceSet struct {
	Key   string
	Value interface{}
}

// EnrollmentLoaded replaces the enrollment state with the one read from storage.
type EnrollmentLoaded struct {
	Enrollment Enrollment
}

type EnrollmentStarted struct {
	Manager irmamobile.SchemeManagerIdentifier
}

type EnrollmentSucceeded struct {
	Manager irmamobile.SchemeManagerIdentifier
}

type EnrollmentFailed struct {
	Manager irmamobile.SchemeManagerIdentifier
	Err     *irmamobile.SessionError
}

func (CredentialsUpdated) EventName() string   { return "credentials/updated" }
func (ConfigurationUpdated) EventName() string { return "irmaConfiguration/updated" }
func (PreferencesLoaded) EventName() string    { return "preferences/loaded" }
func (PreferenceSet) EventName() string        { return "preferences/set" }
func (EnrollmentLoaded) EventName() string     { return "enrollment/loaded" }
func (EnrollmentStarted) EventName() string    { return "enrollment/started" }
func (EnrollmentSucceeded) EventName() string  { return "enrollment/succeeded" }
func (EnrollmentFailed) EventName() string     { return "enrollment/failed" }
