package store

import (
	"sort"

	"github.com/spf13/cast"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/changepin"
	"github.com/privacybydesign/irmamobile/session"
)

// Reduce passes event to the reducer of every slice. The slices are independent: no reducer
// sees or changes another slice.
func Reduce(state State, event irmamobile.Event) State {
	return State{
		Credentials:       reduceCredentials(state.Credentials, event),
		IrmaConfiguration: reduceConfiguration(state.IrmaConfiguration, event),
		Preferences:       reducePreferences(state.Preferences, event),
		Enrollment:        reduceEnrollment(state.Enrollment, event),
		Sessions:          session.Reduce(state.Sessions, event),
		ChangePin:         changepin.Reduce(state.ChangePin, event),
	}
}

func reduceCredentials(creds irmamobile.CredentialInfoList, event irmamobile.Event) irmamobile.CredentialInfoList {
	e, ok := event.(CredentialsUpdated)
	if !ok {
		return creds
	}
	sorted := make(irmamobile.CredentialInfoList, len(e.Credentials))
	copy(sorted, e.Credentials)
	sort.Sort(sorted)
	return sorted
}

func reduceConfiguration(conf *irmamobile.Configuration, event irmamobile.Event) *irmamobile.Configuration {
	if e, ok := event.(ConfigurationUpdated); ok {
		return e.Configuration
	}
	return conf
}

func reducePreferences(prefs Preferences, event irmamobile.Event) Preferences {
	switch e := event.(type) {
	case PreferencesLoaded:
		return e.Preferences
	case PreferenceSet:
		switch e.Key {
		case PreferenceCrashReporting:
			if b, err := cast.ToBoolE(e.Value); err == nil {
				prefs.EnableCrashReporting = b
			}
		case PreferenceLanguage:
			if s, err := cast.ToStringE(e.Value); err == nil && s != "" {
				prefs.Language = s
			}
		}
	}
	return prefs
}

func reduceEnrollment(enrollment Enrollment, event irmamobile.Event) Enrollment {
	switch e := event.(type) {
	case EnrollmentLoaded:
		return e.Enrollment
	case EnrollmentStarted:
		enrollment.Status = EnrollmentStatusStarted
		enrollment.Manager = e.Manager.String()
		enrollment.Error = nil
	case EnrollmentSucceeded:
		enrollment.Status = EnrollmentStatusSucceeded
		enrollment.Manager = e.Manager.String()
		enrollment.Error = nil
		if !enrollment.IsEnrolled(e.Manager) {
			enrolled := make([]string, len(enrollment.Enrolled), len(enrollment.Enrolled)+1)
			copy(enrolled, enrollment.Enrolled)
			enrollment.Enrolled = append(enrolled, e.Manager.String())
		}
	case EnrollmentFailed:
		enrollment.Status = EnrollmentStatusFailed
		enrollment.Manager = e.Manager.String()
		enrollment.Error = e.Err
	}
	return enrollment
}
