package session

import (
	"encoding/json"
	"time"

	irmamobile "github.com/privacybydesign/irmamobile"
)

// Candidate is an attribute the user can disclose to satisfy a disjunction.
type Candidate struct {
	Type           irmamobile.AttributeTypeIdentifier `json:"type"`
	Name           irmamobile.TranslatedString        `json:"name"`
	Value          irmamobile.TranslatedString        `json:"value"`
	CredentialName irmamobile.TranslatedString        `json:"credentialName"`
}

// Disjunction is a requested attribute, of which the user discloses one of the candidates.
type Disjunction struct {
	Label      string      `json:"label"`
	Candidates []Candidate `json:"candidates"`
}

// MissingDisjunction is a requested attribute for which the user has no candidates.
type MissingDisjunction struct {
	Label      string                               `json:"label,omitempty"`
	Attributes []irmamobile.AttributeTypeIdentifier `json:"attributes"`
}

// Session is the state of one session.
type Session struct {
	ID         int                         `json:"id"`
	Action     irmamobile.Action           `json:"action"`
	Status     Status                      `json:"status"`
	ServerName irmamobile.TranslatedString `json:"serverName,omitempty"`
	// Message is the message to be signed.
	Message string          `json:"message,omitempty"`
	Request json.RawMessage `json:"request,omitempty"`

	Disjunctions []Disjunction `json:"disjunctions,omitempty"`
	// Choice holds the index of the chosen candidate per disjunction.
	Choice  []int                `json:"choice,omitempty"`
	Missing []MissingDisjunction `json:"missing,omitempty"`

	// RemainingAttempts is negative until an incorrect PIN was entered.
	RemainingAttempts int                                `json:"remainingAttempts"`
	BlockedDuration   time.Duration                      `json:"blockedDuration,omitempty"`
	Manager           irmamobile.SchemeManagerIdentifier `json:"manager,omitempty"`
	Error             *irmamobile.SessionError           `json:"error,omitempty"`
}

// Chosen returns the chosen candidate of disjunction i, which defaults to the first one.
func (s *Session) Chosen(i int) (Candidate, bool) {
	j := s.choice(i)
	if j < 0 {
		return Candidate{}, false
	}
	return s.Disjunctions[i].Candidates[j], true
}

// choice returns the index of the chosen candidate of disjunction i, or -1 if there is none.
func (s *Session) choice(i int) int {
	if i < 0 || i >= len(s.Disjunctions) || len(s.Disjunctions[i].Candidates) == 0 {
		return -1
	}
	if i < len(s.Choice) && s.Choice[i] >= 0 && s.Choice[i] < len(s.Disjunctions[i].Candidates) {
		return s.Choice[i]
	}
	return 0
}

// Disclosure returns the chosen candidate of every disjunction.
func (s *Session) Disclosure() []Candidate {
	var candidates []Candidate
	for i := range s.Disjunctions {
		if c, ok := s.Chosen(i); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// Sessions maps session IDs to sessions.
type Sessions map[int]*Session
