package irmamobile

import (
	"strings"
	"time"
)

// CredentialInfo contains all information of an IRMA credential.
type CredentialInfo struct {
	ID              string                                       `json:"id"`              // e.g., "studentCard"
	IssuerID        string                                       `json:"issuerId"`        // e.g., "RU"
	SchemeManagerID string                                       `json:"schemeManagerId"` // e.g., "irma-demo"
	SignedOn        time.Time                                    `json:"signedOn"`
	Expires         time.Time                                    `json:"expires"`
	Attributes      map[AttributeTypeIdentifier]TranslatedString `json:"attributes"` // Human-readable rendered attributes
	Hash            string                                       `json:"hash"`       // SHA256 hash over the attributes
}

// A CredentialInfoList is a list of credentials (implements sort.Interface).
type CredentialInfoList []*CredentialInfo

// IsExpired returns true if credential is expired at moment of calling this function
func (ci CredentialInfo) IsExpired() bool {
	return ci.Expires.Before(time.Now())
}

func (ci CredentialInfo) Identifier() CredentialTypeIdentifier {
	return NewCredentialTypeIdentifier(ci.SchemeManagerID + "." + ci.IssuerID + "." + ci.ID)
}

// Len implements sort.Interface.
func (cl CredentialInfoList) Len() int {
	return len(cl)
}

// Swap implements sort.Interface.
func (cl CredentialInfoList) Swap(i, j int) {
	cl[i], cl[j] = cl[j], cl[i]
}

// Less implements sort.Interface.
func (cl CredentialInfoList) Less(i, j int) bool {
	return strings.Compare(cl[i].Identifier().String(), cl[j].Identifier().String()) < 0
}
