package irmamobile

// TranslatedString is a map of translated strings.
type TranslatedString map[string]string

// Translate returns the string for the given language, falling back to English
// and then to any available translation.
func (ts TranslatedString) Translate(lang string) string {
	if s, ok := ts[lang]; ok {
		return s
	}
	if s, ok := ts["en"]; ok {
		return s
	}
	for _, s := range ts {
		return s
	}
	return ""
}

// NewTranslatedString returns a TranslatedString containing s in English and Dutch.
func NewTranslatedString(s string) TranslatedString {
	return TranslatedString{"en": s, "nl": s}
}

// Configuration is the part of an irma_configuration that the app displays: the names of
// scheme managers, issuers, credential types and attribute types.
type Configuration struct {
	SchemeManagers  map[SchemeManagerIdentifier]*SchemeManager   `json:"schemeManagers"`
	Issuers         map[IssuerIdentifier]*Issuer                 `json:"issuers"`
	CredentialTypes map[CredentialTypeIdentifier]*CredentialType `json:"credentialTypes"`
	AttributeTypes  map[AttributeTypeIdentifier]*AttributeType   `json:"attributeTypes"`
}

// SchemeManager describes a scheme manager.
type SchemeManager struct {
	ID                string           `json:"id"`
	Name              TranslatedString `json:"name"`
	KeyshareServer    string           `json:"keyshareServer,omitempty"`
	KeyshareWebsite   string           `json:"keyshareWebsite,omitempty"`
	KeyshareAttribute string           `json:"keyshareAttribute,omitempty"`
}

// Issuer describes an issuer.
type Issuer struct {
	ID              string           `json:"id"`
	SchemeManagerID string           `json:"schemeManagerId"`
	Name            TranslatedString `json:"name"`
	ContactEMail    string           `json:"contactEmail,omitempty"`
}

// CredentialType is a description of a credential type.
type CredentialType struct {
	ID              string           `json:"id"`
	IssuerID        string           `json:"issuerId"`
	SchemeManagerID string           `json:"schemeManagerId"`
	Name            TranslatedString `json:"name"`
	IsSingleton     bool             `json:"isSingleton"`
}

// AttributeType is a description of an attribute within a credential type.
type AttributeType struct {
	ID               string           `json:"id"`
	CredentialTypeID string           `json:"credentialTypeId"`
	Name             TranslatedString `json:"name"`
}

// Distributed indicates if this scheme manager uses a keyshare server.
func (sm *SchemeManager) Distributed() bool {
	return len(sm.KeyshareServer) > 0
}

// Identifier returns the identifier of the scheme manager.
func (sm *SchemeManager) Identifier() SchemeManagerIdentifier {
	return NewSchemeManagerIdentifier(sm.ID)
}

// Identifier returns the identifier of the specified issuer.
func (id *Issuer) Identifier() IssuerIdentifier {
	return NewIssuerIdentifier(id.SchemeManagerID + "." + id.ID)
}

// Identifier returns the identifier of the specified credential type.
func (ct *CredentialType) Identifier() CredentialTypeIdentifier {
	return NewCredentialTypeIdentifier(ct.SchemeManagerID + "." + ct.IssuerID + "." + ct.ID)
}

// Identifier returns the identifier of the attribute type.
func (at *AttributeType) Identifier() AttributeTypeIdentifier {
	return NewAttributeTypeIdentifier(at.CredentialTypeID + "." + at.ID)
}

// AttributeName returns the translated name of the attribute type, or its identifier
// when the configuration does not know it.
func (conf *Configuration) AttributeName(id AttributeTypeIdentifier, lang string) string {
	if conf != nil {
		if at, ok := conf.AttributeTypes[id]; ok {
			return at.Name.Translate(lang)
		}
	}
	return id.Name()
}

// CredentialName returns the translated name of the credential type, or its identifier
// when the configuration does not know it.
func (conf *Configuration) CredentialName(id CredentialTypeIdentifier, lang string) string {
	if conf != nil {
		if ct, ok := conf.CredentialTypes[id]; ok {
			return ct.Name.Translate(lang)
		}
	}
	return id.Name()
}
