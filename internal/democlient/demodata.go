package democlient

import (
	"time"

	irmamobile "github.com/privacybydesign/irmamobile"
)

// DemoManager is the scheme manager of the demo credentials. It uses a keyshare server.
const DemoManager = "irma-demo"

func tr(en, nl string) irmamobile.TranslatedString {
	return irmamobile.TranslatedString{"en": en, "nl": nl}
}

// DemoConfiguration returns the descriptions of the demo credentials.
func DemoConfiguration() *irmamobile.Configuration {
	conf := &irmamobile.Configuration{
		SchemeManagers:  map[irmamobile.SchemeManagerIdentifier]*irmamobile.SchemeManager{},
		Issuers:         map[irmamobile.IssuerIdentifier]*irmamobile.Issuer{},
		CredentialTypes: map[irmamobile.CredentialTypeIdentifier]*irmamobile.CredentialType{},
		AttributeTypes:  map[irmamobile.AttributeTypeIdentifier]*irmamobile.AttributeType{},
	}

	manager := &irmamobile.SchemeManager{
		ID:                DemoManager,
		Name:              tr("Demo", "Demo"),
		KeyshareServer:    "https://irma.example.com/keyshare",
		KeyshareWebsite:   "https://irma.example.com/myirma",
		KeyshareAttribute: "irma-demo.sidn-pbdf.irmatube.type",
	}
	conf.SchemeManagers[manager.Identifier()] = manager

	issuer := func(id string, name irmamobile.TranslatedString) {
		iss := &irmamobile.Issuer{ID: id, SchemeManagerID: DemoManager, Name: name}
		conf.Issuers[iss.Identifier()] = iss
	}
	issuer("MijnOverheid", tr("My Government", "MijnOverheid"))
	issuer("RU", tr("Radboud University", "Radboud Universiteit"))

	credential := func(issuerID, id string, name irmamobile.TranslatedString, attrs map[string]irmamobile.TranslatedString) {
		ct := &irmamobile.CredentialType{ID: id, IssuerID: issuerID, SchemeManagerID: DemoManager, Name: name}
		conf.CredentialTypes[ct.Identifier()] = ct
		for attrID, attrName := range attrs {
			at := &irmamobile.AttributeType{ID: attrID, CredentialTypeID: ct.Identifier().String(), Name: attrName}
			conf.AttributeTypes[at.Identifier()] = at
		}
	}
	credential("MijnOverheid", "ageLower", tr("Age limits", "Leeftijdsgrenzen"), map[string]irmamobile.TranslatedString{
		"over12": tr("Over 12", "Ouder dan 12"),
		"over16": tr("Over 16", "Ouder dan 16"),
		"over18": tr("Over 18", "Ouder dan 18"),
	})
	credential("MijnOverheid", "fullName", tr("Name", "Naam"), map[string]irmamobile.TranslatedString{
		"firstname":  tr("First name", "Voornaam"),
		"familyname": tr("Family name", "Achternaam"),
	})
	credential("MijnOverheid", "address", tr("Address", "Adres"), map[string]irmamobile.TranslatedString{
		"street": tr("Street", "Straat"),
		"city":   tr("City", "Plaats"),
	})
	credential("RU", "studentCard", tr("Student card", "Studentpas"), map[string]irmamobile.TranslatedString{
		"university": tr("University", "Universiteit"),
		"studentID":  tr("Student number", "Studentnummer"),
		"over18":     tr("Over 18", "Ouder dan 18"),
	})

	return conf
}

// DemoCredentials returns the credentials of the demo user. There is no address credential,
// so requests for an address are unsatisfiable.
func DemoCredentials(now time.Time) irmamobile.CredentialInfoList {
	cred := func(issuerID, id string, attrs map[string]string) *irmamobile.CredentialInfo {
		ci := &irmamobile.CredentialInfo{
			ID:              id,
			IssuerID:        issuerID,
			SchemeManagerID: DemoManager,
			SignedOn:        now.AddDate(0, -1, 0),
			Expires:         now.AddDate(1, 0, 0),
			Attributes:      map[irmamobile.AttributeTypeIdentifier]irmamobile.TranslatedString{},
		}
		for attr, value := range attrs {
			id := irmamobile.NewAttributeTypeIdentifier(ci.Identifier().String() + "." + attr)
			ci.Attributes[id] = irmamobile.NewTranslatedString(value)
		}
		return ci
	}
	return irmamobile.CredentialInfoList{
		cred("MijnOverheid", "ageLower", map[string]string{"over12": "yes", "over16": "yes", "over18": "yes"}),
		cred("MijnOverheid", "fullName", map[string]string{"firstname": "Alice", "familyname": "Demo"}),
		cred("RU", "studentCard", map[string]string{"university": "Radboud", "studentID": "s1234567", "over18": "yes"}),
	}
}
