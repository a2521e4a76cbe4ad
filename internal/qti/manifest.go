package qti

import "encoding/xml"

// Resource is one manifest entry for a generated item file.
type Resource struct {
	Identifier string
	Href       string
}

type imsManifest struct {
	XMLName    xml.Name      `xml:"manifest"`
	Xmlns      string        `xml:"xmlns,attr"`
	XmlnsImsmd string        `xml:"xmlns:imsmd,attr"`
	XmlnsQTI   string        `xml:"xmlns:imsqti,attr"`
	Identifier string        `xml:"identifier,attr"`
	Version    string        `xml:"version,attr"`
	Metadata   imsMetadata   `xml:"metadata"`
	Orgs       struct{}      `xml:"organizations"`
	Resources  []imsResource `xml:"resources>resource"`
}

type imsMetadata struct {
	Schema        string `xml:"schema"`
	SchemaVersion string `xml:"schemaversion"`
	LOM           imsLOM `xml:"imsmd:lom"`
}

type imsLOM struct {
	General imsGeneral `xml:"imsmd:general"`
}

type imsGeneral struct {
	Title imsTitle `xml:"imsmd:title"`
}

type imsTitle struct {
	LangString imsLangString `xml:"imsmd:langstring"`
}

type imsLangString struct {
	Lang string `xml:"xml:lang,attr"`
	Text string `xml:",chardata"`
}

type imsResource struct {
	Identifier string    `xml:"identifier,attr"`
	Type       string    `xml:"type,attr"`
	Href       string    `xml:"href,attr"`
	Files      []imsFile `xml:"file"`
}

type imsFile struct {
	Href string `xml:"href,attr"`
}

// GenerateManifest composes the imsmanifest.xml document for a package.
// manifestID must be unique per package; title and lang feed the LOM
// metadata block some LMS importers display during import.
func GenerateManifest(manifestID, title, lang string, resources []Resource) []byte {
	mf := imsManifest{
		Xmlns:      imscpNamespace,
		XmlnsImsmd: imsmdNamespace,
		XmlnsQTI:   qtiNamespace,
		Identifier: manifestID,
		Version:    "1.0",
		Metadata: imsMetadata{
			Schema:        "IMS Content",
			SchemaVersion: "1.1.3",
			LOM: imsLOM{
				General: imsGeneral{
					Title: imsTitle{
						LangString: imsLangString{Lang: lang, Text: title},
					},
				},
			},
		},
	}
	for _, r := range resources {
		mf.Resources = append(mf.Resources, imsResource{
			Identifier: r.Identifier,
			Type:       ResourceTypeItem,
			Href:       r.Href,
			Files:      []imsFile{{Href: r.Href}},
		})
	}

	b, _ := xml.MarshalIndent(mf, "", "  ")
	return append([]byte(xml.Header), b...)
}
