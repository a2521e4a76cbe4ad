// Package qti renders parsed questions as QTI 2.1 assessment items and
// composes the IMS content-package manifest that indexes them.
package qti

import (
	"encoding/xml"
	"fmt"
	"strings"

	"aiken2qti/internal/aiken"
)

const (
	qtiNamespace   = "http://www.imsglobal.org/xsd/imsqti_v2p1"
	imscpNamespace = "http://www.imsglobal.org/xsd/imscp_v1p1"
	imsmdNamespace = "http://www.imsglobal.org/xsd/imsmd_v1p2"
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"

	// ResourceTypeItem is the IMS resource type for a QTI 2.1 item.
	ResourceTypeItem = "imsqti_item_xmlv2p1"

	// responseID is the response variable shared between the choice
	// interaction and its declaration.
	responseID = "RESPONSE"

	matchCorrectTemplate = "http://www.imsglobal.org/question/qti_v2p1/rptemplates/match_correct"

	maxTitleLen = 50
)

// ItemOptions carries the presentation knobs an item is rendered with.
type ItemOptions struct {
	// Prompt is shown above the choices.
	Prompt string
	// Shuffle lets the LMS randomize choice order on delivery.
	Shuffle bool
}

type assessmentItem struct {
	XMLName        xml.Name            `xml:"assessmentItem"`
	Xmlns          string              `xml:"xmlns,attr"`
	XmlnsXSI       string              `xml:"xmlns:xsi,attr"`
	SchemaLocation string              `xml:"xsi:schemaLocation,attr"`
	Identifier     string              `xml:"identifier,attr"`
	Title          string              `xml:"title,attr"`
	Adaptive       bool                `xml:"adaptive,attr"`
	TimeDependent  bool                `xml:"timeDependent,attr"`
	ResponseDecl   responseDeclaration `xml:"responseDeclaration"`
	OutcomeDecl    outcomeDeclaration  `xml:"outcomeDeclaration"`
	Body           itemBody            `xml:"itemBody"`
	Processing     responseProcessing  `xml:"responseProcessing"`
}

type responseDeclaration struct {
	Identifier  string          `xml:"identifier,attr"`
	Cardinality string          `xml:"cardinality,attr"`
	BaseType    string          `xml:"baseType,attr"`
	Correct     correctResponse `xml:"correctResponse"`
}

type correctResponse struct {
	Values []string `xml:"value"`
}

type outcomeDeclaration struct {
	Identifier  string       `xml:"identifier,attr"`
	Cardinality string       `xml:"cardinality,attr"`
	BaseType    string       `xml:"baseType,attr"`
	Default     defaultValue `xml:"defaultValue"`
}

type defaultValue struct {
	Value string `xml:"value"`
}

type itemBody struct {
	Div         promptDiv         `xml:"div"`
	Interaction choiceInteraction `xml:"choiceInteraction"`
}

type promptDiv struct {
	P string `xml:"p"`
}

type choiceInteraction struct {
	ResponseIdentifier string         `xml:"responseIdentifier,attr"`
	Shuffle            bool           `xml:"shuffle,attr"`
	MaxChoices         int            `xml:"maxChoices,attr"`
	Prompt             string         `xml:"prompt,omitempty"`
	Choices            []simpleChoice `xml:"simpleChoice"`
}

type simpleChoice struct {
	Identifier string `xml:"identifier,attr"`
	Text       string `xml:",chardata"`
}

type responseProcessing struct {
	Template string `xml:"template,attr"`
}

// ChoiceID returns the opaque identifier assigned to the i-th option
// (zero-based). Identifiers are deliberately decoupled from the display
// letters so they can never collide with reserved QTI tokens, and they
// are deterministic so repeated conversions produce identical items.
func ChoiceID(i int) string {
	return fmt.Sprintf("CHOICE_%d", i+1)
}

// GenerateItem renders one question as a self-contained QTI 2.1
// assessment-item document. Any Question produced by the parser renders
// cleanly: structural validity is established there, and encoding/xml
// escapes all markup-significant characters in text and attributes.
func GenerateItem(q aiken.Question, itemID string, opts ItemOptions) []byte {
	item := assessmentItem{
		Xmlns:          qtiNamespace,
		XmlnsXSI:       xsiNamespace,
		SchemaLocation: qtiNamespace + " " + qtiNamespace + ".xsd",
		Identifier:     itemID,
		Title:          itemTitle(q.Text),
		ResponseDecl: responseDeclaration{
			Identifier:  responseID,
			Cardinality: "single",
			BaseType:    "identifier",
		},
		OutcomeDecl: outcomeDeclaration{
			Identifier:  "SCORE",
			Cardinality: "single",
			BaseType:    "float",
			Default:     defaultValue{Value: "0"},
		},
		Body: itemBody{
			Div: promptDiv{P: q.Text},
			Interaction: choiceInteraction{
				ResponseIdentifier: responseID,
				Shuffle:            opts.Shuffle,
				MaxChoices:         1,
				Prompt:             opts.Prompt,
			},
		},
		Processing: responseProcessing{Template: matchCorrectTemplate},
	}

	for i, o := range q.Options {
		id := ChoiceID(i)
		item.Body.Interaction.Choices = append(item.Body.Interaction.Choices, simpleChoice{
			Identifier: id,
			Text:       o.Text,
		})
		if o.Letter == q.Answer {
			item.ResponseDecl.Correct.Values = []string{id}
		}
	}

	b, _ := xml.MarshalIndent(item, "", "  ")
	return append([]byte(xml.Header), b...)
}

// itemTitle derives a short title attribute from the question text.
// Markup-significant characters are dropped rather than escaped so the
// title stays readable in LMS listings.
func itemTitle(text string) string {
	title := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '&', '"':
			return -1
		}
		return r
	}, text)
	title = strings.TrimSpace(title)
	if r := []rune(title); len(r) > maxTitleLen {
		title = string(r[:maxTitleLen]) + "..."
	}
	if title == "" {
		return "Untitled question"
	}
	return title
}
