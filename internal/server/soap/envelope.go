// Package soap implements the legacy XML protocol adapter: it parses the
// game client's envelopes into canonical requests and renders canonical
// responses back into the envelope shape the client expects.
package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

const (
	// EnvelopeNS is the SOAP 1.1 envelope namespace.
	EnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

	// AuthNS is the legacy auth service namespace the client hardcodes.
	AuthNS = "http://gamespy.net/AuthService"
)

// ErrMalformedEnvelope reports an envelope that could not be parsed. It is a
// per-request failure; the adapter rejects the request and carries on.
var ErrMalformedEnvelope = errors.New("soap: malformed envelope")

// Operation is the first element inside the envelope body: the operation
// name plus its child elements.
type Operation struct {
	Name     string
	children []element
}

type element struct {
	XMLName  xml.Name
	Children []element `xml:",any"`
	Text     string    `xml:",chardata"`
}

type requestEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Operations []element `xml:",any"`
	} `xml:"Body"`
}

// ParseEnvelope extracts the operation from a request envelope. Anything
// that is not a well-formed envelope with exactly one body operation comes
// back as ErrMalformedEnvelope.
func ParseEnvelope(data []byte) (*Operation, error) {
	var env requestEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if len(env.Body.Operations) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedEnvelope)
	}

	op := env.Body.Operations[0]
	return &Operation{
		Name:     op.XMLName.Local,
		children: op.Children,
	}, nil
}

// Text returns the trimmed text content of the named child element, or ""
// when absent. Lookup is by local name; the client is inconsistent about
// namespace prefixes.
func (o *Operation) Text(local string) string {
	for _, child := range o.children {
		if child.XMLName.Local == local {
			return strings.TrimSpace(child.Text)
		}
	}
	return ""
}

type responseEnvelope struct {
	XMLName   xml.Name `xml:"soap:Envelope"`
	SoapNS    string   `xml:"xmlns:soap,attr"`
	XSINS     string   `xml:"xmlns:xsi,attr"`
	XSDNS     string   `xml:"xmlns:xsd,attr"`
	BodyInner innerXML `xml:"soap:Body"`
}

type innerXML struct {
	Payload []byte `xml:",innerxml"`
}

// WrapEnvelope serializes the payload and wraps it in a response envelope
// with the XML declaration the legacy client expects.
func WrapEnvelope(payload any) ([]byte, error) {
	inner, err := xml.Marshal(payload)
	if err != nil {
		return nil, err
	}

	env := responseEnvelope{
		SoapNS:    EnvelopeNS,
		XSINS:     "http://www.w3.org/2001/XMLSchema-instance",
		XSDNS:     "http://www.w3.org/2001/XMLSchema",
		BodyInner: innerXML{Payload: inner},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(env); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fault is the SOAP 1.1 fault payload.
type Fault struct {
	XMLName xml.Name `xml:"soap:Fault"`
	Code    string   `xml:"faultcode"`
	String  string   `xml:"faultstring"`
}

// WrapFault builds a complete fault envelope.
func WrapFault(code, message string) ([]byte, error) {
	return WrapEnvelope(Fault{Code: code, String: message})
}
