package activity

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// IRI is an absolute URL appearing in a document. The text it was parsed
// from is kept so it serializes back exactly as it came in (url.URL drops
// an empty fragment, which JSON-LD vocabularies rely on).
type IRI struct {
	raw string
	u   *url.URL
}

// ParseIRI only accepts absolute URLs, so plain strings such as "en" are rejected.
func ParseIRI(s string) (*IRI, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() || u.Opaque == "" && u.Host == "" && u.Path == "" {
		return nil, fmt.Errorf("not an absolute url: %q", s)
	}
	return &IRI{raw: s, u: u}, nil
}

// MustParseIRI panics on a bad URL. Meant for constants and tests.
func MustParseIRI(s string) *IRI {
	i, err := ParseIRI(s)
	if err != nil {
		panic(err)
	}
	return i
}

// URL returns a copy of the parsed URL.
func (i *IRI) URL() *url.URL {
	u := *i.u
	return &u
}

func (i *IRI) String() string {
	return i.raw
}

func (i IRI) MarshalJSON() ([]byte, error) {
	return Marshal(i.raw)
}

func (i *IRI) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("url must be a string: %w", err)
	}
	parsed, err := ParseIRI(s)
	if err != nil {
		return err
	}
	*i = *parsed
	return nil
}
