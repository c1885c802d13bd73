package activity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LinkRelation is an HTML5 / RFC 5988 link relation as used by the rel property.
type LinkRelation string

const (
	RelAlternate     LinkRelation = "alternate"
	RelCanonical     LinkRelation = "canonical"
	RelAuthor        LinkRelation = "author"
	RelBookmark      LinkRelation = "bookmark"
	RelDNSPrefetch   LinkRelation = "dns-prefetch"
	RelExternal      LinkRelation = "external"
	RelHelp          LinkRelation = "help"
	RelIcon          LinkRelation = "icon"
	RelManifest      LinkRelation = "manifest"
	RelModulePreload LinkRelation = "modulepreload"
	RelLicense       LinkRelation = "license"
	RelNext          LinkRelation = "next"
	RelNofollow      LinkRelation = "nofollow"
	RelNoopener      LinkRelation = "noopener"
	RelNoreferrer    LinkRelation = "noreferrer"
	RelOpener        LinkRelation = "opener"
	RelPingback      LinkRelation = "pingback"
	RelPreconnect    LinkRelation = "preconnect"
	RelPrefetch      LinkRelation = "prefetch"
	RelPreload       LinkRelation = "preload"
	RelPrev          LinkRelation = "prev"
	RelSearch        LinkRelation = "search"
	RelStylesheet    LinkRelation = "stylesheet"
	RelTag           LinkRelation = "tag"
)

var knownRelations = map[LinkRelation]struct{}{
	RelAlternate: {}, RelCanonical: {}, RelAuthor: {}, RelBookmark: {}, RelDNSPrefetch: {},
	RelExternal: {}, RelHelp: {}, RelIcon: {}, RelManifest: {}, RelModulePreload: {},
	RelLicense: {}, RelNext: {}, RelNofollow: {}, RelNoopener: {}, RelNoreferrer: {},
	RelOpener: {}, RelPingback: {}, RelPreconnect: {}, RelPrefetch: {}, RelPreload: {},
	RelPrev: {}, RelSearch: {}, RelStylesheet: {}, RelTag: {},
}

func (r *LinkRelation) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if _, ok := knownRelations[LinkRelation(s)]; !ok {
		return fmt.Errorf("unknown link relation %q", s)
	}
	*r = LinkRelation(s)
	return nil
}

// Units is the unit of measurement for radius and altitude: one of the
// named units, or a URL identifying some other unit.
type Units struct {
	Name string
	URL  *IRI
}

const (
	UnitsCm     = "cm"
	UnitsFeet   = "feet"
	UnitsInches = "inches"
	UnitsKm     = "km"
	UnitsM      = "m"
	UnitsMiles  = "miles"
)

func (u Units) MarshalJSON() ([]byte, error) {
	if u.URL != nil {
		return Marshal(u.URL)
	}
	return Marshal(u.Name)
}

func (u *Units) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if iri, err := ParseIRI(s); err == nil {
		*u = Units{URL: iri}
		return nil
	}
	switch s {
	case UnitsCm, UnitsFeet, UnitsInches, UnitsKm, UnitsM, UnitsMiles:
		*u = Units{Name: s}
		return nil
	}
	return fmt.Errorf("unknown unit %s", s)
}

func (u Units) String() string {
	if u.URL != nil {
		return u.URL.String()
	}
	return u.Name
}

// ClosedProperty is the value of closed: a timestamp string, a boolean,
// or a link to the object that closed the question.
type ClosedProperty struct {
	str  *string
	flag *bool
	link *LinkObject
}

func ClosedAt(s string) ClosedProperty {
	return ClosedProperty{str: &s}
}

func ClosedFlag(b bool) ClosedProperty {
	return ClosedProperty{flag: &b}
}

func ClosedBy(l LinkObject) ClosedProperty {
	return ClosedProperty{link: &l}
}

func (c ClosedProperty) Time() (string, bool) {
	if c.str == nil {
		return "", false
	}
	return *c.str, true
}

func (c ClosedProperty) Bool() (bool, bool) {
	if c.flag == nil {
		return false, false
	}
	return *c.flag, true
}

func (c ClosedProperty) Link() *LinkObject {
	return c.link
}

func (c ClosedProperty) MarshalJSON() ([]byte, error) {
	switch {
	case c.str != nil:
		return Marshal(*c.str)
	case c.flag != nil:
		return Marshal(*c.flag)
	case c.link != nil:
		return Marshal(c.link)
	}
	return nil, fmt.Errorf("empty closed property")
}

// UnmarshalJSON tries string, then bool, then link.
func (c *ClosedProperty) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("closed must not be null")
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*c = ClosedAt(s)
		return nil
	}
	var flag bool
	if err := json.Unmarshal(trimmed, &flag); err == nil {
		*c = ClosedFlag(flag)
		return nil
	}
	var l LinkObject
	if err := json.Unmarshal(trimmed, &l); err != nil {
		return fmt.Errorf("closed must be a string, bool or object: %w", err)
	}
	*c = ClosedBy(l)
	return nil
}

// Endpoints is the endpoints property of an actor.
type Endpoints struct {
	ProxyURL                   *IRI `json:"proxyUrl,omitempty"`
	OAuthAuthorizationEndpoint *IRI `json:"oauthAuthorizationEndpoint,omitempty"`
	OAuthTokenEndpoint         *IRI `json:"oauthTokenEndpoint,omitempty"`
	ProvideClientKey           *IRI `json:"provideClientKey,omitempty"`
	SignClientKey              *IRI `json:"signClientKey,omitempty"`
	SharedInbox                *IRI `json:"sharedInbox,omitempty"`
}
