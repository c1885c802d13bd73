package activity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LinkObject is either a bare URL reference or an embedded Object.
// Documents inline related objects or just point at them, and consumers
// have to cope with both.
type LinkObject struct {
	url    *IRI
	object *Object
}

// LinkURL returns a reference to u.
func LinkURL(u *IRI) LinkObject {
	return LinkObject{url: u}
}

// LinkTo embeds o.
func LinkTo(o *Object) LinkObject {
	return LinkObject{object: o}
}

// IsURL is true while the link has not been resolved.
func (l *LinkObject) IsURL() bool {
	return l.object == nil
}

// URL returns the reference, or nil for an embedded object.
func (l *LinkObject) URL() *IRI {
	if l.object != nil {
		return nil
	}
	return l.url
}

// Object returns the embedded object, or nil for a bare reference.
func (l *LinkObject) Object() *Object {
	return l.object
}

// SetObject replaces the link with an embedded object. This is how resolution
// turns a reference into a value.
func (l *LinkObject) SetObject(o *Object) {
	l.url = nil
	l.object = o
}

// Href is the URL the link points at: the bare reference, or the id of the
// embedded object.
func (l *LinkObject) Href() string {
	switch {
	case l.object != nil && l.object.ID != nil:
		return l.object.ID.String()
	case l.object == nil && l.url != nil:
		return l.url.String()
	}
	return ""
}

func (l LinkObject) MarshalJSON() ([]byte, error) {
	if l.object != nil {
		return Marshal(l.object)
	}
	if l.url == nil {
		return nil, fmt.Errorf("empty link")
	}
	return Marshal(l.url)
}

// UnmarshalJSON treats a string as a URL and an object as an embedded Object.
func (l *LinkObject) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty link")
	}
	switch trimmed[0] {
	case '"':
		var u IRI
		if err := json.Unmarshal(trimmed, &u); err != nil {
			return err
		}
		*l = LinkURL(&u)
		return nil
	case '{':
		var o Object
		if err := json.Unmarshal(trimmed, &o); err != nil {
			return err
		}
		*l = LinkTo(&o)
		return nil
	default:
		return fmt.Errorf("expected a url or an object, got %s", trimmed)
	}
}
