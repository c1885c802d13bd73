package activity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type contextKind int

const (
	contextURL contextKind = iota
	contextString
	contextMap
	contextList
)

// JSONLDContext is the value of @context: a URL, a plain string, a map of
// term definitions, or a list of any of those. Which one it is comes from
// the shape of the JSON, there is no tag.
type JSONLDContext struct {
	kind  contextKind
	url   *IRI
	str   string
	terms map[string]JSONLDContext
	list  []JSONLDContext
}

// DefaultContext is the canonical ActivityStreams context URL.
func DefaultContext() JSONLDContext {
	return ContextURL(MustParseIRI(Context))
}

func ContextURL(u *IRI) JSONLDContext {
	return JSONLDContext{kind: contextURL, url: u}
}

func ContextString(s string) JSONLDContext {
	return JSONLDContext{kind: contextString, str: s}
}

func ContextMap(terms map[string]JSONLDContext) JSONLDContext {
	return JSONLDContext{kind: contextMap, terms: terms}
}

func ContextList(list ...JSONLDContext) JSONLDContext {
	return JSONLDContext{kind: contextList, list: list}
}

// URL returns the context URL, or nil if the context has some other shape.
func (c JSONLDContext) URL() *IRI {
	if c.kind != contextURL {
		return nil
	}
	return c.url
}

// Plain returns the plain string form, if that's what the context is.
func (c JSONLDContext) Plain() (string, bool) {
	return c.str, c.kind == contextString
}

func (c JSONLDContext) Terms() (map[string]JSONLDContext, bool) {
	return c.terms, c.kind == contextMap
}

func (c JSONLDContext) List() ([]JSONLDContext, bool) {
	return c.list, c.kind == contextList
}

// IsDefault is true for the bare canonical ActivityStreams URL.
func (c JSONLDContext) IsDefault() bool {
	return c.kind == contextURL && (c.url == nil || c.url.String() == Context)
}

func (c JSONLDContext) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case contextString:
		return Marshal(c.str)
	case contextMap:
		if c.terms == nil {
			return []byte("{}"), nil
		}
		return Marshal(c.terms)
	case contextList:
		if c.list == nil {
			return []byte("[]"), nil
		}
		return Marshal(c.list)
	default:
		if c.url == nil {
			// zero value
			return Marshal(Context)
		}
		return Marshal(c.url)
	}
}

func (c *JSONLDContext) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty @context")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if u, err := ParseIRI(s); err == nil {
			*c = ContextURL(u)
		} else {
			*c = ContextString(s)
		}
		return nil
	case '{':
		terms := make(map[string]JSONLDContext)
		if err := json.Unmarshal(trimmed, &terms); err != nil {
			return err
		}
		*c = ContextMap(terms)
		return nil
	case '[':
		list := make([]JSONLDContext, 0)
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*c = ContextList(list...)
		return nil
	default:
		return fmt.Errorf("could not unmarshal @context %s", trimmed)
	}
}
