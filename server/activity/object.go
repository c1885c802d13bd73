package activity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Object is any ActivityStreams object, activity, actor, collection or link.
//
// Properties that the vocabulary allows to repeat are NonFunctional; single
// valued ones are pointers, nil when absent. Keys that aren't recognized are
// kept in Rest and written back out next to the named properties; numbers in
// Rest are json.Number.
type Object struct {
	SchemaContext JSONLDContext
	Type          Type
	ID            *IRI

	Actor        NonFunctional[LinkObject]
	Attachment   NonFunctional[LinkObject]
	AttributedTo NonFunctional[LinkObject]
	Audience     NonFunctional[LinkObject]
	Bcc          NonFunctional[LinkObject]
	Bto          NonFunctional[LinkObject]
	Cc           NonFunctional[LinkObject]
	Context      NonFunctional[LinkObject]
	Current      *LinkObject
	First        *LinkObject
	Generator    NonFunctional[LinkObject]
	Icon         NonFunctional[LinkObject]
	Image        NonFunctional[LinkObject]
	InReplyTo    NonFunctional[LinkObject]
	Instrument   NonFunctional[LinkObject]
	Last         *LinkObject
	Location     NonFunctional[LinkObject]
	Items        NonFunctional[LinkObject]
	OrderedItems NonFunctional[LinkObject]
	OneOf        NonFunctional[LinkObject]
	AnyOf        NonFunctional[LinkObject]
	Closed       *ClosedProperty
	Origin       NonFunctional[LinkObject]
	Next         *LinkObject
	Object       NonFunctional[LinkObject]
	Prev         *LinkObject
	Preview      NonFunctional[LinkObject]
	Result       NonFunctional[LinkObject]
	Replies      NonFunctional[LinkObject]
	Tag          NonFunctional[LinkObject]
	Target       NonFunctional[LinkObject]
	To           NonFunctional[LinkObject]
	URL          NonFunctional[LinkObject]

	Accuracy   *float64
	Altitude   *float64
	Content    NonFunctional[string]
	Name       NonFunctional[string]
	Duration   *string
	Height     *uint
	Href       *IRI
	Hreflang   *string
	PartOf     *LinkObject
	Latitude   *float64
	Longitude  *float64
	MediaType  *string
	EndTime    *string
	Published  *string
	StartTime  *string
	Radius     *float64
	Rel        NonFunctional[LinkRelation]
	StartIndex *uint
	Summary    NonFunctional[string]
	TotalItems *uint
	Units      *Units
	Updated    *string
	Width      *uint

	Subject      *LinkObject
	Relationship NonFunctional[LinkObject]
	Describes    *Object
	FormerType   NonFunctional[LinkObject]
	Deleted      *string

	Source            *Object
	Inbox             *LinkObject
	Outbox            *LinkObject
	Following         *LinkObject
	Followers         *LinkObject
	Liked             *LinkObject
	Streams           NonFunctional[LinkObject]
	Endpoints         *Endpoints
	PreferredUsername *string

	Rest map[string]any
}

// NewObject returns an empty object of type t with the default context.
func NewObject(t Type) *Object {
	return &Object{
		SchemaContext: DefaultContext(),
		Type:          t,
	}
}

// Parse reads a single JSON document.
func Parse(b []byte) (*Object, error) {
	var o Object
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Decode reads a single JSON document from r. Anything but whitespace after
// the document is an error.
func Decode(r io.Reader) (*Object, error) {
	dec := json.NewDecoder(r)
	var o Object
	if err := dec.Decode(&o); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("trailing data after object")
		}
		return nil, fmt.Errorf("trailing data after object: %w", err)
	}
	return &o, nil
}

func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(name string, v any) error {
		b, err := Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", name, err)
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, _ := Marshal(name)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(b)
		return nil
	}

	if err := writeField(ContextProperty, o.SchemaContext); err != nil {
		return nil, err
	}
	t := o.Type
	if t == "" {
		t = ObjectType
	}
	if err := writeField(TypeProperty, t); err != nil {
		return nil, err
	}
	for _, p := range properties {
		v, ok := p.get(&o)
		if !ok {
			continue
		}
		if err := writeField(p.name, v); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(o.Rest))
	for k := range o.Rest {
		if isReserved(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeField(k, o.Rest[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Object) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("expected a json object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return err
	}

	*o = Object{
		SchemaContext: DefaultContext(),
		Type:          ObjectType,
	}

	if raw, ok := fields[ContextProperty]; ok {
		delete(fields, ContextProperty)
		if !isNull(raw) {
			if err := json.Unmarshal(raw, &o.SchemaContext); err != nil {
				return fmt.Errorf("parsing %s: %w", ContextProperty, err)
			}
		}
	}
	if raw, ok := fields[TypeProperty]; ok {
		delete(fields, TypeProperty)
		if err := json.Unmarshal(raw, &o.Type); err != nil {
			return fmt.Errorf("parsing %s: %w", TypeProperty, err)
		}
	}

	for _, p := range properties {
		raw, ok := fields[p.name]
		if !ok {
			continue
		}
		delete(fields, p.name)
		if err := p.decode(o, raw); err != nil {
			return fmt.Errorf("parsing %s: %w", p.name, err)
		}
	}

	for k, raw := range fields {
		var v any
		if err := decodeResidual(raw, &v); err != nil {
			return fmt.Errorf("parsing %s: %w", k, err)
		}
		if o.Rest == nil {
			o.Rest = make(map[string]any, len(fields))
		}
		o.Rest[k] = v
	}
	return nil
}

// decodeResidual keeps numbers as json.Number so large integers survive.
func decodeResidual(raw json.RawMessage, v *any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// isReserved reports whether a residual key would collide with a named property.
func isReserved(k string) bool {
	if k == ContextProperty || k == TypeProperty {
		return true
	}
	_, ok := byName[k]
	return ok
}
