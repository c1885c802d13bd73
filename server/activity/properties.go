package activity

import (
	"encoding/json"
	"strings"
)

// property binds a JSON name to a field of Object. The table below is the
// single place that lists every named property; serialization, the debug
// dump and link resolution are all driven from it.
type property struct {
	name   string
	get    func(o *Object) (any, bool)
	decode func(o *Object, raw json.RawMessage) error
	slots  func(o *Object) (Slots, error)
}

// Slots is a mutable traversal over the links held by one property.
type Slots interface {
	Next() (*LinkObject, bool)
	Release()
}

func nonFunctional[T any](name string, field func(*Object) *NonFunctional[T]) property {
	return property{
		name: name,
		get: func(o *Object) (any, bool) {
			nf := field(o)
			return nf, !nf.IsNone()
		},
		decode: func(o *Object, raw json.RawMessage) error {
			return json.Unmarshal(raw, field(o))
		},
	}
}

func optional[T any](name string, field func(*Object) **T) property {
	return property{
		name: name,
		get: func(o *Object) (any, bool) {
			v := *field(o)
			return v, v != nil
		},
		decode: func(o *Object, raw json.RawMessage) error {
			return json.Unmarshal(raw, field(o))
		},
	}
}

func links(name string, field func(*Object) *NonFunctional[LinkObject]) property {
	p := nonFunctional(name, field)
	p.slots = func(o *Object) (Slots, error) {
		it, err := field(o).IterMut()
		if err != nil {
			return nil, err
		}
		return it, nil
	}
	return p
}

func link(name string, field func(*Object) **LinkObject) property {
	p := optional(name, field)
	p.slots = func(o *Object) (Slots, error) {
		return &optionalSlot{link: *field(o)}, nil
	}
	return p
}

// optionalSlot yields the single link of a functional property, if there is one.
type optionalSlot struct {
	link *LinkObject
	done bool
}

func (s *optionalSlot) Next() (*LinkObject, bool) {
	if s.done || s.link == nil {
		return nil, false
	}
	s.done = true
	return s.link, true
}

func (s *optionalSlot) Release() {
	s.done = true
}

var properties = []property{
	optional("id", func(o *Object) **IRI { return &o.ID }),
	links("actor", func(o *Object) *NonFunctional[LinkObject] { return &o.Actor }),
	links("attachment", func(o *Object) *NonFunctional[LinkObject] { return &o.Attachment }),
	links("attributedTo", func(o *Object) *NonFunctional[LinkObject] { return &o.AttributedTo }),
	links("audience", func(o *Object) *NonFunctional[LinkObject] { return &o.Audience }),
	links("bcc", func(o *Object) *NonFunctional[LinkObject] { return &o.Bcc }),
	links("bto", func(o *Object) *NonFunctional[LinkObject] { return &o.Bto }),
	links("cc", func(o *Object) *NonFunctional[LinkObject] { return &o.Cc }),
	links("context", func(o *Object) *NonFunctional[LinkObject] { return &o.Context }),
	link("current", func(o *Object) **LinkObject { return &o.Current }),
	link("first", func(o *Object) **LinkObject { return &o.First }),
	links("generator", func(o *Object) *NonFunctional[LinkObject] { return &o.Generator }),
	links("icon", func(o *Object) *NonFunctional[LinkObject] { return &o.Icon }),
	links("image", func(o *Object) *NonFunctional[LinkObject] { return &o.Image }),
	links("inReplyTo", func(o *Object) *NonFunctional[LinkObject] { return &o.InReplyTo }),
	links("instrument", func(o *Object) *NonFunctional[LinkObject] { return &o.Instrument }),
	link("last", func(o *Object) **LinkObject { return &o.Last }),
	links("location", func(o *Object) *NonFunctional[LinkObject] { return &o.Location }),
	links("items", func(o *Object) *NonFunctional[LinkObject] { return &o.Items }),
	links("orderedItems", func(o *Object) *NonFunctional[LinkObject] { return &o.OrderedItems }),
	links("oneOf", func(o *Object) *NonFunctional[LinkObject] { return &o.OneOf }),
	links("anyOf", func(o *Object) *NonFunctional[LinkObject] { return &o.AnyOf }),
	optional("closed", func(o *Object) **ClosedProperty { return &o.Closed }),
	links("origin", func(o *Object) *NonFunctional[LinkObject] { return &o.Origin }),
	link("next", func(o *Object) **LinkObject { return &o.Next }),
	links("object", func(o *Object) *NonFunctional[LinkObject] { return &o.Object }),
	link("prev", func(o *Object) **LinkObject { return &o.Prev }),
	links("preview", func(o *Object) *NonFunctional[LinkObject] { return &o.Preview }),
	links("result", func(o *Object) *NonFunctional[LinkObject] { return &o.Result }),
	links("replies", func(o *Object) *NonFunctional[LinkObject] { return &o.Replies }),
	links("tag", func(o *Object) *NonFunctional[LinkObject] { return &o.Tag }),
	links("target", func(o *Object) *NonFunctional[LinkObject] { return &o.Target }),
	links("to", func(o *Object) *NonFunctional[LinkObject] { return &o.To }),
	links("url", func(o *Object) *NonFunctional[LinkObject] { return &o.URL }),
	optional("accuracy", func(o *Object) **float64 { return &o.Accuracy }),
	optional("altitude", func(o *Object) **float64 { return &o.Altitude }),
	nonFunctional("content", func(o *Object) *NonFunctional[string] { return &o.Content }),
	nonFunctional("name", func(o *Object) *NonFunctional[string] { return &o.Name }),
	optional("duration", func(o *Object) **string { return &o.Duration }),
	optional("height", func(o *Object) **uint { return &o.Height }),
	optional("href", func(o *Object) **IRI { return &o.Href }),
	optional("hreflang", func(o *Object) **string { return &o.Hreflang }),
	link("partOf", func(o *Object) **LinkObject { return &o.PartOf }),
	optional("latitude", func(o *Object) **float64 { return &o.Latitude }),
	optional("longitude", func(o *Object) **float64 { return &o.Longitude }),
	optional("mediaType", func(o *Object) **string { return &o.MediaType }),
	optional("endTime", func(o *Object) **string { return &o.EndTime }),
	optional("published", func(o *Object) **string { return &o.Published }),
	optional("startTime", func(o *Object) **string { return &o.StartTime }),
	optional("radius", func(o *Object) **float64 { return &o.Radius }),
	nonFunctional("rel", func(o *Object) *NonFunctional[LinkRelation] { return &o.Rel }),
	optional("startIndex", func(o *Object) **uint { return &o.StartIndex }),
	nonFunctional("summary", func(o *Object) *NonFunctional[string] { return &o.Summary }),
	optional("totalItems", func(o *Object) **uint { return &o.TotalItems }),
	optional("units", func(o *Object) **Units { return &o.Units }),
	optional("updated", func(o *Object) **string { return &o.Updated }),
	optional("width", func(o *Object) **uint { return &o.Width }),
	link("subject", func(o *Object) **LinkObject { return &o.Subject }),
	links("relationship", func(o *Object) *NonFunctional[LinkObject] { return &o.Relationship }),
	optional("describes", func(o *Object) **Object { return &o.Describes }),
	links("formerType", func(o *Object) *NonFunctional[LinkObject] { return &o.FormerType }),
	optional("deleted", func(o *Object) **string { return &o.Deleted }),
	optional("source", func(o *Object) **Object { return &o.Source }),
	link("inbox", func(o *Object) **LinkObject { return &o.Inbox }),
	link("outbox", func(o *Object) **LinkObject { return &o.Outbox }),
	link("following", func(o *Object) **LinkObject { return &o.Following }),
	link("followers", func(o *Object) **LinkObject { return &o.Followers }),
	link("liked", func(o *Object) **LinkObject { return &o.Liked }),
	links("streams", func(o *Object) *NonFunctional[LinkObject] { return &o.Streams }),
	optional("endpoints", func(o *Object) **Endpoints { return &o.Endpoints }),
	optional("preferredUsername", func(o *Object) **string { return &o.PreferredUsername }),
}

var (
	byName       = map[string]*property{}
	byNormalized = map[string]*property{}
)

func init() {
	for i := range properties {
		p := &properties[i]
		byName[p.name] = p
		byNormalized[NormalizeName(p.name)] = p
	}
}

// NormalizeName folds case and drops separators so that "in_reply_to",
// "in-reply-to" and "inReplyTo" all name the same property.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "").Replace(s)
}

// LinkProperty is a named property whose values are links.
type LinkProperty struct {
	p *property
}

func (lp LinkProperty) Name() string {
	return lp.p.name
}

// Slots starts a mutable traversal of the property's links on o. The caller
// must call Release on the result.
func (lp LinkProperty) Slots(o *Object) (Slots, error) {
	return lp.p.slots(o)
}

// LookupLinkProperty finds a link-valued property by name. The name is
// normalized first; ok is false for unknown names and for properties that
// don't hold links.
func LookupLinkProperty(name string) (LinkProperty, bool) {
	p, ok := byNormalized[NormalizeName(name)]
	if !ok || p.slots == nil {
		return LinkProperty{}, false
	}
	return LinkProperty{p: p}, true
}

// LinkProperties lists every link-valued property in serialization order.
func LinkProperties() []LinkProperty {
	out := make([]LinkProperty, 0, len(properties))
	for i := range properties {
		if properties[i].slots != nil {
			out = append(out, LinkProperty{p: &properties[i]})
		}
	}
	return out
}

// PropertyName returns the canonical JSON name for a (possibly un-normalized)
// property name.
func PropertyName(name string) (string, bool) {
	p, ok := byNormalized[NormalizeName(name)]
	if !ok {
		return "", false
	}
	return p.name, true
}
