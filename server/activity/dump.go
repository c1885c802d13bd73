package activity

import (
	"bytes"
	"fmt"
	"strings"
)

// dumpable lets the dumper see inside a NonFunctional without knowing T.
type dumpable interface {
	dumpValues() ([]any, bool)
}

func (nf *NonFunctional[T]) dumpValues() ([]any, bool) {
	out := make([]any, len(nf.items))
	for i := range nf.items {
		out[i] = &nf.items[i]
	}
	return out, nf.IsMany()
}

// Dump renders a human readable tree of the object, listing only the
// properties that are present.
func (o *Object) Dump() string {
	d := dumper{}
	d.object(o)
	return d.buf.String()
}

type dumper struct {
	buf   bytes.Buffer
	depth int
}

func (d *dumper) line(format string, args ...any) {
	d.buf.WriteString(strings.Repeat("    ", d.depth))
	fmt.Fprintf(&d.buf, format, args...)
}

func (d *dumper) object(o *Object) {
	d.buf.WriteString("Object {\n")
	d.depth++
	d.field(ContextProperty, o.SchemaContext)
	d.field(TypeProperty, o.Type)
	for _, p := range properties {
		if v, ok := p.get(o); ok {
			d.field(p.name, v)
		}
	}
	if len(o.Rest) > 0 {
		b, _ := Marshal(o.Rest)
		d.line("(rest): %s,\n", b)
	}
	d.depth--
	d.line("}")
}

func (d *dumper) field(name string, v any) {
	d.line("%s: ", name)
	d.value(v)
	d.buf.WriteString(",\n")
}

func (d *dumper) value(v any) {
	switch v := v.(type) {
	case dumpable:
		values, many := v.dumpValues()
		if !many && len(values) == 1 {
			d.value(values[0])
			return
		}
		d.buf.WriteString("[\n")
		d.depth++
		for _, e := range values {
			d.line("")
			d.value(e)
			d.buf.WriteString(",\n")
		}
		d.depth--
		d.line("]")
	case *Object:
		d.object(v)
	case *LinkObject:
		if obj := v.Object(); obj != nil {
			d.object(obj)
		} else {
			fmt.Fprintf(&d.buf, "Link(%q)", v.URL().String())
		}
	case JSONLDContext:
		b, _ := Marshal(v)
		fmt.Fprintf(&d.buf, "Context(%s)", b)
	case Type:
		d.buf.WriteString(string(v))
	case *IRI:
		fmt.Fprintf(&d.buf, "%q", v.String())
	case *string:
		fmt.Fprintf(&d.buf, "%q", *v)
	case *float64:
		fmt.Fprintf(&d.buf, "%v", *v)
	case *uint:
		fmt.Fprintf(&d.buf, "%d", *v)
	case *LinkRelation:
		d.buf.WriteString(string(*v))
	case *Units:
		d.buf.WriteString(v.String())
	case *ClosedProperty:
		if l := v.Link(); l != nil {
			d.value(l)
			return
		}
		b, _ := Marshal(v)
		fmt.Fprintf(&d.buf, "Closed(%s)", b)
	default:
		b, _ := Marshal(v)
		d.buf.Write(b)
	}
}
