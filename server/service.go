package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tkrehbiel/smacktivity/server/activity"
	"github.com/tkrehbiel/smacktivity/server/network"
	"github.com/tkrehbiel/smacktivity/server/resolve"
	"github.com/tkrehbiel/smacktivity/server/telemetry"
)

// RunOptions select what one invocation does with its input document.
type RunOptions struct {
	Resolve string // property to resolve, any spelling NormalizeName accepts
	All     bool   // resolve every eligible link, recursively
	Debug   bool   // structural dump instead of JSON
	Values  bool   // print the resolved elements of Resolve instead of the whole object
}

// ResolveService reads one document, resolves links in it and writes the result.
type ResolveService struct {
	Config   Config
	resolver *resolve.Resolver
}

// NewService wires an HTTP fetcher and a resolver from cfg.
func NewService(cfg Config) (*ResolveService, error) {
	return newService(cfg, network.NewHTTPFetcher(cfg.fetchOptions()))
}

func newService(cfg Config, fetcher network.Fetcher) (*ResolveService, error) {
	r, err := resolve.New(fetcher, cfg.resolveOptions())
	if err != nil {
		return nil, fmt.Errorf("configuring resolver: %w", err)
	}
	return &ResolveService{Config: cfg, resolver: r}, nil
}

// Run processes a single document from in and writes to out.
func (s *ResolveService) Run(ctx context.Context, in io.Reader, out io.Writer, opts RunOptions) error {
	// An unknown selector is reported before anything is fetched.
	if opts.Resolve != "" && !isEmbeddedSelector(opts.Resolve) {
		if _, ok := activity.LookupLinkProperty(opts.Resolve); !ok {
			return &resolve.NonResolvablePropertyError{Name: opts.Resolve}
		}
	}

	obj, err := activity.Decode(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	telemetry.Trace("read %s", obj.Type)

	if opts.All {
		if err := s.resolver.ResolveAll(ctx, obj); err != nil {
			return err
		}
	}

	if opts.Resolve == "" {
		return s.write(out, obj, opts.Debug)
	}

	// Selectors that name embedded values rather than links print without fetching.
	switch activity.NormalizeName(opts.Resolve) {
	case "rest":
		rest := obj.Rest
		if rest == nil {
			rest = map[string]any{}
		}
		return s.write(out, rest, opts.Debug)
	case "describes":
		if obj.Describes == nil {
			return nil
		}
		return s.write(out, obj.Describes, opts.Debug)
	case "source":
		if obj.Source == nil {
			return nil
		}
		return s.write(out, obj.Source, opts.Debug)
	}

	if err := s.resolver.ResolveProperty(ctx, obj, opts.Resolve); err != nil {
		return err
	}
	if !opts.Values {
		return s.write(out, obj, opts.Debug)
	}
	return s.writeValues(ctx, out, obj, opts)
}

func (s *ResolveService) writeValues(ctx context.Context, out io.Writer, obj *activity.Object, opts RunOptions) error {
	lp, ok := activity.LookupLinkProperty(opts.Resolve)
	if !ok {
		return &resolve.NonResolvablePropertyError{Name: opts.Resolve}
	}
	slots, err := lp.Slots(obj)
	if err != nil {
		return err
	}
	defer slots.Release()
	for l, ok := slots.Next(); ok; l, ok = slots.Next() {
		value, err := s.resolver.Resolved(ctx, l)
		if err != nil {
			return err
		}
		if err := s.write(out, value, opts.Debug); err != nil {
			return err
		}
	}
	return nil
}

// isEmbeddedSelector reports selectors that name values rather than links.
func isEmbeddedSelector(name string) bool {
	switch activity.NormalizeName(name) {
	case "rest", "describes", "source":
		return true
	}
	return false
}

func (s *ResolveService) write(out io.Writer, v any, debug bool) error {
	var b []byte
	var err error
	switch v := v.(type) {
	case *activity.Object:
		if debug {
			b = []byte(v.Dump())
		} else {
			b, err = activity.Marshal(v)
		}
	default:
		b, err = activity.Marshal(v)
		if err == nil && debug {
			var indented bytes.Buffer
			err = json.Indent(&indented, b, "", "    ")
			b = indented.Bytes()
		}
	}
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if _, err := fmt.Fprintln(out, string(b)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
