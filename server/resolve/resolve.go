// Package resolve replaces link references in an object graph with the
// objects they point at.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tkrehbiel/smacktivity/server/activity"
	"github.com/tkrehbiel/smacktivity/server/network"
	"github.com/tkrehbiel/smacktivity/server/telemetry"
	"golang.org/x/sync/errgroup"
)

// ErrNotResolved means resolution finished without error but the link is
// still a bare reference. It points at a bug, not a network problem.
var ErrNotResolved = errors.New("resolve completed but value is not resolved")

// NonResolvablePropertyError is returned for a property name that doesn't
// exist or doesn't hold links. No network activity happens in that case.
type NonResolvablePropertyError struct {
	Name string
}

func (e *NonResolvablePropertyError) Error() string {
	return fmt.Sprintf("non resolvable property: %q", e.Name)
}

// ResolveError wraps the failure to dereference one link.
type ResolveError struct {
	Property string
	URL      string
	Err      error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving %s %s: %s", e.Property, e.URL, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// DefaultExcluded are left out of exhaustive resolution. Following paging
// cursors would walk an entire collection, and url is usually a plain web
// page rather than something that can be fetched as an object.
var DefaultExcluded = []string{"next", "prev", "url", "partOf"}

type Options struct {
	// Exclude names properties skipped by ResolveAll. nil means DefaultExcluded.
	Exclude []string
	// MaxDepth limits how many levels of links ResolveAll follows. Zero is unlimited.
	MaxDepth int
}

// Resolver turns LinkObject references into embedded objects using a Fetcher.
// A Resolver holds no per-call state and can be shared.
type Resolver struct {
	fetcher    network.Fetcher
	exhaustive []activity.LinkProperty
	maxDepth   int
}

func New(fetcher network.Fetcher, opts Options) (*Resolver, error) {
	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExcluded
	}
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		lp, ok := activity.LookupLinkProperty(name)
		if !ok {
			return nil, fmt.Errorf("excluding property: %w", &NonResolvablePropertyError{Name: name})
		}
		skip[lp.Name()] = true
	}

	r := &Resolver{
		fetcher:  fetcher,
		maxDepth: opts.MaxDepth,
	}
	for _, lp := range activity.LinkProperties() {
		if !skip[lp.Name()] {
			r.exhaustive = append(r.exhaustive, lp)
		}
	}
	return r, nil
}

type callIDKey struct{}

func withCallID(ctx context.Context) context.Context {
	if _, ok := ctx.Value(callIDKey{}).(string); ok {
		return ctx
	}
	return context.WithValue(ctx, callIDKey{}, uuid.NewString())
}

func callID(ctx context.Context) string {
	id, _ := ctx.Value(callIDKey{}).(string)
	return id
}

// Resolve fetches the object a bare reference points at and embeds it.
// An embedded object is left alone and no fetch happens.
func (r *Resolver) Resolve(ctx context.Context, l *activity.LinkObject) error {
	return r.resolveLink(withCallID(ctx), "", l)
}

// Resolved resolves l and returns the embedded object.
func (r *Resolver) Resolved(ctx context.Context, l *activity.LinkObject) (*activity.Object, error) {
	if err := r.Resolve(ctx, l); err != nil {
		return nil, err
	}
	obj := l.Object()
	if obj == nil {
		return nil, fmt.Errorf("%w (%s)", ErrNotResolved, l.Href())
	}
	return obj, nil
}

// ResolveProperty resolves every link held by one named property of o, one
// level deep. Elements of a list are fetched concurrently; all fetches are
// waited for and the first failure is returned. Links resolved before a
// failure stay resolved.
func (r *Resolver) ResolveProperty(ctx context.Context, o *activity.Object, name string) error {
	lp, ok := activity.LookupLinkProperty(name)
	if !ok {
		return &NonResolvablePropertyError{Name: name}
	}
	ctx = withCallID(ctx)
	telemetry.Trace("[%s] resolving %s of %s", callID(ctx), lp.Name(), describe(o))
	return r.resolveProperty(ctx, o, lp, false, 0)
}

// ResolveAll resolves every eligible link of o and, depth first, every link
// of the objects it fetches or already embeds.
func (r *Resolver) ResolveAll(ctx context.Context, o *activity.Object) error {
	ctx = withCallID(ctx)
	telemetry.Trace("[%s] resolving all of %s", callID(ctx), describe(o))
	return r.resolveAll(ctx, o, 0)
}

func (r *Resolver) resolveAll(ctx context.Context, o *activity.Object, depth int) error {
	if o == nil {
		return nil
	}
	if r.maxDepth > 0 && depth >= r.maxDepth {
		telemetry.Trace("[%s] depth %d reached at %s", callID(ctx), depth, describe(o))
		return nil
	}
	for _, lp := range r.exhaustive {
		if err := r.resolveProperty(ctx, o, lp, true, depth); err != nil {
			return err
		}
	}
	if err := r.resolveAll(ctx, o.Describes, depth+1); err != nil {
		return err
	}
	return r.resolveAll(ctx, o.Source, depth+1)
}

func (r *Resolver) resolveProperty(ctx context.Context, o *activity.Object, lp activity.LinkProperty, recurse bool, depth int) error {
	slots, err := lp.Slots(o)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", lp.Name(), err)
	}
	defer slots.Release()

	// Each goroutine owns exactly one slot.
	var g errgroup.Group
	for l, ok := slots.Next(); ok; l, ok = slots.Next() {
		g.Go(func() error {
			if err := r.resolveLink(ctx, lp.Name(), l); err != nil {
				return err
			}
			if recurse {
				return r.resolveAll(ctx, l.Object(), depth+1)
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Resolver) resolveLink(ctx context.Context, property string, l *activity.LinkObject) error {
	if !l.IsURL() {
		return nil
	}
	u := l.URL()
	if u == nil {
		return &ResolveError{Property: property, Err: errors.New("empty link")}
	}
	obj, err := r.fetcher.Fetch(ctx, u)
	if err != nil {
		telemetry.Trace("[%s] %s %s failed: %s", callID(ctx), property, u, err)
		return &ResolveError{Property: property, URL: u.String(), Err: err}
	}
	if obj == nil {
		return nil
	}
	l.SetObject(obj)
	telemetry.Increment(telemetry.ResolvedLinks, 1)
	telemetry.Trace("[%s] %s %s resolved to %s", callID(ctx), property, u, describe(obj))
	return nil
}

func describe(o *activity.Object) string {
	if o == nil {
		return "<nil>"
	}
	if o.ID != nil {
		return fmt.Sprintf("%s %s", o.Type, o.ID)
	}
	return string(o.Type)
}
