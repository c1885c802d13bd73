package resolve

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tkrehbiel/smacktivity/server/activity"
)

// mockFetcher returns a freshly parsed object for every call, so concurrent
// resolutions never share a result.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, u *activity.IRI) (*activity.Object, error) {
	args := m.Called(u.String())
	if err := args.Error(1); err != nil {
		return nil, err
	}
	doc := args.String(0)
	if doc == "" {
		return nil, nil
	}
	return activity.Parse([]byte(doc))
}

// fetchFunc adapts a plain function to network.Fetcher.
type fetchFunc func(ctx context.Context, u *activity.IRI) (*activity.Object, error)

func (f fetchFunc) Fetch(ctx context.Context, u *activity.IRI) (*activity.Object, error) {
	return f(ctx, u)
}

func person(u *activity.IRI) (*activity.Object, error) {
	return activity.Parse([]byte(`{"type":"Person","id":"` + u.String() + `"}`))
}
