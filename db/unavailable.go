package db

import "context"

// UnavailableGateway stands in for a store that could not be opened at startup.
// Every operation reports the open failure, so the API keeps answering in its usual
// shapes and /healthz reports the store as down.
type UnavailableGateway struct {
	err error
}

func NewUnavailableGateway(err error) *UnavailableGateway {
	return &UnavailableGateway{err: err}
}

func (g *UnavailableGateway) FindMany(context.Context, string, Filter, any) error {
	return g.err
}

func (g *UnavailableGateway) FindByID(context.Context, string, string, any) (bool, error) {
	return false, g.err
}

func (g *UnavailableGateway) Insert(context.Context, string, Document) error {
	return g.err
}

func (g *UnavailableGateway) UpdateByID(context.Context, string, string, any, any) (bool, error) {
	return false, g.err
}

func (g *UnavailableGateway) DeleteByID(context.Context, string, string, any) (bool, error) {
	return false, g.err
}

func (g *UnavailableGateway) Ping(context.Context) error { return g.err }

// Close is a no-op: nothing was opened.
func (g *UnavailableGateway) Close(context.Context) error { return nil }
