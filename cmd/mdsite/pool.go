package main

import (
	"context"
	"fmt"

	mdsite "github.com/alnah/go-mdsite"
)

// SiteRenderer is the part of *mdsite.Renderer the CLI uses.
type SiteRenderer interface {
	Render(ctx context.Context, input mdsite.Input) (*mdsite.Page, error)
	RenderIndex(ctx context.Context, entries []mdsite.NoteEntry) ([]byte, error)
}

// Compile-time interface implementation check.
var _ SiteRenderer = (*mdsite.Renderer)(nil)

// Pool abstracts renderer pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (SiteRenderer, error)
	Release(SiteRenderer)
	Size() int
}

// poolAdapter adapts *mdsite.RendererPool to Pool.
type poolAdapter struct {
	pool *mdsite.RendererPool
}

var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire(ctx context.Context) (SiteRenderer, error) {
	r, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Release panics when given a renderer the pool did not hand out.
func (a *poolAdapter) Release(r SiteRenderer) {
	renderer, ok := r.(*mdsite.Renderer)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", r))
	}
	a.pool.Release(renderer)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}
