// Package subject resolves the polymorphic business entities generated
// content is about. Types are registered explicitly; unknown tags fail with
// a not-found error instead of any dynamic lookup.
package subject

import (
	"context"
	"fmt"

	"github.com/mkravtsov/contentgen/internal/apperr"
)

// Subject is the resolved view of a store entity, carrying the fields the
// generation payload builders need.
type Subject struct {
	Type        string `json:"type"`
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Attributes  string `json:"attributes,omitempty"`
}

// Resolver loads one subject type by numeric id.
type Resolver interface {
	Resolve(ctx context.Context, id int64) (*Subject, error)
}

type Registry struct {
	resolvers map[string]Resolver
}

func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

func (r *Registry) Register(typeTag string, resolver Resolver) {
	r.resolvers[typeTag] = resolver
}

// Known reports whether the type tag has a registered resolver.
func (r *Registry) Known(typeTag string) bool {
	_, ok := r.resolvers[typeTag]
	return ok
}

func (r *Registry) Resolve(ctx context.Context, typeTag string, id int64) (*Subject, error) {
	resolver, ok := r.resolvers[typeTag]
	if !ok {
		return nil, apperr.NotFound("subject type", typeTag)
	}
	s, err := resolver.Resolve(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve %s/%d: %w", typeTag, id, err)
	}
	return s, nil
}
