package subject

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravtsov/contentgen/internal/apperr"
)

type fakeResolver struct {
	subjects map[int64]*Subject
}

func (f *fakeResolver) Resolve(_ context.Context, id int64) (*Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, apperr.NotFound("product", "42")
	}
	return s, nil
}

func TestResolveRegisteredType(t *testing.T) {
	reg := NewRegistry()
	reg.Register("product", &fakeResolver{subjects: map[int64]*Subject{
		7: {Type: "product", ID: 7, Name: "Gas generator"},
	}})

	s, err := reg.Resolve(context.Background(), "product", 7)
	require.NoError(t, err)
	assert.Equal(t, "Gas generator", s.Name)
	assert.True(t, reg.Known("product"))
}

func TestResolveUnknownType(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Resolve(context.Background(), "warehouse", 1)
	var nferr *apperr.NotFoundError
	require.ErrorAs(t, err, &nferr)
	assert.Equal(t, "subject type", nferr.Resource)
	assert.False(t, reg.Known("warehouse"))
}

func TestResolveMissingEntity(t *testing.T) {
	reg := NewRegistry()
	reg.Register("product", &fakeResolver{subjects: map[int64]*Subject{}})

	_, err := reg.Resolve(context.Background(), "product", 42)
	var nferr *apperr.NotFoundError
	assert.ErrorAs(t, err, &nferr)
}
