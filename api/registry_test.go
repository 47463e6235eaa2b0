package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()
	registry.Register("favorites", Endpoint{Method: http.MethodGet, Handler: okHandler})
	registry.Register("favorites/create", Endpoint{Method: http.MethodPost, Handler: okHandler})
	registry.Register("/statuses/show/", Endpoint{Method: http.MethodGet, Handler: okHandler})

	name, e, args, ok := registry.Lookup("favorites/create")
	assert.True(t, ok)
	assert.Equal(t, "favorites/create", name)
	assert.Equal(t, http.MethodPost, e.Method)
	assert.Empty(t, args)

	name, _, args, ok = registry.Lookup("favorites/99")
	assert.True(t, ok)
	assert.Equal(t, "favorites", name)
	assert.Equal(t, []string{"99"}, args)

	name, _, args, ok = registry.Lookup("statuses/show/12/extra")
	assert.True(t, ok)
	assert.Equal(t, "statuses/show", name)
	assert.Equal(t, []string{"12", "extra"}, args)

	_, _, _, ok = registry.Lookup("statuses")
	assert.False(t, ok)
	_, _, _, ok = registry.Lookup("")
	assert.False(t, ok)

	assert.Equal(t, []string{"favorites", "favorites/create", "statuses/show"}, registry.Paths())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	registry.Register("help/test", Endpoint{Handler: okHandler})

	assert.Panics(t, func() { registry.Register("help/test", Endpoint{Handler: okHandler}) })
	assert.Panics(t, func() { registry.Register("help/other", Endpoint{}) })
}

func TestEndpointAllows(t *testing.T) {
	assert.True(t, Endpoint{Method: MethodAny}.Allows(http.MethodPut))
	assert.True(t, Endpoint{}.Allows(http.MethodGet))
	assert.True(t, Endpoint{Method: "POST, DELETE"}.Allows(http.MethodDelete))
	assert.True(t, Endpoint{Method: "GET"}.Allows("get"))
	assert.False(t, Endpoint{Method: "POST,DELETE"}.Allows(http.MethodGet))
}
