package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScopes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"chat:read", []string{"chat:read"}},
		{"chat:read user:read", []string{"chat:read", "user:read"}},
		{"chat:read,user:read", []string{"chat:read", "user:read"}},
		{"chat:read+user:read", []string{"chat:read", "user:read"}},
		{"  chat:read , +user:read  ", []string{"chat:read", "user:read"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseScopes(tt.in), tt.in)
	}
}

func TestUnionScopes(t *testing.T) {
	assert.Equal(t,
		[]string{"user:read", "chat:read", "chat:edit"},
		UnionScopes([]string{"user:read"}, []string{"chat:read", "user:read"}, []string{"", "chat:edit"}),
	)
	assert.Nil(t, UnionScopes())
}

func TestContainsAll(t *testing.T) {
	have := []string{"user:read", "chat:read"}
	assert.True(t, ContainsAll(have, nil))
	assert.True(t, ContainsAll(have, []string{"chat:read"}))
	assert.False(t, ContainsAll(have, []string{"chat:read", "chat:edit"}))
}
