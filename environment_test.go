package gocert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessEnvironment(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"plain host", nil, false},
		{"lambda", map[string]string{"AWS_LAMBDA_FUNCTION_NAME": "render"}, true},
		{"vercel", map[string]string{"VERCEL": "1"}, true},
		{"blank marker", map[string]string{"NETLIFY": "  "}, false},
		{"explicit on", map[string]string{EnvConstrained: "on"}, true},
		{"explicit off wins", map[string]string{EnvConstrained: "false", "VERCEL": "1"}, false},
		{"invalid override ignored", map[string]string{EnvConstrained: "perhaps", "VERCEL": "1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := ProcessEnvironment{Getenv: func(k string) string { return tt.env[k] }}
			assert.Equal(t, tt.want, env.IsConstrained())
		})
	}
}

func TestStaticEnvironment(t *testing.T) {
	assert.True(t, StaticEnvironment(true).IsConstrained())
	assert.False(t, StaticEnvironment(false).IsConstrained())
}
