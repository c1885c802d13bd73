package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkrehbiel/smacktivity/server/network"
	"github.com/tkrehbiel/smacktivity/server/resolve"
)

func TestReadConfig(t *testing.T) {
	b := []byte(`
	{
		"fetch": {
		  "timeout_seconds": 5,
		  "user_agent": "testagent",
		  "max_body_bytes": 4096,
		  "accept": "application/activity+json"
		},
		"resolve": {
		  "max_depth": 3,
		  "exclude": ["next", "prev"]
		},
		"server": {
		  "trace": true
		}
	  }`)
	cfg, err := ReadConfig(b)
	require.NoError(t, err)

	expected := Config{
		Fetch: fetchConfig{
			TimeoutSeconds: 5,
			UserAgent:      "testagent",
			MaxBodyBytes:   4096,
			Accept:         "application/activity+json",
		},
		Resolve: resolveConfig{
			MaxDepth: 3,
			Exclude:  []string{"next", "prev"},
		},
		Server: serverConfig{
			Trace: true,
		},
	}
	assert.Equal(t, expected, cfg)

	assert.Equal(t, network.Options{
		Timeout:      5 * time.Second,
		MaxBodyBytes: 4096,
		UserAgent:    "testagent",
		Accept:       "application/activity+json",
	}, cfg.fetchOptions())
	assert.Equal(t, resolve.Options{MaxDepth: 3, Exclude: []string{"next", "prev"}}, cfg.resolveOptions())
}

func TestReadConfig_Empty(t *testing.T) {
	cfg, err := ReadConfig([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
	assert.Nil(t, cfg.resolveOptions().Exclude)
	assert.Equal(t, network.Options{}, cfg.fetchOptions())
}

func TestReadConfig_EmptyExclude(t *testing.T) {
	cfg, err := ReadConfig([]byte(`{"resolve": {"exclude": []}}`))
	require.NoError(t, err)
	assert.NotNil(t, cfg.Resolve.Exclude)
	assert.Empty(t, cfg.Resolve.Exclude)
}

func TestReadConfig_Invalid(t *testing.T) {
	_, err := ReadConfig([]byte(`{"fetch": {"timeout_seconds": "soon"}}`))
	assert.Error(t, err)
}
