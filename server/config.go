package server

import (
	"encoding/json"
	"time"

	"github.com/tkrehbiel/smacktivity/server/network"
	"github.com/tkrehbiel/smacktivity/server/resolve"
)

type fetchConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds"`
	UserAgent      string `json:"user_agent"`
	MaxBodyBytes   int64  `json:"max_body_bytes"`
	Accept         string `json:"accept,omitempty"` // for servers that are picky about the profile
}

type resolveConfig struct {
	MaxDepth int      `json:"max_depth"`
	Exclude  []string `json:"exclude"` // nil keeps the defaults, [] excludes nothing
}

type serverConfig struct {
	Trace bool `json:"trace"`
}

type Config struct {
	Fetch   fetchConfig   `json:"fetch"`
	Resolve resolveConfig `json:"resolve"`
	Server  serverConfig  `json:"server"`
}

func (c Config) fetchOptions() network.Options {
	return network.Options{
		Timeout:      time.Duration(c.Fetch.TimeoutSeconds) * time.Second,
		MaxBodyBytes: c.Fetch.MaxBodyBytes,
		UserAgent:    c.Fetch.UserAgent,
		Accept:       c.Fetch.Accept,
	}
}

func (c Config) resolveOptions() resolve.Options {
	return resolve.Options{
		Exclude:  c.Resolve.Exclude,
		MaxDepth: c.Resolve.MaxDepth,
	}
}

func ReadConfig(b []byte) (config Config, err error) {
	if uErr := json.Unmarshal(b, &config); uErr != nil {
		return config, uErr
	}
	return config, nil
}
