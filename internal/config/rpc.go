package config

import (
	"errors"
	"os"
)

type RPCConfig struct {
	RPCUrl    string
	RPCApiKey string
}

func (r *RPCConfig) Key() string {
	return RPC_CONFIG_KEY
}

func (r *RPCConfig) Load() error {
	r.RPCUrl = os.Getenv("RPC_URL")
	r.RPCApiKey = os.Getenv("RPC_KEY")
	return nil
}

func (r *RPCConfig) Validate() error {
	if r.RPCUrl == "" {
		return errors.New("invalid rpc config")
	}
	return nil
}
