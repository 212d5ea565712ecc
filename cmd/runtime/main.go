package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/phoenix-quoter/internal/common"
	"github.com/hxuan190/phoenix-quoter/internal/config"
	"github.com/hxuan190/phoenix-quoter/internal/http"
	"github.com/hxuan190/phoenix-quoter/internal/services/ingest"
)

func main() {
	common.InitRuntimeForLowLatency()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, relying on process environment")
	}

	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.RPCConfig{},
		&config.MarketsConfig{},
	)

	dic, err := container.New(
		conf,

		&ingest.Service{},
		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
