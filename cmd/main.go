// Package linguaapi provides the API to manage marketplace users, translation
// projects, wallets and the matching worker.
package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/linguamarket/lingua/cmd/httpserver"
	"github.com/linguamarket/lingua/internal/middleware"
	"github.com/linguamarket/lingua/pkg/configpkg"
	"github.com/linguamarket/lingua/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	cache := redis.NewClient(&redis.Options{Addr: config.RedisAddress})

	server, err := httpserver.New(db, cache, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	sweepSpec := "@every " + config.AssignRetryInterval.String()
	if err := server.Worker.Start(context.Background(), sweepSpec); err != nil {
		logger.Fatal().Err(err).Msg("cannot start assignment worker")
	}
	defer server.Worker.Stop()

	logger.Info().Msg("LINGUA MARKETPLACE API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
