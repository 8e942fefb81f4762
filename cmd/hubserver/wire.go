//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"eventhub/internal/config"
	"eventhub/internal/logging"
	"eventhub/internal/server/app"
	"eventhub/internal/server/http"
	"eventhub/internal/server/http/controller"
	"eventhub/internal/server/hub"
	"eventhub/internal/server/queue/rabbitmq"
	"eventhub/internal/server/service/jobs"
	"eventhub/internal/server/service/notify"
	"eventhub/internal/server/store"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		store.NewStore,
		hub.NewHub,
		notify.NewService,
		jobs.NewRunner,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		app.NewApp,
	)
	return &app.App{}, nil
}
