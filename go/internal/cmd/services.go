package main

import (
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/codeduel/go/clients/piston"
	"github.com/mcdev12/codeduel/go/internal/challenge"
	"github.com/mcdev12/codeduel/go/internal/duel"
	"github.com/mcdev12/codeduel/go/internal/duel/gateway"
)

type Services struct {
	Catalog     *challenge.Catalog
	Piston      *piston.Client
	Manager     *gateway.Manager
	Coordinator *duel.Coordinator
	Handler     *gateway.Handler
}

func setupServices(config *Config) *Services {
	// Wire up dependency injection chain
	// Executor client → connection manager → coordinator → handler

	catalog := challenge.NewCatalog()
	pistonClient := piston.NewClient(config.Piston.URL)

	manager := gateway.NewManager(gateway.DefaultConfig())
	coordinator := duel.NewCoordinator(catalog, pistonClient, manager, clockwork.NewRealClock(), config.matchConfig())
	handler := gateway.NewHandler(manager, coordinator)

	return &Services{
		Catalog:     catalog,
		Piston:      pistonClient,
		Manager:     manager,
		Coordinator: coordinator,
		Handler:     handler,
	}
}
