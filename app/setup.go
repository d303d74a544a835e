package app

import (
	"fmt"

	"github.com/varsityrank/api/api"
	"github.com/varsityrank/api/config"
	"github.com/varsityrank/api/database"
	"github.com/varsityrank/api/router"
	"github.com/varsityrank/api/services"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Keep partner deployments awake
	heartbeat := services.NewHeartbeatService(getEnv.PARTNER_URL)
	if err := heartbeat.Start(); err != nil {
		print("Warning: failed to start heartbeat: ", err.Error(), "\n")
	}

	defer func() {
		heartbeat.Stop()
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes
	router.SetupRoutes(app, store)

	// Get the PORT & Start the Server
	return server.Run()
}
