// Command server runs the tippace API: the JSON API for the web front end
// and a gRPC health endpoint.
package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/tippace/internal/server"
	"github.com/dmitrijs2005/tippace/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("tippace: %v", err)
	}

	app.Run(context.Background())
}
