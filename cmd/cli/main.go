package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/hashzone/internal/buildinfo"
	"github.com/dmitrijs2005/hashzone/internal/client/cli"
	"github.com/dmitrijs2005/hashzone/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}
