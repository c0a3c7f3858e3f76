package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/testimonianze/internal/bot"
	"github.com/dmitrijs2005/testimonianze/internal/bot/config"
	"github.com/dmitrijs2005/testimonianze/internal/buildinfo"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := bot.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
