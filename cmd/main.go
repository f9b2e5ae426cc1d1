package main

import (
	"log"

	"github.com/xy2yp/Artify/internal/app"
	"github.com/xy2yp/Artify/pkg/config"
)

func main() {
	realMain()
}

func realMain() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalln("failed to load config: ", err)
	}

	app.Run(cfg)
}
