package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/web/server"
)

var logger = log.New("web")

func main() {
	app := cli.NewApp()
	app.Name = "whitted-web"
	app.Usage = "serve the Whitted ray tracer render API"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "port",
			Value: 8080,
			Usage: "port to serve on",
		},
		cli.StringFlag{
			Name:  "ply-dir",
			Value: "scenes",
			Usage: "directory scanned for .ply meshes and .pbrt scenes",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
	}
	app.Action = func(ctx *cli.Context) error {
		if ctx.Bool("v") {
			log.SetLevel(log.Info)
		}

		logger.Notice("Whitted Raytracer Web Server")
		logger.Noticef("Visit http://localhost:%d/api/scenes to list scenes", ctx.Int("port"))
		return server.NewServer(ctx.Int("port"), ctx.String("ply-dir")).Start()
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("Error starting server: %v", err)
		os.Exit(1)
	}
}
