package main

import (
	"os"

	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "whitted"
	app.Usage = "render scenes using recursive Whitted-style ray tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a built-in scene, a PLY mesh or a PBRT scene file and write the frame
to disk. Size, field of view and depth set in a PBRT file apply unless the
matching flag is given. The output
format is chosen from the file extension: .ppm, .png, .jpg or .bmp.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "default",
					Usage: "scene id (see the scenes command) or path to a .ply or .pbrt file",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 1280,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 960,
					Usage: "frame height",
				},
				cli.Float64Flag{
					Name:  "fov",
					Value: 90,
					Usage: "vertical field of view in degrees",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Value: 5,
					Usage: "maximum reflection and refraction depth",
				},
				cli.Float64Flag{
					Name:  "epsilon",
					Value: 0.00001,
					Usage: "offset applied to secondary ray origins",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of render workers (0 = one per CPU)",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Value: 32,
					Usage: "edge length of the square tiles handed to workers",
				},
				cli.BoolFlag{
					Name:  "legacy-shading",
					Usage: "rewrite the diffuse color per light and ignore occlusion for highlights",
				},
				cli.BoolTFlag{
					Name:  "progress",
					Usage: "draw a progress bar on stderr",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "binary.ppm",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: renderFrame,
		},
		{
			Name:  "scenes",
			Usage: "list available scenes",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "ply-dir",
					Value: "scenes",
					Usage: "directory scanned for .ply meshes and .pbrt scenes",
				},
			},
			Action: listScenes,
		},
		{
			Name:  "serve",
			Usage: "serve the render API over HTTP",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port",
					Value: 8080,
					Usage: "port to listen on",
				},
				cli.StringFlag{
					Name:  "ply-dir",
					Value: "scenes",
					Usage: "directory scanned for .ply meshes and .pbrt scenes",
				},
			},
			Action: serve,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
