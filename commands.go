package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
)

var logger = log.New("whitted")

const progressBarWidth = 50

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// sceneID maps a --scene argument to a scene ID; bare .ply and .pbrt paths
// become file scenes
func sceneID(arg string) string {
	if strings.HasPrefix(arg, "ply:") || strings.HasPrefix(arg, "pbrt:") {
		return arg
	}
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".ply":
		return "ply:" + arg
	case ".pbrt":
		return "pbrt:" + arg
	}
	return arg
}

// drawProgress draws a fixed-width bar such as "[=====>    ] 50%" and
// returns the cursor to the start of the line
func drawProgress(w io.Writer, done, total int) {
	progress := float64(done) / float64(total)
	pos := int(progressBarWidth * progress)

	var bar strings.Builder
	for i := 0; i < progressBarWidth; i++ {
		switch {
		case i < pos:
			bar.WriteByte('=')
		case i == pos:
			bar.WriteByte('>')
		default:
			bar.WriteByte(' ')
		}
	}
	fmt.Fprintf(w, "[%s] %d%%\r", bar.String(), int(progress*100))
}

// Render a still frame.
func renderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	// Only explicit flags override the scene; PBRT files carry their own settings
	var config scene.Config
	if ctx.IsSet("width") || ctx.IsSet("height") {
		config.Width, config.Height = ctx.Int("width"), ctx.Int("height")
		if config.Width <= 0 || config.Height <= 0 {
			return fmt.Errorf("%w: %dx%d", renderer.ErrInvalidDimensions, config.Width, config.Height)
		}
	}
	if ctx.IsSet("fov") {
		config.FOV = ctx.Float64("fov")
	}

	out := ctx.String("out")
	if _, err := imageio.ParseFormat(filepath.Ext(out)); err != nil {
		return err
	}

	sc, err := scene.Create(sceneID(ctx.String("scene")), config)
	if err != nil {
		return err
	}
	// Zero means "use the scene default" when merging, so depth and epsilon are set directly
	if ctx.IsSet("max-depth") {
		sc.MaxDepth = ctx.Int("max-depth")
	}
	if ctx.IsSet("epsilon") {
		sc.Epsilon = ctx.Float64("epsilon")
	}
	logger.Infof("scene %q: %d primitives, %d lights", ctx.String("scene"), sc.PrimitiveCount(), len(sc.Lights()))

	options := renderer.DefaultOptions()
	options.NumWorkers = ctx.Int("workers")
	options.TileSize = ctx.Int("tile-size")
	options.LegacyLastLight = ctx.Bool("legacy-shading")
	if ctx.BoolT("progress") {
		options.Progress = func(done, total int) {
			drawProgress(os.Stderr, done, total)
		}
	}

	rt, err := renderer.NewRaytracer(sc, options)
	if err != nil {
		return err
	}

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fb, stats, err := rt.Render(renderCtx)
	if options.Progress != nil {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	if err := imageio.WriteFile(out, fb); err != nil {
		return err
	}

	displayRenderStats(stats)
	logger.Noticef("frame written to %s", out)
	return nil
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	stats.WriteTable(&buf)
	logger.Noticef("render statistics\n%s", buf.String())
}

// List built-in, PLY and PBRT scenes.
func listScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	response, err := scene.ListAllScenes(ctx.String("ply-dir"))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Name", "Group", "Description"})
	count := 0
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			table.Append([]string{info.ID, info.DisplayName, group.Name, info.Description})
			count++
		}
	}
	table.SetFooter([]string{"", "", "TOTAL", fmt.Sprintf("%d", count)})
	table.Render()

	return nil
}

// Serve the HTTP render API.
func serve(ctx *cli.Context) error {
	setupLogging(ctx)

	webServer := server.NewServer(ctx.Int("port"), ctx.String("ply-dir"))
	logger.Noticef("visit http://localhost:%d/api/scenes to list scenes", ctx.Int("port"))
	return webServer.Start()
}
