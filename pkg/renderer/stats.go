package renderer

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width, Height int
	Pixels        int                  // Total number of pixels rendered
	Tiles         int                  // Number of tiles the image was split into
	Workers       int                  // Number of parallel workers
	Rays          integrator.RayCounts // Rays cast, by kind
	Duration      time.Duration        // Wall time of the render
}

// RaysPerSecond returns the overall ray throughput
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Rays.Total()) / s.Duration.Seconds()
}

// WriteTable prints the statistics as a two-column table
func (s RenderStats) WriteTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Statistic", "Value"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", s.Width, s.Height)})
	table.Append([]string{"Pixels", strconv.Itoa(s.Pixels)})
	table.Append([]string{"Tiles", strconv.Itoa(s.Tiles)})
	table.Append([]string{"Workers", strconv.Itoa(s.Workers)})
	table.Append([]string{"Primary rays", strconv.FormatInt(s.Rays.Primary, 10)})
	table.Append([]string{"Secondary rays", strconv.FormatInt(s.Rays.Secondary, 10)})
	table.Append([]string{"Shadow rays", strconv.FormatInt(s.Rays.Shadow, 10)})
	table.Append([]string{"Duration", s.Duration.Round(time.Millisecond).String()})
	table.SetFooter([]string{"Rays/s", fmt.Sprintf("%.0f", s.RaysPerSecond())})

	table.Render()
}
