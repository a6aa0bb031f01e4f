package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/hydrosim/internal/experiment"
	"github.com/san-kum/hydrosim/internal/export"
	"github.com/san-kum/hydrosim/internal/hydro"
	"github.com/san-kum/hydrosim/internal/sim"
	"github.com/san-kum/hydrosim/internal/storage"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tDENSITY\tGRAVITY\tCTRL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.2f\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Density,
			run.Gravity,
			run.Controller,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []hydro.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}

	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(frames))

	big := make([]float64, len(frames))
	small := make([]float64, len(frames))
	applied := make([]float64, len(frames))
	for i, f := range frames {
		big[i] = f.BigHeight
		small[i] = f.SmallHeight
		applied[i] = f.Applied
	}

	graph := asciigraph.PlotMany([][]float64{big, small},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption("container heights: big (blue), small (red)"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(applied,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("applied pressure"),
	)
	fmt.Println(graph)

	return nil
}

func column(name string) (int, error) {
	i := slices.Index(hydro.FrameColumns, name)
	if i < 0 {
		return 0, fmt.Errorf("unknown column %q (available: %s)", name, strings.Join(hydro.FrameColumns, ", "))
	}
	return i, nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	xi, err := column(xColumn)
	if err != nil {
		return err
	}
	yi, err := column(yColumn)
	if err != nil {
		return err
	}

	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("phase plot: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", xColumn, yColumn)

	xData := make([]float64, len(frames))
	yData := make([]float64, len(frames))
	for i, f := range frames {
		vals := f.Values()
		xData[i] = vals[xi]
		yData[i] = vals[yi]
	}

	xMin, xMax := slices.Min(xData), slices.Max(xData)
	yMin, yMax := slices.Min(yData), slices.Max(yData)

	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	width := 70
	height := 20
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i := range xData {
		px := int((xData[i] - xMin) / xRange * float64(width-1))
		py := height - 1 - int((yData[i]-yMin)/yRange*float64(height-1))
		if px < 0 || px >= width || py < 0 || py >= height {
			continue
		}

		switch {
		case i < len(xData)/3:
			canvas[py][px] = '.'
		case i < 2*len(xData)/3:
			canvas[py][px] = 'o'
		default:
			canvas[py][px] = '●'
		}
	}

	fmt.Printf("  %8.3f ┌%s┐\n", yMax, strings.Repeat("─", width))
	for i := range canvas {
		if i == height/2 {
			fmt.Printf("  %8.3f │", (yMax+yMin)/2)
		} else {
			fmt.Print("           │")
		}
		fmt.Print(string(canvas[i]))
		fmt.Println("│")
	}
	fmt.Printf("  %8.3f └%s┘\n", yMin, strings.Repeat("─", width))
	fmt.Printf("            %-*.3f%.3f\n", width-8, xMin, xMax)

	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteFramesCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	result := &sim.Result{
		Frames:     frames,
		Metrics:    meta.Metrics,
		StepsTaken: len(frames),
	}
	info := storage.RunInfo{
		Preset:     meta.Preset,
		Controller: meta.Controller,
		Constants:  hydro.Constants{Density: meta.Density, Gravity: meta.Gravity},
	}
	if jsonOut != "" {
		if err := storage.ExportJSON(jsonOut, info, result); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonOut)
		return nil
	}
	return storage.ExportJSONStdout(info, result)
}

func writeOutput(path, data string) error {
	if path == "" {
		_, err := fmt.Println(data)
		return err
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg := export.HeightsToSVG(frames, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("not enough frames to plot")
	}
	return writeOutput(svgOut, svg)
}

func snapshot(cmd *cobra.Command, args []string) error {
	name, cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	cfg.Frames = snapFrames

	exp := experiment.New(name, cfg)
	if err := exp.SetupFrom(experiment.NewRegistry()); err != nil {
		return err
	}
	s := exp.GetSimulator()
	if snapFrames > 0 {
		err := s.RunWithCallback(cmd.Context(), sim.Config{Frames: snapFrames}, func(f hydro.Frame) bool {
			return !untilBalanced || f.Outcome != hydro.Balanced
		})
		if err != nil {
			return err
		}
	}

	scene := s.Apparatus().Scene()
	return writeOutput(svgOut, export.SceneToSVG(scene, snapSize, snapSize))
}
