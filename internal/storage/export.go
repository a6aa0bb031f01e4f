package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/hydrosim/internal/hydro"
	"github.com/san-kum/hydrosim/internal/sim"
)

type ExportFrame struct {
	Frame         int     `json:"frame"`
	BigHeight     float64 `json:"big_height"`
	SmallHeight   float64 `json:"small_height"`
	BigPressure   float64 `json:"big_pressure"`
	SmallPressure float64 `json:"small_pressure"`
	Applied       float64 `json:"applied"`
	Outcome       string  `json:"outcome"`
}

type ExportData struct {
	Preset     string             `json:"preset"`
	Controller string             `json:"controller"`
	Density    float64            `json:"density"`
	Gravity    float64            `json:"gravity"`
	Steps      int                `json:"steps"`
	Frames     []ExportFrame      `json:"frames"`
	Outcomes   map[string]int     `json:"outcomes"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newExportData(info RunInfo, frames []hydro.Frame, metrics map[string]float64) ExportData {
	data := ExportData{
		Preset:     info.Preset,
		Controller: info.Controller,
		Density:    info.Constants.Density,
		Gravity:    info.Constants.Gravity,
		Steps:      len(frames),
		Frames:     make([]ExportFrame, len(frames)),
		Outcomes:   make(map[string]int),
		Metrics:    metrics,
	}

	for i, f := range frames {
		data.Frames[i] = ExportFrame{
			Frame:         f.Index,
			BigHeight:     f.BigHeight,
			SmallHeight:   f.SmallHeight,
			BigPressure:   f.BigPressure,
			SmallPressure: f.SmallPressure,
			Applied:       f.Applied,
			Outcome:       f.Outcome.String(),
		}
		data.Outcomes[f.Outcome.String()]++
	}

	return data
}

// WriteJSON encodes a run as indented JSON.
func WriteJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	data := newExportData(info, result.Frames, result.Metrics)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, info RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, info, result)
}

func ExportJSONStdout(info RunInfo, result *sim.Result) error {
	return WriteJSON(os.Stdout, info, result)
}

// WriteFramesCSV writes one header row followed by one row per frame:
// frame index, the FrameColumns values, outcome.
func WriteFramesCSV(out io.Writer, frames []hydro.Frame) error {
	w := csv.NewWriter(out)

	header := append([]string{"frame"}, hydro.FrameColumns...)
	header = append(header, "outcome")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{strconv.Itoa(f.Index)}
		for _, v := range f.Values() {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		row = append(row, f.Outcome.String())

		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
