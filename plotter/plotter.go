// This file is part of Gopher500.
//
// Gopher500 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher500 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher500.  If not, see <https://www.gnu.org/licenses/>.

// Package plotter records the output of the audio muxer and renders it as a
// graph. The graph format is chosen by the file extension, PNG being the
// most useful.
package plotter

import (
	"image/color"

	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/hardware/paula/audio"
	"github.com/gopher500/gopher500/logger"
	"gonum.org/v1/plot"
	gplotter "gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Sentinal errors.
const (
	NoData    = "plotter: no audio data recorded"
	PlotError = "plotter: %v"
)

// default size of the graph
const (
	defaultWidth  = 10 * vg.Inch
	defaultHeight = 4 * vg.Inch
)

// Recorder implements the hardware.AudioMixer interface. The first Limit
// frames are recorded. Later frames are ignored.
type Recorder struct {
	sampleRate int
	limit      int
	frames     []audio.Frame
}

// NewRecorder is the preferred method of initialisation for the Recorder
// type. The sample rate is the output rate of the muxer and is used to label
// the time axis.
func NewRecorder(sampleRate int, limit int) *Recorder {
	return &Recorder{
		sampleRate: sampleRate,
		limit:      limit,
		frames:     make([]audio.Frame, 0, limit),
	}
}

// SetAudio implements the hardware.AudioMixer interface.
func (rec *Recorder) SetAudio(frames []audio.Frame) error {
	space := rec.limit - len(rec.frames)
	if space <= 0 {
		return nil
	}
	if len(frames) > space {
		frames = frames[:space]
	}
	rec.frames = append(rec.frames, frames...)
	return nil
}

// EndMixing implements the hardware.AudioMixer interface.
func (rec *Recorder) EndMixing() error {
	return nil
}

// Len returns the number of frames recorded.
func (rec *Recorder) Len() int {
	return len(rec.frames)
}

// xys returns the values of one side as points. X is time in milliseconds
func (rec *Recorder) xys(right bool) gplotter.XYs {
	pts := make(gplotter.XYs, len(rec.frames))
	for i, f := range rec.frames {
		pts[i].X = float64(i) * 1000 / float64(rec.sampleRate)
		if right {
			pts[i].Y = float64(f.Right)
		} else {
			pts[i].Y = float64(f.Left)
		}
	}
	return pts
}

// Plot creates a graph of the recorded audio with a line for each side of
// the stereo output.
func (rec *Recorder) Plot(title string) (*plot.Plot, error) {
	if len(rec.frames) == 0 {
		return nil, curated.Errorf(NoData)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (ms)"
	p.Y.Label.Text = "Amplitude"
	p.Y.Min = -1.0
	p.Y.Max = 1.0

	left, err := gplotter.NewLine(rec.xys(false))
	if err != nil {
		return nil, curated.Errorf(PlotError, err)
	}
	left.LineStyle.Color = color.RGBA{R: 200, A: 255}

	right, err := gplotter.NewLine(rec.xys(true))
	if err != nil {
		return nil, curated.Errorf(PlotError, err)
	}
	right.LineStyle.Color = color.RGBA{B: 200, A: 255}

	p.Add(gplotter.NewGrid(), left, right)
	p.Legend.Add("left (0+3)", left)
	p.Legend.Add("right (1+2)", right)

	return p, nil
}

// Save the graph to the named file.
func (rec *Recorder) Save(filename string, title string) error {
	p, err := rec.Plot(title)
	if err != nil {
		return err
	}

	logger.Logf(logger.Allow, "plotter", "saving %d frames to %s", len(rec.frames), filename)

	if err := p.Save(defaultWidth, defaultHeight, filename); err != nil {
		return curated.Errorf(PlotError, err)
	}
	return nil
}
