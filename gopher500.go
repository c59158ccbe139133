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

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopher500/gopher500/archivefs"
	"github.com/gopher500/gopher500/digest"
	"github.com/gopher500/gopher500/environment"
	"github.com/gopher500/gopher500/hardware"
	"github.com/gopher500/gopher500/hardware/drive"
	"github.com/gopher500/gopher500/hardware/preferences"
	"github.com/gopher500/gopher500/inspect"
	"github.com/gopher500/gopher500/logger"
	"github.com/gopher500/gopher500/modalflag"
	"github.com/gopher500/gopher500/monitor"
	"github.com/gopher500/gopher500/monitor/easyterm"
	"github.com/gopher500/gopher500/paths"
	"github.com/gopher500/gopher500/plotter"
	"github.com/gopher500/gopher500/prefs"
	"github.com/gopher500/gopher500/sampleload"
	"github.com/gopher500/gopher500/statsview"
	"github.com/gopher500/gopher500/version"
	"github.com/gopher500/gopher500/wavwriter"
	"github.com/gopher500/gopher500/webinspect"
)

// address in chip RAM of a sample loaded from the command line
const sampleAddress = 0x10000

func main() {
	os.Exit(launch(os.Args[1:], os.Stdout))
}

// launch returns the status code for os.Exit(). separated from main() so
// that it can be tested.
func launch(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "INSPECT", "MONITOR", "PLOT", "WAV", "SERVE")
	showVersion := md.AddBool("version", false, "print version information and exit")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	if *showVersion {
		fmt.Fprintln(output, version.String())
		return 0
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)

	case "INSPECT":
		err = inspection(md)

	case "MONITOR":
		err = monitorMode(md)

	case "PLOT":
		err = plot(md)

	case "WAV":
		err = wav(md)

	case "SERVE":
		err = serve(md)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return 20
	}

	return 0
}

// flags shared by every mode
type common struct {
	prefs   *string
	disk    *string
	sample  *string
	channel *int
	volume  *int
	log     *bool
}

func addCommon(md *modalflag.Modes) common {
	return common{
		prefs:   md.AddString("prefs", "", "preferences for this session (eg. \"hardware.disk.speed::2; hardware.keyboard.accurate::true\")"),
		disk:    md.AddString("disk", "", "raw MFM stream to insert in DF0 (may be inside an archive)"),
		sample:  md.AddString("sample", "", "WAV or MP3 file to play with audio DMA (may be inside an archive)"),
		channel: md.AddInt("channel", 0, "audio channel used to play the sample"),
		volume:  md.AddInt("volume", sampleload.MaxVolume, "volume used to play the sample"),
		log:     md.AddBool("log", false, "echo log to stdout"),
	}
}

// create the emulation according to the common flags
func (c common) create(output io.Writer, label environment.Label) (*hardware.Amiga, error) {
	if *c.log {
		logger.SetEcho(output)
	}

	if *c.prefs != "" {
		prefs.PushCommandLineStack(*c.prefs)
	}

	p, err := preferences.NewPreferences()

	if *c.prefs != "" {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "gopher500", "unused preferences: %s", unused)
		}
	}

	if err != nil {
		return nil, err
	}

	env, err := environment.NewEnvironment(label, p)
	if err != nil {
		return nil, err
	}

	amiga, err := hardware.NewAmigaInEnvironment(env)
	if err != nil {
		return nil, err
	}

	if *c.disk != "" {
		data, err := archivefs.LoadFile(*c.disk)
		if err != nil {
			return nil, err
		}
		dsk, err := drive.NewDisk(data)
		if err != nil {
			return nil, err
		}
		amiga.Paula.Disk.InsertDisk(0, dsk, 0)
		logger.Logf(logger.Allow, "gopher500", "inserting %s in DF0", archivefs.TrimArchiveExt(filepath.Base(*c.disk)))
	}

	if *c.sample != "" {
		s, err := sampleload.Load(*c.sample)
		if err != nil {
			return nil, err
		}
		if err := s.Install(amiga.RAM, sampleAddress); err != nil {
			return nil, err
		}
		if err := s.Start(amiga.Registers, *c.channel, sampleAddress, uint16(*c.volume)); err != nil {
			return nil, err
		}
	}

	return amiga, nil
}

// interrupt returns a function suitable for the hardware.Run() function. the
// emulation continues until ctrl-c is pressed or until the number of frames
// has been run. a frames value of zero means there is no limit
func interrupt(amiga *hardware.Amiga, frames int) (func() (bool, error), func()) {
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	start := amiga.Agnus.Frame()

	check := func() (bool, error) {
		select {
		case <-intChan:
			return false, nil
		default:
		}
		if frames > 0 && amiga.Agnus.Frame()-start >= int64(frames) {
			return false, nil
		}
		return true, nil
	}

	return check, func() { signal.Stop(intChan) }
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	c := addCommon(md)
	frames := md.AddInt("frames", 0, "number of frames to run (0 to run until interrupted)")
	wavFile := md.AddString("wav", "", "record audio to wav file")
	dig := md.AddBool("digest", false, "print determinism digests on completion")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	if *stats {
		if !statsview.Available() {
			fmt.Fprintln(md.Output, "stats server not available in this build")
		} else {
			statsview.Launch(md.Output)
		}
	}

	amiga, err := c.create(md.Output, environment.MainEmulation)
	if err != nil {
		return err
	}

	if *wavFile != "" {
		ww, err := wavwriter.New(*wavFile, amiga.Paula.Muxer.SampleRate())
		if err != nil {
			return err
		}
		amiga.AddAudioMixer(ww)
	}

	var mach *digest.Machine
	var aud *digest.Audio
	if *dig {
		mach = digest.NewMachine(amiga)
		aud = digest.NewAudio()
		amiga.AddAudioMixer(aud)
	}

	check, stop := interrupt(amiga, *frames)
	defer stop()

	startTime := time.Now()
	err = amiga.Run(check)
	if err != nil {
		return err
	}
	if err := amiga.EndMixing(); err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "%d frames in %s\n", amiga.Agnus.Frame(), time.Since(startTime).Round(time.Millisecond))
	if *dig {
		fmt.Fprintf(md.Output, "machine: %s\n", mach.Hash())
		fmt.Fprintf(md.Output, "audio:   %s\n", aud.Hash())
	}

	return nil
}

func inspection(md *modalflag.Modes) error {
	md.NewMode()

	c := addCommon(md)
	frames := md.AddInt("frames", 1, "number of frames to run before inspection")
	yaml := md.AddBool("yaml", false, "output inspection as YAML")
	memviz := md.AddBool("memviz", false, "output inspection as a graphviz document")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *yaml && *memviz {
		return fmt.Errorf("-yaml and -memviz cannot be used together")
	}

	amiga, err := c.create(md.Output, environment.MainEmulation)
	if err != nil {
		return err
	}

	amiga.RunFrames(*frames)
	amiga.Inspect()
	info := amiga.Info()

	switch {
	case *yaml:
		return inspect.WriteYAML(md.Output, info)
	case *memviz:
		inspect.WriteGraph(md.Output, info)
	default:
		info.Write(md.Output)
	}

	return nil
}

func monitorMode(md *modalflag.Modes) error {
	md.NewMode()

	c := addCommon(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	amiga, err := c.create(md.Output, environment.MainEmulation)
	if err != nil {
		return err
	}

	var term easyterm.Terminal
	if err := term.Initialise(os.Stdin, os.Stdout); err != nil {
		return err
	}
	if err := term.CBreakMode(); err != nil {
		return err
	}
	defer term.CanonicalMode()

	return monitor.NewMonitor(amiga, &term, &term).Run()
}

func plot(md *modalflag.Modes) error {
	md.NewMode()

	c := addCommon(md)
	frames := md.AddInt("frames", 1, "number of frames to run")
	limit := md.AddInt("limit", 2048, "maximum number of audio frames in the graph")
	title := md.AddString("title", "", "title of graph (defaults to the sample name)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	var filename string
	switch len(md.RemainingArgs()) {
	case 0:
		filename = fmt.Sprintf("%s.png", paths.UniqueFilename("plot", ""))
	case 1:
		filename = md.GetArg(0)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	if *title == "" {
		*title = "Gopher500"
		if *c.sample != "" {
			*title = strings.TrimSuffix(archivefs.TrimArchiveExt(filepath.Base(*c.sample)), filepath.Ext(*c.sample))
		}
	}

	amiga, err := c.create(md.Output, environment.PlotEmulation)
	if err != nil {
		return err
	}

	rec := plotter.NewRecorder(amiga.Paula.Muxer.SampleRate(), *limit)
	amiga.AddAudioMixer(rec)
	amiga.RunFrames(*frames)
	if err := amiga.EndMixing(); err != nil {
		return err
	}

	if err := rec.Save(filename, *title); err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "%d audio frames plotted to %s\n", rec.Len(), filename)
	return nil
}

func wav(md *modalflag.Modes) error {
	md.NewMode()

	c := addCommon(md)
	frames := md.AddInt("frames", 50, "number of frames to run")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("%s mode requires an output filename", md)
	}

	amiga, err := c.create(md.Output, environment.MainEmulation)
	if err != nil {
		return err
	}

	ww, err := wavwriter.New(md.GetArg(0), amiga.Paula.Muxer.SampleRate())
	if err != nil {
		return err
	}
	amiga.AddAudioMixer(ww)

	amiga.RunFrames(*frames)
	if err := amiga.EndMixing(); err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "%d audio frames written to %s\n", ww.Len(), md.GetArg(0))
	return nil
}

func serve(md *modalflag.Modes) error {
	md.NewMode()

	c := addCommon(md)
	addr := md.AddString("addr", "localhost:12600", "address of the inspection server")
	interval := md.AddDuration("interval", 250*time.Millisecond, "time between inspection reports")
	frames := md.AddInt("frames", 0, "number of frames to run (0 to run until interrupted)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	amiga, err := c.create(md.Output, environment.MainEmulation)
	if err != nil {
		return err
	}

	srv := webinspect.NewServer(*addr, amiga.Info, *interval)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	fmt.Fprintf(md.Output, "inspection available at ws://%s/inspect\n", *addr)

	check, stop := interrupt(amiga, *frames)
	defer stop()

	// the server failing also stops the emulation
	err = amiga.Run(func() (bool, error) {
		select {
		case err := <-serveErr:
			return false, err
		default:
		}
		amiga.Inspect()
		return check()
	})
	if err != nil {
		return err
	}

	return srv.Shutdown()
}
