// This file is part of panog2.
//
// panog2 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// panog2 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with panog2.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/bradleyjkemp/memviz"
	"github.com/zeroclient/panog2/config"
	"github.com/zeroclient/panog2/govern"
	"github.com/zeroclient/panog2/hardware"
	"github.com/zeroclient/panog2/hardware/preferences"
	"github.com/zeroclient/panog2/logger"
	"github.com/zeroclient/panog2/modalflag"
	"github.com/zeroclient/panog2/prefs"
	"github.com/zeroclient/panog2/statsview"
	"github.com/zeroclient/panog2/trace"
	"github.com/zeroclient/panog2/version"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "CHECK", "MAP", "NETLIST", "GRAPH", "TRACE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)

	case "CHECK":
		err = check(md)

	case "MAP":
		err = memoryMap(md)

	case "NETLIST":
		err = netlist(md)

	case "GRAPH":
		err = graph(md)

	case "TRACE":
		err = traceMode(md)

	case "VERSION":
		v, rev := version.Version()
		fmt.Fprintf(md.Output, "%s %s %s\n", version.ApplicationName, v, rev)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// boardFlags are the flags common to every mode that builds the SoC.
type boardFlags struct {
	config  *string
	primary *string
	prefs   *string
}

func addBoardFlags(md *modalflag.Modes) boardFlags {
	return boardFlags{
		config:  md.AddString("config", "", "board file (YAML). the board as built if not specified"),
		primary: md.AddString("primary", "", "name of the channel to use as main RAM"),
		prefs:   md.AddString("prefs", "", "preference overrides. for example: sim.runcycles::500; sim.echo::true"),
	}
}

// load the board configuration and the user preferences.
func (bf boardFlags) load() (*config.Config, *preferences.Preferences, error) {
	prefs.PushCommandLineStack(*bf.prefs)

	pref, err := preferences.NewPreferences()
	if err != nil {
		return nil, nil, err
	}
	if unused := prefs.PopCommandLineStack(); unused != "" {
		logger.Logf(logger.Allow, "panog2", "unused preference overrides: %s", unused)
	}

	if pref.Echo.Get().(bool) {
		logger.SetEcho(os.Stdout)
	}

	cfg, err := config.Load(*bf.config)
	if err != nil {
		return nil, nil, err
	}

	if *bf.primary != "" {
		cfg, err = cfg.WithPrimary(*bf.primary)
		if err != nil {
			return nil, nil, err
		}
	}

	return cfg, pref, nil
}

func (bf boardFlags) build() (*hardware.SoC, *preferences.Preferences, error) {
	cfg, pref, err := bf.load()
	if err != nil {
		return nil, nil, err
	}

	soc, err := hardware.NewSoC(cfg)
	if err != nil {
		return nil, nil, err
	}

	return soc, pref, nil
}

func noArgs(md *modalflag.Modes) error {
	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}
	return nil
}

func run(md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("an optional ROM image can be given as the only argument")

	bf := addBoardFlags(md)
	cycles := md.AddInt("cycles", 0, "number of system cycles to run. the sim.runcycles preference if zero")
	stats := md.AddBool("stats", false, "run stats server (binary must be built with the statsview tag)")
	log := md.AddBool("log", false, "print the log when the run ends")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 1 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	soc, pref, err := bf.build()
	if err != nil {
		return err
	}

	if len(md.RemainingArgs()) == 1 {
		image, err := os.ReadFile(md.GetArg(0))
		if err != nil {
			return err
		}
		if err := soc.LoadROM(image); err != nil {
			return err
		}
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(md.Output)
		} else {
			fmt.Fprintln(md.Output, "stats server not available in this build")
		}
	}

	if *cycles == 0 {
		*cycles = pref.RunCycles.Get().(int)
	}

	// ctrl-c ends the run early
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	var brake int
	err = soc.RunForCycles(*cycles, func(_ int) (govern.State, error) {
		brake++
		if brake >= hardware.PerformanceBrake {
			brake = 0
			select {
			case <-intChan:
				return govern.Ending, nil
			default:
			}
		}
		return govern.Running, nil
	})
	if err != nil {
		return err
	}

	soc.WriteReport(md.Output)
	if *log {
		logger.Write(md.Output)
	}

	return nil
}

func check(md *modalflag.Modes) error {
	md.NewMode()

	bf := addBoardFlags(md)
	dump := md.AddBool("dump", false, "print the resolved board file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := noArgs(md); err != nil {
		return err
	}

	soc, _, err := bf.build()
	if err != nil {
		return err
	}

	soc.WriteClocks(md.Output)
	for _, ch := range soc.Channels {
		fmt.Fprintf(md.Output, "%s\n", ch)
	}

	if *dump {
		b, err := soc.Config.Marshal()
		if err != nil {
			return err
		}
		if _, err := md.Output.Write(b); err != nil {
			return err
		}
	}

	fmt.Fprintln(md.Output, "board ok")

	return nil
}

func memoryMap(md *modalflag.Modes) error {
	md.NewMode()
	bf := addBoardFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := noArgs(md); err != nil {
		return err
	}

	soc, _, err := bf.build()
	if err != nil {
		return err
	}

	_, err = io.WriteString(md.Output, soc.Map.Summary())
	return err
}

func netlist(md *modalflag.Modes) error {
	md.NewMode()
	bf := addBoardFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := noArgs(md); err != nil {
		return err
	}

	soc, _, err := bf.build()
	if err != nil {
		return err
	}

	soc.Netlist.Write(md.Output)
	return nil
}

func graph(md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("output is in graphviz dot format")

	bf := addBoardFlags(md)
	what := md.AddString("what", "netlist", "structure to graph: netlist, map or config")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := noArgs(md); err != nil {
		return err
	}

	soc, _, err := bf.build()
	if err != nil {
		return err
	}

	switch *what {
	case "netlist":
		memviz.Map(md.Output, soc.Netlist)
	case "map":
		memviz.Map(md.Output, soc.Map)
	case "config":
		memviz.Map(md.Output, soc.Config)
	default:
		return fmt.Errorf("cannot graph %s", *what)
	}

	return nil
}

func traceMode(md *modalflag.Modes) error {
	md.NewMode()

	bf := addBoardFlags(md)
	steps := md.AddInt("steps", 0, "number of steps to record. the sim.tracesteps preference if zero")
	skip := md.AddInt("skip", 0, "number of system cycles to run before recording")
	wavFile := md.AddString("wav", "", "write capture to WAV file")
	htmlFile := md.AddString("html", "", "write capture to HTML timing chart")
	from := md.AddString("from", "", "chart an existing WAV capture instead of running the board")
	digest := md.AddBool("digest", false, "print the digest of the capture")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := noArgs(md); err != nil {
		return err
	}

	if *wavFile == "" && *htmlFile == "" && !*digest {
		return fmt.Errorf("%s mode requires at least one of -wav, -html or -digest", md)
	}

	soc, pref, err := bf.build()
	if err != nil {
		return err
	}

	var c *trace.Capture

	if *from != "" {
		f, err := os.Open(*from)
		if err != nil {
			return err
		}
		defer f.Close()

		c, err = trace.ReadWAV(f)
		if err != nil {
			return err
		}
	} else {
		if *steps == 0 {
			*steps = pref.TraceSteps.Get().(int)
		}

		for i := 0; i < *skip; i++ {
			soc.StepSystemCycle()
		}

		r := trace.NewRecorder(trace.Probes(soc)...)
		r.Run(soc, *steps)
		c = r.Capture()
	}

	if *digest {
		dig := trace.NewDigest()
		dig.Add(c)
		fmt.Fprintf(md.Output, "%s\n", dig.Hash())
	}

	if *wavFile != "" {
		f, err := os.Create(*wavFile)
		if err != nil {
			return err
		}
		err = trace.WriteWAV(f, c)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(md.Output, "%d signals written to %s\n", len(c.Names), *wavFile)
		for i, n := range c.Names {
			fmt.Fprintf(md.Output, "    channel %d: %s\n", i, n)
		}
	}

	if *htmlFile != "" {
		f, err := os.Create(*htmlFile)
		if err != nil {
			return err
		}
		err = trace.WriteChart(f, c, soc.CRG.Timebase(), fmt.Sprintf("%s timing", version.ApplicationName))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(md.Output, "timing chart written to %s\n", *htmlFile)
	}

	return nil
}
