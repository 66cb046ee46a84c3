package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/lixenwraith/arx-infinitum/audio"
	"github.com/lixenwraith/arx-infinitum/config"
	"github.com/lixenwraith/arx-infinitum/game"
	"github.com/lixenwraith/arx-infinitum/mapgen"
	"github.com/lixenwraith/arx-infinitum/status"
	"github.com/lixenwraith/arx-infinitum/viewer"
)

const sampleRate = beep.SampleRate(44100)

var (
	configFlag   = flag.String("config", "", "Campaign YAML file (default: built-in campaign)")
	saveFlag     = flag.String("save", "", "Write the effective campaign to this YAML file")
	waveFlag     = flag.Int("wave", 0, "Wave whose map to show, 1-based (0: all)")
	widthFlag    = flag.Int("width", 0, "Override map width")
	heightFlag   = flag.Int("height", 0, "Override map height")
	densityFlag  = flag.Float64("density", 0, "Override obstacle density [0.0 - 1.0]")
	seedFlag     = flag.Int64("seed", 0, "Override map seed")
	spawnsFlag   = flag.Int("spawns", 0, "Mark this many open-tile draws on printed maps")
	viewFlag     = flag.Bool("view", false, "Interactive terminal viewer")
	simulateFlag = flag.Bool("simulate", false, "Run the campaign headless and report")
	durationFlag = flag.Duration("duration", 2*time.Minute, "Simulated time limit")
	campFlag     = flag.Bool("camp", false, "Simulated player stands still")
	wavFlag      = flag.String("wav", "", "Record simulated sound effects to this WAV file")
	settingsFlag = flag.String("settings", "arx-settings.yaml", "Player settings file")
	volumeFlag   = flag.Int("volume", -1, "Set and save master volume 0-100")
	debugFlag    = flag.Bool("debug", false, "Write logs to "+logDir+"/"+logFileName)
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	code := 0
	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "arx-map: %v\n", err)
		log.Printf("Fatal: %v", err)
		code = 1
	}
	if logFile != nil {
		logFile.Close()
	}
	os.Exit(code)
}

func run(out io.Writer) error {
	c, err := loadCampaign(*configFlag)
	if err != nil {
		return err
	}
	if err := applyOverrides(c, *waveFlag); err != nil {
		return err
	}
	if *saveFlag != "" {
		if err := config.Save(*saveFlag, c); err != nil {
			return err
		}
		fmt.Fprintf(out, "Campaign written to %s\n", *saveFlag)
	}

	metrics := status.NewRegistry()
	switch {
	case *viewFlag:
		return runViewer(c, *waveFlag)
	case *simulateFlag:
		if err := runSimulation(out, c, metrics); err != nil {
			return err
		}
	default:
		if err := printMaps(out, c, *waveFlag, *spawnsFlag, metrics); err != nil {
			return err
		}
	}
	printMetrics(out, metrics)
	return nil
}

func loadCampaign(path string) (*config.Campaign, error) {
	if path == "" {
		c := config.Default()
		c.ApplyEnv(os.LookupEnv)
		return c, nil
	}
	return config.Load(path)
}

// applyOverrides copies explicitly set map flags onto the selected wave's map,
// or onto every map when wave is 0
func applyOverrides(c *config.Campaign, wave int) error {
	if wave < 0 || wave > len(c.Maps) {
		return fmt.Errorf("wave %d out of range [1, %d]", wave, len(c.Maps))
	}
	first, last := 0, len(c.Maps)
	if wave > 0 {
		first, last = wave-1, wave
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for i := first; i < last; i++ {
		spec := &c.Maps[i]
		if set["width"] {
			spec.Width = *widthFlag
		}
		if set["height"] {
			spec.Height = *heightFlag
		}
		if set["density"] {
			spec.ObstacleDensity = *densityFlag
		}
		if set["seed"] {
			spec.Seed = *seedFlag
		}
	}
	return c.Validate()
}

func printMaps(out io.Writer, c *config.Campaign, wave, spawns int, metrics *status.Registry) error {
	gen, err := mapgen.NewGenerator(c.TileSize, metrics)
	if err != nil {
		return err
	}

	for i, spec := range c.Maps {
		if wave > 0 && i != wave-1 {
			continue
		}
		startT := time.Now()
		m, err := gen.Generate(spec)
		if err != nil {
			return fmt.Errorf("map %d: %w", i+1, err)
		}
		dur := time.Since(startT)

		marks := make([]mapgen.Coord, 0, spawns)
		for range spawns {
			coord, err := gen.DrawOpenTile()
			if err != nil {
				return fmt.Errorf("map %d: %w", i+1, err)
			}
			marks = append(marks, coord)
		}

		printSummary(out, i+1, m)
		fmt.Fprintf(out, "Done in %v\n", dur)
		drawMap(out, m, marks)
	}
	return nil
}

func runViewer(c *config.Campaign, wave int) error {
	gen, err := mapgen.NewGenerator(c.TileSize, nil)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	v := viewer.New(screen, gen, c.Maps)
	if err := v.Load(max(wave, 1) - 1); err != nil {
		return err
	}
	v.Run()
	return nil
}

func runSimulation(out io.Writer, c *config.Campaign, metrics *status.Registry) error {
	settings, err := config.LoadSettings(*settingsFlag)
	if err != nil {
		return err
	}

	lib := audio.SynthLibrary(sampleRate, rand.New(rand.NewSource(time.Now().UnixNano())))
	mgr := audio.NewManager(sampleRate, settings.Audio, lib, func(v audio.Volumes) error {
		return config.SaveSettings(*settingsFlag, config.Settings{Audio: v})
	})
	if *volumeFlag >= 0 {
		if err := mgr.SetVolume(audio.ChannelMaster, float64(*volumeFlag)/100); err != nil {
			return err
		}
	}

	opts := game.DefaultSimOptions()
	opts.Duration = *durationFlag
	opts.Camp = *campFlag

	report, recorded, err := simulate(c, mgr, metrics, opts, *wavFlag != "")
	if err != nil {
		return err
	}
	printReport(out, report)

	if *wavFlag != "" {
		if err := writeWAV(*wavFlag, recorded); err != nil {
			return err
		}
		fmt.Fprintf(out, "Audio written to %s (%v)\n", *wavFlag, sampleRate.D(len(recorded)))
	}
	return nil
}

// simulate runs c headless with mgr as the sound and music sink. When record
// is set the mix is pulled once per step and returned
func simulate(c *config.Campaign, mgr *audio.Manager, metrics *status.Registry, opts game.SimOptions, record bool) (game.Report, [][2]float64, error) {
	session, err := game.NewSession(c, mgr, metrics)
	if err != nil {
		return game.Report{}, nil, err
	}

	var recorded [][2]float64
	if record {
		chunk := make([][2]float64, sampleRate.N(opts.Step))
		opts.OnStep = func(time.Duration) error {
			mgr.Stream(chunk)
			recorded = append(recorded, chunk...)
			return nil
		}
	}

	report, err := game.Simulate(session, opts)
	return report, recorded, err
}

func writeWAV(path string, samples [][2]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer f.Close()

	pos := 0
	s := beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, true
	})
	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, s, format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}
