package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/kinetic/internal/capability"
	"github.com/san-kum/kinetic/internal/config"
	"github.com/san-kum/kinetic/internal/perf"
	"github.com/san-kum/kinetic/internal/resolve"
	"github.com/san-kum/kinetic/internal/storage"
	"github.com/san-kum/kinetic/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	// classify
	cores      int
	memoryGB   float64
	saveData   bool
	connection string

	// resolve
	keyframes     string
	fallback      string
	complexityStr string
	durationMs    int
	easing        string
	properties    []string
	essential     bool
	forceGPU      bool
	reducedMotion bool
	tierStr       string
	optLevel      int

	// monitor / bench
	runFor     time.Duration
	intervalMs int
	record     bool
	loadFPS    float64
	fpsPattern string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kinetic",
		Short: "physics-driven interaction and adaptive-performance engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, args)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinetic", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "interactive pointer-physics demo",
		RunE:  runDemo,
	}
	demoCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	demoCmd.Flags().StringVar(&preset, "preset", "magnetic-hover", "interaction preset")

	classifyCmd := &cobra.Command{
		Use:   "classify",
		Short: "derive the device capability tier",
		RunE:  runClassify,
	}
	classifyCmd.Flags().IntVar(&cores, "cores", 0, "override logical core count (0 = probe)")
	classifyCmd.Flags().Float64Var(&memoryGB, "memory", 0, "override memory in GB (0 = probe)")
	classifyCmd.Flags().BoolVar(&saveData, "save-data", false, "data saver enabled")
	classifyCmd.Flags().StringVar(&connection, "connection", "", "connection type (4g, 3g, 2g, slow-2g)")

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "resolve an animation request against a tier",
		RunE:  runResolve,
	}
	resolveCmd.Flags().StringVar(&keyframes, "keyframes", "float-up", "keyframe set name")
	resolveCmd.Flags().StringVar(&fallback, "reduced-fallback", "", "reduced motion fallback keyframes")
	resolveCmd.Flags().StringVar(&complexityStr, "complexity", "standard", "requested complexity")
	resolveCmd.Flags().IntVar(&durationMs, "duration", 1000, "duration in ms")
	resolveCmd.Flags().StringVar(&easing, "easing", "ease-out", "easing function")
	resolveCmd.Flags().StringSliceVar(&properties, "properties", []string{"transform", "opacity"}, "animated properties")
	resolveCmd.Flags().BoolVar(&essential, "essential", false, "essential animation")
	resolveCmd.Flags().BoolVar(&forceGPU, "force-gpu", false, "force GPU hints")
	resolveCmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "prefers reduced motion")
	resolveCmd.Flags().StringVar(&tierStr, "tier", "", "tier override (minimal..ultra, empty = probe)")
	resolveCmd.Flags().IntVar(&optLevel, "level", 0, "optimization level")

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "run the performance monitor over a synthetic frame stream",
		RunE:  runMonitor,
	}
	monitorCmd.Flags().DurationVar(&runFor, "time", 10*time.Second, "how long to run")
	monitorCmd.Flags().IntVar(&intervalMs, "interval", 1000, "sampling window in ms")
	monitorCmd.Flags().Float64Var(&loadFPS, "load-fps", 60, "simulated frame rate")
	monitorCmd.Flags().BoolVar(&record, "record", false, "save the session")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded sessions",
		RunE:  runList,
	}

	exportCmd := &cobra.Command{
		Use:   "export [session_id]",
		Short: "export a session as json",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "replay an fps pattern through the optimization state machine",
		RunE:  runBench,
	}
	benchCmd.Flags().StringVar(&fpsPattern, "pattern", "60,60,25,25,25,25,28,40,58,60,60,60", "comma-separated per-window fps")

	rootCmd.AddCommand(demoCmd, classifyCmd, resolveCmd, monitorCmd, listCmd, exportCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	return tui.Run(cfg)
}

func runClassify(cmd *cobra.Command, args []string) error {
	sig := capability.Probe()
	if cores > 0 {
		sig.Cores = cores
	}
	if memoryGB > 0 {
		sig.MemoryGB = memoryGB
	}
	sig.SaveData = saveData
	if connection != "" {
		sig.Connection = connection
	}

	tier := capability.Classify(sig)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "cores\t%d\n", sig.Cores)
	fmt.Fprintf(w, "memory\t%.1f GB\n", sig.MemoryGB)
	if sig.Connection != "" {
		fmt.Fprintf(w, "connection\t%s\n", sig.Connection)
	}
	fmt.Fprintf(w, "save data\t%v\n", sig.SaveData)
	fmt.Fprintf(w, "tier\t%s\n", tier)
	return w.Flush()
}

func parseComplexity(s string) resolve.Complexity {
	switch strings.ToLower(s) {
	case "none":
		return resolve.None
	case "minimal":
		return resolve.Minimal
	case "basic":
		return resolve.Basic
	case "standard":
		return resolve.Standard
	case "enhanced":
		return resolve.Enhanced
	case "complex":
		return resolve.Complex
	default:
		return resolve.Standard
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	tier := capability.Detect()
	if tierStr != "" {
		tier = capability.ParseTier(tierStr)
	}

	req := resolve.Request{
		Keyframes:             keyframes,
		ReducedMotionFallback: fallback,
		Complexity:            parseComplexity(complexityStr),
		Duration:              time.Duration(durationMs) * time.Millisecond,
		Easing:                easing,
		Iterations:            1,
		Properties:            properties,
		AdaptToCapabilities:   true,
		ForceGPU:              forceGPU,
		Essential:             essential,
	}

	res := resolve.Resolve(req, tier, optLevel, reducedMotion)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "tier\t%s\n", tier)
	if res.NoOp() {
		fmt.Fprintf(w, "result\tsuppressed (no-op)\n")
		return w.Flush()
	}
	fmt.Fprintf(w, "keyframes\t%s\n", res.Keyframes)
	fmt.Fprintf(w, "complexity\t%s\n", res.Complexity)
	fmt.Fprintf(w, "duration\t%s\n", res.Duration)
	fmt.Fprintf(w, "easing\t%s\n", res.Easing)
	fmt.Fprintf(w, "properties\t%s\n", strings.Join(res.Properties, ", "))
	fmt.Fprintf(w, "gpu\t%v\n", res.UseGPU)
	if res.WillChange != "" {
		fmt.Fprintf(w, "will-change\t%s\n", res.WillChange)
	}
	return w.Flush()
}

// runMonitor drives the monitor with a synthetic frame stream at --load-fps
// and prints the windowed samples as they land.
func runMonitor(cmd *cobra.Command, args []string) error {
	log := logger()
	mon := perf.NewMonitor(perf.Options{
		UpdateInterval: time.Duration(intervalMs) * time.Millisecond,
		AutoOptimize:   true,
		Logger:         &log,
	})
	unsub := mon.OnIssue(func(i perf.Issue) {
		log.Warn().Str("severity", i.Severity).Msg(i.Message)
	})
	defer unsub()

	mon.Start()
	defer mon.Stop()

	frame := time.NewTicker(time.Duration(float64(time.Second) / loadFPS))
	defer frame.Stop()
	deadline := time.After(runFor)

loop:
	for {
		select {
		case t := <-frame.C:
			mon.RecordFrame(t)
		case <-deadline:
			break loop
		}
	}
	mon.Stop()

	history := mon.History()
	fps := make([]float64, 0, len(history))
	for _, s := range history {
		fps = append(fps, s.FPS)
	}
	if len(fps) > 1 {
		fmt.Println(asciigraph.Plot(fps, asciigraph.Height(8), asciigraph.Caption("fps per window")))
	}
	fmt.Printf("windows: %d  level: %d\n", len(history), mon.Level())
	for _, s := range mon.Suggestions() {
		fmt.Println("suggestion:", s)
	}

	if record {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		id, err := store.Save(capability.Detect().String(), mon.Level(), history)
		if err != nil {
			return err
		}
		fmt.Println("saved:", id)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	sessions, err := store.List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTIER\tSAMPLES\tAVG FPS\tLEVEL")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%d\n",
			s.ID, s.Timestamp.Format("2006-01-02 15:04:05"), s.Tier, s.Samples, s.AvgFPS, s.FinalLevel)
	}
	return w.Flush()
}

func runExport(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := store.Samples(args[0])
	if err != nil {
		return err
	}

	out := struct {
		Meta    storage.SessionMetadata `json:"meta"`
		Samples []perf.Sample           `json:"samples"`
	}{meta, samples}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// runBench replays a per-window fps pattern through the hysteresis ladder,
// without real time passing.
func runBench(cmd *cobra.Command, args []string) error {
	mon := perf.NewMonitor(perf.Options{AutoOptimize: true})

	var levels []float64
	base := time.Now()
	for _, field := range strings.Split(fpsPattern, ",") {
		var fps float64
		if _, err := fmt.Sscanf(strings.TrimSpace(field), "%f", &fps); err != nil || fps <= 0 {
			return fmt.Errorf("bad fps value %q in pattern", field)
		}
		interval := time.Duration(float64(time.Second) / fps)
		for elapsed := time.Duration(0); elapsed < time.Second; elapsed += interval {
			mon.RecordFrame(base)
			base = base.Add(interval)
		}
		mon.TakeSample()
		levels = append(levels, float64(mon.Level()))
	}

	fmt.Println(asciigraph.Plot(levels, asciigraph.Height(5), asciigraph.Caption("optimization level per window")))
	fmt.Printf("final level: %d\n", mon.Level())
	return nil
}
