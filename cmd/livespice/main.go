package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/livespice/internal/analysis"
	"github.com/san-kum/livespice/internal/audio"
	"github.com/san-kum/livespice/internal/dynamo"
	"github.com/san-kum/livespice/internal/experiment"
	"github.com/san-kum/livespice/internal/optim"
	"github.com/san-kum/livespice/internal/symbolic"
)

var (
	inPath    string
	outPath   string
	graph     bool
	play      bool
	param     string
	sweepFrom float64
	sweepTo   float64
	steps     int
	metric    string
	fundHz    float64
)

// main registers the livespice subcommands and executes the root
// command; it exits with status 1 if execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "livespice",
		Short: "time-domain circuit simulator",
	}

	runCmd := &cobra.Command{
		Use:   "run [netlist.yaml]",
		Short: "run a netlist over a fixed input buffer",
		Args:  cobra.ExactArgs(1),
		RunE:  runNetlist,
	}
	runCmd.Flags().StringVar(&inPath, "in", "", "input buffer csv (single column)")
	runCmd.Flags().StringVar(&outPath, "out", "", "output csv path")
	runCmd.Flags().BoolVar(&graph, "graph", false, "ascii-plot the first output")
	runCmd.Flags().BoolVar(&play, "play", false, "play the result back through the sound card")

	sweepCmd := &cobra.Command{
		Use:   "sweep [netlist.yaml]",
		Short: "sweep one parameter and report a metric per point",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepNetlist,
	}
	sweepCmd.Flags().StringVar(&param, "param", "", "parameter name to sweep")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "sweep range start")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "sweep range end")
	sweepCmd.Flags().IntVar(&steps, "steps", 10, "number of sweep points")
	sweepCmd.Flags().StringVar(&metric, "metric", "cutoff_hz", "cutoff_hz|dominant_hz|thd|peak|rms")
	sweepCmd.Flags().Float64Var(&fundHz, "fundamental", 1000, "fundamental frequency for the thd metric")

	playCmd := &cobra.Command{
		Use:   "play [netlist.yaml]",
		Short: "stream a netlist's output to the sound card live",
		Args:  cobra.ExactArgs(1),
		RunE:  playNetlist,
	}
	playCmd.Flags().StringVar(&inPath, "in", "", "input buffer csv (single column)")

	watchCmd := &cobra.Command{
		Use:   "watch [netlist.yaml]",
		Short: "live level meter of a running netlist",
		Args:  cobra.ExactArgs(1),
		RunE:  watchNetlist,
	}
	watchCmd.Flags().StringVar(&inPath, "in", "", "input buffer csv (single column)")

	benchCmd := &cobra.Command{
		Use:   "bench [netlist.yaml]",
		Short: "report build time and steady-state samples/sec",
		Args:  cobra.ExactArgs(1),
		RunE:  benchNetlist,
	}

	rootCmd.AddCommand(runCmd, sweepCmd, playCmd, watchCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadNetlistAndRegistry(path string) (*experiment.Netlist, *experiment.Registry, error) {
	netlist, err := experiment.LoadNetlist(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading netlist: %w", err)
	}
	return netlist, experiment.NewRegistry(), nil
}

// loadColumn reads a single-column CSV of float samples, skipping a
// header row if its first cell doesn't parse as a number.
func loadColumn(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	buf := make([]float64, 0, len(records))
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(record[len(record)-1], 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("loadColumn: row %d: %w", i, err)
		}
		buf = append(buf, v)
	}
	return buf, nil
}

func writeOutputsCSV(path string, sampleRate float64, outputs map[string][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	names := make([]string, 0, len(outputs))
	samples := 0
	for name, buf := range outputs {
		names = append(names, name)
		if len(buf) > samples {
			samples = len(buf)
		}
	}
	sort.Strings(names)

	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}
	for i := 0; i < samples; i++ {
		row := []string{strconv.FormatFloat(float64(i)/sampleRate, 'f', 8, 64)}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(outputs[name][i], 'f', 8, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func buildIO(netlist *experiment.Netlist, n int, inBuf []float64) (map[symbolic.Expr][]float64, map[symbolic.Expr][]float64, map[string][]float64) {
	inputs := make(map[symbolic.Expr][]float64, len(netlist.Inputs))
	for _, name := range netlist.Inputs {
		buf := make([]float64, n)
		copy(buf, inBuf)
		inputs[symbolic.V(name)] = buf
	}

	outExprs := netlist.OutputExprs()
	outputs := make(map[symbolic.Expr][]float64, len(outExprs))
	named := make(map[string][]float64, len(outExprs))
	for i, name := range netlist.Outputs {
		buf := make([]float64, n)
		outputs[outExprs[i]] = buf
		named[name] = buf
	}
	return inputs, outputs, named
}

func runNetlist(cmd *cobra.Command, args []string) error {
	netlist, registry, err := loadNetlistAndRegistry(args[0])
	if err != nil {
		return err
	}

	sim, err := netlist.Build(registry)
	if err != nil {
		return fmt.Errorf("building simulation: %w", err)
	}

	var inBuf []float64
	if inPath != "" {
		inBuf, err = loadColumn(inPath)
		if err != nil {
			return fmt.Errorf("loading input: %w", err)
		}
	}

	n := len(inBuf)
	if n == 0 {
		n = int(netlist.SampleRate)
	}

	inputs, outputs, named := buildIO(netlist, n, inBuf)

	start := time.Now()
	if err := sim.Process(n, inputs, outputs, netlist.ParameterList(nil)); err != nil {
		return fmt.Errorf("processing: %w", err)
	}
	fmt.Printf("processed %d samples in %v\n", n, time.Since(start))

	if outPath != "" {
		if err := writeOutputsCSV(outPath, netlist.SampleRate, named); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Printf("wrote %s\n", outPath)
	}

	if graph && len(netlist.Outputs) > 0 {
		data := named[netlist.Outputs[0]]
		g := asciigraph.Plot(data, asciigraph.Height(12), asciigraph.Width(80),
			asciigraph.Caption(netlist.Outputs[0]))
		fmt.Println(g)
	}

	if play && len(netlist.Outputs) > 0 {
		if err := audio.PlayBuffer(named[netlist.Outputs[0]], netlist.SampleRate); err != nil {
			return fmt.Errorf("playback: %w", err)
		}
	}

	return nil
}

func metricFunc(name string, sampleRate float64) (func([]float64) float64, error) {
	switch name {
	case "cutoff_hz":
		return func(buf []float64) float64 { return analysis.CutoffFrequency(buf, sampleRate) }, nil
	case "dominant_hz":
		return func(buf []float64) float64 { return analysis.DominantFrequency(buf, sampleRate) }, nil
	case "thd":
		return func(buf []float64) float64 { return analysis.THD(buf, sampleRate, fundHz) }, nil
	case "peak":
		return func(buf []float64) float64 {
			peak := 0.0
			for _, v := range buf {
				if math.Abs(v) > peak {
					peak = math.Abs(v)
				}
			}
			return peak
		}, nil
	case "rms":
		return func(buf []float64) float64 {
			if len(buf) == 0 {
				return 0
			}
			sum := 0.0
			for _, v := range buf {
				sum += v * v
			}
			return math.Sqrt(sum / float64(len(buf)))
		}, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", name)
	}
}

func sweepNetlist(cmd *cobra.Command, args []string) error {
	if param == "" {
		return fmt.Errorf("sweep: --param is required")
	}

	netlist, registry, err := loadNetlistAndRegistry(args[0])
	if err != nil {
		return err
	}
	if len(netlist.Outputs) == 0 {
		return fmt.Errorf("sweep: netlist has no outputs")
	}

	m, err := metricFunc(metric, netlist.SampleRate)
	if err != nil {
		return err
	}

	n := int(netlist.SampleRate)
	impulse := make([]float64, n)
	if n > 0 {
		impulse[0] = 1.0
	}
	inputs := make(map[symbolic.Expr][]float64, len(netlist.Inputs))
	for _, name := range netlist.Inputs {
		inputs[symbolic.V(name)] = impulse
	}

	values := optim.Linspace(sweepFrom, sweepTo, steps)

	points, err := optim.Sweep(netlist, registry, param, values, n, inputs, netlist.OutputExprs()[0], m)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	for _, p := range points {
		fmt.Printf("%-14.6g  %s=%.6g\n", p.Value, metric, p.Metric)
	}

	return nil
}

func playNetlist(cmd *cobra.Command, args []string) error {
	netlist, registry, err := loadNetlistAndRegistry(args[0])
	if err != nil {
		return err
	}
	if len(netlist.Outputs) == 0 {
		return fmt.Errorf("play: netlist has no outputs")
	}

	sim, err := netlist.Build(registry)
	if err != nil {
		return fmt.Errorf("building simulation: %w", err)
	}

	var source func([]float64)
	var inputExpr symbolic.Expr
	if len(netlist.Inputs) > 0 {
		inputExpr = symbolic.V(netlist.Inputs[0])
		var inBuf []float64
		if inPath != "" {
			inBuf, err = loadColumn(inPath)
			if err != nil {
				return fmt.Errorf("loading input: %w", err)
			}
		}
		cursor := 0
		source = func(buf []float64) {
			for i := range buf {
				if cursor < len(inBuf) {
					buf[i] = inBuf[cursor]
					cursor++
				} else {
					buf[i] = 0
				}
			}
		}
	}

	mon := audio.NewMonitor(sim, inputExpr, netlist.OutputExprs()[0], source, netlist.ParameterList(nil))
	if err := mon.Start(netlist.SampleRate); err != nil {
		return fmt.Errorf("starting audio: %w", err)
	}
	defer mon.Stop()

	fmt.Println("playing, press ctrl-c to stop")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func benchNetlist(cmd *cobra.Command, args []string) error {
	netlist, registry, err := loadNetlistAndRegistry(args[0])
	if err != nil {
		return err
	}

	start := time.Now()
	sim, err := netlist.Build(registry)
	if err != nil {
		return fmt.Errorf("building simulation: %w", err)
	}
	buildTime := time.Since(start)

	const n = 48000
	inputs, outputs, _ := buildIO(netlist, n, nil)

	start = time.Now()
	if err := sim.Process(n, inputs, outputs, netlist.ParameterList(nil)); err != nil {
		return fmt.Errorf("processing: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("build:  %v\n", buildTime)
	fmt.Printf("run:    %v for %d samples\n", elapsed, n)
	fmt.Printf("rate:   %.0f samples/sec\n", float64(n)/elapsed.Seconds())
	return nil
}

var (
	meterBar   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	meterLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

type tickMsg time.Time

func watchTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func watchNetlist(cmd *cobra.Command, args []string) error {
	netlist, registry, err := loadNetlistAndRegistry(args[0])
	if err != nil {
		return err
	}
	if len(netlist.Outputs) == 0 {
		return fmt.Errorf("watch: netlist has no outputs")
	}

	sim, err := netlist.Build(registry)
	if err != nil {
		return fmt.Errorf("building simulation: %w", err)
	}

	var inBuf []float64
	if inPath != "" {
		inBuf, err = loadColumn(inPath)
		if err != nil {
			return fmt.Errorf("loading input: %w", err)
		}
	}

	var inExpr symbolic.Expr
	if len(netlist.Inputs) > 0 {
		inExpr = symbolic.V(netlist.Inputs[0])
	}

	m := &meterModel{
		label:   netlist.Outputs[0],
		sim:     sim,
		inBuf:   inBuf,
		inExpr:  inExpr,
		outExpr: netlist.OutputExprs()[0],
		params:  netlist.ParameterList(nil),
		chunk:   512,
	}

	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

// meterModel drives sim one chunk at a time on a bubbletea tick,
// tracking the running peak and last-chunk RMS of its output.
type meterModel struct {
	label   string
	sim     *dynamo.Simulation
	inBuf   []float64
	cursor  int
	inExpr  symbolic.Expr
	outExpr symbolic.Expr
	params  []dynamo.Parameter
	chunk   int

	peak, rms float64
	samples   int
	err       error
}

func (m *meterModel) Init() tea.Cmd { return watchTick() }

func (m *meterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tickMsg:
		m.step()
		if m.err != nil {
			return m, tea.Quit
		}
		return m, watchTick()
	}
	return m, nil
}

func (m *meterModel) step() {
	in := map[symbolic.Expr][]float64{}
	if m.inExpr != nil {
		buf := make([]float64, m.chunk)
		for i := range buf {
			if m.cursor < len(m.inBuf) {
				buf[i] = m.inBuf[m.cursor]
				m.cursor++
			}
		}
		in[m.inExpr] = buf
	}
	out := map[symbolic.Expr][]float64{m.outExpr: make([]float64, m.chunk)}

	if err := m.sim.Process(m.chunk, in, out, m.params); err != nil {
		m.err = err
		return
	}

	buf := out[m.outExpr]
	var sum float64
	for _, v := range buf {
		if math.Abs(v) > m.peak {
			m.peak = math.Abs(v)
		}
		sum += v * v
	}
	m.rms = math.Sqrt(sum / float64(len(buf)))
	m.samples += m.chunk
}

func (m *meterModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}

	const width = 50
	level := 0.0
	if m.peak > 0 {
		level = m.rms / m.peak
	}
	filled := int(level * float64(width))
	if filled > width {
		filled = width
	}

	bar := meterBar.Render(repeat("#", filled)) + repeat(" ", width-filled)
	return fmt.Sprintf("%s  [%s]\n%s rms=%.4f peak=%.4f  samples=%d  (any key to quit)\n",
		meterLabel.Render(m.label), bar,
		meterLabel.Render(">"), m.rms, m.peak, m.samples)
}

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
