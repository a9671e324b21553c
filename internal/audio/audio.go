// Package audio streams a Simulation's output buffer to the sound
// card in real time, so a circuit can be auditioned as it runs. It is
// adapted from the teacher's Processor callback loop, but end to end
// for a different purpose: no FFT-driven spectrum analysis or
// synthesis engine, just a Simulation clocked once per portaudio
// callback and its named output handed straight to the speaker.
package audio

import (
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/san-kum/livespice/internal/dynamo"
	"github.com/san-kum/livespice/internal/symbolic"
)

// BufferSize is the number of samples clocked through the Simulation
// per portaudio callback.
const BufferSize = 512

// Monitor drives a Simulation one callback's worth of samples at a
// time and plays its output on both speaker channels. inputExpr may
// be nil for a netlist with no exogenous input (e.g. an internally
// driven sine source).
type Monitor struct {
	stream *portaudio.Stream

	sim        *dynamo.Simulation
	inputExpr  symbolic.Expr
	outputExpr symbolic.Expr
	source     func(buf []float64)
	params     []dynamo.Parameter

	inBuf  map[symbolic.Expr][]float64
	outBuf map[symbolic.Expr][]float64

	Active bool
}

// NewMonitor builds a Monitor for sim. source, if non-nil, is called
// once per callback to fill the buffer feeding inputExpr; a nil
// source leaves the input buffer at its previous contents (silence,
// for the first callback).
func NewMonitor(sim *dynamo.Simulation, inputExpr, outputExpr symbolic.Expr, source func([]float64), params []dynamo.Parameter) *Monitor {
	m := &Monitor{
		sim:        sim,
		inputExpr:  inputExpr,
		outputExpr: outputExpr,
		source:     source,
		params:     params,
		inBuf:      map[symbolic.Expr][]float64{},
		outBuf:     map[symbolic.Expr][]float64{outputExpr: make([]float64, BufferSize)},
	}
	if inputExpr != nil {
		m.inBuf[inputExpr] = make([]float64, BufferSize)
	}
	return m
}

// Start opens the default output stream at sampleRate and begins
// clocking sim.
func (m *Monitor) Start(sampleRate float64) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: initialize: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, BufferSize, m.callback)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		return fmt.Errorf("audio: start stream: %w", err)
	}
	m.stream = stream
	m.Active = true
	return nil
}

func (m *Monitor) Stop() {
	if m.stream != nil {
		m.stream.Stop()
		m.stream.Close()
	}
	portaudio.Terminate()
	m.Active = false
}

func (m *Monitor) callback(_ []float32, out [][]float32) {
	n := len(out[0])

	if m.inputExpr != nil {
		in := m.inBuf[m.inputExpr]
		if len(in) != n {
			in = make([]float64, n)
			m.inBuf[m.inputExpr] = in
		}
		if m.source != nil {
			m.source(in)
		}
	}

	outBuf := m.outBuf[m.outputExpr]
	if len(outBuf) != n {
		outBuf = make([]float64, n)
		m.outBuf[m.outputExpr] = outBuf
	}

	if err := m.sim.Process(n, m.inBuf, m.outBuf, m.params); err != nil {
		for ch := range out {
			for i := range out[ch] {
				out[ch][i] = 0
			}
		}
		return
	}

	for ch := range out {
		for i := 0; i < n; i++ {
			out[ch][i] = float32(outBuf[i])
		}
	}
}

// PlayBuffer plays a precomputed buffer once through the default
// output device at sampleRate, blocking until playback finishes. Used
// by `run --play` to audition a just-computed result, as distinct
// from Monitor's live per-callback clocking of a Simulation.
func PlayBuffer(buf []float64, sampleRate float64) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: initialize: %w", err)
	}
	defer portaudio.Terminate()

	cursor := 0
	callback := func(_ []float32, out [][]float32) {
		for ch := range out {
			for i := range out[ch] {
				if cursor+i < len(buf) {
					out[ch][i] = float32(buf[cursor+i])
				} else {
					out[ch][i] = 0
				}
			}
		}
		cursor += len(out[0])
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, BufferSize, callback)
	if err != nil {
		return fmt.Errorf("audio: open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("audio: start stream: %w", err)
	}
	defer stream.Stop()

	totalMs := time.Duration(float64(len(buf))/sampleRate*1000) * time.Millisecond
	time.Sleep(totalMs + 50*time.Millisecond)
	return nil
}
