// Package observ times the fixed phases one render goes through. The set
// of phases is closed: parse, markup and layout, in that order.
package observ

import "time"

// PhaseName names one render phase.
type PhaseName string

const (
	PhaseParse  PhaseName = "parse"
	PhaseMarkup PhaseName = "markup"
	PhaseLayout PhaseName = "layout"
)

type phase struct {
	name  PhaseName
	start time.Time
	dur   time.Duration
	note  string
}

// Timer measures the phases of a single render. Not safe for concurrent
// use; в параллельном рендере у каждого файла свой Timer.
type Timer struct {
	phases []phase
}

// NewTimer returns an empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]phase, 0, 3)} }

// Begin opens a phase and returns the closer that records its duration.
// An optional note (token count, cache hit) lands in the report.
func (t *Timer) Begin(name PhaseName) func(note string) {
	idx := len(t.phases)
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	return func(note string) {
		p := &t.phases[idx]
		p.dur = time.Since(p.start)
		p.note = note
	}
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, p := range t.phases {
		total += p.dur
		report.Phases[i] = PhaseReport{
			Name:       string(p.name),
			DurationMS: durationToMillis(p.dur),
			Note:       p.note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
