package transcript

// Segment is one timestamped span of recognized speech.
type Segment struct {
	StartSeconds float64
	EndSeconds   float64
	Text         string
}

// Result is the ordered segment sequence produced by one transcription run.
// An empty result means no speech was detected; it is an outcome, not an
// error.
type Result struct {
	Segments []Segment
	Language string
}

// Empty reports whether the run produced no speech segments.
func (r Result) Empty() bool {
	return len(r.Segments) == 0
}
