package compress

// stageStep is the progress granted for each preparation stage.
const stageStep = 5

// Progress tracks one call's percentage and forwards every change to the
// callback. The value never decreases and never exceeds 100.
type Progress struct {
	value  int
	report func(int)
}

// NewProgress starts at start, clamped to [0, 100]. A retry resumes by
// passing the value a previous attempt reached.
func NewProgress(start int, report func(int)) *Progress {
	if report == nil {
		report = func(int) {}
	}
	return &Progress{value: clampPercent(start), report: report}
}

// Inc adds n and reports the new value.
func (p *Progress) Inc(n int) {
	if n > 0 {
		p.value = clampPercent(p.value + n)
	}
	p.report(p.value)
}

// Set raises the value to v if v is higher and reports the result.
func (p *Progress) Set(v int) {
	if v > p.value {
		p.value = clampPercent(v)
	}
	p.report(p.value)
}

// Value returns the last reported percentage.
func (p *Progress) Value() int { return p.value }

func clampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
