package perf

// Suggestions derives remediation hints from the current bottleneck signals,
// ordered by estimated impact, most impactful first. Deterministic for a
// given history.
func (m *Monitor) Suggestions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var fpsSum, jankSum float64
	samples := 0
	start := m.head - m.count
	for i := 0; i < m.count; i++ {
		idx := (start + i + len(m.history)) % len(m.history)
		s := m.history[idx]
		if s.FPS == 0 {
			continue
		}
		fpsSum += s.FPS
		jankSum += s.JankScore
		samples++
	}
	if samples == 0 {
		return nil
	}
	avgFPS := fpsSum / float64(samples)
	avgJank := jankSum / float64(samples)

	var out []string
	if avgJank >= 5 {
		out = append(out, "reduce blur strength and layered shadows; long frames dominate the window")
	}
	if avgFPS < m.opts.LowThreshold {
		out = append(out, "lower animation complexity or disable non-essential animations")
	}
	if avgFPS < m.opts.TargetFPS*0.8 {
		out = append(out, "prefer transform/opacity animations over layout-affecting properties")
	}
	if m.level >= m.opts.MaxLevel {
		out = append(out, "device is saturated at the maximum optimization level; reduce concurrent animations")
	}
	if avgJank >= 2 && avgJank < 5 {
		out = append(out, "stagger animation start times to avoid simultaneous first frames")
	}
	return out
}
