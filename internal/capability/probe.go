package capability

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

var (
	probeOnce   sync.Once
	probeResult Signals
)

// Probe samples the process environment once and caches the snapshot for the
// session. Anything it cannot read stays at its zero value.
func Probe() Signals {
	probeOnce.Do(func() {
		probeResult = Signals{
			Cores:    runtime.NumCPU(),
			MemoryGB: totalMemoryGB(),
		}
	})
	return probeResult
}

// Detect is the common entry point: probe once, classify.
func Detect() Tier {
	return Classify(Probe())
}

// totalMemoryGB reads MemTotal from /proc/meminfo. Returns 0 on any failure,
// which Classify treats as a missing signal.
func totalMemoryGB() float64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0
		}
		return kb / (1024 * 1024)
	}
	return 0
}
