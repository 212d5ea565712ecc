package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Runtime profiles keyed on CPU count. A quote request walks a handful of
// ladder levels and allocates almost nothing, so the dominant latency risk
// is GC pauses during refresh decode. High GOGC with GOMEMLIMIT as the
// backstop keeps pauses rare.
const (
	smallServerGOGC     = 500
	smallServerMemLimit = 2 * 1024 * 1024 * 1024

	largeServerGOGC     = 800
	largeServerMemLimit = 8 * 1024 * 1024 * 1024
)

func detectServerProfile() (gogc int, memLimit int64, maxProcs int) {
	totalCPU := runtime.NumCPU()
	if totalCPU <= 2 {
		return smallServerGOGC, smallServerMemLimit, 1
	}
	return largeServerGOGC, largeServerMemLimit, totalCPU / 2
}

// InitRuntimeForLowLatency applies the detected profile. Any of GOGC,
// GOMAXPROCS, GOMEMLIMIT set in the environment wins over the profile.
func InitRuntimeForLowLatency() {
	defaultGOGC, defaultMemLimit, defaultMaxProcs := detectServerProfile()

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(defaultGOGC)
		log.Info().Int("GOGC", defaultGOGC).Msg("[runtime] set GOGC")
	}

	if os.Getenv("GOMAXPROCS") == "" {
		if defaultMaxProcs < 1 {
			defaultMaxProcs = 1
		}
		runtime.GOMAXPROCS(defaultMaxProcs)
		log.Info().
			Int("GOMAXPROCS", defaultMaxProcs).
			Int("total_cpu", runtime.NumCPU()).
			Msg("[runtime] set GOMAXPROCS")
	}

	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(defaultMemLimit)
		log.Info().
			Int64("GOMEMLIMIT_bytes", defaultMemLimit).
			Msg("[runtime] set memory limit")
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Uint64("heap_alloc_mb", memStats.HeapAlloc/1024/1024).
		Str("go_version", runtime.Version()).
		Msg("[runtime] current runtime settings")
}
