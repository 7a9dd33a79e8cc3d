package system

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Capabilities describes the hardware the renderer runs on. The tier
// drives preview quality defaults; the encoder is the best H.264
// backend ffmpeg reports.
type Capabilities struct {
	Cores    int
	MemoryMB uint64
	Tier     string // "low", "medium" or "high"
	Encoder  string
}

// Detect probes CPU count, physical memory and the available ffmpeg
// encoders. Probe failures fall back to runtime values, never error.
func Detect() Capabilities {
	cores, err := cpu.Counts(true)
	if err != nil || cores <= 0 {
		cores = runtime.NumCPU()
	}

	var memMB uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		memMB = vm.Total / (1024 * 1024)
	}

	encoder, _ := GetBestH264Encoder()

	return Capabilities{
		Cores:    cores,
		MemoryMB: memMB,
		Tier:     tierFor(cores, float64(memMB)/1024),
		Encoder:  encoder,
	}
}

func tierFor(cores int, memGB float64) string {
	switch {
	case cores >= 8 && memGB >= 8:
		return "high"
	case cores >= 4 && memGB >= 4:
		return "medium"
	default:
		return "low"
	}
}

func (c Capabilities) String() string {
	return fmt.Sprintf("%d cores, %d MB RAM, tier %s, encoder %s", c.Cores, c.MemoryMB, c.Tier, c.Encoder)
}
