package observability

import (
	"os"

	"github.com/shirou/gopsutil/process"
)

type ProcessStats struct {
	Pid        int32
	RSSBytes   uint64
	CPUPercent float64
	Status     string
}

// SelfProcess returns a handle on the current process for ReadProcessStats.
func SelfProcess() (*process.Process, error) {
	return process.NewProcess(int32(os.Getpid()))
}

// ReadProcessStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func ReadProcessStats(p *process.Process) (ProcessStats, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return ProcessStats{}, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return ProcessStats{}, err
	}

	status, err := p.Status()
	if err != nil {
		return ProcessStats{}, err
	}
	return ProcessStats{Pid: p.Pid, RSSBytes: memInfo.RSS, CPUPercent: cpuPercent, Status: status}, nil
}
