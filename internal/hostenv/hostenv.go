package hostenv

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
)

// Environment is a point-in-time description of the host a report was
// generated on.
type Environment struct {
	GoVersion    string `json:"goVersion"`
	Platform     string `json:"platform"`
	Architecture string `json:"architecture"`
	TotalMemory  uint64 `json:"totalMemory"` // bytes, 0 if unknown
	CPUCount     int    `json:"cpuCount"`
	Hostname     string `json:"hostname,omitempty"`
}

// Provider supplies the environment snapshot for a report.
type Provider interface {
	Snapshot() Environment
}

// Host reads the environment of the running process.
type Host struct{}

// Snapshot implements Provider. Facts that cannot be read are left zero.
func (Host) Snapshot() Environment {
	env := Environment{
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS,
		Architecture: runtime.GOARCH,
		CPUCount:     runtime.NumCPU(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		env.TotalMemory = vm.Total
	}
	if name, err := os.Hostname(); err == nil {
		env.Hostname = name
	}

	return env
}

// Static is a Provider returning a fixed environment.
type Static Environment

// Snapshot implements Provider.
func (s Static) Snapshot() Environment {
	return Environment(s)
}
