package service

import (
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"qatrack/config"
	"qatrack/logger"
)

var startTime = time.Now()

// Status is a snapshot of the host and process for the panel footer.
type Status struct {
	Version string  `json:"version"`
	Uptime  uint64  `json:"uptime"`
	Cpu     float64 `json:"cpu"`
	Mem     struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	AppUptime int64 `json:"appUptime"`
}

// ServerService reports process and host status.
type ServerService struct{}

// GetStatus collects the snapshot. Individual probe failures are logged and
// leave that field at its zero value.
func (s *ServerService) GetStatus() *Status {
	status := &Status{
		Version:   config.GetVersion(),
		AppUptime: int64(time.Since(startTime).Seconds()),
	}

	if percents, err := cpu.Percent(0, false); err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	if upTime, err := host.Uptime(); err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = upTime
	}

	if memInfo, err := mem.VirtualMemory(); err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	return status
}
