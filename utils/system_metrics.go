package utils

import (
	"context"

	"secondbrain/logger"

	"github.com/shirou/gopsutil/v4/cpu"
)

// GetCPUUsage returns the CPU usage as a percentage since the previous call.
// The first call after start-up compares against boot time.
func GetCPUUsage(ctx context.Context) float64 {
	percentage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		logger.Warn(ctx, "failed to read cpu usage", logger.Err(err))
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}
