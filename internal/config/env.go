package config

import (
	"strings"

	"perfwatch/internal/baseline"
	"perfwatch/internal/report"
)

// EnvHistoryFile overrides Config.HistoryFile.
const EnvHistoryFile = "PERFWATCH_HISTORY_FILE"

// ApplyEnv overlays the PERFWATCH_* variables from environ (format
// "KEY=VALUE") onto c. Variables that are set win over file values.
func (c *Config) ApplyEnv(environ []string) {
	c.OutputDir = report.ResolveDir(environ, c.OutputDir)
	c.BaselineDir = baseline.ResolveDir(environ, c.BaselineDir)

	if v, ok := parseEnviron(environ)[EnvHistoryFile]; ok {
		c.HistoryFile = v
	}
}

// parseEnviron converts an environ slice into a map. Values may contain
// "="; entries without one are skipped.
func parseEnviron(environ []string) map[string]string {
	result := make(map[string]string)
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		result[key] = value
	}
	return result
}
