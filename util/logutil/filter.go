// Package logutil provides logrus helpers shared by the CLI.
package logutil

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewFilter returns a hook that silences log entries at the given levels
// whose message contains any of the substrings. Noisy per-packet debug
// lines are the intended target.
func NewFilter(levels []logrus.Level, filters ...string) logrus.Hook {
	dl := logrus.New()
	dl.SetOutput(io.Discard)
	return &logsFilter{
		levels:        levels,
		filters:       filters,
		discardLogger: dl,
	}
}

type logsFilter struct {
	levels        []logrus.Level
	filters       []string
	discardLogger *logrus.Logger
}

func (d *logsFilter) Levels() []logrus.Level {
	return d.levels
}

func (d *logsFilter) Fire(entry *logrus.Entry) error {
	for _, f := range d.filters {
		if strings.Contains(entry.Message, f) {
			entry.Logger = d.discardLogger
			return nil
		}
	}
	return nil
}
