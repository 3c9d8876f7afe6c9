package search

import (
	"log/slog"

	"github.com/poiesic/coursefind/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(dimension int)
	AfterScoring(scores []float32)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)     {}
func (n *noopMonitor) AfterScoring(_ []float32)      {}
func (n *noopMonitor) Finish(_ []*core.SearchResult) {}

// SlogMonitor logs each search stage through a slog.Logger.
// Useful for verbose CLI output and debugging ranking behavior.
type SlogMonitor struct {
	Logger *slog.Logger
}

var _ SearchMonitor = (*SlogMonitor)(nil)

func (m *SlogMonitor) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

func (m *SlogMonitor) Start(query string) {
	m.logger().Info("search started", "query", query)
}

func (m *SlogMonitor) AfterQueryEmbedding(dimension int) {
	m.logger().Debug("query embedded", "dimension", dimension)
}

func (m *SlogMonitor) AfterScoring(scores []float32) {
	m.logger().Debug("corpus scored", "vectors", len(scores))
}

func (m *SlogMonitor) Finish(results []*core.SearchResult) {
	m.logger().Info("search finished", "hits", len(results))
}
