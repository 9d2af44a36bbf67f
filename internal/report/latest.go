package report

import (
	"context"
	"sync"

	"lobbywatch/internal/domain"
)

// Latest remembers the most recent report for the status server.
type Latest struct {
	mu     sync.RWMutex
	report domain.Report
	ok     bool
}

func NewLatest() *Latest {
	return &Latest{}
}

func (l *Latest) Name() string { return "latest" }

func (l *Latest) Report(_ context.Context, report domain.Report) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.report = report
	l.ok = true
	return nil
}

func (l *Latest) Get() (domain.Report, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.report, l.ok
}
