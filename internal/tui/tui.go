// Package tui is the interactive knowledge-base console
package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/n0roo/kb-console/internal/poller"
)

// bridge forwards messages from poll tasks into the running program.
// Sends are asynchronous so a poll task never blocks on the Update loop.
type bridge struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func (b *bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *bridge) deliver(msg tea.Msg) {
	if b == nil {
		return
	}
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send != nil {
		go send(msg)
	}
}

// Run starts the console and blocks until the user quits
func Run(ctx context.Context, opts Options) error {
	if opts.Poller == nil {
		opts.Poller = poller.New(opts.Log)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.bridge.attach(p.Send)

	_, err := p.Run()

	// 폴링 작업 정리 후 종료
	cancel()
	opts.Poller.StopAll()
	return err
}
