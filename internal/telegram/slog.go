package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var _ slog.Handler = &SlogHandler{}

// SlogHandler passes records to next and broadcasts warnings and errors.
type SlogHandler struct {
	bot   *Bot
	next  slog.Handler
	attrs []slog.Attr
	mu    *sync.Mutex
}

func NewSlogHandler(bot *Bot, next slog.Handler) *SlogHandler {
	return &SlogHandler{
		bot:  bot,
		next: next,
		mu:   &sync.Mutex{},
	}
}

func (h *SlogHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= slog.LevelWarn || h.next.Enabled(ctx, l)
}

func (h *SlogHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if h.next.Enabled(ctx, r.Level) {
		err = h.next.Handle(ctx, r)
	}
	if r.Level < slog.LevelWarn {
		return err
	}
	record := r.Clone()
	record.AddAttrs(h.attrs...)
	h.mu.Lock()
	defer h.mu.Unlock()
	if berr := h.bot.BroadcastSlogRecord(ctx, record); berr != nil {
		return errors.Join(err, fmt.Errorf("broadcast: %w", berr))
	}
	return err
}

func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SlogHandler{
		bot:   h.bot,
		next:  h.next.WithAttrs(attrs),
		attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
		mu:    h.mu,
	}
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	return &SlogHandler{
		bot:   h.bot,
		next:  h.next.WithGroup(name),
		attrs: h.attrs,
		mu:    h.mu,
	}
}
