package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/studioanalytics/internal/datasets"
	"github.com/studioanalytics/internal/query"
	"github.com/studioanalytics/internal/slots"
)

type sender interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	logger *slog.Logger
	api    sender
	// updates is nil when the bot only sends.
	updates func(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	store   *Store
	state   *datasets.State
}

func NewBot(logger *slog.Logger, store *Store, state *datasets.State, token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("new bot api: %w", err)
	}
	return &Bot{
		logger:  logger,
		api:     api,
		updates: api.GetUpdatesChan,
		store:   store,
		state:   state,
	}, nil
}

// Broadcast sends message to every subscribed chat. A failed chat does not
// stop delivery to the rest.
func (b *Bot) Broadcast(ctx context.Context, message string) error {
	chats, err := b.store.ListChats(ctx)
	if err != nil {
		return fmt.Errorf("list chats: %w", err)
	}
	var errs []error
	for _, chat := range chats {
		if _, err := b.api.Send(tgbotapi.NewMessage(chat.ID, message)); err != nil {
			errs = append(errs, fmt.Errorf("send message to %d: %w", chat.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (b *Bot) BroadcastSlogRecord(ctx context.Context, r slog.Record) error {
	return b.Broadcast(ctx, formatRecord(r))
}

func formatRecord(r slog.Record) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%s: %s", r.Level, r.Message)
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(sb, "\n%s=%s", a.Key, a.Value)
		return true
	})
	return sb.String()
}

func (b *Bot) Listen(ctx context.Context) error {
	if b.updates == nil {
		return errors.New("bot can not receive updates")
	}
	offset, err := b.store.GetUpdatesOffset(ctx)
	if err != nil {
		return fmt.Errorf("get updates offset: %w", err)
	}
	updates := b.updates(tgbotapi.UpdateConfig{Offset: offset, Timeout: 60})
	for {
		select {
		case <-ctx.Done():
			b.logger.InfoContext(ctx, "stopping listening for telegram updates")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil && update.Message.IsCommand() {
		if err := b.handleCommand(ctx, update.Message); err != nil {
			b.logger.ErrorContext(ctx, "handle command", "command", update.Message.Command(), "error", err)
		}
	}
	if err := b.store.SetUpdatesOffset(ctx, update.UpdateID+1); err != nil {
		b.logger.ErrorContext(ctx, "set updates offset", "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message)
	case "stop":
		return b.handleStop(ctx, message)
	case "summary":
		return b.reply(message, Summary(b.state.Get()))
	case "top":
		return b.reply(message, Top(b.state.Get(), 5))
	default:
		return nil
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	chat := Chat{
		ID:         message.Chat.ID,
		FirstName:  message.Chat.FirstName,
		Subscribed: time.Now(),
	}
	if err := b.store.InsertChat(ctx, &chat); err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return b.reply(message, "Subscribed to class data updates.")
}

func (b *Bot) handleStop(ctx context.Context, message *tgbotapi.Message) error {
	if err := b.store.DeleteChat(ctx, message.Chat.ID); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	return b.reply(message, "Unsubscribed.")
}

func (b *Bot) reply(message *tgbotapi.Message, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(message.Chat.ID, text)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Summary describes the dataset totals in a few lines.
func Summary(dataset []slots.Slot) string {
	if len(dataset) == 0 {
		return "No class data loaded."
	}
	var occurrences []slots.Occurrence
	for _, slot := range dataset {
		occurrences = append(occurrences, slot.Occurrences...)
	}
	total := slots.Recompute(slots.Slot{}, occurrences)
	return fmt.Sprintf(
		"%d slots, %d classes\nCheck-ins: %d\nRevenue: %s\nAverage (excluding empty): %s",
		len(dataset),
		total.TotalOccurrences,
		total.TotalCheckins,
		total.TotalRevenue.StringFixed(2),
		total.ClassAverageExcludingEmpty,
	)
}

// Top lists the n slots with the highest revenue.
func Top(dataset []slots.Slot, n int) string {
	if len(dataset) == 0 {
		return "No class data loaded."
	}
	sorted := query.Sort(dataset, query.SortKey{Field: query.FieldTotalRevenue, Direction: query.Descending})
	sb := &strings.Builder{}
	for i, slot := range sorted[:min(n, len(sorted))] {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(sb, "%d. %s, %s %s at %s with %s: %s",
			i+1, slot.CleanedClass, slot.DayOfWeek, slot.ClassTime, slot.Location, slot.TeacherName,
			slot.TotalRevenue.StringFixed(2))
	}
	return sb.String()
}
