package telegram

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"

	"github.com/edgard/autoreply/internal/app/handlers"
)

type registration struct {
	pattern string
	handler bot.HandlerFunc
}

type fakeRegistrar struct {
	regs []registration
}

func (f *fakeRegistrar) RegisterHandler(_ bot.HandlerType, pattern string, _ bot.MatchType, h bot.HandlerFunc, _ ...bot.Middleware) string {
	f.regs = append(f.regs, registration{pattern: pattern, handler: h})
	return pattern
}

func TestRegisterHandlersAppliesMiddlewareInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) bot.Middleware {
		return func(next bot.HandlerFunc) bot.HandlerFunc {
			return func(ctx context.Context, b *bot.Bot, u *models.Update) {
				order = append(order, name)
				next(ctx, b, u)
			}
		}
	}

	reg := &fakeRegistrar{}
	err := RegisterHandlers(reg, slog.New(slog.NewTextHandler(io.Discard, nil)), map[string]handlers.RegisteredHandler{
		"/ping": {
			Pattern:    "ping",
			Handler:    func(context.Context, *bot.Bot, *models.Update) { order = append(order, "handler") },
			Middleware: []bot.Middleware{mark("outer"), mark("inner")},
		},
		"/nil": {Pattern: "nil"},
	})
	require.NoError(t, err)
	require.Len(t, reg.regs, 1)

	reg.regs[0].handler(context.Background(), nil, &models.Update{})
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRegisterHandlersNilBot(t *testing.T) {
	t.Parallel()

	require.Error(t, RegisterHandlers(nil, nil, nil))
}

func TestNewTelegramBotRequiresToken(t *testing.T) {
	t.Parallel()

	_, err := NewTelegramBot("", nil)
	require.Error(t, err)
	require.Equal(t, "...", tokenPrefix("short"))
	require.Equal(t, "12345678...", tokenPrefix("12345678:abcdef"))
}
