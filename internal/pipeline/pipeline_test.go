package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/edgard/autoreply/internal/mail"
)

// fakeGenerator counts calls and returns a canned reply or error.
type fakeGenerator struct {
	calls atomic.Int32
	reply string
	err   error
	last  atomic.Pointer[ReplyRequest]
}

func (f *fakeGenerator) GenerateReply(_ context.Context, req ReplyRequest) (string, error) {
	f.calls.Add(1)
	f.last.Store(&req)
	return f.reply, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseSettings() mail.Settings {
	return mail.Settings{
		Blacklist:            []string{"spam.com", "noreply"},
		Keywords:             []string{"price", "help"},
		FilterMode:           mail.FilterKeywords,
		SystemPrompt:         "Be polite.",
		Model:                "gemini-2.5-flash",
		CheckIntervalSeconds: 30,
	}
}

func pending(sender, subject, body string) mail.Message {
	return mail.NewMessage("id-1", sender, subject, body, time.Now())
}

func TestClassifyScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		settings   func(mail.Settings) mail.Settings
		msg        mail.Message
		genErr     error
		wantStatus mail.Status
		wantReason string
		wantReply  string
		wantCalls  int32
	}{
		{
			name: "blacklisted sender",
			settings: func(s mail.Settings) mail.Settings {
				s.Blacklist = []string{"spam.com"}
				return s
			},
			msg:        pending("newsletter@spam.com", "Huge Discounts Today!", "Click here"),
			wantStatus: mail.StatusIgnored,
			wantReason: "Sender newsletter@spam.com is blacklisted.",
		},
		{
			name:       "blacklist is case-insensitive and unanchored",
			msg:        pending("ASpamUser@SPAM.COM.example", "price", "price"),
			wantStatus: mail.StatusIgnored,
			wantReason: "Sender ASpamUser@SPAM.COM.example is blacklisted.",
		},
		{
			name: "blacklist partial word match",
			settings: func(s mail.Settings) mail.Settings {
				s.Blacklist = []string{"spam"}
				return s
			},
			msg:        pending("aspamuser@x.com", "price", "price"),
			wantStatus: mail.StatusIgnored,
			wantReason: "Sender aspamuser@x.com is blacklisted.",
		},
		{
			name: "keyword in body passes the gate",
			settings: func(s mail.Settings) mail.Settings {
				s.Keywords = []string{"price"}
				return s
			},
			msg:        pending("client@example.com", "Project Inquiry", "What's the price?"),
			wantStatus: mail.StatusReplied,
			wantReply:  "Thanks for reaching out.",
			wantCalls:  1,
		},
		{
			name:       "keyword in subject passes the gate",
			msg:        pending("client@example.com", "Need HELP", "anything"),
			wantStatus: mail.StatusReplied,
			wantReply:  "Thanks for reaching out.",
			wantCalls:  1,
		},
		{
			name: "no keyword ignores",
			settings: func(s mail.Settings) mail.Settings {
				s.Keywords = []string{"price"}
				return s
			},
			msg:        pending("client@example.com", "Hello", "Just saying hi"),
			wantStatus: mail.StatusIgnored,
			wantReason: ReasonNoKeywords,
		},
		{
			name: "empty keyword list ignores in keywords mode",
			settings: func(s mail.Settings) mail.Settings {
				s.Keywords = nil
				return s
			},
			msg:        pending("client@example.com", "price", "price"),
			wantStatus: mail.StatusIgnored,
			wantReason: ReasonNoKeywords,
		},
		{
			name: "all mode skips the gate",
			settings: func(s mail.Settings) mail.Settings {
				s.FilterMode = mail.FilterAll
				return s
			},
			msg:        pending("client@example.com", "Hello", "Just saying hi"),
			wantStatus: mail.StatusReplied,
			wantReply:  "Thanks for reaching out.",
			wantCalls:  1,
		},
		{
			name: "empty blacklist never fires",
			settings: func(s mail.Settings) mail.Settings {
				s.Blacklist = nil
				s.FilterMode = mail.FilterAll
				return s
			},
			msg:        pending("newsletter@spam.com", "x", "y"),
			wantStatus: mail.StatusReplied,
			wantReply:  "Thanks for reaching out.",
			wantCalls:  1,
		},
		{
			name:       "generation error fails",
			msg:        pending("client@example.com", "price", "hi"),
			genErr:     &GenerationError{Provider: "test", Err: errors.New("429 rate limited")},
			wantStatus: mail.StatusFailed,
			wantReason: ReasonGenerationFailed,
			wantCalls:  1,
		},
		{
			name:       "plain error also fails",
			msg:        pending("client@example.com", "price", "hi"),
			genErr:     context.DeadlineExceeded,
			wantStatus: mail.StatusFailed,
			wantReason: ReasonGenerationFailed,
			wantCalls:  1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := baseSettings()
			if tc.settings != nil {
				s = tc.settings(s)
			}
			gen := &fakeGenerator{reply: "Thanks for reaching out.", err: tc.genErr}
			p := New(gen, WithLogger(quietLogger()))

			got := p.Classify(context.Background(), tc.msg, s)

			require.Equal(t, tc.wantStatus, got.Status)
			require.Equal(t, tc.wantReason, got.Reason)
			require.Equal(t, tc.wantReply, got.ReplyText)
			require.Equal(t, tc.wantCalls, gen.calls.Load())
			require.Equal(t, tc.msg.ID, got.ID)
		})
	}
}

func TestClassifyBuildsRequestFromSettings(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "ok"}
	p := New(gen, WithLogger(quietLogger()), WithTemperature(0.3))
	s := baseSettings()

	p.Classify(context.Background(), pending("client@example.com", "price?", "How much?"), s)

	req := gen.last.Load()
	require.NotNil(t, req)
	require.Equal(t, ReplyRequest{
		Sender:       "client@example.com",
		Subject:      "price?",
		Body:         "How much?",
		SystemPrompt: s.SystemPrompt,
		Model:        s.Model,
		Temperature:  0.3,
	}, *req)
}

func TestClassifyEmptyReplyIsNotFailure(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: ""}
	p := New(gen, WithLogger(quietLogger()))

	got := p.Classify(context.Background(), pending("client@example.com", "price", ""), baseSettings())
	require.Equal(t, mail.StatusReplied, got.Status)
	require.Equal(t, EmptyReplyFallback, got.ReplyText)
}

func TestClassifyLeavesTerminalMessagesAlone(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "ok"}
	p := New(gen, WithLogger(quietLogger()))

	done, err := pending("client@example.com", "price", "").Ignore("earlier decision")
	require.NoError(t, err)

	got := p.Classify(context.Background(), done, baseSettings())
	require.Equal(t, done, got)
	require.Zero(t, gen.calls.Load())
}

func TestClassifyDoesNotMutateSettings(t *testing.T) {
	t.Parallel()

	s := baseSettings()
	before := s.Clone()
	p := New(&fakeGenerator{reply: "ok"}, WithLogger(quietLogger()))

	p.Classify(context.Background(), pending("Client@Example.com", "PRICE", ""), s)
	require.Equal(t, before, s)
}

// AutoPilot is carried in the settings but no rule consults it yet.
func TestAutoPilotHasNoEffect(t *testing.T) {
	t.Parallel()

	msgs := []mail.Message{
		pending("newsletter@spam.com", "price", "x"),
		pending("client@example.com", "Hello", "hi"),
		pending("client@example.com", "price", "hi"),
	}

	for _, m := range msgs {
		off := baseSettings()
		on := baseSettings()
		on.AutoPilot = true

		genOff := &fakeGenerator{reply: "ok"}
		genOn := &fakeGenerator{reply: "ok"}

		gotOff := New(genOff, WithLogger(quietLogger())).Classify(context.Background(), m, off)
		gotOn := New(genOn, WithLogger(quietLogger())).Classify(context.Background(), m, on)

		require.Equal(t, gotOff, gotOn)
		require.Equal(t, genOff.calls.Load(), genOn.calls.Load())
	}
}

func TestBlacklistProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		entry := rapid.StringMatching(`[a-z]{1,8}\.[a-z]{2,3}`).Draw(rt, "entry")
		prefix := rapid.StringMatching(`[A-Za-z0-9.]{0,10}`).Draw(rt, "prefix")
		suffix := rapid.StringMatching(`[A-Za-z0-9.]{0,10}`).Draw(rt, "suffix")
		upper := rapid.Bool().Draw(rt, "upper")

		inSender := entry
		if upper {
			inSender = strings.ToUpper(entry)
		}
		sender := prefix + "@" + inSender + suffix

		s := baseSettings()
		s.Blacklist = []string{entry}
		s.FilterMode = rapid.SampledFrom([]mail.FilterMode{mail.FilterAll, mail.FilterKeywords}).Draw(rt, "mode")

		gen := &fakeGenerator{reply: "ok"}
		got := New(gen, WithLogger(quietLogger())).Classify(context.Background(), pending(sender, "price", "price"), s)

		if got.Status != mail.StatusIgnored || got.Reason != BlacklistReason(sender) {
			rt.Fatalf("sender %q with entry %q: got %s %q", sender, entry, got.Status, got.Reason)
		}
		if gen.calls.Load() != 0 {
			rt.Fatalf("generator called %d times for blacklisted sender", gen.calls.Load())
		}
	})
}

func TestAllModeNeverIgnoresProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		subject := rapid.String().Draw(rt, "subject")
		body := rapid.String().Draw(rt, "body")
		fail := rapid.Bool().Draw(rt, "fail")

		s := baseSettings()
		s.Blacklist = []string{"blocked.example"}
		s.FilterMode = mail.FilterAll

		gen := &fakeGenerator{reply: "drafted"}
		if fail {
			gen.err = errors.New("provider down")
		}
		got := New(gen, WithLogger(quietLogger())).Classify(context.Background(), pending("someone@example.com", subject, body), s)

		switch got.Status {
		case mail.StatusReplied:
			if fail || got.ReplyText == "" {
				rt.Fatalf("unexpected reply %q (fail=%v)", got.ReplyText, fail)
			}
		case mail.StatusFailed:
			if !fail || got.Reason != ReasonGenerationFailed {
				rt.Fatalf("unexpected failure %q (fail=%v)", got.Reason, fail)
			}
		default:
			rt.Fatalf("all mode produced %s", got.Status)
		}
		if gen.calls.Load() != 1 {
			rt.Fatalf("generator called %d times", gen.calls.Load())
		}
	})
}

func TestKeywordGateProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		// Digits-only text can never contain an alphabetic keyword.
		subject := rapid.StringMatching(`[0-9 ]{0,20}`).Draw(rt, "subject")
		body := rapid.StringMatching(`[0-9 ]{0,40}`).Draw(rt, "body")
		keywords := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,6}`), 0, 5).Draw(rt, "keywords")

		s := baseSettings()
		s.Keywords = keywords

		gen := &fakeGenerator{reply: "ok"}
		got := New(gen, WithLogger(quietLogger())).Classify(context.Background(), pending("client@example.com", subject, body), s)

		if got.Status != mail.StatusIgnored || got.Reason != ReasonNoKeywords {
			rt.Fatalf("got %s %q", got.Status, got.Reason)
		}
		if gen.calls.Load() != 0 {
			rt.Fatalf("generator called for gated message")
		}
	})
}

func TestGenerationErrorUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("quota")
	err := error(&GenerationError{Provider: "gemini", Err: cause})
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "gemini")

	var ge *GenerationError
	require.ErrorAs(t, err, &ge)
}

func TestGeneratorFunc(t *testing.T) {
	t.Parallel()

	gen := GeneratorFunc(func(_ context.Context, req ReplyRequest) (string, error) {
		return "re: " + req.Subject, nil
	})
	got := New(gen, WithLogger(quietLogger())).Classify(context.Background(), pending("a@b.c", "price", ""), baseSettings())
	require.Equal(t, "re: price", got.ReplyText)
}
