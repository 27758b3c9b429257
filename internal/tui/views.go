package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/edgard/autoreply/internal/mail"
)

const (
	dashboardRecent = 5
	defaultWidth    = 100
)

func renderDashboard(m Model) string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var body string
	if m.tab == tabActivity {
		body = renderActivity(m.snap.History.Items(), width)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			renderCards(m.snap.Stats),
			renderSettings(m.snap.Settings),
			renderActivity(m.snap.History.Recent(dashboardRecent), width),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m),
		renderTabs(m.tab),
		body,
		renderStatusBar(m, width),
	)
}

func renderHeader(m Model) string {
	badge := PausedBadgeStyle.Render("PAUSED")
	if m.snap.Running {
		badge = LiveBadgeStyle.Render("LIVE")
	}

	mode := "Simulation Mode"
	switch {
	case m.connecting:
		mode = "Connecting..."
	case m.snap.Connected:
		mode = "Account connected"
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		TitleStyle.Render("autoreply"), " ", badge, " ", SubtitleStyle.Render(mode))
}

func renderTabs(active tab) string {
	names := []string{"Dashboard", "Activity"}
	out := make([]string, len(names))
	for i, name := range names {
		if tab(i) == active {
			out[i] = ActiveTabStyle.Render(name)
		} else {
			out[i] = InactiveTabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func renderCards(s mail.Stats) string {
	card := func(label string, value int) string {
		return CardStyle.Render(CardLabelStyle.Render(label) + "\n" + CardValueStyle.Render(fmt.Sprint(value)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Processed", s.TotalProcessed),
		card("Replied", s.TotalReplied),
		card("Ignored", s.TotalIgnored),
		card("Failed", s.Failed()),
	)
}

func renderSettings(s mail.Settings) string {
	rows := [][2]string{
		{"Reply mode", string(s.FilterMode)},
		{"Keywords", listOrNone(s.Keywords)},
		{"Blacklist", listOrNone(s.Blacklist)},
		{"Scan every", s.CheckInterval().String()},
		{"Model", s.Model},
		{"Auto-pilot", onOff(s.AutoPilot)},
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = HeaderKeyStyle.Render(fmt.Sprintf("%-11s", r[0])) + " " + HeaderValStyle.Render(r[1])
	}
	return SectionStyle.Render(strings.Join(lines, "\n"))
}

func renderActivity(items []mail.Message, width int) string {
	if len(items) == 0 {
		return DimStyle.Render("No messages processed yet.")
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, DimStyle.Render(fmt.Sprintf("%-8s %-8s %-28s %s", "Time", "Status", "Sender", "Subject / Action")))
	for _, msg := range items {
		lines = append(lines, renderActivityLine(msg, width))
	}
	return strings.Join(lines, "\n")
}

func renderActivityLine(msg mail.Message, width int) string {
	detail := msg.Subject
	switch {
	case msg.ReplyText != "":
		detail += " → " + firstLine(msg.ReplyText)
	case msg.Reason != "":
		detail += " → " + msg.Reason
	}

	prefix := fmt.Sprintf("%-8s %s %-28s ", msg.Timestamp.Format("15:04:05"),
		statusStyle(msg.Status).Render(fmt.Sprintf("%-8s", msg.Status)), truncate(msg.Sender, 28))
	room := max(width-lipgloss.Width(prefix)-2, 10)
	return prefix + truncate(detail, room)
}

func renderStatusBar(m Model, width int) string {
	text := m.status
	style := StatusBarNormalStyle
	if m.statusErr {
		style = StatusBarErrorStyle
	}
	if text == "" {
		text = fmt.Sprintf("Last run: %s | %s | p:pause/resume f:filter a:auto-pilot c:connect +/-:interval tab:switch q:quit",
			lastRun(m.snap.Stats, m.now()), m.now().Format("15:04:05"))
	}
	return style.Width(width).Render(truncate(text, width-2))
}

// RenderSummary formats the final stats printed on shutdown.
func RenderSummary(s mail.Stats) string {
	lines := []string{
		TitleStyle.Render("autoreply summary"),
		HeaderKeyStyle.Render("Processed ") + fmt.Sprint(s.TotalProcessed),
		HeaderKeyStyle.Render("Replied   ") + RepliedStyle.Render(fmt.Sprint(s.TotalReplied)),
		HeaderKeyStyle.Render("Ignored   ") + IgnoredStyle.Render(fmt.Sprint(s.TotalIgnored)),
		HeaderKeyStyle.Render("Failed    ") + FailedStyle.Render(fmt.Sprint(s.Failed())),
		HeaderKeyStyle.Render("Last run  ") + s.LastRunLabel(),
	}
	return strings.Join(lines, "\n")
}

// RenderResult formats a manual test outcome. summary is omitted when empty.
func RenderResult(msg mail.Message, summary string) string {
	lines := []string{
		HeaderKeyStyle.Render("From:    ") + msg.Sender,
		HeaderKeyStyle.Render("Subject: ") + msg.Subject,
		HeaderKeyStyle.Render("Status:  ") + statusStyle(msg.Status).Render(string(msg.Status)),
	}
	if summary != "" {
		lines = append(lines, HeaderKeyStyle.Render("Summary: ")+summary)
	}
	switch {
	case msg.ReplyText != "":
		lines = append(lines, "", msg.ReplyText)
	case msg.Reason != "":
		lines = append(lines, HeaderKeyStyle.Render("Reason:  ")+msg.Reason)
	}
	return strings.Join(lines, "\n")
}

func statusStyle(s mail.Status) lipgloss.Style {
	switch s {
	case mail.StatusReplied:
		return RepliedStyle
	case mail.StatusIgnored:
		return IgnoredStyle
	case mail.StatusFailed:
		return FailedStyle
	default:
		return PendingStyle
	}
}

func lastRun(s mail.Stats, now time.Time) string {
	if s.LastRun.IsZero() {
		return s.LastRunLabel()
	}
	return fmt.Sprintf("%s ago", now.Sub(s.LastRun).Truncate(time.Second))
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}
