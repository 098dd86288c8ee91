package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lifehealth/dietcli/internal/session"
)

func (m Model) renderView() string {
	if m.ev.State == session.StateUnauthenticated {
		return m.renderSignIn()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderGroceries())
	if m.lastNote != "" {
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render(m.lastNote))
	}
	b.WriteString("\n")
	if m.ShowHelp {
		b.WriteString(helpStyle.Render("j/k move · space toggle · / filter · r refresh · e extend session · q quit"))
	} else {
		b.WriteString(helpStyle.Render("? help · q quit"))
	}
	return b.String()
}

// renderHeader shows identity, server and the advisory countdown. When the
// countdown drops under a minute the header turns into a warning with the
// extend hint, mirroring the session manager's expiring state.
func (m Model) renderHeader() string {
	left := headerStyle.Render("diet")
	identity := m.deps.Session.Email()
	if identity == "" {
		identity = "signed in"
	}

	parts := []string{left, identity, subtleStyle.Render(m.deps.Server)}
	if remaining := session.FormatRemaining(m.ev.Remaining); remaining != "" {
		style := stateStyles[m.ev.State]
		label := "session " + remaining
		if m.ev.State == session.StateExpiring {
			label += "  press e to extend"
		}
		parts = append(parts, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(parts, "  "))
}

func (m Model) renderGroceries() string {
	var b strings.Builder
	b.WriteString("Groceries")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString("  " + m.filter.View())
	}
	b.WriteString("\n")

	vis := m.visible()
	if len(vis) == 0 {
		if len(m.items) == 0 {
			b.WriteString(subtleStyle.Render("  (empty; press r to fetch)"))
		} else {
			b.WriteString(subtleStyle.Render("  (no items match)"))
		}
		return panelStyle.Render(b.String())
	}

	for pos, i := range vis {
		it := m.items[i]
		marker := "  "
		if pos == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if it.Purchased {
			box = "[x]"
		}
		line := fmt.Sprintf("%s%s %-26s", marker, box, it.Name)
		if it.Status != "" {
			line += " " + syncStyles[it.Status].Render("["+string(it.Status)+"]")
		}
		b.WriteString(line)
		if pos < len(vis)-1 {
			b.WriteString("\n")
		}
	}
	return panelStyle.Render(b.String())
}

// renderSignIn explains why the dashboard bounced to sign-in and where the
// user was headed, so nothing is lost across re-authentication.
func (m Model) renderSignIn() string {
	var b strings.Builder
	switch m.ev.Reason {
	case session.ReasonExpired:
		b.WriteString(noticeStyle.Render("Session expired."))
	case session.ReasonDenied:
		b.WriteString(noticeStyle.Render("Sign-in required."))
	default:
		b.WriteString(noticeStyle.Render("Not signed in."))
	}
	b.WriteString("\n\n")
	b.WriteString("Run 'diet auth login' in another terminal, then press r.\n")
	if m.ev.Next != "" {
		b.WriteString(subtleStyle.Render("You were headed to: " + m.ev.Next))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r retry · q quit"))
	return panelStyle.Render(b.String())
}
