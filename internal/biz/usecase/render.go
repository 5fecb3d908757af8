package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleDim    = lipgloss.NewStyle().Faint(true)
	styleBold   = lipgloss.NewStyle().Bold(true)
	styleCyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleGreen  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleRed    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	stylePurple = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

func ts() string {
	return time.Now().Format("15:04:05")
}

// RenderWarn formats a non-fatal warning line
func RenderWarn(msg string) string {
	return styleYellow.Render(msg)
}

// RenderError formats a single user-visible error line with the distinct
// error prefix.
func RenderError(msg string) string {
	return styleRed.Bold(true).Render("!") + " " + styleRed.Render(msg)
}

func renderIncoming(author, content string) string {
	return fmt.Sprintf("\n[%s] %s %s: %s",
		styleDim.Render(ts()),
		styleCyan.Render("←"),
		styleCyan.Render(author),
		content)
}

func renderOutgoingSent() string {
	return styleGreen.Render("→ sent")
}

func renderPgpTagged(author, id, verdict string) string {
	return fmt.Sprintf("\n[%s] %s %s: %s %s %s",
		styleDim.Render(ts()),
		styleCyan.Render("←"),
		styleCyan.Render(author),
		stylePurple.Render("[PGP]"),
		styleDim.Render("id="+id),
		verdict)
}

func renderPgpDecrypted(author, id, plaintext string) string {
	return renderPgpTagged(author, id, styleGreen.Render("decrypted")) + "\n" + styleGreen.Render(plaintext)
}

func renderPgpNotForMe(author, id string) string {
	return renderPgpTagged(author, id, styleYellow.Render("not for me"))
}

func renderPgpInvalid(author, id string) string {
	return renderPgpTagged(author, id, styleRed.Render("invalid"))
}

func renderPgpError(author, id string) string {
	return renderPgpTagged(author, id, styleRed.Render("decrypt error"))
}

type helpEntry struct {
	cmd  string
	desc string
}

var helpCore = []helpEntry{
	{"help | h | ?", "Show this help"},
	{"me", "Show your local GPG secret key fingerprints"},
	{"keys", "List public keys (recipients) from your GPG keyring"},
	{"load <count>", "Load and replay last <count> messages from the channel"},
	{"send <message...> | s <message...>", "Send message to channel"},
	{"clear", "Clear the screen"},
	{"quit | exit | q", "Exit"},
}

var helpPgp = []helpEntry{
	{"pgp list", "List captured PGP blocks"},
	{"pgp decrypt <id>", "Try to decrypt a captured PGP block"},
	{"pgp decrypt-last", "Try to decrypt the latest captured PGP block"},
	{"pgp send <message...>", "Encrypt and send using exported recipient"},
	{"pgp send -r <fpr|uid> <message...>", "Encrypt and send to an explicit recipient"},
}

var helpExports = []helpEntry{
	{"export recipient <fpr|uid>", "Set default PGP recipient for this session"},
	{"export channel <id>", "Override Discord channel for send/listen"},
	{"export show", "Show current exported session values"},
	{"export unset <recipient|channel>", "Clear exported value"},
}

func renderHelp() string {
	width := 0
	for _, sec := range [][]helpEntry{helpCore, helpPgp, helpExports} {
		for _, e := range sec {
			if len(e.cmd) > width {
				width = len(e.cmd)
			}
		}
	}
	width += 4

	var b strings.Builder
	section := func(title string, entries []helpEntry) {
		b.WriteString("\n" + styleBold.Render(title) + "\n")
		for _, e := range entries {
			padded := fmt.Sprintf("%-*s", width, e.cmd)
			b.WriteString("  " + styleCyan.Render(padded) + " " + styleDim.Render(e.desc) + "\n")
		}
	}

	section("Commands:", helpCore)
	section("PGP:", helpPgp)
	section("Session exports (live only):", helpExports)

	return b.String()
}
