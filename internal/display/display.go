// Package display renders game results for the terminal.
package display

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/sushiforbots/protocol"
	"github.com/lox/sushiforbots/sdk/client"
	"github.com/muesli/termenv"
)

// Styles contains all styling for result output
type Styles struct {
	Header  lipgloss.Style
	Winner  lipgloss.Style
	Player  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Border  lipgloss.Style
}

// Printer writes styled summaries to a writer.
type Printer struct {
	w      io.Writer
	styles Styles
}

// New creates a printer whose color profile is detected from w unless
// overridden by opts.
func New(w io.Writer, opts ...termenv.OutputOption) *Printer {
	r := lipgloss.NewRenderer(w, opts...)
	return &Printer{
		w: w,
		styles: Styles{
			Header: r.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1).
				Bold(true),
			Winner: r.NewStyle().
				Foreground(lipgloss.Color("#FFD700")).
				Bold(true),
			Player: r.NewStyle().
				Foreground(lipgloss.Color("#96CEB4")),
			Muted: r.NewStyle().
				Foreground(lipgloss.Color("#626262")),
			Success: r.NewStyle().
				Foreground(lipgloss.Color("#96CEB4")).
				Bold(true),
			Error: r.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B")).
				Bold(true),
			Border: r.NewStyle().
				Foreground(lipgloss.Color("#626262")),
		},
	}
}

// Plays renders a turn reveal as one line per player.
func (p *Printer) Plays(plays []protocol.Play) string {
	var b strings.Builder
	for _, play := range plays {
		names := make([]string, len(play.Cards))
		for i, c := range play.Cards {
			names[i] = c.Name()
		}
		fmt.Fprintf(&b, "%s: %s\n", p.styles.Player.Render(play.Player), strings.Join(names, ", "))
	}
	return b.String()
}

// RoundTable renders a round's score breakdown, highest total first.
func (p *Printer) RoundTable(round int, scores map[string]protocol.RoundScore) string {
	names := slices.SortedFunc(maps.Keys(scores), func(a, b string) int {
		if d := scores[b].Total - scores[a].Total; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.styles.Border).
		Headers("Player", "Maki", "Tempura", "Sashimi", "Dumpling", "Nigiri", "Total")
	for _, name := range names {
		s := scores[name]
		t.Row(name,
			strconv.Itoa(s.MakiPoints),
			strconv.Itoa(s.TempuraPoints),
			strconv.Itoa(s.SashimiPoints),
			strconv.Itoa(s.DumplingPoints),
			strconv.Itoa(s.NigiriPoints),
			strconv.Itoa(s.Total))
	}
	return p.styles.Header.Render(fmt.Sprintf("Round %d", round)) + "\n" + t.Render() + "\n"
}

// Scoreboard renders the final standings of a game with winners marked.
func (p *Printer) Scoreboard(state client.GameState) string {
	players := slices.Clone(state.Players)
	for name := range state.FinalScores {
		if !slices.Contains(players, name) {
			players = append(players, name)
		}
	}
	slices.SortStableFunc(players, func(a, b string) int {
		if d := state.Score(b) - state.Score(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	var b strings.Builder
	title := "Final scores"
	if state.GameID != "" {
		title += " · " + state.GameID
	}
	b.WriteString(p.styles.Header.Render(title))
	b.WriteString("\n")
	for i, name := range players {
		line := fmt.Sprintf("%d. %-16s %3d", i+1, name, state.Score(name))
		switch {
		case slices.Contains(state.Winners, name):
			b.WriteString(p.styles.Winner.Render(line + "  winner"))
		case name == state.PlayerName:
			b.WriteString(p.styles.Player.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	if state.TournamentWinner != "" {
		b.WriteString(p.styles.Muted.Render("Tournament winner: " + state.TournamentWinner))
		b.WriteString("\n")
	}
	return b.String()
}

// Outcome renders a one-line result for the local player.
func (p *Printer) Outcome(state client.GameState) string {
	score := state.Score(state.PlayerName)
	if state.Won() {
		return p.styles.Success.Render(fmt.Sprintf("%s won with %d points", state.PlayerName, score))
	}
	return p.styles.Error.Render(fmt.Sprintf("%s lost with %d points", state.PlayerName, score))
}

// Games renders the server's game list.
func (p *Printer) Games(games []protocol.GameInfo) string {
	if len(games) == 0 {
		return p.styles.Muted.Render("no games") + "\n"
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.styles.Border).
		Headers("Game", "Players", "Status")
	for _, g := range games {
		t.Row(g.ID, fmt.Sprintf("%d/%d", g.PlayerCount, g.MaxPlayers), g.Status)
	}
	return t.Render() + "\n"
}

// Plain returns the option that disables all styling.
func Plain() termenv.OutputOption {
	return termenv.WithProfile(termenv.Ascii)
}

// Print writes s to the printer's writer.
func (p *Printer) Print(s string) {
	_, _ = io.WriteString(p.w, s)
}
