// Package tui renders the campaign board as a terminal dashboard, served
// over SSH by cmd/ssh.
package tui

import (
	"context"
	"fmt"
	"time"

	"alpha-radar/internal/domain"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const autoRefreshInterval = 60 * time.Second

// BoardProvider is the slice of the refresh service the dashboard needs.
type BoardProvider interface {
	Latest(ctx context.Context) domain.Board
	Refresh(ctx context.Context) domain.Board
}

var (
	liveBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42")).
			Padding(0, 1)
	simulatedBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Padding(0, 1)
	burstStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))
)

type boardMsg domain.Board

type tickMsg time.Time

type Model struct {
	provider BoardProvider
	board    domain.Board
	table    table.Model

	width       int
	height      int
	showHistory bool
	loaded      bool
}

func NewModel(provider BoardProvider) *Model {
	columns := []table.Column{
		{Title: "SYMBOL", Width: 11},
		{Title: "PRICE", Width: 10},
		{Title: "VOLAT %", Width: 8},
		{Title: "VOLUME", Width: 14},
		{Title: "RATIO", Width: 8},
		{Title: "TRADES", Width: 9},
		{Title: "DAYS", Width: 5},
		{Title: "TYPE", Width: 11},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return &Model{provider: provider, table: t}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadBoard(false), tick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.loadBoard(true)
		case "h":
			m.showHistory = !m.showHistory
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case boardMsg:
		m.board = domain.Board(msg)
		m.loaded = true
		m.table.SetRows(boardRows(m.board))
		return m, nil
	case tickMsg:
		return m, tea.Batch(m.loadBoard(false), tick())
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if !m.loaded {
		return dimStyle.Render("loading board...")
	}

	var sections []string
	sections = append(sections, m.banner())
	sections = append(sections, m.table.View())
	sections = append(sections, m.burstLine())
	sections = append(sections, m.topMovers())
	if m.showHistory {
		sections = append(sections, historyView())
	}
	sections = append(sections, dimStyle.Render("r refresh  h history  q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) banner() string {
	ts := m.board.GeneratedAt.Format("15:04:05 MST")
	if m.board.Mode == domain.ModeSimulated {
		return simulatedBanner.Render("SIMULATED DATA") + dimStyle.Render("  upstream unreachable  "+ts)
	}
	return liveBanner.Render("LIVE") + dimStyle.Render("  "+ts)
}

func (m *Model) burstLine() string {
	bursts := m.board.Bursts()
	if len(bursts) == 0 {
		return dimStyle.Render("no volume bursts")
	}
	line := "BURST:"
	for _, rec := range bursts {
		line += fmt.Sprintf(" %s %.2fx", rec.Symbol, rec.VolumeRatio)
	}
	return burstStyle.Render(line)
}

func (m *Model) topMovers() string {
	top := m.board.TopByTrades(3)
	if len(top) == 0 {
		return ""
	}
	out := titleStyle.Render("Most active") + "\n"
	for i, rec := range top {
		out += fmt.Sprintf("  %d. %-11s %s trades\n", i+1, rec.Symbol, formatCount(rec.TradeCount))
	}
	return out
}

func historyView() string {
	out := titleStyle.Render("Past airdrops") + "\n"
	for _, a := range domain.HistoryAirdrops {
		out += fmt.Sprintf("  %-6s %-11s daily %s  peak %s\n", a.Project, a.Type, a.AvgDailyPct, a.PeakReturn)
	}
	out += dimStyle.Render("announcements: " + domain.AnnouncementURL)
	return out
}

func boardRows(board domain.Board) []table.Row {
	rows := make([]table.Row, 0, len(board.Records))
	for _, rec := range board.Records {
		ratio := "n/a"
		if rec.HasRatio {
			ratio = fmt.Sprintf("%.2fx", rec.VolumeRatio)
			if rec.VolumeState == domain.VolumeBurst {
				ratio += " !"
			}
		}
		rows = append(rows, table.Row{
			rec.Symbol,
			fmt.Sprintf("%.4f", rec.Price),
			fmt.Sprintf("%.2f", rec.VolatilityPct),
			formatVolume(rec.QuoteVolume),
			ratio,
			formatCount(rec.TradeCount),
			fmt.Sprintf("%d", rec.DaysRemaining),
			string(rec.CampaignType),
		})
	}
	return rows
}

func formatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func formatCount(n int64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1e3)
	}
	return fmt.Sprintf("%d", n)
}

func (m *Model) loadBoard(force bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if force {
			return boardMsg(m.provider.Refresh(ctx))
		}
		return boardMsg(m.provider.Latest(ctx))
	}
}

func tick() tea.Cmd {
	return tea.Tick(autoRefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
