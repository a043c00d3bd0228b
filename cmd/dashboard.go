package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/services"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Launch interactive speaker dashboard (alias: dash)",
	Long: `Launch a full-screen view of one speaker's submissions.

Keyboard Shortcuts:
  ↑/k ↓/j     Move between requirements
  g / G       Jump to top / bottom
  PgUp/PgDn   Scroll the detail pane
  Enter/o     Open the latest file in the browser
  c           Copy the latest file URL
  r           Reload from the backend
  ?           Show help
  q           Quit`,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	eventID, speakerID, err := resolveEventAndSpeaker()
	if err != nil {
		return err
	}

	ctx := getContext()
	load := func() (*services.SpeakerOverview, error) {
		return overviewService.Execute(ctx, services.OverviewRequest{EventID: eventID, SpeakerID: speakerID})
	}

	p := tea.NewProgram(
		newDashboardModel(ctx, load),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}

type viewMode int

const (
	modeList viewMode = iota
	modeHelp
)

type dashboardModel struct {
	ctx           context.Context
	load          func() (*services.SpeakerOverview, error)
	overview      *services.SpeakerOverview
	loading       bool
	loadErr       error
	cursor        int
	offset        int
	mode          viewMode
	spinner       spinner.Model
	help          help.Model
	keys          keyMap
	detail        viewport.Model
	width         int
	height        int
	ready         bool
	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding
	Copy   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
	Escape key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Copy, k.Reload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Open, k.Copy, k.Reload},
		{k.Help, k.Escape, k.Quit},
	}
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
	Top:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
	Bottom: key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
	Open:   key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter/o", "open file")),
	Copy:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy URL")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}

func newDashboardModel(ctx context.Context, load func() (*services.SpeakerOverview, error)) dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.StylePrimary

	vp := viewport.New(60, 20)
	vp.Style = lipgloss.NewStyle().Foreground(ui.ColorDefault)

	return dashboardModel{
		ctx:     ctx,
		load:    load,
		loading: true,
		mode:    modeList,
		spinner: sp,
		help:    help.New(),
		keys:    keys,
		detail:  vp,
	}
}

// Messages

type overviewLoadedMsg struct {
	overview *services.SpeakerOverview
	err      error
}

type statusMsg struct {
	message string
	style   lipgloss.Style
}

type clearMessageMsg struct{}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m dashboardModel) fetch() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		ov, err := load()
		return overviewLoadedMsg{overview: ov, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.detail.Width = m.detailWidth() - 4
		m.detail.Height = max(m.height-12, 5)
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeHelp {
			return m.updateHelp(msg)
		}
		return m.updateList(msg)

	case overviewLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.overview = msg.overview
			if m.cursor >= len(m.rows()) {
				m.cursor = max(len(m.rows())-1, 0)
			}
			m.adjustOffset()
		}
		m.refreshDetail()
		return m, nil

	case statusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(3 * time.Second)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearMessageMsg{} })

	case clearMessageMsg:
		if time.Now().After(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m dashboardModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustOffset()
			m.refreshDetail()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
			m.adjustOffset()
			m.refreshDetail()
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.offset = 0
		m.refreshDetail()

	case key.Matches(msg, m.keys.Bottom):
		if len(rows) > 0 {
			m.cursor = len(rows) - 1
			m.adjustOffset()
			m.refreshDetail()
		}

	case msg.Type == tea.KeyPgUp:
		m.detail.ViewUp()

	case msg.Type == tea.KeyPgDown:
		m.detail.ViewDown()

	case key.Matches(msg, m.keys.Open):
		if row, ok := m.selected(); ok {
			return m, openLatest(row)
		}

	case key.Matches(msg, m.keys.Copy):
		if row, ok := m.selected(); ok {
			return m, copyLatest(row)
		}

	case key.Matches(msg, m.keys.Reload):
		if !m.loading {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetch())
		}

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}

	return m, nil
}

func (m dashboardModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = modeList
	}
	return m, nil
}

func (m dashboardModel) rows() []services.RequirementView {
	if m.overview == nil {
		return nil
	}
	return m.overview.Reconciliation.Rows
}

func (m dashboardModel) selected() (services.RequirementView, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return services.RequirementView{}, false
	}
	return rows[m.cursor], true
}

func (m dashboardModel) listHeight() int {
	return max(m.height-12, 3)
}

func (m *dashboardModel) adjustOffset() {
	h := m.listHeight()
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

func (m dashboardModel) listWidth() int {
	return max(int(float64(m.width)*0.45), 30)
}

func (m dashboardModel) detailWidth() int {
	return max(m.width-m.listWidth()-2, 20)
}

// refreshDetail renders the selected requirement into the detail viewport
func (m *dashboardModel) refreshDetail() {
	row, ok := m.selected()
	if !ok {
		m.detail.SetContent("")
		return
	}
	m.detail.SetContent(renderRequirementDetail(row, m.overview.Submissions))
	m.detail.GotoTop()
}

// renderRequirementDetail lists constraints, the version history and the
// latest submission as highlighted JSON.
func renderRequirementDetail(row services.RequirementView, subs []domain.Submission) string {
	var s strings.Builder
	req := row.Requirement

	s.WriteString(requirementDetail(req))
	s.WriteString("\n")
	s.WriteString(ui.StyleHeader.Render(fmt.Sprintf("Versions (%d)", row.Versions)))
	s.WriteString("\n")

	engine := services.NewReconciliationEngine()
	count := 0
	for sub := range engine.VersionHistory(req, subs) {
		count++
		marker := "  "
		if row.Latest != nil && sub.ID == row.Latest.ID {
			marker = ui.StyleSuccess.Render(ui.IconSuccess + " ")
		}
		fmt.Fprintf(&s, "%sv%d  %s  %s  %s\n",
			marker, sub.Version, sub.FileName, ui.FormatBytes(sub.FileSize), ui.FormatAgo(sub.Timestamp()))
	}
	if count == 0 {
		s.WriteString(ui.StyleMuted.Render("  nothing submitted"))
		s.WriteString("\n")
	}

	if row.Latest != nil {
		if data, err := json.MarshalIndent(row.Latest, "", "  "); err == nil {
			s.WriteString("\n")
			s.WriteString(ui.StyleHeader.Render("Latest"))
			s.WriteString("\n")
			s.WriteString(highlightJSON(string(data)))
			s.WriteString("\n")
		}
	}
	return s.String()
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "\n  Loading dashboard..."
	}
	if m.mode == modeHelp {
		return m.viewHelp()
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n\n")

	switch {
	case m.overview == nil && m.loading:
		s.WriteString("  " + m.spinner.View() + " Loading submissions...\n")
	case m.overview == nil && m.loadErr != nil:
		s.WriteString(ui.FormatError(m.loadErr.Error()) + "\n")
		s.WriteString(ui.FormatMuted("Press r to retry") + "\n")
	default:
		s.WriteString(m.renderBody())
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m dashboardModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Padding(0, 1)

	name := "Speaker"
	stats := ""
	if m.overview != nil {
		if m.overview.Speaker != nil {
			name = m.overview.Speaker.FullName()
		}
		rec := m.overview.Reconciliation
		stats = ui.StatusBadge(rec.Status) + "  " + ui.ProgressBar(rec.Progress, 20)
		if m.overview.CatalogCached {
			stats = ui.StyleWarning.Render("cached ") + stats
		}
	}
	if m.loading && m.overview != nil {
		stats = m.spinner.View() + " " + stats
	}

	title := titleStyle.Render(ui.IconRocket + " " + name)
	spacer := max(m.width-lipgloss.Width(title)-lipgloss.Width(stats), 0)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Repeat(" ", spacer), stats)
}

func (m dashboardModel) renderBody() string {
	rows := m.rows()
	if len(rows) == 0 {
		return lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Padding(1, 2).
			Render("This event has no asset requirements yet.") + "\n"
	}

	listWidth := m.listWidth()
	listLines := strings.Split(m.renderRows(listWidth), "\n")

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Width(m.detailWidth() - 2)
	detailLines := strings.Split(borderStyle.Render(m.detail.View()), "\n")

	var s strings.Builder
	for i := 0; i < max(len(listLines), len(detailLines)); i++ {
		var left, right string
		if i < len(listLines) {
			left = listLines[i]
		}
		if i < len(detailLines) {
			right = detailLines[i]
		}
		s.WriteString(padRight(left, listWidth))
		s.WriteString("  ")
		s.WriteString(right)
		s.WriteString("\n")
	}

	if anomalies := m.overview.Reconciliation.Anomalies; len(anomalies) > 0 {
		s.WriteString(ui.FormatWarning(fmt.Sprintf("%d data inconsistencies, see 'stageassets status'", len(anomalies))))
		s.WriteString("\n")
	}
	return s.String()
}

func (m dashboardModel) renderRows(width int) string {
	rows := m.rows()
	var s strings.Builder

	end := min(m.offset+m.listHeight(), len(rows))
	for i := m.offset; i < end; i++ {
		row := rows[i]
		cursor := "  "
		labelStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)
		if i == m.cursor {
			cursor = ui.StylePrimary.Render("▶ ")
			labelStyle = ui.StylePrimary.Bold(true)
		}

		state := ui.RequirementState(row.Latest != nil, row.Requirement.IsRequired)
		labelWidth := max(width-lipgloss.Width(state)-4, 8)
		label := row.Requirement.Label
		if row.Requirement.IsRequired {
			label += " *"
		}
		label = padRight(ui.Truncate(label, labelWidth), labelWidth)

		s.WriteString(cursor + labelStyle.Render(label) + " " + state + "\n")
	}
	return strings.TrimSuffix(s.String(), "\n")
}

func (m dashboardModel) renderFooter() string {
	statusLine := ui.StyleMuted.Render("Ready")
	if m.message != "" && time.Now().Before(m.messageExpiry) {
		statusLine = m.messageStyle.Render(m.message)
	}

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	return footerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, statusLine, m.help.View(m.keys)))
}

func (m dashboardModel) viewHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Padding(1, 2)

	var s strings.Builder
	s.WriteString(titleStyle.Render("Dashboard - Keyboard Shortcuts"))
	s.WriteString("\n\n")

	full := m.help
	full.ShowAll = true
	s.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(full.View(m.keys)))
	s.WriteString("\n\n")
	s.WriteString(ui.StyleMuted.Render("  Press ESC or ? to return to dashboard"))
	s.WriteString("\n")
	return s.String()
}

func padRight(s string, width int) string {
	realLen := lipgloss.Width(s)
	if realLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-realLen)
}

// Commands

func openLatest(row services.RequirementView) tea.Cmd {
	return func() tea.Msg {
		if row.Latest == nil || row.Latest.FileURL == "" {
			return statusMsg{message: "Nothing submitted for " + row.Requirement.Label, style: ui.StyleWarning}
		}
		if err := OpenFile(row.Latest.FileURL); err != nil {
			return statusMsg{message: err.Error(), style: ui.StyleError}
		}
		return statusMsg{message: "Opened " + row.Latest.FileName, style: ui.StyleSuccess}
	}
}

func copyLatest(row services.RequirementView) tea.Cmd {
	return func() tea.Msg {
		if row.Latest == nil || row.Latest.FileURL == "" {
			return statusMsg{message: "Nothing submitted for " + row.Requirement.Label, style: ui.StyleWarning}
		}
		if err := clipboard.WriteAll(row.Latest.FileURL); err != nil {
			return statusMsg{message: "Clipboard unavailable: " + err.Error(), style: ui.StyleError}
		}
		return statusMsg{message: "Copied " + row.Latest.FileURL, style: ui.StyleSuccess}
	}
}
