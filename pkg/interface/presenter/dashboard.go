package presenter

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/entity"
)

// Dashboard is a TUI dashboard for batch download progress
type Dashboard struct {
	metrics   *entity.Metrics
	bar       progress.Model
	width     int
	height    int
	startTime time.Time
	mu        sync.RWMutex
}

type tickMsg time.Time

// NewDashboard creates a new TUI dashboard
func NewDashboard() *Dashboard {
	return &Dashboard{
		metrics:   &entity.Metrics{},
		bar:       progress.New(progress.WithDefaultGradient()),
		startTime: time.Now(),
	}
}

// Init initializes the dashboard
func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		tea.EnterAltScreen,
	)
}

// Update handles dashboard updates
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "ctrl+c":
			return d, tea.Quit
		}

	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.bar.Width = msg.Width - 8
		return d, nil

	case tickMsg:
		// Continue ticking to keep the display updating
		return d, tickCmd()
	}

	return d, nil
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.width == 0 {
		return "Initializing..."
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	sections := []string{
		d.renderHeader(),
		d.renderProgress(),
	}

	halfWidth := d.width / 2
	row := lipgloss.JoinHorizontal(
		lipgloss.Top,
		d.renderBatchStats(halfWidth),
		d.renderCurrentListing(d.width-halfWidth),
	)
	sections = append(sections, row, d.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// OnMetricsUpdate implements application.MetricsObserver
func (d *Dashboard) OnMetricsUpdate(metrics *entity.Metrics) {
	d.mu.Lock()
	d.metrics = metrics
	d.mu.Unlock()
}

func (d *Dashboard) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7D56F4")).
		Padding(0, 1)

	timeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#999999"))

	elapsed := time.Since(d.startTime).Round(time.Second)

	title := titleStyle.Render("🏠 Zillow Listing Downloader")
	timeInfo := timeStyle.Render(fmt.Sprintf(" Running: %s | Time: %s", elapsed, time.Now().Format("15:04:05")))

	return title + timeInfo
}

func (d *Dashboard) renderProgress() string {
	ratio := 0.0
	if d.metrics.Queued > 0 {
		ratio = float64(d.metrics.Processed) / float64(d.metrics.Queued)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(d.bar.ViewAs(ratio))
}

func (d *Dashboard) renderBatchStats(width int) string {
	statStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#874BFD")).
		Padding(1, 2).
		Width(width - 2) // Adjust for border

	stats := []string{
		"📊 Batch Statistics",
		"",
		fmt.Sprintf("Requested: %d", d.metrics.Requested),
		fmt.Sprintf("Skipped:   %d", d.metrics.Skipped),
		fmt.Sprintf("Queued:    %d", d.metrics.Queued),
		fmt.Sprintf("Processed: %d", d.metrics.Processed),
		fmt.Sprintf("Succeeded: %d", d.metrics.Succeeded),
		fmt.Sprintf("Failed:    %d", d.metrics.Failed),
	}

	// Calculate download rate
	elapsed := time.Since(d.startTime).Seconds()
	if elapsed > 0 && d.metrics.Processed > 0 {
		rate := float64(d.metrics.Processed) / elapsed
		stats = append(stats,
			"",
			fmt.Sprintf("Rate:      %.2f listings/s", rate),
		)
	}

	return statStyle.Render(strings.Join(stats, "\n"))
}

func (d *Dashboard) renderCurrentListing(width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Padding(1, 2).
		Width(width - 2) // Adjust for border

	lines := []string{
		"🔍 Current Listing",
		"",
	}

	if d.metrics.CurrentAddress == "" {
		lines = append(lines, "Waiting for the first listing...")
	} else {
		lines = append(lines, d.metrics.CurrentAddress)
	}

	return style.Render(strings.Join(lines, "\n"))
}

func (d *Dashboard) renderFooter() string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")).
		Padding(1, 0)

	return footerStyle.Render("Press 'q' or 'Ctrl+C' to quit")
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*500, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
