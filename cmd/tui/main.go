package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ivanmugu/fasta-extractor/internal/fasta"
	"github.com/Ivanmugu/fasta-extractor/internal/manifest"
)

// Colors for modern design
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor     = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor    = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Align(lipgloss.Center)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	sequenceStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(lipgloss.Color("#111827")).
			Padding(1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	circularStyle  = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	linearStyle    = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	accessionStyle = lipgloss.NewStyle().Foreground(mutedColor)
	labelStyle     = lipgloss.NewStyle().Foreground(mutedColor)
)

// previewLimit caps how many residues the sequence view loads.
const previewLimit = 4000

type listItem struct {
	entry manifest.Entry
}

func (i listItem) FilterValue() string {
	return filepath.Base(i.entry.Output) + " " + i.entry.Header
}

func (i listItem) Title() string {
	return filepath.Base(i.entry.Output)
}

func (i listItem) Description() string {
	if i.entry.Dialect == "accession" {
		return accessionStyle.Render("accession " + i.entry.Accession)
	}
	return fmt.Sprintf("%d bp    %s", i.entry.Length, topologyStyle(i.entry.Topology).Render(i.entry.Topology))
}

func topologyStyle(t string) lipgloss.Style {
	switch t {
	case "circular":
		return circularStyle
	case "linear":
		return linearStyle
	}
	return accessionStyle
}

type mode int

const (
	modeDetails mode = iota
	modeSequence
	modeHeader
)

func (m mode) String() string {
	switch m {
	case modeDetails:
		return "Details"
	case modeSequence:
		return "Sequence"
	case modeHeader:
		return "Header"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	entries       []manifest.Entry
	source        string
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	selectedIndex int
}

func initialModel(source string, entries []manifest.Entry) model {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = listItem{entry: e}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Split outputs"
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	return model{
		list:        l,
		entries:     entries,
		source:      source,
		currentMode: modeDetails,
	}
}

func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % 3
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// left panel takes 1/3 of width
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			m.showHelp = !m.showHelp
			return m, nil
		case "tab":
			return m.cycleMode(), nil
		case "1":
			m.currentMode = modeDetails
			return m, nil
		case "2":
			m.currentMode = modeSequence
			return m, nil
		case "3":
			m.currentMode = modeHeader
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpModal()
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLeftPanel(), m.renderRightPanel())
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m model) renderLeftPanel() string {
	return containerStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())
}

func (m model) renderRightPanel() string {
	panel := containerStyle.
		Width(m.width*2/3 - 2).
		Height(m.height - 4)

	if len(m.entries) == 0 {
		return panel.Render("No outputs recorded in " + m.source)
	}
	item, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return panel.Render("No item selected")
	}

	header := titleStyle.Render(filepath.Base(item.entry.Output))
	var content string
	switch m.currentMode {
	case modeDetails:
		content = strings.Join(buildDetailLines(item.entry), "\n")
	case modeSequence:
		seq, err := readSequence(item.entry.Output, previewLimit)
		if err != nil {
			content = labelStyle.Render(fmt.Sprintf("cannot read %s: %v", item.entry.Output, err))
		} else {
			content = m.formatSequence(seq)
		}
	case modeHeader:
		content = sequenceStyle.Width(m.width*2/3 - 6).Render(">" + item.entry.Header)
	}

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", content))
}

// buildDetailLines renders the manifest fields of e as label/value lines.
func buildDetailLines(e manifest.Entry) []string {
	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-10s", label)) + value
	}
	lines := []string{
		row("Output", e.Output),
		row("Input", fmt.Sprintf("%s (record %d, line %d)", e.Input, e.Index+1, e.Line)),
		row("Dialect", e.Dialect),
	}
	if e.Dialect == "accession" {
		lines = append(lines, row("Accession", e.Accession))
	} else {
		lines = append(lines,
			row("Length", fmt.Sprintf("%d", e.Length)),
			row("Topology", topologyStyle(e.Topology).Render(e.Topology)),
		)
	}
	lines = append(lines,
		row("Size", fmt.Sprintf("%d bytes, %d sequence lines", e.Bytes, e.Lines)),
		row("Written", e.WrittenAt.Local().Format("2006-01-02 15:04:05")),
	)
	return lines
}

// readSequence returns the residues of the single-record file at path, up to
// limit characters.
func readSequence(path string, limit int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	lines := strings.SplitAfter(string(data), "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], ">") {
		lines = lines[1:]
	}
	rec := fasta.Record{Lines: lines}
	seq := rec.Sequence()
	if len(seq) > limit {
		return seq[:limit] + "...", nil
	}
	return seq, nil
}

func (m model) formatSequence(seq string) string {
	if seq == "" {
		return labelStyle.Render("Empty sequence")
	}
	return sequenceStyle.
		Width(m.width*2/3 - 6). // padding and borders
		Render(seq)
}

func (m model) renderStatusBar() string {
	leftInfo := fmt.Sprintf("%d/%d outputs", m.selectedIndex+1, len(m.entries))
	centerInfo := fmt.Sprintf("Mode: %s", m.currentMode)
	rightInfo := "Press 'h' for help, 'q' to quit"

	spacing := m.width - len(leftInfo) - len(centerInfo) - len(rightInfo) - 6
	var statusContent string
	if spacing > 0 {
		leftSpacing := spacing / 2
		statusContent = leftInfo + strings.Repeat(" ", leftSpacing) + centerInfo +
			strings.Repeat(" ", spacing-leftSpacing) + rightInfo
	} else {
		// narrow terminals
		statusContent = fmt.Sprintf("%s | %s", leftInfo, centerInfo)
	}

	return statusBarStyle.Width(m.width).Render(statusContent)
}

func (m model) renderHelpModal() string {
	helpContent := `Split Outputs Browser - Help

Navigation:
  up/down, j/k  Navigate list
  /             Filter by name or header

View Modes:
  1             Show manifest details
  2             Show sequence preview
  3             Show original header
  Tab           Next mode

General:
  h             Toggle this help
  q, Ctrl+C     Quit application

Current Mode: ` + m.currentMode.String() + `
Manifest: ` + m.source + fmt.Sprintf(" (%d outputs)", len(m.entries)) + `
`

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Render(helpContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func main() {
	path := flag.String("manifest", "manifest.json", "manifest written by fasta-extractor (.json or .db)")
	flag.Parse()

	store, err := manifest.Open(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	entries, err := store.Load()
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(*path, entries), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}
