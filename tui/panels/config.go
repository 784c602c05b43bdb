package panels

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/zappabad/orderticket/internal/config"
	"github.com/zappabad/orderticket/tui/styles"
)

// ConfigPanel shows the configuration file as parsed, or why it could not
// be read.
type ConfigPanel struct {
	path    string
	result  config.ReadResult
	loaded  bool
	focused bool
	width   int
	height  int
}

// NewConfigPanel creates a panel for the file at path.
func NewConfigPanel(path string) *ConfigPanel {
	return &ConfigPanel{path: path}
}

// Init reads the configuration off the UI goroutine.
func (p *ConfigPanel) Init() tea.Cmd {
	return p.Reload()
}

// Reload re-reads the configuration file.
func (p *ConfigPanel) Reload() tea.Cmd {
	path := p.path
	return func() tea.Msg {
		return ConfigLoadedMsg{Result: config.Read(path)}
	}
}

// Update handles messages for the panel.
func (p *ConfigPanel) Update(msg tea.Msg) (*ConfigPanel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && p.focused && msg.String() == "r" {
		return p, p.Reload()
	}
	return p, nil
}

// SetResult stores a read result.
func (p *ConfigPanel) SetResult(res config.ReadResult) {
	p.result = res
	p.loaded = true
}

// View renders the panel.
func (p *ConfigPanel) View() string {
	var content strings.Builder

	content.WriteString(styles.TimeStyle.Render(p.path))
	content.WriteString("\n\n")

	switch {
	case !p.loaded:
		content.WriteString(styles.TimeStyle.Render("Loading..."))
	case !p.result.OK:
		content.WriteString(styles.ErrorStyle.Render(p.result.Error))
	default:
		b, err := yaml.Marshal(p.result.Data)
		if err != nil {
			content.WriteString(styles.ErrorStyle.Render(err.Error()))
			break
		}
		content.WriteString(styles.RowStyle.Render(strings.TrimRight(string(b), "\n")))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("Config", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *ConfigPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ConfigPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// ConfigLoadedMsg carries the result of reading the configuration file.
type ConfigLoadedMsg struct {
	Result config.ReadResult
}
