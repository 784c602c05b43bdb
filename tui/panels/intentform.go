package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/zappabad/orderticket/internal/form"
	"github.com/zappabad/orderticket/internal/intent"
	"github.com/zappabad/orderticket/internal/submit"
	"github.com/zappabad/orderticket/tui/styles"
)

var (
	keyNext     = key.NewBinding(key.WithKeys("down"))
	keyPrev     = key.NewBinding(key.WithKeys("up"))
	keyEnter    = key.NewBinding(key.WithKeys("enter"))
	keyLeft     = key.NewBinding(key.WithKeys("left"))
	keyRight    = key.NewBinding(key.WithKeys("right"))
	keyGenerate = key.NewBinding(key.WithKeys("ctrl+g"))
)

// IntentFormPanel renders the active form of a dispatcher and feeds edits
// back into it.
type IntentFormPanel struct {
	dispatcher *form.Dispatcher

	kind   intent.Kind
	specs  []intent.FieldSpec
	inputs []textinput.Model // zero for select controls

	// cursor indexes specs; len(specs) is the submit button.
	cursor int

	busy    bool
	sendErr string

	focused bool
	width   int
	height  int
}

// NewIntentFormPanel creates a panel bound to d.
func NewIntentFormPanel(d *form.Dispatcher) *IntentFormPanel {
	p := &IntentFormPanel{dispatcher: d}
	p.Remount()
	return p
}

// Init initializes the panel.
func (p *IntentFormPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Remount rebuilds the controls for the dispatcher's active form. Call it
// after a switch or reset.
func (p *IntentFormPanel) Remount() {
	p.kind = p.dispatcher.Kind()
	p.specs = intent.Catalogue(p.kind)
	p.inputs = make([]textinput.Model, len(p.specs))
	for i, s := range p.specs {
		if s.Input == intent.InputSelect {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = s.Label
		ti.Width = 24
		p.inputs[i] = ti
	}
	p.cursor = 0
	p.pull()
	p.focusCurrent()
}

// pull copies the model's values into the text inputs. Rules such as the
// MARKET price reset change fields other than the edited one.
func (p *IntentFormPanel) pull() {
	ctrl := p.dispatcher.Active()
	for i, s := range p.specs {
		if s.Input == intent.InputSelect {
			continue
		}
		if v := ctrl.Value(s.Field); p.inputs[i].Value() != v {
			p.inputs[i].SetValue(v)
		}
	}
}

// Update handles messages for the panel.
func (p *IntentFormPanel) Update(msg tea.Msg) (*IntentFormPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, p.updateInput(msg)
	}

	switch {
	case key.Matches(keyMsg, keyNext):
		p.move(1)
		return p, nil

	case key.Matches(keyMsg, keyPrev):
		p.move(-1)
		return p, nil

	case key.Matches(keyMsg, keyEnter):
		if p.onSubmit() {
			return p, p.submit()
		}
		p.move(1)
		return p, nil

	case key.Matches(keyMsg, keyLeft):
		if p.onSelect() {
			p.cycle(-1)
			return p, nil
		}

	case key.Matches(keyMsg, keyRight):
		if p.onSelect() {
			p.cycle(1)
			return p, nil
		}

	case key.Matches(keyMsg, keyGenerate):
		if !p.busy {
			p.set(intent.FieldClOrdID, newClientOrderID())
		}
		return p, nil
	}

	return p, p.updateInput(msg)
}

func (p *IntentFormPanel) updateInput(msg tea.Msg) tea.Cmd {
	if p.busy || p.onSubmit() || p.onSelect() || !p.enabled(p.cursor) {
		return nil
	}

	var cmd tea.Cmd
	spec := p.specs[p.cursor]
	p.inputs[p.cursor], cmd = p.inputs[p.cursor].Update(msg)

	clean := intent.Sanitize(spec.Input, p.inputs[p.cursor].Value())
	if clean != p.inputs[p.cursor].Value() {
		p.inputs[p.cursor].SetValue(clean)
	}
	if clean != p.dispatcher.Active().Value(spec.Field) {
		p.set(spec.Field, clean)
	}
	return cmd
}

func (p *IntentFormPanel) set(f intent.Field, v string) {
	p.dispatcher.SetField(f, v)
	p.pull()
}

func (p *IntentFormPanel) cycle(delta int) {
	if p.busy {
		return
	}
	spec := p.specs[p.cursor]
	cur := p.dispatcher.Active().Value(spec.Field)

	idx := -1
	for i, opt := range spec.Options {
		if opt == cur {
			idx = i
			break
		}
	}
	next := idx + delta
	if idx < 0 {
		next = 0
	}
	if next < 0 || next >= len(spec.Options) {
		return
	}
	p.set(spec.Field, spec.Options[next])
}

// move steps the cursor, skipping disabled controls.
func (p *IntentFormPanel) move(delta int) {
	n := len(p.specs) + 1
	for i := 0; i < n; i++ {
		p.cursor = (p.cursor + delta + n) % n
		if p.onSubmit() || p.enabled(p.cursor) {
			break
		}
	}
	p.focusCurrent()
}

func (p *IntentFormPanel) focusCurrent() {
	for i, s := range p.specs {
		if s.Input == intent.InputSelect {
			continue
		}
		if p.focused && i == p.cursor {
			p.inputs[i].Focus()
		} else {
			p.inputs[i].Blur()
		}
	}
}

func (p *IntentFormPanel) onSubmit() bool { return p.cursor >= len(p.specs) }

func (p *IntentFormPanel) onSelect() bool {
	return !p.onSubmit() && p.specs[p.cursor].Input == intent.InputSelect
}

func (p *IntentFormPanel) enabled(i int) bool {
	if i >= len(p.specs) {
		return true
	}
	return intent.Enabled(p.dispatcher.Active().Model(), p.specs[i].Field)
}

// CanSubmit reports whether the submit button is enabled.
func (p *IntentFormPanel) CanSubmit() bool {
	return !p.busy && p.dispatcher.Current().Valid()
}

func (p *IntentFormPanel) submit() tea.Cmd {
	if !p.CanSubmit() {
		return nil
	}
	kind := p.kind
	return func() tea.Msg {
		return SubmitRequestMsg{Kind: kind}
	}
}

// View renders the panel.
func (p *IntentFormPanel) View() string {
	var content strings.Builder

	content.WriteString(p.renderKinds())
	content.WriteString("\n\n")

	for i, s := range p.specs {
		content.WriteString(p.renderField(i, s))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(p.renderSubmit())
	content.WriteString("\n\n")

	switch st := p.dispatcher.Current(); {
	case p.sendErr != "":
		content.WriteString(styles.ErrorStyle.Render(p.sendErr))
	case !st.Valid():
		content.WriteString(styles.HintStyle.Render(st.Verdict.Error()))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("Order Ticket", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *IntentFormPanel) renderKinds() string {
	var tabs []string
	for i, k := range intent.Kinds() {
		style := styles.TabStyle
		if k == p.kind {
			style = styles.ActiveTabStyle
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("F%d %s", i+1, k)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (p *IntentFormPanel) renderField(i int, s intent.FieldSpec) string {
	active := p.enabled(i) && !p.busy

	labelStyle := styles.LabelStyle
	switch {
	case !p.enabled(i):
		labelStyle = styles.DisabledLabelStyle
	case p.cursor == i && p.focused:
		labelStyle = labelStyle.Foreground(styles.PrimaryColor)
	}
	label := s.Label
	if s.Required {
		label += "*"
	}
	labelStr := labelStyle.Render(fmt.Sprintf("%-16s", label))

	if s.Input == intent.InputSelect {
		return labelStr + p.renderOptions(i, s, active)
	}
	if !active {
		return labelStr + lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(p.inputs[i].Value())
	}
	return labelStr + p.inputs[i].View()
}

func (p *IntentFormPanel) renderOptions(i int, s intent.FieldSpec, active bool) string {
	cur := p.dispatcher.Active().Value(s.Field)

	var items []string
	for _, opt := range s.Options {
		style := styles.OptionStyle
		if opt == cur {
			if p.cursor == i && p.focused && active {
				style = styles.OptionSelectedStyle
			} else {
				style = styles.OptionStyle.Bold(true)
			}
			// Color code buy/sell
			switch intent.Side(opt) {
			case intent.SideBuy:
				style = style.Foreground(styles.BuyColor)
			case intent.SideSell:
				style = style.Foreground(styles.SellColor)
			}
		}
		if !active {
			style = style.Foreground(styles.TextMutedColor)
		}
		items = append(items, style.Render(opt))
	}
	return strings.Join(items, "|")
}

func (p *IntentFormPanel) renderSubmit() string {
	label := "  [Submit]  "
	if p.busy {
		label = "  [Sending...]  "
	}

	style := styles.InputStyle
	switch {
	case !p.CanSubmit():
		style = styles.DisabledInputStyle
	case p.onSubmit() && p.focused:
		style = styles.FocusedInputStyle.Bold(true).Foreground(styles.PrimaryColor)
	}
	return style.Render(label)
}

// SetStatus reflects the coordinator status: every control is disabled
// while a submission is in flight.
func (p *IntentFormPanel) SetStatus(st submit.Status) {
	p.busy = st.InFlight
	p.sendErr = st.Err
}

// SetFocus sets the focus state of the panel.
func (p *IntentFormPanel) SetFocus(focused bool) {
	if p.focused == focused {
		return
	}
	p.focused = focused
	p.focusCurrent()
}

// SetSize sets the panel dimensions.
func (p *IntentFormPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SubmitRequestMsg is sent when the operator triggers submission.
type SubmitRequestMsg struct {
	Kind intent.Kind
}

// newClientOrderID returns a short unique client order ID.
func newClientOrderID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "CL" + strings.ToUpper(id[:14])
}
