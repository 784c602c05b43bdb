package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/zappabad/orderticket/internal/form"
	"github.com/zappabad/orderticket/internal/intent"
	"github.com/zappabad/orderticket/internal/submit"
	"github.com/zappabad/orderticket/internal/venue"
	"github.com/zappabad/orderticket/tui/panels"
	"github.com/zappabad/orderticket/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusForm   PanelFocus = 0
	FocusSent   PanelFocus = 1
	FocusConfig PanelFocus = 2

	panelCount = 3
)

// OrderLookup reports what the counterparty knows about a client order ID.
// Only the loopback transport can answer it.
type OrderLookup interface {
	Lookup(ctx context.Context, clOrdID string) (venue.Order, bool, error)
}

const lookupTimeout = time.Second

// Model is the main TUI application model.
type Model struct {
	ctx        context.Context
	dispatcher *form.Dispatcher
	coord      *submit.Coordinator
	receipts   <-chan submit.Receipt
	lookup     OrderLookup
	logger     *zap.Logger

	statusCh     <-chan submit.Status
	cancelStatus func()

	// Panels
	formPanel   *panels.IntentFormPanel
	sentPanel   *panels.SentLogPanel
	configPanel *panels.ConfigPanel

	focusedPanel PanelFocus

	// Window dimensions
	width  int
	height int

	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model. receipts carries what the coordinator's
// sink delivers; configPath is shown in the config panel.
func NewModel(ctx context.Context, d *form.Dispatcher, c *submit.Coordinator, receipts <-chan submit.Receipt, configPath string, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	statusCh, cancel := c.Subscribe()

	return &Model{
		ctx:          ctx,
		dispatcher:   d,
		coord:        c,
		receipts:     receipts,
		logger:       logger,
		statusCh:     statusCh,
		cancelStatus: cancel,
		formPanel:    panels.NewIntentFormPanel(d),
		sentPanel:    panels.NewSentLogPanel(),
		configPanel:  panels.NewConfigPanel(configPath),
		focusedPanel: FocusForm,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.syncFocus()
	return tea.Batch(
		m.formPanel.Init(),
		m.sentPanel.Init(),
		m.configPanel.Init(),
		m.listenStatus(),
		m.listenReceipts(),
	)
}

// SetLookup enables the venue column of the sent log.
func (m *Model) SetLookup(l OrderLookup) { m.lookup = l }

// Close releases the status subscription.
func (m *Model) Close() {
	if m.cancelStatus != nil {
		m.cancelStatus()
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab":
			m.focusedPanel = (m.focusedPanel + 1) % panelCount
			m.syncFocus()
			return m, nil

		case "shift+tab":
			m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
			m.syncFocus()
			return m, nil

		// Message type selector
		case "f1":
			m.switchKind(intent.KindNewOrder)
			return m, nil
		case "f2":
			m.switchKind(intent.KindCancel)
			return m, nil
		case "f3":
			m.switchKind(intent.KindAmend)
			return m, nil

		case "ctrl+r":
			if err := m.dispatcher.Reset(); err != nil {
				m.statusMsg = err.Error()
			} else {
				m.formPanel.Remount()
				m.statusMsg = ""
			}
			return m, nil

		case "ctrl+s":
			m.submit()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case panels.SubmitRequestMsg:
		m.submit()

	case statusMsg:
		m.formPanel.SetStatus(msg.status)
		cmds = append(cmds, m.listenStatus())

	case panels.ReceiptMsg:
		m.sentPanel.Add(msg.Receipt)
		cmds = append(cmds, m.listenReceipts())
		if cmd := m.refreshOrders(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case panels.VenueOrdersMsg:
		m.sentPanel.SetOrders(msg.Orders)

	case panels.ConfigLoadedMsg:
		m.configPanel.SetResult(msg.Result)
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusForm:
		m.formPanel, cmd = m.formPanel.Update(msg)
	case FocusSent:
		m.sentPanel, cmd = m.sentPanel.Update(msg)
	case FocusConfig:
		m.configPanel, cmd = m.configPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) switchKind(kind intent.Kind) {
	if err := m.dispatcher.Switch(kind); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.formPanel.Remount()
	m.statusMsg = ""
}

func (m *Model) submit() {
	if !m.coord.Submit(m.ctx) {
		if st := m.dispatcher.Current(); !st.Valid() {
			m.statusMsg = st.Verdict.Error()
		}
		return
	}
	m.statusMsg = ""
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	// Layout:
	// ┌──────────────────────┬──────────────────────┐
	// │                      │       Sent log       │
	// │     Order Ticket     ├──────────────────────┤
	// │                      │        Config        │
	// └──────────────────────┴──────────────────────┘

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	bodyHeight := m.height - 1
	sentHeight := bodyHeight / 2
	configHeight := bodyHeight - sentHeight

	m.formPanel.SetSize(leftWidth, bodyHeight)
	m.sentPanel.SetSize(rightWidth, sentHeight)
	m.configPanel.SetSize(rightWidth, configHeight)

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.sentPanel.View(),
		m.configPanel.View(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.formPanel.View(), right)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	help := []string{
		styles.StatusBarKeyStyle.Render("F1-F3") + styles.StatusBarDescStyle.Render(" message"),
		styles.StatusBarKeyStyle.Render("Tab") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("↑↓/Enter") + styles.StatusBarDescStyle.Render(" fields"),
		styles.StatusBarKeyStyle.Render("ctrl+g") + styles.StatusBarDescStyle.Render(" new id"),
		styles.StatusBarKeyStyle.Render("ctrl+s") + styles.StatusBarDescStyle.Render(" send"),
		styles.StatusBarKeyStyle.Render("ctrl+c") + styles.StatusBarDescStyle.Render(" quit"),
	}

	helpStr := help[0]
	for _, h := range help[1:] {
		helpStr += " │ " + h
	}

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

func (m *Model) syncFocus() {
	m.formPanel.SetFocus(m.focusedPanel == FocusForm)
	m.sentPanel.SetFocus(m.focusedPanel == FocusSent)
	m.configPanel.SetFocus(m.focusedPanel == FocusConfig)
}

func (m *Model) listenStatus() tea.Cmd {
	ch := m.statusCh
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return statusMsg{status: st}
	}
}

func (m *Model) listenReceipts() tea.Cmd {
	ch := m.receipts
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return panels.ReceiptMsg{Receipt: r}
	}
}

// refreshOrders looks up every sent order; a cancel or amend changes the
// state of an earlier order too.
func (m *Model) refreshOrders() tea.Cmd {
	if m.lookup == nil {
		return nil
	}
	lookup, ids, ctx, logger := m.lookup, m.sentPanel.ClOrdIDs(), m.ctx, m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
		defer cancel()

		orders := make(map[string]venue.Order, len(ids))
		for _, id := range ids {
			o, found, err := lookup.Lookup(ctx, id)
			if err != nil {
				logger.Warn("venue_lookup_failed", zap.String("cl_ord_id", id), zap.Error(err))
				break
			}
			if found {
				orders[id] = o
			}
		}
		return panels.VenueOrdersMsg{Orders: orders}
	}
}

// statusMsg is sent whenever the coordinator status changes.
type statusMsg struct {
	status submit.Status
}

// ReceiptSink returns a coordinator sink feeding ch. A full channel drops
// the receipt and logs it.
func ReceiptSink(ch chan<- submit.Receipt, logger *zap.Logger) submit.Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(r submit.Receipt) {
		select {
		case ch <- r:
		default:
			logger.Warn("receipt_dropped", zap.String("cl_ord_id", r.ClOrdID))
		}
	}
}
