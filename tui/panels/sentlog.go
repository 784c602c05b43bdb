package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/orderticket/internal/submit"
	"github.com/zappabad/orderticket/internal/venue"
	"github.com/zappabad/orderticket/tui/styles"
)

// SentLogPanel lists confirmed submissions, newest first.
type SentLogPanel struct {
	receipts      []submit.Receipt
	orders        map[string]venue.Order // venue view by client order ID
	selectedIndex int
	scrollOffset  int
	focused       bool
	width         int
	height        int
	maxItems      int
}

// NewSentLogPanel creates a new sent log panel.
func NewSentLogPanel() *SentLogPanel {
	return &SentLogPanel{
		maxItems: 100,
	}
}

// Init initializes the panel.
func (p *SentLogPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *SentLogPanel) Update(msg tea.Msg) (*SentLogPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
				if p.selectedIndex < p.scrollOffset {
					p.scrollOffset = p.selectedIndex
				}
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.receipts)-1 {
				p.selectedIndex++
				visibleItems := p.visibleItems()
				if p.selectedIndex >= p.scrollOffset+visibleItems {
					p.scrollOffset = p.selectedIndex - visibleItems + 1
				}
			}
		}
	}
	return p, nil
}

// visibleItems leaves room for the title, the token detail and borders.
func (p *SentLogPanel) visibleItems() int {
	n := p.height - 7
	if n < 1 {
		n = 1
	}
	return n
}

// View renders the panel.
func (p *SentLogPanel) View() string {
	var content strings.Builder

	if len(p.receipts) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("Nothing sent yet"))
	} else {
		visibleItems := p.visibleItems()
		start := p.scrollOffset
		end := min(start+visibleItems, len(p.receipts))

		for i := start; i < end; i++ {
			r := p.receipts[i]
			line := fmt.Sprintf("%s %s %s %s %s",
				styles.TimeStyle.Render(r.At.Format("15:04:05")),
				styles.KindStyle.Render(fmt.Sprintf("%-9s", r.Kind)),
				styles.RowStyle.Render(r.ClOrdID),
				p.renderState(r.ClOrdID),
				styles.TokenStyle.Render(styles.Truncate(r.Token, p.width-52)),
			)
			if i == p.selectedIndex && p.focused {
				line = styles.SelectedRowStyle.Render(line)
			}
			content.WriteString(line)
			if i < end-1 {
				content.WriteString("\n")
			}
		}

		if sel := p.Selected(); sel != nil && p.focused {
			if o, ok := p.orders[sel.ClOrdID]; ok {
				content.WriteString("\n\n")
				content.WriteString(styles.HeaderStyle.Render("Venue: "))
				content.WriteString(styles.RowStyle.Render(describeOrder(o)))
			}
			content.WriteString("\n\n")
			content.WriteString(styles.HeaderStyle.Render("Token: "))
			content.WriteString(styles.TokenStyle.Render(styles.Truncate(sel.Token, 3*(p.width-12))))
		}

		if len(p.receipts) > visibleItems {
			scrollInfo := fmt.Sprintf(" (%d/%d)", p.selectedIndex+1, len(p.receipts))
			content.WriteString("\n")
			content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(scrollInfo))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(fmt.Sprintf("Sent (%d)", len(p.receipts)), p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *SentLogPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *SentLogPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p *SentLogPanel) renderState(clOrdID string) string {
	o, ok := p.orders[clOrdID]
	if !ok {
		return styles.TimeStyle.Render(fmt.Sprintf("%-10s", "-"))
	}
	style := styles.BuyStyle
	if o.State != venue.StateOpen {
		style = styles.TimeStyle
	}
	return style.Render(fmt.Sprintf("%-10s", o.State))
}

func describeOrder(o venue.Order) string {
	s := fmt.Sprintf("seq %d %s", o.Seq, o.State)
	if o.ISIN != "" {
		s += fmt.Sprintf(" %s %s %s x%d", o.ISIN, o.Side, o.OrdType, o.Qty)
	}
	if o.Price != nil {
		s += " @" + o.Price.String()
	}
	return s
}

// SetOrders replaces the venue view shown next to each receipt.
func (p *SentLogPanel) SetOrders(orders map[string]venue.Order) {
	p.orders = orders
}

// ClOrdIDs returns the client order IDs of every receipt held.
func (p *SentLogPanel) ClOrdIDs() []string {
	ids := make([]string, len(p.receipts))
	for i, r := range p.receipts {
		ids[i] = r.ClOrdID
	}
	return ids
}

// Add records a receipt at the top of the log.
func (p *SentLogPanel) Add(r submit.Receipt) {
	p.receipts = append([]submit.Receipt{r}, p.receipts...)
	if len(p.receipts) > p.maxItems {
		p.receipts = p.receipts[:p.maxItems]
	}
	p.selectedIndex = 0
	p.scrollOffset = 0
}

// Len returns the number of receipts held.
func (p *SentLogPanel) Len() int { return len(p.receipts) }

// Selected returns the currently selected receipt.
func (p *SentLogPanel) Selected() *submit.Receipt {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.receipts) {
		return &p.receipts[p.selectedIndex]
	}
	return nil
}

// VenueOrdersMsg carries a fresh venue view of the sent orders.
type VenueOrdersMsg struct {
	Orders map[string]venue.Order
}

// ReceiptMsg is sent when the coordinator confirms a submission.
type ReceiptMsg struct {
	Receipt submit.Receipt
}
