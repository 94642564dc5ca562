package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jvale/takeaway/internal/database/repository"
	"github.com/jvale/takeaway/internal/service"
)

func (a *App) View() string {
	base := a.renderBase()
	if len(a.panels) == 0 {
		return base
	}
	out := base
	for i, p := range a.panels {
		// Stagger stacked cards so each stays identifiable.
		out = renderPopup(out, a.renderPanel(p), a.width, a.height, i)
	}
	return out
}

func (a *App) renderBase() string {
	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	switch a.history.Current() {
	case routeMenu:
		b.WriteString(a.renderMenu())
	case routePayments:
		b.WriteString(a.renderPayments())
	default:
		b.WriteString(a.renderReservations())
	}
	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a *App) renderHeader() string {
	current := a.history.Current()
	tabs := make([]string, 0, 3)
	for _, t := range []struct{ route, label string }{
		{routeReservations, "Reservations"},
		{routeMenu, "Menu"},
		{routePayments, "Payments"},
	} {
		if t.route == current {
			tabs = append(tabs, activeTabStyle.Render(t.label))
		} else {
			tabs = append(tabs, tabStyle.Render(t.label))
		}
	}
	return titleStyle.Render("Takeaway") + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) renderReservations() string {
	var b strings.Builder
	if a.searching {
		b.WriteString("search: " + a.searchInput + "▌\n")
	} else if a.searchApplied != "" || a.statusFilter != "" {
		line := "showing:"
		if a.statusFilter != "" {
			line += " status=" + a.statusFilter
		}
		if a.searchApplied != "" {
			line += " search=" + a.searchApplied
		}
		b.WriteString(dimStyle.Render(line) + "\n")
	}
	if len(a.reservations) == 0 {
		b.WriteString(dimStyle.Render("no reservations — press n to take one"))
		return b.String()
	}
	for i, res := range a.reservations {
		line := fmt.Sprintf("%s  %-20s %-12s %2d items  %8s  %s",
			res.PickupAt.In(a.tz).Format(a.dateFmt),
			clip(res.CustomerName, 20),
			clip(res.Phone, 12),
			len(res.Items),
			a.money(service.ItemsTotal(res.Items)),
			lipgloss.NewStyle().Foreground(statusColor(res.Status)).Render(res.Status),
		)
		if i == a.resCursor {
			b.WriteString(selectedStyle.Render("▶ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderMenu() string {
	if len(a.menu) == 0 {
		return dimStyle.Render("menu is empty — press n to add an item or i to import")
	}
	var b strings.Builder
	for i, item := range a.menu {
		avail := lipgloss.NewStyle().Foreground(colorSuccess).Render("available")
		if !item.Available {
			avail = lipgloss.NewStyle().Foreground(colorError).Render("off menu")
		}
		img := " "
		if item.ImageURL != "" {
			img = "🖼"
		}
		line := fmt.Sprintf("%-28s %-14s %8s  %s %s",
			clip(item.Name, 28), clip(item.Category, 14), a.money(item.PriceCents), avail, img)
		if i == a.menuCursor {
			b.WriteString(selectedStyle.Render("▶ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderPayments() string {
	if len(a.payments) == 0 {
		return dimStyle.Render("no prepayments recorded yet")
	}
	var b strings.Builder
	for i, p := range a.payments {
		status := p.Status
		if p.Status == repository.PrepaymentRefunded {
			status = errorStyle.Render(p.Status)
		}
		line := fmt.Sprintf("%s  %8s  %-8s  %-10s  res %s",
			p.PaidAt.In(a.tz).Format(a.dateFmt), a.money(p.AmountCents), p.Method, status, shortID(p.ReservationID))
		if i == a.payCursor {
			b.WriteString(selectedStyle.Render("▶ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderFooter() string {
	k := a.keys
	var help string
	switch a.history.Current() {
	case routeMenu:
		help = helpLine(k.New, k.Enter, k.Toggle, k.Image, k.Import, k.Delete, k.TabReservations, k.TabPayments, k.Quit)
	case routePayments:
		help = helpLine(k.Enter, k.Refund, k.TabReservations, k.TabMenu, k.Quit)
	default:
		help = helpLine(k.New, k.Enter, k.Edit, k.Search, k.Filter, k.Export, k.TabMenu, k.TabPayments, k.Settings, k.Quit)
	}
	if a.status == "" {
		return help
	}
	style := statusStyle
	if strings.HasPrefix(a.status, "error:") {
		style = errorStyle
	}
	return help + "\n" + style.Render(a.status)
}

func (a *App) renderPanel(p *panel) string {
	switch p.kind {
	case panelDetail:
		return a.renderDetail(p)
	case panelItemPicker:
		return a.renderPicker(p)
	case panelConfirm:
		return titleStyle.Render(p.title) + "\n" + p.prompt + "\n" + helpStyle.Render("[y] Yes  [n] No")
	default:
		return a.renderForm(p)
	}
}

func (a *App) renderForm(p *panel) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.title) + "\n")
	for i, f := range p.fields {
		label := fieldLabelStyle.Render(fmt.Sprintf("%-10s", f.label))
		value := f.value
		if i == p.cursor {
			label = fieldActiveStyle.Render(fmt.Sprintf("%-10s", f.label))
			value += "▌"
		}
		b.WriteString(label + " " + value + "\n")
	}
	b.WriteString(helpStyle.Render("[enter] Save  [tab] Next field  [esc] Cancel"))
	return b.String()
}

func (a *App) renderDetail(p *panel) string {
	res := p.reservation
	if res.ID == "" {
		return titleStyle.Render(p.title) + "\n" + dimStyle.Render("loading…")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(res.CustomerName) + "  " +
		lipgloss.NewStyle().Foreground(statusColor(res.Status)).Render(res.Status) + "\n")
	b.WriteString(fmt.Sprintf("pickup %s", res.PickupAt.In(a.tz).Format(a.dateFmt)))
	if res.Phone != "" {
		b.WriteString("   " + res.Phone)
	}
	b.WriteString("\n")
	if res.Notes != "" {
		b.WriteString(dimStyle.Render(res.Notes) + "\n")
	}
	b.WriteString("\n")
	if len(res.Items) == 0 {
		b.WriteString(dimStyle.Render("no items — press i to add") + "\n")
	}
	for _, it := range res.Items {
		name := a.menuName[it.MenuItemID]
		if name == "" {
			name = shortID(it.MenuItemID)
		}
		b.WriteString(fmt.Sprintf("%2d × %-24s %8s\n", it.Quantity, clip(name, 24),
			a.money(int64(it.Quantity)*it.UnitPriceCents)))
	}
	b.WriteString(fmt.Sprintf("\nitems %s   prepaid %s   balance %s\n",
		a.money(p.totals.ItemsCents), a.money(p.totals.PrepaidCents), a.money(p.totals.BalanceCents)))
	for _, pay := range p.prepays {
		line := fmt.Sprintf("%s  %8s  %s", pay.PaidAt.In(a.tz).Format(a.dateFmt), a.money(pay.AmountCents), pay.Method)
		if pay.Status == repository.PrepaymentRefunded {
			line += "  " + errorStyle.Render("refunded")
		}
		b.WriteString(dimStyle.Render(line) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("[i] Add item  [p] Prepay  [c] Advance  [x] Cancel  [e] Edit  [esc] Close"))
	return b.String()
}

func (a *App) renderPicker(p *panel) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.title) + "\n")
	if p.stage == 1 {
		item := "item"
		if p.cursor < len(p.matches) {
			item = p.matches[p.cursor].Name
		}
		b.WriteString(fmt.Sprintf("Quantity of %s: %s▌\n", item, p.qty))
		b.WriteString(helpStyle.Render("[enter] Set  [esc] Cancel"))
		return b.String()
	}
	b.WriteString("find: " + p.query + "▌\n")
	if len(p.matches) == 0 {
		b.WriteString(dimStyle.Render("no matching items") + "\n")
	}
	for i, it := range p.matches {
		line := fmt.Sprintf("%-28s %8s", clip(it.Name, 28), a.money(it.PriceCents))
		if i == p.cursor {
			b.WriteString(selectedStyle.Render("▶ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("[enter] Choose  [esc] Cancel"))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
