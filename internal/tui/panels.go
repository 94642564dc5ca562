package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jvale/takeaway/internal/backstack"
	"github.com/jvale/takeaway/internal/config"
	"github.com/jvale/takeaway/internal/database/repository"
	"github.com/jvale/takeaway/internal/service"
)

type panelKind string

const (
	panelReservationForm panelKind = "reservationForm"
	panelDetail          panelKind = "detail"
	panelPrepayForm      panelKind = "prepayForm"
	panelItemPicker      panelKind = "itemPicker"
	panelMenuForm        panelKind = "menuForm"
	panelPathForm        panelKind = "pathForm"
	panelSettings        panelKind = "settings"
	panelConfirm         panelKind = "confirm"
)

type formField struct {
	label string
	value string
}

// panel is one open modal. Every panel holds a back-stack binding for its
// lifetime, so esc closes panels in the order focus resolution picks them.
type panel struct {
	kind    panelKind
	title   string
	app     *App
	binding *backstack.Binding

	fields []formField
	cursor int

	reservationID string
	menuItemID    string

	reservation repository.Reservation
	totals      service.Totals
	prepays     []repository.Prepayment

	query   string
	matches []repository.MenuItem
	stage   int // picker: 0 search, 1 quantity
	qty     string

	prompt     string
	accept     func() tea.Cmd
	pathAction func(path string) tea.Cmd
}

// Visible satisfies backstack.Surface: a panel renders while it is still
// mounted. Focus resolution then skips a panel whose view is gone but whose
// registration has not been torn down yet.
func (p *panel) Visible() bool {
	if p.app == nil {
		return false
	}
	for _, q := range p.app.panels {
		if q == p {
			return true
		}
	}
	return false
}

func (a *App) openPanel(p *panel) {
	p.app = a
	p.binding = a.registry.Binding()
	p.binding.Bind(true, func() {
		p.binding.Bind(false, nil)
		a.removePanel(p)
	})
	p.binding.AttachSurface(p)
	a.panels = append(a.panels, p)
}

// closePanel is the non-gesture teardown path (save, cancel, confirm).
func (a *App) closePanel(p *panel) {
	p.binding.Bind(false, nil)
	a.removePanel(p)
}

func (a *App) removePanel(p *panel) {
	for i := range a.panels {
		if a.panels[i] == p {
			a.panels = append(a.panels[:i], a.panels[i+1:]...)
			return
		}
	}
}

func (a *App) topPanel() *panel {
	if len(a.panels) == 0 {
		return nil
	}
	return a.panels[len(a.panels)-1]
}

func (a *App) openReservationForm(res *repository.Reservation) {
	p := &panel{kind: panelReservationForm, title: "New reservation"}
	pickup := time.Now().In(a.tz).Add(time.Hour).Truncate(time.Minute)
	if res != nil {
		p.title = "Edit reservation"
		p.reservationID = res.ID
		p.fields = []formField{
			{label: "Customer", value: res.CustomerName},
			{label: "Phone", value: res.Phone},
			{label: "Pickup", value: res.PickupAt.In(a.tz).Format(pickupLayout)},
			{label: "Notes", value: res.Notes},
		}
	} else {
		p.fields = []formField{
			{label: "Customer"},
			{label: "Phone"},
			{label: "Pickup", value: pickup.Format(pickupLayout)},
			{label: "Notes"},
		}
	}
	a.openPanel(p)
}

func (a *App) openDetail(reservationID string) {
	a.openPanel(&panel{kind: panelDetail, title: "Reservation", reservationID: reservationID})
}

func (a *App) openPrepayForm(reservationID string) {
	a.openPanel(&panel{
		kind:          panelPrepayForm,
		title:         "Record prepayment",
		reservationID: reservationID,
		fields: []formField{
			{label: "Amount"},
			{label: "Method", value: repository.MethodCash},
		},
	})
}

func (a *App) openItemPicker(reservationID string) {
	a.openPanel(&panel{
		kind:          panelItemPicker,
		title:         "Add item",
		reservationID: reservationID,
		matches:       a.availableMenu(),
	})
}

func (a *App) openMenuForm(item *repository.MenuItem) {
	p := &panel{kind: panelMenuForm, title: "New menu item"}
	if item != nil {
		p.title = "Edit menu item"
		p.menuItemID = item.ID
		p.fields = []formField{
			{label: "Name", value: item.Name},
			{label: "Category", value: item.Category},
			{label: "Price", value: centsInput(item.PriceCents)},
		}
	} else {
		p.fields = []formField{
			{label: "Name"},
			{label: "Category"},
			{label: "Price"},
		}
	}
	a.openPanel(p)
}

func (a *App) openPathForm(title string, action func(path string) tea.Cmd) {
	a.openPanel(&panel{
		kind:       panelPathForm,
		title:      title,
		fields:     []formField{{label: "Path"}},
		pathAction: action,
	})
}

func (a *App) openSettings() {
	a.openPanel(&panel{
		kind:  panelSettings,
		title: "Settings",
		fields: []formField{
			{label: "Date fmt", value: a.cfg.UI.DateFormat},
			{label: "Currency", value: a.cfg.UI.CurrencySymbol},
			{label: "Timezone", value: a.cfg.UI.Timezone},
			{label: "Sync URL", value: a.cfg.Sync.URL},
			{label: "Img host", value: a.cfg.Media.UploadURL},
		},
	})
}

func (a *App) openConfirm(prompt string, accept func() tea.Cmd) {
	a.openPanel(&panel{kind: panelConfirm, title: "Confirm", prompt: prompt, accept: accept})
}

func (a *App) availableMenu() []repository.MenuItem {
	var out []repository.MenuItem
	for _, it := range a.menu {
		if it.Available {
			out = append(out, it)
		}
	}
	return out
}

func (a *App) handlePanelKey(p *panel, m tea.KeyMsg) tea.Cmd {
	switch p.kind {
	case panelDetail:
		return a.handleDetailKey(p, m)
	case panelItemPicker:
		return a.handlePickerKey(p, m)
	case panelConfirm:
		return a.handleConfirmKey(p, m)
	default:
		return a.handleFormKey(p, m)
	}
}

func (a *App) handleFormKey(p *panel, m tea.KeyMsg) tea.Cmd {
	switch m.Type {
	case tea.KeyUp, tea.KeyShiftTab:
		if p.cursor > 0 {
			p.cursor--
		}
	case tea.KeyDown, tea.KeyTab:
		if p.cursor < len(p.fields)-1 {
			p.cursor++
		}
	case tea.KeyEnter:
		return a.submitForm(p)
	case tea.KeyBackspace, tea.KeyCtrlH:
		f := &p.fields[p.cursor]
		if len(f.value) > 0 {
			f.value = f.value[:len(f.value)-1]
		}
	case tea.KeySpace:
		p.fields[p.cursor].value += " "
	case tea.KeyRunes:
		p.fields[p.cursor].value += string(m.Runes)
	}
	return nil
}

func (a *App) submitForm(p *panel) tea.Cmd {
	switch p.kind {
	case panelReservationForm:
		customer := strings.TrimSpace(p.fields[0].value)
		if customer == "" {
			a.status = "customer name is required"
			return nil
		}
		pickup, err := time.ParseInLocation(pickupLayout, strings.TrimSpace(p.fields[2].value), a.tz)
		if err != nil {
			a.status = "pickup must look like " + pickupLayout
			return nil
		}
		phone := strings.TrimSpace(p.fields[1].value)
		notes := strings.TrimSpace(p.fields[3].value)
		id := p.reservationID
		a.closePanel(p)
		return a.saveReservationCmd(id, customer, phone, pickup, notes)

	case panelPrepayForm:
		cents, err := parseDollars(p.fields[0].value)
		if err != nil || cents <= 0 {
			a.status = "enter a positive amount"
			return nil
		}
		method := strings.ToLower(strings.TrimSpace(p.fields[1].value))
		id := p.reservationID
		a.closePanel(p)
		return a.prepayCmd(id, cents, method)

	case panelMenuForm:
		name := strings.TrimSpace(p.fields[0].value)
		if name == "" {
			a.status = "item name is required"
			return nil
		}
		cents, err := parseDollars(p.fields[2].value)
		if err != nil || cents < 0 {
			a.status = "enter a price like 12.50"
			return nil
		}
		item := repository.MenuItem{
			ID:         p.menuItemID,
			Name:       name,
			Category:   strings.TrimSpace(p.fields[1].value),
			PriceCents: cents,
		}
		// Editing keeps availability and image; the form does not touch them.
		for _, it := range a.menu {
			if it.ID == p.menuItemID {
				item.Available, item.ImageURL = it.Available, it.ImageURL
			}
		}
		a.closePanel(p)
		return a.saveMenuItemCmd(item)

	case panelPathForm:
		path := strings.TrimSpace(p.fields[0].value)
		if path == "" {
			a.status = "enter a file path"
			return nil
		}
		action := p.pathAction
		a.closePanel(p)
		return action(path)

	case panelSettings:
		a.cfg.UI.DateFormat = strings.TrimSpace(p.fields[0].value)
		a.cfg.UI.CurrencySymbol = strings.TrimSpace(p.fields[1].value)
		a.cfg.UI.Timezone = strings.TrimSpace(p.fields[2].value)
		a.cfg.Sync.URL = strings.TrimSpace(p.fields[3].value)
		a.cfg.Media.UploadURL = strings.TrimSpace(p.fields[4].value)
		if a.cfg.UI.DateFormat != "" {
			a.dateFmt = a.cfg.UI.DateFormat
		}
		if a.cfg.UI.CurrencySymbol != "" {
			a.currency = a.cfg.UI.CurrencySymbol
		}
		cfg := a.cfg
		a.closePanel(p)
		return func() tea.Msg {
			if err := config.Save(cfg); err != nil {
				return errMsg{err}
			}
			return statusMsg("settings saved (restart to apply sync changes)")
		}
	}
	return nil
}

func (a *App) handleDetailKey(p *panel, m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Prepay):
		a.openPrepayForm(p.reservationID)
	case key.Matches(m, a.keys.AddItem):
		a.openItemPicker(p.reservationID)
	case key.Matches(m, a.keys.Edit):
		if p.reservation.ID != "" {
			res := p.reservation
			a.openReservationForm(&res)
		}
	case key.Matches(m, a.keys.Advance):
		if next := nextStatus(p.reservation.Status); next != "" {
			return a.transitionCmd(p.reservationID, next)
		}
		a.status = "no further status"
	case key.Matches(m, a.keys.Cancel):
		if p.reservation.Status == repository.StatusCancelled {
			a.status = "already cancelled"
			return nil
		}
		id := p.reservationID
		a.openConfirm("Cancel this reservation?", func() tea.Cmd {
			return a.transitionCmd(id, repository.StatusCancelled)
		})
	}
	return nil
}

func (a *App) handlePickerKey(p *panel, m tea.KeyMsg) tea.Cmd {
	if p.stage == 1 {
		switch m.Type {
		case tea.KeyEnter:
			qty, err := strconv.Atoi(strings.TrimSpace(p.qty))
			if err != nil || qty < 0 {
				a.status = "enter a whole quantity"
				return nil
			}
			if p.cursor >= len(p.matches) {
				return nil
			}
			itemID := p.matches[p.cursor].ID
			resID := p.reservationID
			a.closePanel(p)
			return a.setItemCmd(resID, itemID, qty)
		case tea.KeyBackspace, tea.KeyCtrlH:
			if len(p.qty) > 0 {
				p.qty = p.qty[:len(p.qty)-1]
			}
		case tea.KeyRunes:
			p.qty += string(m.Runes)
		}
		return nil
	}
	switch m.Type {
	case tea.KeyUp:
		if p.cursor > 0 {
			p.cursor--
		}
	case tea.KeyDown:
		if p.cursor < len(p.matches)-1 {
			p.cursor++
		}
	case tea.KeyEnter:
		if len(p.matches) == 0 {
			return nil
		}
		p.stage, p.qty = 1, "1"
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(p.query) > 0 {
			p.query = p.query[:len(p.query)-1]
			a.refilterPicker(p)
		}
	case tea.KeySpace:
		p.query += " "
		a.refilterPicker(p)
	case tea.KeyRunes:
		p.query += string(m.Runes)
		a.refilterPicker(p)
	}
	return nil
}

func (a *App) refilterPicker(p *panel) {
	p.matches = service.RankMenu(p.query, a.availableMenu())
	if p.cursor >= len(p.matches) {
		p.cursor = 0
	}
}

func (a *App) handleConfirmKey(p *panel, m tea.KeyMsg) tea.Cmd {
	switch m.String() {
	case "y", "Y", "enter":
		accept := p.accept
		a.closePanel(p)
		if accept != nil {
			return accept()
		}
	case "n", "N":
		a.closePanel(p)
	}
	return nil
}

// centsInput formats cents as form input, without the currency symbol.
func centsInput(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + twoDigits(cents%100)
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
