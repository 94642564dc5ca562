// Package tui is the terminal front end: three tabs over the reservation
// book, with every modal panel registered on the back stack so esc unwinds
// panels first and tab history second.
package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jvale/takeaway/internal/backstack"
	"github.com/jvale/takeaway/internal/config"
	"github.com/jvale/takeaway/internal/database/repository"
	"github.com/jvale/takeaway/internal/media"
	"github.com/jvale/takeaway/internal/service"
)

const pickupLayout = "2006-01-02 15:04"

// Tab routes, as recorded in history entries.
const (
	routeReservations = "reservations"
	routeMenu         = "menu"
	routePayments     = "payments"
)

// App ties together views.
type App struct {
	ctx      context.Context
	cfg      config.Config
	repos    Repos
	services Services
	tz       *time.Location

	history  *backstack.History
	registry *backstack.Registry
	keys     keyMap

	width  int
	height int

	reservations []repository.Reservation
	menu         []repository.MenuItem
	payments     []repository.Prepayment
	menuName     map[string]string

	resCursor  int
	menuCursor int
	payCursor  int

	searching     bool
	searchInput   string
	searchApplied string
	statusFilter  string

	status   string
	currency string
	dateFmt  string

	panels []*panel
}

type Repos struct {
	Reservations *repository.ReservationRepo
	Menu         *repository.MenuRepo
	Prepayments  *repository.PrepaymentRepo
}

type Services struct {
	Reservations *service.ReservationService
	Uploader     *media.Uploader
}

func New(ctx context.Context, cfg config.Config, repos Repos, services Services, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	history := backstack.NewHistory(routeReservations)
	registry := backstack.NewRegistry(history)
	registry.MarkSynchronousHost()

	currency := cfg.UI.CurrencySymbol
	if currency == "" {
		currency = "$"
	}
	dateFmt := cfg.UI.DateFormat
	if dateFmt == "" {
		dateFmt = "02 Jan 15:04"
	}
	return &App{
		ctx:      ctx,
		cfg:      cfg,
		repos:    repos,
		services: services,
		tz:       tz,
		history:  history,
		registry: registry,
		keys:     defaultKeys(),
		width:    100,
		height:   32,
		currency: currency,
		dateFmt:  dateFmt,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadReservations(), a.loadMenu(), a.loadPayments())
}

func (a *App) loadReservations() tea.Cmd {
	filters := repository.ReservationFilters{Status: a.statusFilter}
	query := a.searchApplied
	return func() tea.Msg {
		list, err := a.repos.Reservations.List(a.ctx, filters)
		if err != nil {
			return errMsg{err}
		}
		if query != "" {
			list = service.RankCustomers(query, list)
		}
		return reservationsMsg(list)
	}
}

func (a *App) loadMenu() tea.Cmd {
	return func() tea.Msg {
		items, err := a.repos.Menu.List(a.ctx, repository.MenuFilters{})
		if err != nil {
			return errMsg{err}
		}
		return menuMsg(items)
	}
}

func (a *App) loadPayments() tea.Cmd {
	return func() tea.Msg {
		rows, err := a.repos.Prepayments.ListRecent(a.ctx, 100)
		if err != nil {
			return errMsg{err}
		}
		return paymentsMsg(rows)
	}
}

func (a *App) loadDetail(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := a.repos.Reservations.Get(a.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		totals, err := a.services.Reservations.Totals(a.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		prepays, err := a.repos.Prepayments.ListForReservation(a.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return detailMsg{res: res, totals: totals, prepays: prepays}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		return a.handleKey(m)
	case RefreshMsg:
		cmds := []tea.Cmd{a.loadReservations(), a.loadMenu(), a.loadPayments()}
		for _, p := range a.panels {
			if p.kind == panelDetail {
				cmds = append(cmds, a.loadDetail(p.reservationID))
			}
		}
		return a, tea.Batch(cmds...)
	case reservationsMsg:
		a.reservations = []repository.Reservation(m)
		if a.resCursor >= len(a.reservations) {
			a.resCursor = 0
		}
	case menuMsg:
		a.menu = []repository.MenuItem(m)
		a.menuName = make(map[string]string, len(a.menu))
		for _, it := range a.menu {
			a.menuName[it.ID] = it.Name
		}
		if a.menuCursor >= len(a.menu) {
			a.menuCursor = 0
		}
	case paymentsMsg:
		a.payments = []repository.Prepayment(m)
		if a.payCursor >= len(a.payments) {
			a.payCursor = 0
		}
	case detailMsg:
		for _, p := range a.panels {
			if p.kind == panelDetail && p.reservationID == m.res.ID {
				p.reservation, p.totals, p.prepays = m.res, m.totals, m.prepays
			}
		}
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(m, a.keys.ForceQuit) {
		return a, tea.Quit
	}
	if m.Type == tea.KeyEsc {
		return a, a.handleEsc()
	}
	if p := a.topPanel(); p != nil {
		return a, a.handlePanelKey(p, m)
	}
	if a.searching {
		return a, a.handleSearchKey(m)
	}
	if key.Matches(m, a.keys.Quit) {
		return a, tea.Quit
	}
	if key.Matches(m, a.keys.Settings) {
		a.openSettings()
		return a, nil
	}
	switch a.history.Current() {
	case routeMenu:
		return a, a.handleMenuKey(m)
	case routePayments:
		return a, a.handlePaymentsKey(m)
	default:
		return a, a.handleReservationsKey(m)
	}
}

// handleEsc delivers one back gesture: an open panel absorbs it, then search
// state unwinds, then the tab history pops one step.
func (a *App) handleEsc() tea.Cmd {
	if a.topPanel() == nil {
		if a.searching {
			a.searching, a.searchInput = false, ""
			return nil
		}
		if a.searchApplied != "" {
			a.searchApplied = ""
			return a.loadReservations()
		}
	}
	a.history.Back()
	return nil
}

func (a *App) gotoTab(route string) {
	if a.history.Current() != route {
		a.history.Push(route)
	}
}

func (a *App) handleReservationsKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.TabMenu):
		a.gotoTab(routeMenu)
	case key.Matches(m, a.keys.TabPayments):
		a.gotoTab(routePayments)
	case key.Matches(m, a.keys.Up):
		if a.resCursor > 0 {
			a.resCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.resCursor < len(a.reservations)-1 {
			a.resCursor++
		}
	case key.Matches(m, a.keys.New):
		a.openReservationForm(nil)
	case key.Matches(m, a.keys.Edit):
		if res := a.selectedReservation(); res != nil {
			a.openReservationForm(res)
		}
	case key.Matches(m, a.keys.Enter):
		if res := a.selectedReservation(); res != nil {
			a.openDetail(res.ID)
			return a.loadDetail(res.ID)
		}
	case key.Matches(m, a.keys.Delete):
		if res := a.selectedReservation(); res != nil {
			id := res.ID
			a.openConfirm("Delete reservation for "+res.CustomerName+"?", func() tea.Cmd {
				return a.deleteReservationCmd(id)
			})
		}
	case key.Matches(m, a.keys.Search):
		a.searching = true
		a.searchInput = a.searchApplied
	case key.Matches(m, a.keys.Filter):
		a.cycleStatusFilter()
		return a.loadReservations()
	case key.Matches(m, a.keys.Export):
		return a.exportDayCmd(time.Now().In(a.tz))
	}
	return nil
}

func (a *App) handleMenuKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.TabReservations):
		a.gotoTab(routeReservations)
	case key.Matches(m, a.keys.TabPayments):
		a.gotoTab(routePayments)
	case key.Matches(m, a.keys.Up):
		if a.menuCursor > 0 {
			a.menuCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.menuCursor < len(a.menu)-1 {
			a.menuCursor++
		}
	case key.Matches(m, a.keys.New):
		a.openMenuForm(nil)
	case key.Matches(m, a.keys.Enter), key.Matches(m, a.keys.Edit):
		if item := a.selectedMenuItem(); item != nil {
			a.openMenuForm(item)
		}
	case key.Matches(m, a.keys.Toggle):
		if item := a.selectedMenuItem(); item != nil {
			return a.toggleAvailabilityCmd(*item)
		}
	case key.Matches(m, a.keys.Image):
		if item := a.selectedMenuItem(); item != nil {
			id := item.ID
			a.openPathForm("Upload image for "+item.Name, func(path string) tea.Cmd {
				return a.uploadImageCmd(id, path)
			})
		}
	case key.Matches(m, a.keys.Import):
		a.openPathForm("Import menu from TOML", func(path string) tea.Cmd {
			return a.importMenuCmd(path)
		})
	case key.Matches(m, a.keys.Delete):
		if item := a.selectedMenuItem(); item != nil {
			id := item.ID
			a.openConfirm("Delete menu item "+item.Name+"?", func() tea.Cmd {
				return a.deleteMenuItemCmd(id)
			})
		}
	}
	return nil
}

func (a *App) handlePaymentsKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.TabReservations):
		a.gotoTab(routeReservations)
	case key.Matches(m, a.keys.TabMenu):
		a.gotoTab(routeMenu)
	case key.Matches(m, a.keys.Up):
		if a.payCursor > 0 {
			a.payCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.payCursor < len(a.payments)-1 {
			a.payCursor++
		}
	case key.Matches(m, a.keys.Enter):
		if p := a.selectedPayment(); p != nil {
			a.openDetail(p.ReservationID)
			return a.loadDetail(p.ReservationID)
		}
	case key.Matches(m, a.keys.Refund):
		if p := a.selectedPayment(); p != nil {
			if p.Status == repository.PrepaymentRefunded {
				a.status = "already refunded"
				return nil
			}
			id, resID := p.ID, p.ReservationID
			a.openConfirm("Refund "+a.money(p.AmountCents)+"?", func() tea.Cmd {
				return a.refundCmd(id, resID)
			})
		}
	}
	return nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) tea.Cmd {
	switch m.Type {
	case tea.KeyEnter:
		a.searching = false
		a.searchApplied = strings.TrimSpace(a.searchInput)
		return a.loadReservations()
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(a.searchInput) > 0 {
			a.searchInput = a.searchInput[:len(a.searchInput)-1]
		}
	case tea.KeySpace:
		a.searchInput += " "
	case tea.KeyRunes:
		a.searchInput += string(m.Runes)
	}
	return nil
}

var statusCycle = []string{
	"",
	repository.StatusPending,
	repository.StatusConfirmed,
	repository.StatusReady,
	repository.StatusCollected,
	repository.StatusCancelled,
}

func (a *App) cycleStatusFilter() {
	for i, s := range statusCycle {
		if s == a.statusFilter {
			a.statusFilter = statusCycle[(i+1)%len(statusCycle)]
			return
		}
	}
	a.statusFilter = ""
}

func (a *App) selectedReservation() *repository.Reservation {
	if len(a.reservations) == 0 || a.resCursor >= len(a.reservations) {
		return nil
	}
	res := a.reservations[a.resCursor]
	return &res
}

func (a *App) selectedMenuItem() *repository.MenuItem {
	if len(a.menu) == 0 || a.menuCursor >= len(a.menu) {
		return nil
	}
	item := a.menu[a.menuCursor]
	return &item
}

func (a *App) selectedPayment() *repository.Prepayment {
	if len(a.payments) == 0 || a.payCursor >= len(a.payments) {
		return nil
	}
	p := a.payments[a.payCursor]
	return &p
}

func (a *App) money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, a.currency, cents/100, cents%100)
}

// parseDollars turns user input like "12.50" into cents.
func parseDollars(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(v * 100)), nil
}

// nextStatus returns the next step of the pickup workflow, or "" at the end.
func nextStatus(status string) string {
	switch status {
	case repository.StatusPending:
		return repository.StatusConfirmed
	case repository.StatusConfirmed:
		return repository.StatusReady
	case repository.StatusReady:
		return repository.StatusCollected
	default:
		return ""
	}
}

// messages

// RefreshMsg asks the app to reload everything. The sync layer sends it into
// the running program after applying a remote change.
type RefreshMsg struct{}

type reservationsMsg []repository.Reservation

type menuMsg []repository.MenuItem

type paymentsMsg []repository.Prepayment

type detailMsg struct {
	res     repository.Reservation
	totals  service.Totals
	prepays []repository.Prepayment
}

type statusMsg string

type errMsg struct{ error }
