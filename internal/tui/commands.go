package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jvale/takeaway/internal/database/repository"
)

func (a *App) saveReservationCmd(id, customer, phone string, pickup time.Time, notes string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if id == "" {
				if _, err := a.services.Reservations.Create(a.ctx, customer, phone, pickup, notes); err != nil {
					return errMsg{err}
				}
				return statusMsg("reservation created")
			}
			res, err := a.repos.Reservations.Get(a.ctx, id)
			if err != nil {
				return errMsg{err}
			}
			res.CustomerName, res.Phone, res.PickupAt, res.Notes = customer, phone, pickup, notes
			if err := a.services.Reservations.Update(a.ctx, res); err != nil {
				return errMsg{err}
			}
			return statusMsg("reservation updated")
		},
		a.loadReservations(),
	)
}

func (a *App) deleteReservationCmd(id string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.services.Reservations.Delete(a.ctx, id); err != nil {
				return errMsg{err}
			}
			return statusMsg("reservation deleted")
		},
		a.loadReservations(),
	)
}

func (a *App) transitionCmd(id, to string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.services.Reservations.Transition(a.ctx, id, to); err != nil {
				return errMsg{err}
			}
			return statusMsg("status: " + to)
		},
		a.loadReservations(),
		a.loadDetail(id),
	)
}

func (a *App) setItemCmd(reservationID, menuItemID string, quantity int) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.services.Reservations.SetItem(a.ctx, reservationID, menuItemID, quantity); err != nil {
				return errMsg{err}
			}
			return statusMsg("items updated")
		},
		a.loadReservations(),
		a.loadDetail(reservationID),
	)
}

func (a *App) prepayCmd(reservationID string, amountCents int64, method string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if _, err := a.services.Reservations.RecordPrepayment(a.ctx, reservationID, amountCents, method); err != nil {
				return errMsg{err}
			}
			return statusMsg("prepayment recorded")
		},
		a.loadPayments(),
		a.loadDetail(reservationID),
	)
}

func (a *App) refundCmd(id, reservationID string) tea.Cmd {
	cmds := []tea.Cmd{
		func() tea.Msg {
			if err := a.services.Reservations.RefundPrepayment(a.ctx, id); err != nil {
				return errMsg{err}
			}
			return statusMsg("prepayment refunded")
		},
		a.loadPayments(),
	}
	if reservationID != "" {
		cmds = append(cmds, a.loadDetail(reservationID))
	}
	return tea.Batch(cmds...)
}

func (a *App) saveMenuItemCmd(item repository.MenuItem) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if _, err := a.services.Reservations.SaveMenuItem(a.ctx, item); err != nil {
				return errMsg{err}
			}
			return statusMsg("menu item saved")
		},
		a.loadMenu(),
	)
}

func (a *App) toggleAvailabilityCmd(item repository.MenuItem) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.services.Reservations.SetMenuAvailability(a.ctx, item.ID, !item.Available); err != nil {
				return errMsg{err}
			}
			if item.Available {
				return statusMsg(item.Name + " marked unavailable")
			}
			return statusMsg(item.Name + " marked available")
		},
		a.loadMenu(),
	)
}

func (a *App) deleteMenuItemCmd(id string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.services.Reservations.DeleteMenuItem(a.ctx, id); err != nil {
				return errMsg{err}
			}
			return statusMsg("menu item deleted")
		},
		a.loadMenu(),
	)
}

func (a *App) uploadImageCmd(menuItemID, path string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if a.services.Uploader == nil {
				return errMsg{fmt.Errorf("image host not configured")}
			}
			f, err := os.Open(path)
			if err != nil {
				return errMsg{fmt.Errorf("open %s: %w", path, err)}
			}
			defer f.Close()
			url, err := a.services.Uploader.Upload(a.ctx, path, f)
			if err != nil {
				return errMsg{err}
			}
			if err := a.services.Reservations.SetMenuImage(a.ctx, menuItemID, url); err != nil {
				return errMsg{err}
			}
			return statusMsg("image uploaded")
		},
		a.loadMenu(),
	)
}

func (a *App) importMenuCmd(path string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			n, err := a.services.Reservations.ImportMenu(a.ctx, path)
			if err != nil {
				return errMsg{err}
			}
			return statusMsg(fmt.Sprintf("imported %d menu items", n))
		},
		a.loadMenu(),
	)
}

func (a *App) exportDayCmd(day time.Time) tea.Cmd {
	return func() tea.Msg {
		name := "takeaway-" + day.Format("2006-01-02") + ".csv"
		f, err := os.Create(name)
		if err != nil {
			return errMsg{err}
		}
		defer f.Close()
		n, err := a.services.Reservations.ExportDayCSV(a.ctx, f, day)
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("exported %d reservations to %s", n, name))
	}
}
