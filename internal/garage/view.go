package garage

import (
	"fmt"
	"strings"

	"github.com/GKRMP/garage/internal/catalog"
)

// ItemView is one row of the garage list or of the picker results
type ItemView struct {
	ID       string
	Label    string
	Selected bool
}

// View is a render-ready snapshot of the widget
type View struct {
	State   State
	Count   int // badge
	Items   []ItemView
	Open    bool
	Query   string
	Results []ItemView
	Summary string // "Showing X of Y" when results were capped
	Status  string
	IsError bool
}

// View returns the current render snapshot
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	v := View{
		State:   c.stateLocked(),
		Count:   c.selection.Len(),
		Items:   []ItemView{},
		Open:    c.open,
		Query:   c.query,
		Status:  c.status.text,
		IsError: c.status.isError,
	}
	for _, e := range c.selection.Entries() {
		label := e.ID
		if e.Vehicle != nil && e.Vehicle.Year != 0 {
			label = e.Vehicle.Label()
		}
		v.Items = append(v.Items, ItemView{ID: e.ID, Label: label, Selected: true})
	}
	if c.open && c.catalogByID != nil {
		res := catalog.Filter(c.catalog, c.query, c.opts.SearchLimit)
		v.Results = make([]ItemView, 0, len(res.Vehicles))
		for _, vehicle := range res.Vehicles {
			v.Results = append(v.Results, ItemView{
				ID:       vehicle.ID,
				Label:    vehicle.Label(),
				Selected: c.selection.Contains(vehicle.ID),
			})
		}
		v.Summary = res.Summary()
	}
	return v
}

// Render draws a view as plain text for terminals and logs
func Render(v View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "My Garage (%d)", v.Count)
	if v.State == Saving {
		b.WriteString(" [saving]")
	}
	b.WriteString("\n")
	if len(v.Items) == 0 {
		b.WriteString("  no vehicles yet\n")
	}
	for _, item := range v.Items {
		fmt.Fprintf(&b, "  - %s\n", item.Label)
	}

	if v.Open {
		if v.Query != "" {
			fmt.Fprintf(&b, "Search: %s\n", v.Query)
		}
		if v.Results != nil && len(v.Results) == 0 {
			b.WriteString("  no matching vehicles\n")
		}
		for _, item := range v.Results {
			mark := " "
			if item.Selected {
				mark = "x"
			}
			fmt.Fprintf(&b, "  [%s] %s  (%s)\n", mark, item.Label, item.ID)
		}
		if v.Summary != "" {
			fmt.Fprintf(&b, "  %s\n", v.Summary)
		}
	}

	if v.Status != "" {
		if v.IsError {
			fmt.Fprintf(&b, "! %s\n", v.Status)
		} else {
			fmt.Fprintf(&b, "%s\n", v.Status)
		}
	}
	return b.String()
}
