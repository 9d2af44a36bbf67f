package report

import (
	"context"
	"io"
	"strconv"
	"sync"

	"lobbywatch/internal/constants"
	"lobbywatch/internal/domain"
	"lobbywatch/internal/hoicolor"

	"github.com/olekukonko/tablewriter"
)

var tableHeader = []string{"name", "version", "password", "players", "id"}

// Table prints each report as a bordered table.
type Table struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

func NewTable(out io.Writer, color bool) *Table {
	return &Table{out: out, color: color}
}

func (t *Table) Name() string { return "table" }

func (t *Table) Report(_ context.Context, report domain.Report) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	table := tablewriter.NewWriter(t.out)
	table.SetHeader(tableHeader)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorders(tablewriter.Border{Left: true, Top: true, Right: true, Bottom: true})
	table.SetHeaderLine(false)
	table.SetRowLine(false)
	table.SetColumnSeparator("|")
	table.SetCenterSeparator("+")
	table.SetRowSeparator("-")

	for _, l := range report.Lobbies {
		table.Append([]string{
			hoicolor.DisplayName(l.Name, constants.DisplayNameLimit, t.color),
			l.Version,
			strconv.FormatBool(l.HasPassword),
			l.Players(),
			l.ID.String(),
		})
	}

	table.Render()
	return nil
}
