// Package rows turns service records into table row descriptors. Descriptors
// are plain data; rendering them into HTML or a terminal is up to the caller.
package rows

import (
	"time"

	"github.com/hazz-dev/svcboard/internal/directory"
	"github.com/hazz-dev/svcboard/internal/format"
)

// Columns is the number of columns in the services table.
const Columns = 6

// Kind identifies how a cell is rendered.
type Kind int

const (
	KindText Kind = iota
	KindBadge
	KindLink
	KindActions
)

// Cell is one table cell.
type Cell struct {
	Kind     Kind
	Text     string
	Href     string          // KindLink
	Severity format.Severity // KindBadge
	Title    string          // optional tooltip
	DeleteID directory.ID    // KindActions
	ColSpan  int
}

// Row is one table row.
type Row struct {
	Cells       []Cell
	Placeholder bool
}

// Builder builds rows, formatting timestamps with its Formatter.
type Builder struct {
	fmt *format.Formatter
	now func() time.Time
}

// NewBuilder returns a Builder. A nil formatter uses format.Default.
func NewBuilder(f *format.Formatter) *Builder {
	if f == nil {
		f = format.Default
	}
	return &Builder{fmt: f, now: time.Now}
}

// Build returns the six-cell row for svc: status, name, url, created,
// last updated, actions.
func (b *Builder) Build(svc directory.Service) Row {
	now := b.now()
	return Row{Cells: []Cell{
		{Kind: KindBadge, Text: svc.Status, Severity: format.ClassifyStatus(svc.Status)},
		{Kind: KindText, Text: svc.Name},
		{Kind: KindLink, Text: svc.URL, Href: svc.URL},
		{Kind: KindText, Text: b.fmt.FormatTimestamp(svc.Created), Title: b.fmt.Relative(svc.Created, now)},
		{Kind: KindText, Text: b.fmt.FormatTimestamp(svc.LastUpdated), Title: b.fmt.Relative(svc.LastUpdated, now)},
		{Kind: KindActions, DeleteID: svc.ID},
	}}
}

// Placeholder returns a single full-width row carrying message.
func Placeholder(message string) Row {
	return Row{
		Placeholder: true,
		Cells:       []Cell{{Kind: KindText, Text: message, ColSpan: Columns}},
	}
}
