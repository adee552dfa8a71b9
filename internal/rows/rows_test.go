package rows_test

import (
	"testing"
	"time"

	"github.com/hazz-dev/svcboard/internal/directory"
	"github.com/hazz-dev/svcboard/internal/format"
	"github.com/hazz-dev/svcboard/internal/rows"
)

func makeService() directory.Service {
	return directory.Service{
		ID:          "42",
		Name:        "<b>api</b>",
		URL:         "http://api.example.com/health?x=1",
		Status:      "FAIL",
		Created:     "2020-03-01T10:00:00Z",
		LastUpdated: "not-a-date",
	}
}

func TestBuild_CellOrder(t *testing.T) {
	b := rows.NewBuilder(format.New("2006-01-02 15:04", time.UTC))
	row := b.Build(makeService())

	if row.Placeholder {
		t.Fatal("data row must not be a placeholder")
	}
	if len(row.Cells) != rows.Columns {
		t.Fatalf("expected %d cells, got %d", rows.Columns, len(row.Cells))
	}

	wantKinds := []rows.Kind{rows.KindBadge, rows.KindText, rows.KindLink, rows.KindText, rows.KindText, rows.KindActions}
	for i, k := range wantKinds {
		if row.Cells[i].Kind != k {
			t.Errorf("cell %d: expected kind %d, got %d", i, k, row.Cells[i].Kind)
		}
	}

	status := row.Cells[0]
	if status.Text != "FAIL" || status.Severity != format.SeverityDanger {
		t.Errorf("unexpected status cell: %+v", status)
	}
	if row.Cells[1].Text != "<b>api</b>" {
		t.Errorf("expected raw name text, got %q", row.Cells[1].Text)
	}
	link := row.Cells[2]
	if link.Href != "http://api.example.com/health?x=1" || link.Text != link.Href {
		t.Errorf("expected href and text to equal raw url, got %+v", link)
	}
	if row.Cells[3].Text != "2020-03-01 10:00" {
		t.Errorf("unexpected created text %q", row.Cells[3].Text)
	}
	if row.Cells[4].Text != format.InvalidDate {
		t.Errorf("expected %q for bad lastUpdated, got %q", format.InvalidDate, row.Cells[4].Text)
	}
	if row.Cells[5].DeleteID != "42" {
		t.Errorf("expected delete bound to id 42, got %q", row.Cells[5].DeleteID)
	}
}

func TestBuild_UnknownStatusIsNeutral(t *testing.T) {
	svc := makeService()
	svc.Status = ""
	row := rows.NewBuilder(nil).Build(svc)
	if row.Cells[0].Severity != format.SeverityNeutral {
		t.Errorf("expected neutral severity, got %q", row.Cells[0].Severity)
	}
}

func TestPlaceholder(t *testing.T) {
	row := rows.Placeholder("nothing here")
	if !row.Placeholder {
		t.Error("expected placeholder row")
	}
	if len(row.Cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(row.Cells))
	}
	if row.Cells[0].Text != "nothing here" || row.Cells[0].ColSpan != rows.Columns {
		t.Errorf("unexpected placeholder cell: %+v", row.Cells[0])
	}
}
