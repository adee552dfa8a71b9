// Package view drives the services table: it loads the directory listing into
// a Page and reconciles create/delete by reloading the whole page.
package view

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hazz-dev/svcboard/internal/directory"
	"github.com/hazz-dev/svcboard/internal/logging"
	"github.com/hazz-dev/svcboard/internal/metrics"
	"github.com/hazz-dev/svcboard/internal/rows"
	"github.com/hazz-dev/svcboard/internal/storage"
)

// Placeholder messages.
const (
	MsgEmpty = "There are no services to show."
	MsgError = "Sorry, there has been an error and we are unable to get a list of services."
)

// Form field names read on submit and delete.
const (
	FieldName = "serviceName"
	FieldURL  = "serviceURL"
	FieldID   = "serviceID"
)

// State is the view's position in the load sequence.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateRendered
	StateRenderedEmpty
	StateRenderedError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	case StateRenderedEmpty:
		return "rendered_empty"
	case StateRenderedError:
		return "rendered_error"
	default:
		return "unknown"
	}
}

// Directory is the subset of the directory client the controller uses.
type Directory interface {
	ListServices(ctx context.Context) ([]directory.Service, error)
	CreateService(ctx context.Context, draft directory.Draft) error
	DeleteService(ctx context.Context, id directory.ID) error
}

// Page is where the controller's side effects land. Rows are only ever appended.
type Page interface {
	AppendRow(rows.Row)
	ResetForm()
	Reload()
}

// Form yields submitted field values; url.Values satisfies it.
type Form interface {
	Get(key string) string
}

// Journal records mutation attempts.
type Journal interface {
	Record(ctx context.Context, e storage.Entry) error
}

// Controller orchestrates loads and mutations. It holds no view state of its
// own, so one Controller can serve concurrent pages.
type Controller struct {
	dir     Directory
	builder *rows.Builder
	journal Journal
	metrics *metrics.Registry
	logger  *zap.SugaredLogger
}

// New creates a Controller. Pass nil builder for default formatting and nil logger to discard logs.
func New(dir Directory, builder *rows.Builder, logger *zap.SugaredLogger) *Controller {
	if builder == nil {
		builder = rows.NewBuilder(nil)
	}
	return &Controller{
		dir:     dir,
		builder: builder,
		logger:  logging.OrNop(logger),
	}
}

// SetJournal sets where mutation attempts are recorded.
func (c *Controller) SetJournal(j Journal) {
	c.journal = j
}

// SetMetrics sets the registry render outcomes are counted in.
func (c *Controller) SetMetrics(m *metrics.Registry) {
	c.metrics = m
}

// Load lists services and renders them into page.
func (c *Controller) Load(ctx context.Context, page Page) State {
	c.logger.Debugw("view state", "state", StateLoading)
	services, err := c.dir.ListServices(ctx)
	return c.Render(page, services, err)
}

// Render appends the rows for one list outcome: a row per service, or one
// placeholder row when the list is empty or err is set.
func (c *Controller) Render(page Page, services []directory.Service, err error) State {
	var state State
	switch {
	case err != nil:
		c.logger.Errorw("listing services", "error", err)
		page.AppendRow(rows.Placeholder(MsgError))
		state = StateRenderedError
	case len(services) == 0:
		page.AppendRow(rows.Placeholder(MsgEmpty))
		state = StateRenderedEmpty
	default:
		for _, svc := range services {
			page.AppendRow(c.builder.Build(svc))
		}
		state = StateRendered
	}
	c.metrics.ObserveRender(state.String())
	c.logger.Debugw("view state", "state", state, "services", len(services))
	return state
}

// Submit registers the service described by form, then resets the form and
// reloads the page whether or not the create succeeded. The create error is
// returned for callers that want to report it.
func (c *Controller) Submit(ctx context.Context, form Form, page Page) error {
	draft := directory.Draft{
		Name: form.Get(FieldName),
		URL:  form.Get(FieldURL),
	}
	err := c.dir.CreateService(ctx, draft)
	if err != nil {
		c.logger.Errorw("adding service", "name", draft.Name, "url", draft.URL, "error", err)
	}
	c.record(ctx, storage.ActionCreate, draft.Name+" "+draft.URL, err)

	page.ResetForm()
	page.Reload()
	return err
}

// Delete removes the service with id, then reloads the page whether or not
// the delete succeeded.
func (c *Controller) Delete(ctx context.Context, id directory.ID, page Page) error {
	err := c.dir.DeleteService(ctx, id)
	if err != nil {
		c.logger.Errorw("deleting service", "id", id, "error", err)
	}
	c.record(ctx, storage.ActionDelete, string(id), err)

	page.Reload()
	return err
}

func (c *Controller) record(ctx context.Context, action, target string, err error) {
	if c.journal == nil {
		return
	}
	e := storage.Entry{
		Action:     action,
		Target:     target,
		Outcome:    storage.OutcomeOK,
		RecordedAt: time.Now(),
	}
	if err != nil {
		e.Outcome = storage.OutcomeFailed
		e.Error = err.Error()
	}
	// The mutation already happened; a journal failure must not change the flow.
	if jerr := c.journal.Record(context.WithoutCancel(ctx), e); jerr != nil {
		c.logger.Warnw("journaling action", "action", action, "error", jerr)
	}
}

// Table is an in-memory Page. It is what a single render produces.
type Table struct {
	Rows    []rows.Row
	Resets  int
	Reloads int
}

func (t *Table) AppendRow(r rows.Row) { t.Rows = append(t.Rows, r) }
func (t *Table) ResetForm()           { t.Resets++ }
func (t *Table) Reload()              { t.Reloads++ }
