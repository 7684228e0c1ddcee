package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"promcheck/internal/model"
)

var errBackendDown = errors.New("backend down")

// fakeQuerier answers queries from fixed tables. Unknown queries return no rows.
type fakeQuerier struct {
	mu      sync.Mutex
	rows    map[string][]model.MetricRow
	errs    map[string]error
	blocked map[string]bool
	queries []string
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		rows: make(map[string][]model.MetricRow),
		errs:    make(map[string]error),
		blocked: make(map[string]bool),
	}
}

func (q *fakeQuerier) on(query string, rows ...model.MetricRow) *fakeQuerier {
	q.rows[query] = rows
	return q
}

func (q *fakeQuerier) fail(query string, err error) *fakeQuerier {
	q.errs[query] = err
	return q
}

// block makes query wait until its context is done.
func (q *fakeQuerier) block(query string) *fakeQuerier {
	q.blocked[query] = true
	return q
}

// QueryRows fails on a done context the way the HTTP client does.
func (q *fakeQuerier) QueryRows(ctx context.Context, query string) ([]model.MetricRow, error) {
	q.mu.Lock()
	q.queries = append(q.queries, query)
	blocked := q.blocked[query]
	q.mu.Unlock()

	if blocked {
		<-ctx.Done()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if err, ok := q.errs[query]; ok {
		return nil, err
	}
	return q.rows[query], nil
}

// row builds a metric row with the given value and label pairs.
func row(value string, labels ...string) model.MetricRow {
	m := make(map[string]string, len(labels)/2)
	for i := 0; i+1 < len(labels); i += 2 {
		m[labels[i]] = labels[i+1]
	}
	return model.MetricRow{Labels: m, Timestamp: 1700000000, Value: value}
}

// recordingSink collects dispatched events and optionally fails.
type recordingSink struct {
	events []*model.Event
	err    error
}

func (s *recordingSink) Dispatch(ctx context.Context, event *model.Event) error {
	if s.err != nil {
		return s.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.events = append(s.events, event)
	return nil
}

func newTestCatalog(q Querier) *Catalog {
	return NewCatalog(q, zerolog.Nop())
}
