package history

import "context"

// NopStore discards all records. Used when the ledger is disabled.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (NopStore) RecordRun(ctx context.Context, run Run) error           { return nil }
func (NopStore) RecordCheck(ctx context.Context, res CheckResult) error { return nil }
func (NopStore) RecentRuns(ctx context.Context, n int) ([]Run, error)   { return nil, nil }
func (NopStore) RecentChecks(ctx context.Context, n int) ([]CheckResult, error) {
	return nil, nil
}
func (NopStore) Close() error { return nil }
