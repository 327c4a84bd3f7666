package journal

import "main/internal/event"

// Memory keeps the journal in process memory. It backs tests and sessions
// run without a database DSN.
type Memory struct {
	fills  []FillRecord
	equity []EquityRecord
}

// NewMemory creates an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) RecordFill(fill event.Fill) error {
	rec := newFillRecord(fill)
	rec.ID = uint(len(m.fills) + 1)
	m.fills = append(m.fills, rec)
	return nil
}

func (m *Memory) RecordEquity(rec EquityRecord) error {
	rec.ID = uint(len(m.equity) + 1)
	m.equity = append(m.equity, rec)
	return nil
}

func (m *Memory) Fills() ([]FillRecord, error) {
	out := make([]FillRecord, len(m.fills))
	copy(out, m.fills)
	return out, nil
}

func (m *Memory) EquityCurve() ([]EquityRecord, error) {
	out := make([]EquityRecord, len(m.equity))
	copy(out, m.equity)
	return out, nil
}

func (m *Memory) Close() error {
	return nil
}
