// Package debugrec implements the bounded per-hand debug record stream of
// spec.md §3 and §6: an append-only log capped at 5,000 records, with a
// CSV export in the exact column order §6 defines.
package debugrec

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
)

const maxRecords = 5000

// Record is one per-hand debug record.
type Record struct {
	Reality        int
	HandIndex      int
	SplitDepth     int
	TrueCount      float64
	PlayerCards    string
	DealerUp       string
	DealerHole     string
	Total          int
	IsSoft         bool
	Action         string
	Wager          int
	InsuranceBet   float64
	HasInsurance   bool
	InsuranceDecision string
	InsuranceResult   *string
	InsuranceNet      *float64
	BankrollStart  float64
	Payout         float64
	BankrollEnd    float64
	Result         string
	PlayerFinal    int
	DealerFinal    int
}

// Recorder is an append-only, hard-capped buffer shared by a single
// worker, matching spec.md §5's "debug recorder is append-only with a
// hard cap of 5,000 records per run, shared by the single worker".
type Recorder struct {
	mu      sync.Mutex
	records []Record
	enabled bool
}

// New creates a recorder. When enabled is false, Add is a cheap no-op so
// callers do not need to branch on whether debugging is on.
func New(enabled bool) *Recorder {
	return &Recorder{enabled: enabled, records: make([]Record, 0)}
}

// Add appends a record, dropping it once the 5,000-record cap is
// reached.
func (r *Recorder) Add(rec Record) {
	if r == nil || !r.enabled {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) >= maxRecords {
		return
	}
	r.records = append(r.records, rec)
}

// Records returns a copy of the recorded entries.
func (r *Recorder) Records() []Record {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Merge appends another recorder's records into r, honoring the cap.
// Used to combine per-worker recorders after parallel realities finish.
func (r *Recorder) Merge(other *Recorder) {
	if r == nil || other == nil {
		return
	}
	for _, rec := range other.Records() {
		r.Add(rec)
	}
}

var csvColumns = []string{
	"reality", "handIndex", "splitDepth", "trueCount", "playerCards",
	"dealerUp", "dealerHole", "total", "isSoft", "action", "wager",
	"insuranceBet", "insuranceDecision", "insuranceResult", "insuranceNet",
	"bankrollStart", "payout", "bankrollEnd", "result", "playerFinal",
	"dealerFinal",
}

// WriteCSV writes the recorder's records to w in the column order
// spec.md §6 defines. Absent insurance result/net encode as the literal
// "null".
func (r *Recorder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, rec := range r.Records() {
		row := []string{
			strconv.Itoa(rec.Reality),
			strconv.Itoa(rec.HandIndex),
			strconv.Itoa(rec.SplitDepth),
			strconv.FormatFloat(rec.TrueCount, 'f', 2, 64),
			rec.PlayerCards,
			rec.DealerUp,
			rec.DealerHole,
			strconv.Itoa(rec.Total),
			strconv.FormatBool(rec.IsSoft),
			rec.Action,
			strconv.Itoa(rec.Wager),
			strconv.FormatFloat(rec.InsuranceBet, 'f', 2, 64),
			rec.InsuranceDecision,
			nullableString(rec.InsuranceResult),
			nullableFloat(rec.InsuranceNet),
			strconv.FormatFloat(rec.BankrollStart, 'f', 2, 64),
			strconv.FormatFloat(rec.Payout, 'f', 2, 64),
			strconv.FormatFloat(rec.BankrollEnd, 'f', 2, 64),
			rec.Result,
			strconv.Itoa(rec.PlayerFinal),
			strconv.Itoa(rec.DealerFinal),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func nullableString(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}

func nullableFloat(f *float64) string {
	if f == nil {
		return "null"
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}
