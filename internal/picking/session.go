package picking

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-picking-service/internal/model"
)

type ScanOutcome string

const (
	ScanNoMatch     ScanOutcome = "no_match"
	ScanIncremented ScanOutcome = "incremented"
	ScanCompleted   ScanOutcome = "completed"
)

type ScanResult struct {
	Outcome  ScanOutcome     `json:"outcome"`
	LineItem *model.LineItem `json:"lineItem,omitempty"`
	NewCount int             `json:"newCount,omitempty"`
}

// Session counts picked units per line item of one order. Counts start at
// zero and never exceed the line quantity. Nothing here is persisted.
type Session struct {
	ID       string
	ShopID   string
	OrderID  string
	Label    string
	OpenedAt time.Time

	lines []model.LineItem

	mu       sync.Mutex
	picked   map[string]int
	lastSeen time.Time
}

func NewSession(id, shopID string, order *model.Order, now time.Time) *Session {
	lines := make([]model.LineItem, len(order.LineItems))
	copy(lines, order.LineItems)

	return &Session{
		ID:       id,
		ShopID:   shopID,
		OrderID:  order.ID,
		Label:    order.Label,
		OpenedAt: now,
		lines:    lines,
		picked:   make(map[string]int, len(lines)),
		lastSeen: now,
	}
}

// RecordScan matches the code against line barcodes (exact, case-sensitive,
// first line wins) and bumps that line by one unit up to its quantity.
func (s *Session) RecordScan(code string) ScanResult {
	code = strings.TrimSpace(code)
	if code == "" {
		return ScanResult{Outcome: ScanNoMatch}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		li := &s.lines[i]
		if li.VariantBarcode == nil || *li.VariantBarcode != code {
			continue
		}

		next := s.picked[li.ID] + 1
		if next > li.Quantity {
			next = max(li.Quantity, 0)
		}
		s.picked[li.ID] = next

		item := *li
		outcome := ScanIncremented
		if next >= li.Quantity {
			outcome = ScanCompleted
		}
		return ScanResult{Outcome: outcome, LineItem: &item, NewCount: next}
	}
	return ScanResult{Outcome: ScanNoMatch}
}

type LineProgress struct {
	model.LineItem
	Picked   int  `json:"picked"`
	Complete bool `json:"complete"`
}

// Progress is a point-in-time view of a session.
type Progress struct {
	ID              string         `json:"id"`
	OrderID         string         `json:"orderId"`
	Label           string         `json:"label"`
	OpenedAt        time.Time      `json:"openedAt"`
	Lines           []LineProgress `json:"lines"`
	CompletedLines  int            `json:"completedLines"`
	TotalLines      int            `json:"totalLines"`
	PickedUnits     int            `json:"pickedUnits"`
	TotalUnits      int            `json:"totalUnits"`
	ProgressPercent int            `json:"progressPercent"`
	AllComplete     bool           `json:"allComplete"`
	NoBarcodeLines  int            `json:"noBarcodeLines"`
}

// Snapshot returns the current counts. Lines come back incomplete first,
// otherwise in order.
func (s *Session) Snapshot() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Progress{
		ID:         s.ID,
		OrderID:    s.OrderID,
		Label:      s.Label,
		OpenedAt:   s.OpenedAt,
		Lines:      make([]LineProgress, len(s.lines)),
		TotalLines: len(s.lines),
	}

	for i, li := range s.lines {
		qty := max(li.Quantity, 0)
		picked := min(s.picked[li.ID], qty)
		done := s.picked[li.ID] >= li.Quantity

		p.Lines[i] = LineProgress{LineItem: li, Picked: picked, Complete: done}
		p.TotalUnits += qty
		p.PickedUnits += picked
		if done {
			p.CompletedLines++
		}
		if li.VariantBarcode == nil || *li.VariantBarcode == "" {
			p.NoBarcodeLines++
		}
	}

	if p.TotalUnits > 0 {
		p.ProgressPercent = int(math.Round(float64(p.PickedUnits) * 100 / float64(p.TotalUnits)))
	}
	p.AllComplete = p.TotalLines > 0 && p.CompletedLines == p.TotalLines

	// 100 is reserved for a finished order, whatever the rounding says.
	switch {
	case p.AllComplete:
		p.ProgressPercent = 100
	case p.ProgressPercent >= 100:
		p.ProgressPercent = 99
	}

	sort.SliceStable(p.Lines, func(i, j int) bool {
		return !p.Lines[i].Complete && p.Lines[j].Complete
	})
	return p
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
