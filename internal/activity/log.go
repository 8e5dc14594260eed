// Package activity keeps an in-memory record of scan and trade
// events plus the summary counters derived from them. Nothing here
// survives a process restart.
package activity

import (
	"sync"
	"time"
)

type EventType string

const (
	EventScan  EventType = "scan"
	EventTrade EventType = "trade"
	EventError EventType = "error"
)

type Event struct {
	Type      EventType `json:"type"`
	At        time.Time `json:"at"`
	MarketID  int       `json:"market_id,omitempty"`
	Question  string    `json:"question,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Qualified int       `json:"qualified,omitempty"`
	SizeUSD   float64   `json:"size_usd,omitempty"`
	Success   bool      `json:"success"`
}

type Statistics struct {
	TotalScans       int       `json:"total_scans"`
	QualifiedMarkets int       `json:"qualified_markets"`
	TradesAttempted  int       `json:"trades_attempted"`
	TradesSucceeded  int       `json:"trades_succeeded"`
	TradesFailed     int       `json:"trades_failed"`
	TotalSizeUSD     float64   `json:"total_size_usd"`
	LastScanAt       time.Time `json:"last_scan_at"`
	LastTradeAt      time.Time `json:"last_trade_at"`
}

// Log is a bounded event ring. Writers are the scan worker and the
// executor; readers are the API handlers, which always get copies.
type Log struct {
	mu       sync.Mutex
	events   []Event
	capacity int
	stats    Statistics
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Log{capacity: capacity}
}

func (l *Log) append(ev Event) {
	l.events = append(l.events, ev)
	if len(l.events) > l.capacity {
		l.events = l.events[len(l.events)-l.capacity:]
	}
}

// RecordScan notes one completed scan cycle and how many candidates
// qualified.
func (l *Log) RecordScan(qualified int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	l.stats.TotalScans++
	l.stats.QualifiedMarkets += qualified
	l.stats.LastScanAt = now
	l.append(Event{Type: EventScan, At: now, Qualified: qualified, Success: true})
}

// RecordTrade notes one trade attempt, successful or not.
func (l *Log) RecordTrade(marketID int, question string, sizeUSD float64, success bool, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	l.stats.TradesAttempted++
	if success {
		l.stats.TradesSucceeded++
		l.stats.TotalSizeUSD += sizeUSD
	} else {
		l.stats.TradesFailed++
	}
	l.stats.LastTradeAt = now
	l.append(Event{
		Type:     EventTrade,
		At:       now,
		MarketID: marketID,
		Question: question,
		SizeUSD:  sizeUSD,
		Success:  success,
		Detail:   detail,
	})
}

// RecordError notes a cycle-level failure.
func (l *Log) RecordError(detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.append(Event{Type: EventError, At: time.Now().UTC(), Detail: detail})
}

// Stats returns a snapshot of the counters.
func (l *Log) Stats() Statistics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Recent returns up to n most recent events, newest last.
func (l *Log) Recent(n int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.events) {
		n = len(l.events)
	}
	out := make([]Event, n)
	copy(out, l.events[len(l.events)-n:])
	return out
}
