package store

import (
	"time"

	"github.com/bytedance/sonic"

	"tradecore/internal/model/event"
	"tradecore/internal/model/order"
	"tradecore/internal/model/position"
)

// OrderRecord is the latest state of one order.
type OrderRecord struct {
	ClientOrderID string `gorm:"primaryKey;size:64"`
	TraderID      string `gorm:"size:64;not null"`
	StrategyID    string `gorm:"size:64;not null;index"`
	InstrumentID  string `gorm:"size:64;not null;index"`
	VenueOrderID  string `gorm:"size:64;index"`
	PositionID    string `gorm:"size:64;index"`
	AccountID     string `gorm:"size:64"`
	Side          string `gorm:"size:8;not null"`
	Type          string `gorm:"size:32;not null"`
	Status        string `gorm:"size:32;not null;index"`
	Quantity      string `gorm:"size:40;not null"`
	FilledQty     string `gorm:"size:40;not null"`
	EventCount    int    `gorm:"not null"`
	TsInit        uint64 `gorm:"not null"`
	TsLast        uint64 `gorm:"not null"`
	Fields        string `gorm:"type:jsonb;not null"`
	UpdatedAt     time.Time
}

func (OrderRecord) TableName() string { return "orders" }

// PositionRecord is the latest state of one position.
type PositionRecord struct {
	PositionID   string `gorm:"primaryKey;size:64"`
	TraderID     string `gorm:"size:64;not null"`
	StrategyID   string `gorm:"size:64;not null;index"`
	InstrumentID string `gorm:"size:64;not null;index"`
	AccountID    string `gorm:"size:64;not null"`
	Side         string `gorm:"size:8;not null"`
	SignedQty    string `gorm:"size:40;not null"`
	RealizedPnl  string `gorm:"size:64;not null"`
	EventCount   int    `gorm:"not null"`
	TsOpened     uint64 `gorm:"not null"`
	TsClosed     uint64
	Fields       string `gorm:"type:jsonb;not null"`
	UpdatedAt    time.Time
}

func (PositionRecord) TableName() string { return "positions" }

// EventRecord is one journaled order event.
type EventRecord struct {
	Seq           uint64 `gorm:"primaryKey;autoIncrement:false"`
	Kind          string `gorm:"size:32;not null"`
	ClientOrderID string `gorm:"size:64;not null;index"`
	EventID       string `gorm:"size:36;not null;uniqueIndex"`
	TsEvent       uint64 `gorm:"not null"`
	TsInit        uint64 `gorm:"not null"`
	Data          string `gorm:"type:jsonb;not null"`
}

func (EventRecord) TableName() string { return "order_events" }

func newOrderRecord(o *order.Order) (OrderRecord, error) {
	fields, err := sonic.MarshalString(o.ToDict())
	if err != nil {
		return OrderRecord{}, err
	}
	venueID, _ := o.VenueOrderID()
	posID, _ := o.PositionID()
	accountID, _ := o.AccountID()
	return OrderRecord{
		ClientOrderID: string(o.ClientOrderID()),
		TraderID:      string(o.TraderID()),
		StrategyID:    string(o.StrategyID()),
		InstrumentID:  o.InstrumentID().String(),
		VenueOrderID:  string(venueID),
		PositionID:    string(posID),
		AccountID:     string(accountID),
		Side:          o.Side().String(),
		Type:          o.Type().String(),
		Status:        o.Status().String(),
		Quantity:      o.Quantity().String(),
		FilledQty:     o.FilledQty().String(),
		EventCount:    o.EventCount(),
		TsInit:        o.TsInit(),
		TsLast:        o.TsLast(),
		Fields:        fields,
	}, nil
}

func newPositionRecord(p *position.Position) (PositionRecord, error) {
	fields, err := sonic.MarshalString(p.ToDict())
	if err != nil {
		return PositionRecord{}, err
	}
	return PositionRecord{
		PositionID:   string(p.ID()),
		TraderID:     string(p.TraderID()),
		StrategyID:   string(p.StrategyID()),
		InstrumentID: p.InstrumentID().String(),
		AccountID:    string(p.AccountID()),
		Side:         p.Side().String(),
		SignedQty:    p.SignedDecimalQty().String(),
		RealizedPnl:  p.RealizedPnl().String(),
		EventCount:   p.EventCount(),
		TsOpened:     p.TsOpened(),
		TsClosed:     p.TsClosed(),
		Fields:       fields,
	}, nil
}

func newEventRecord(ev event.OrderEvent, seq uint64) (EventRecord, error) {
	data, err := sonic.MarshalString(ev)
	if err != nil {
		return EventRecord{}, err
	}
	h := ev.Head()
	return EventRecord{
		Seq:           seq,
		Kind:          ev.Kind().String(),
		ClientOrderID: string(h.ClientOrderID),
		EventID:       h.EventID.String(),
		TsEvent:       h.TsEvent,
		TsInit:        h.TsInit,
		Data:          data,
	}, nil
}

// Dict decodes the dictionary form stored with the record.
func (r OrderRecord) Dict() (map[string]string, error) {
	return decodeFields(r.Fields)
}

func (r PositionRecord) Dict() (map[string]string, error) {
	return decodeFields(r.Fields)
}

// Event decodes the stored event body.
func (r EventRecord) Event() (event.OrderEvent, error) {
	kind, err := event.ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	return event.Envelope{Kind: kind, Data: []byte(r.Data)}.Unwrap()
}

func decodeFields(s string) (map[string]string, error) {
	out := make(map[string]string)
	if err := sonic.UnmarshalString(s, &out); err != nil {
		return nil, err
	}
	return out, nil
}
