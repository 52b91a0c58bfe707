package store

import (
	"context"

	"github.com/yanun0323/logs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradecore/internal/errors"
	"tradecore/internal/model/event"
	"tradecore/internal/model/order"
	"tradecore/internal/model/position"
	"tradecore/pkg/exception"
)

// Store persists the latest order and position state and the event log.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.Wrap(exception.ErrNilInstance, "store db")
	}
	return &Store{db: db}, nil
}

// Migrate creates or updates the tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&OrderRecord{}, &PositionRecord{}, &EventRecord{}); err != nil {
		return errors.Wrap(err, "migrate")
	}
	logs.Infof("store migrated")
	return nil
}

// SaveOrder upserts the order row.
func (s *Store) SaveOrder(ctx context.Context, o *order.Order) error {
	rec, err := newOrderRecord(o)
	if err != nil {
		return errors.Wrapf(err, "encode order %s", o.ClientOrderID())
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_order_id"}},
		UpdateAll: true,
	}).Create(&rec).Error
	return errors.Wrapf(err, "save order %s", rec.ClientOrderID)
}

// SavePosition upserts the position row.
func (s *Store) SavePosition(ctx context.Context, p *position.Position) error {
	rec, err := newPositionRecord(p)
	if err != nil {
		return errors.Wrapf(err, "encode position %s", p.ID())
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "position_id"}},
		UpdateAll: true,
	}).Create(&rec).Error
	return errors.Wrapf(err, "save position %s", rec.PositionID)
}

// AppendEvent stores ev as record seq. A replayed record is ignored.
func (s *Store) AppendEvent(ctx context.Context, ev event.OrderEvent, seq uint64) error {
	rec, err := newEventRecord(ev, seq)
	if err != nil {
		return errors.Wrapf(err, "encode event %d", seq)
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
	return errors.Wrapf(err, "append event %d", seq)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Delete(&OrderRecord{}, "client_order_id = ?", id).Error
	return errors.Wrapf(err, "delete order %s", id)
}

func (s *Store) DeletePosition(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Delete(&PositionRecord{}, "position_id = ?", id).Error
	return errors.Wrapf(err, "delete position %s", id)
}

func (s *Store) Order(ctx context.Context, id string) (OrderRecord, error) {
	var rec OrderRecord
	err := s.db.WithContext(ctx).First(&rec, "client_order_id = ?", id).Error
	return rec, errors.Wrapf(err, "load order %s", id)
}

func (s *Store) Position(ctx context.Context, id string) (PositionRecord, error) {
	var rec PositionRecord
	err := s.db.WithContext(ctx).First(&rec, "position_id = ?", id).Error
	return rec, errors.Wrapf(err, "load position %s", id)
}

// EventsAfter lists the stored events with a sequence above seq, in order.
func (s *Store) EventsAfter(ctx context.Context, seq uint64, limit int) ([]EventRecord, error) {
	var out []EventRecord
	q := s.db.WithContext(ctx).Where("seq > ?", seq).Order("seq")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, errors.Wrapf(err, "load events after %d", seq)
}
