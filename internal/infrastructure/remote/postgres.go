package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/domain/enum"
)

// CustomerRecord is the persisted form of a customer entity. The schemaless
// field list is stored as a JSONB payload, matching how the entity is shaped
// locally rather than forcing a column schema onto free-form labels.
type CustomerRecord struct {
	ID        string          `gorm:"primaryKey;size:64"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fields    json.RawMessage `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CustomerRecord) TableName() string { return "customers" }

// ItemRecord is the persisted form of a stock item entity.
type ItemRecord struct {
	ID        string          `gorm:"primaryKey;size:64"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fields    json.RawMessage `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ItemRecord) TableName() string { return "items" }

// BillRecord is the persisted form of an archived bill, rows and payment
// ledger included.
type BillRecord struct {
	ID          string          `gorm:"primaryKey;size:64"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Num         int64           `gorm:"not null"`
	Rows        json.RawMessage `gorm:"type:jsonb;not null"`
	Customer    *string         `gorm:"size:64"`
	SavedAt     int64           `gorm:"not null;index"`
	TotalAmount *float64
	Payments    json.RawMessage `gorm:"type:jsonb"`
	Amount      float64         `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (BillRecord) TableName() string { return "bills" }

// PostgresStore mirrors collections into PostgreSQL via GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a PostgreSQL-backed remote store.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// AutoMigrate creates or updates the mirror tables.
func (s *PostgresStore) AutoMigrate() error {
	return s.db.AutoMigrate(&CustomerRecord{}, &ItemRecord{}, &BillRecord{})
}

func (s *PostgresStore) UpsertCustomer(ctx context.Context, ownerID uuid.UUID, customer entity.Entity) error {
	fields, err := json.Marshal(customer.Fields)
	if err != nil {
		return fmt.Errorf("marshal customer fields: %w", err)
	}
	rec := CustomerRecord{ID: customer.ID, OwnerID: ownerID, Fields: fields}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "fields", "updated_at"}),
	}).Create(&rec).Error
}

func (s *PostgresStore) DeleteCustomer(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&CustomerRecord{}, "id = ?", id).Error
}

func (s *PostgresStore) UpsertItem(ctx context.Context, ownerID uuid.UUID, item entity.Entity) error {
	fields, err := json.Marshal(item.Fields)
	if err != nil {
		return fmt.Errorf("marshal item fields: %w", err)
	}
	rec := ItemRecord{ID: item.ID, OwnerID: ownerID, Fields: fields}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "fields", "updated_at"}),
	}).Create(&rec).Error
}

func (s *PostgresStore) DeleteItem(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&ItemRecord{}, "id = ?", id).Error
}

func (s *PostgresStore) UpsertBill(ctx context.Context, ownerID uuid.UUID, bill entity.Bill) error {
	rows, err := json.Marshal(bill.Rows)
	if err != nil {
		return fmt.Errorf("marshal bill rows: %w", err)
	}
	payments, err := json.Marshal(bill.Payments)
	if err != nil {
		return fmt.Errorf("marshal bill payments: %w", err)
	}
	rec := BillRecord{
		ID:          bill.ID,
		OwnerID:     ownerID,
		Num:         bill.Num,
		Rows:        rows,
		Customer:    bill.Customer,
		SavedAt:     bill.SavedAt,
		TotalAmount: bill.TotalAmount,
		Payments:    payments,
		Amount:      bill.Amount,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"owner_id", "num", "rows", "customer", "saved_at",
			"total_amount", "payments", "amount", "updated_at",
		}),
	}).Create(&rec).Error
}

func (s *PostgresStore) DeleteBill(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&BillRecord{}, "id = ?", id).Error
}

func (s *PostgresStore) FetchAll(ctx context.Context, ownerID uuid.UUID) (*Snapshot, error) {
	var customerRecs []CustomerRecord
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&customerRecs).Error; err != nil {
		return nil, err
	}

	var itemRecs []ItemRecord
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&itemRecs).Error; err != nil {
		return nil, err
	}

	var billRecs []BillRecord
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("saved_at ASC").
		Find(&billRecs).Error; err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	for _, rec := range customerRecs {
		e, err := decodeEntity(rec.ID, rec.Fields)
		if err != nil {
			return nil, fmt.Errorf("decode customer %s: %w", rec.ID, err)
		}
		snap.Customers = append(snap.Customers, e)
	}
	for _, rec := range itemRecs {
		e, err := decodeEntity(rec.ID, rec.Fields)
		if err != nil {
			return nil, fmt.Errorf("decode item %s: %w", rec.ID, err)
		}
		snap.Items = append(snap.Items, e)
	}
	for _, rec := range billRecs {
		b, err := decodeBill(rec)
		if err != nil {
			return nil, fmt.Errorf("decode bill %s: %w", rec.ID, err)
		}
		snap.Bills = append(snap.Bills, b)
	}
	return snap, nil
}

func decodeEntity(id string, raw json.RawMessage) (entity.Entity, error) {
	var fields []entity.Field
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return entity.Entity{}, err
		}
	}
	return entity.Entity{ID: id, Fields: fields}, nil
}

func decodeBill(rec BillRecord) (entity.Bill, error) {
	var rows []entity.BillRow
	if len(rec.Rows) > 0 {
		if err := json.Unmarshal(rec.Rows, &rows); err != nil {
			return entity.Bill{}, err
		}
	}
	var payments []entity.PaymentEntry
	if len(rec.Payments) > 0 {
		if err := json.Unmarshal(rec.Payments, &payments); err != nil {
			return entity.Bill{}, err
		}
	}
	return entity.Bill{
		ID:          rec.ID,
		Num:         rec.Num,
		Status:      enum.BillStatusArchived,
		Rows:        rows,
		Customer:    rec.Customer,
		SavedAt:     rec.SavedAt,
		TotalAmount: rec.TotalAmount,
		Payments:    payments,
		Amount:      rec.Amount,
	}, nil
}
