// Package domain defines the persistence models for protocols, document
// types, and the activity log. These types are mapped with GORM and form the
// core data layer of the protocol registry.
package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Protocol status values. Records persisted without a status are read as
// StatusActive (see Protocol.EffectiveStatus).
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// UnknownTimestamp marks a creation instant that could not be recovered from
// the stored value. It sorts before every real timestamp and never matches a
// calendar-day filter.
const UnknownTimestamp int64 = -1

// Protocol represents one logged delivery of documents from a lodge. Each
// protocol carries a sequential number unique within its year.
//
// Fields:
//   - ID: UUID primary key (char(36)), assigned by the store at creation.
//   - Number: PREFIX-YYYY-NNN, assigned once and never changed (unique index).
//   - Year: year component of Number; indexed for the allocator scan.
//   - ShopNumber / DeliveredBy: free text identifying the lodge and deliverer.
//   - DocumentTypeID: reference to DocumentType; deletion does not cascade.
//   - Quantity: number of delivered documents (>= 1).
//   - CreatedAt: epoch seconds, UnknownTimestamp when unrecoverable.
//   - DeletedAt: soft deletion marker; deleted numbers stay reserved.
type Protocol struct {
	ID             string         `json:"id"               gorm:"type:char(36);primaryKey"`
	Number         string         `json:"protocol_number"  gorm:"column:protocol_number;type:varchar(32);not null;uniqueIndex:ux_protocol_number"`
	Year           int            `json:"year"             gorm:"not null;index:idx_protocol_year"`
	ShopNumber     string         `json:"shop_number"      gorm:"type:varchar(64);not null;index"`
	DeliveredBy    string         `json:"delivered_by"     gorm:"type:varchar(255);not null"`
	DocumentTypeID uint           `json:"document_type_id" gorm:"not null;index"`
	Quantity       int            `json:"quantity"         gorm:"not null"`
	Observations   string         `json:"observations"     gorm:"type:text"`
	Status         string         `json:"status"           gorm:"type:varchar(16);not null;default:'active'"`
	CreatedBy      string         `json:"created_by"       gorm:"type:varchar(64);not null"`
	CreatedAt      int64          `json:"created_at"       gorm:"not null;index"`
	UpdatedBy      string         `json:"updated_by,omitempty"  gorm:"type:varchar(64)"`
	ArchivedBy     string         `json:"archived_by,omitempty" gorm:"type:varchar(64)"`
	ArchivedAt     *int64         `json:"archived_at,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"                gorm:"index"`
}

// TableName returns the database table name for Protocol.
func (Protocol) TableName() string { return "protocols" }

// EffectiveStatus returns the record status, treating an empty value as active.
func (p Protocol) EffectiveStatus() string {
	if s := strings.TrimSpace(p.Status); s != "" {
		return s
	}
	return StatusActive
}

// CreatedTime returns CreatedAt as a time.Time and false when it is unknown.
func (p Protocol) CreatedTime() (time.Time, bool) {
	if p.CreatedAt == UnknownTimestamp {
		return time.Time{}, false
	}
	return time.Unix(p.CreatedAt, 0), true
}

// DocumentType categorizes protocols. The abbreviation is always derived from
// the name and is recomputed before every save.
type DocumentType struct {
	ID           uint      `json:"id"           gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name"         gorm:"type:varchar(255);not null"`
	Abbreviation string    `json:"abbreviation" gorm:"type:varchar(8);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for DocumentType.
func (DocumentType) TableName() string { return "document_types" }

// BeforeSave keeps Abbreviation consistent with Name on every insert/update.
func (t *DocumentType) BeforeSave(tx *gorm.DB) error {
	t.Abbreviation = DeriveAbbreviation(t.Name)
	return nil
}

// Activity types recorded in the activity log.
const (
	ActivityCreate   = "create"
	ActivityEdit     = "edit"
	ActivityArchive  = "archive"
	ActivityDelete   = "delete"
	ActivitySettings = "settings"
	ActivityImport   = "import"
)

// ActivityLog is one entry of the registry's audit trail.
type ActivityLog struct {
	ID             string `json:"id"              gorm:"type:char(36);primaryKey"`
	Action         string `json:"action"          gorm:"type:varchar(255);not null"`
	Type           string `json:"type"            gorm:"type:varchar(16);not null;index"`
	Details        string `json:"details"         gorm:"type:text"`
	ProtocolNumber string `json:"protocol_number" gorm:"type:varchar(32);index"`
	UserID         string `json:"user_id"         gorm:"type:varchar(64);not null"`
	CreatedAt      int64  `json:"created_at"      gorm:"not null;index"`
}

// TableName returns the database table name for ActivityLog.
func (ActivityLog) TableName() string { return "activity_logs" }
