package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses. pending -> paid -> fulfilled, with pending -> cancelled
// and paid -> refunded as terminal branches.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusFulfilled = "fulfilled"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)

// Payment statuses. pending is transient, succeeded/failed are terminal.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

type User struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TgID       int64     `gorm:"uniqueIndex;not null"     json:"tg_id"`
	FullName   string    `json:"full_name"`
	Username   string    `json:"username"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	IsVerified bool      `gorm:"default:false"            json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// Product prices are integer minor currency units.
type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"not null"                 json:"title"`
	Description string `json:"description"`
	Price       int64  `gorm:"not null"                 json:"price"`
	Currency    string `gorm:"not null;default:EUR"     json:"currency"`
	PhotoURL    string `json:"photo_url"`
	IsActive    bool   `gorm:"default:true"             json:"is_active"`
}

// Cart is the single open cart of a user. The unique index on user_id keeps
// concurrent get-or-create calls from producing two carts.
type Cart struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                            json:"id"`
	CartID    uint `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uint `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Qty       uint `gorm:"default:1;check:qty>0"                 json:"qty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Order is immutable once created; Amount always equals the sum of
// Qty*Price over its items.
type Order struct {
	ID        uint        `gorm:"primaryKey"               json:"id"`
	Ref       string      `gorm:"uniqueIndex;not null"     json:"ref"`
	UserID    uint        `gorm:"index;not null"           json:"user_id"`
	Amount    int64       `gorm:"not null"                 json:"amount"`
	Currency  string      `gorm:"not null;default:EUR"     json:"currency"`
	Status    string      `gorm:"not null;default:pending" json:"status"`
	Address   string      `json:"address"`
	Note      string      `json:"note"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID"       json:"items,omitempty"`
}

// Ref is the public token handed to the payment gateway as invoice payload.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Ref == "" {
		o.Ref = uuid.NewString()
	}
	return nil
}

// OrderItem freezes the unit price at the time of purchase.
type OrderItem struct {
	ID        uint  `gorm:"primaryKey"           json:"id"`
	OrderID   uint  `gorm:"index;not null"       json:"order_id"`
	ProductID uint  `gorm:"not null"             json:"product_id"`
	Qty       uint  `gorm:"not null;check:qty>0" json:"qty"`
	Price     int64 `gorm:"not null"             json:"price"`
}

// Payment is one provider callback attempt for an order. Retries create new
// rows; the unique index on (provider, provider_charge_id) is the idempotency
// backstop enforced by the database.
type Payment struct {
	ID               uint      `gorm:"primaryKey"                               json:"id"`
	OrderID          uint      `gorm:"index;not null"                           json:"order_id"`
	Provider         string    `gorm:"uniqueIndex:idx_provider_charge;not null" json:"provider"`
	ProviderChargeID string    `gorm:"uniqueIndex:idx_provider_charge;not null" json:"provider_charge_id"`
	TelegramChargeID string    `json:"telegram_charge_id"`
	Payload          string    `json:"payload"`
	Status           string    `gorm:"not null;default:pending"                 json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// EmailOTP stores only a bcrypt hash of the code, never the cleartext.
type EmailOTP struct {
	ID        uint      `gorm:"primaryKey"                        json:"id"`
	UserID    uint      `gorm:"index:idx_otp_user_email;not null" json:"user_id"`
	Email     string    `gorm:"index:idx_otp_user_email;not null" json:"email"`
	CodeHash  string    `gorm:"not null"                          json:"-"`
	ExpiresAt time.Time `gorm:"not null"                          json:"expires_at"`
	Used      bool      `gorm:"default:false"                     json:"used"`
}

func (EmailOTP) TableName() string {
	return "email_otps"
}

// ContentSection and ContentPhoto are opaque presentation blobs edited by
// the bot layer; the engine stores them verbatim and never reads them.
type ContentSection struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ContentPhoto struct {
	ID         uint   `gorm:"primaryKey"     json:"id"`
	SectionKey string `gorm:"index;not null" json:"section_key"`
	FileID     string `gorm:"not null"       json:"file_id"`
	SortOrder  int    `gorm:"default:0"      json:"sort_order"`
}
