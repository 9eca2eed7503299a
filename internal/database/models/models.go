package models

import "time"

// Order statuses. Transitions between them are owned by the orders service.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCancelled = "cancelled"
)

const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeaway = "takeaway"
)

// Printer destinations, also used as menu category routing targets.
const (
	DestinationKitchen = "kitchen"
	DestinationBar     = "bar"
	DestinationReceipt = "receipt"
)

const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
	TableStatusReserved  = "reserved"
	TableStatusCleaning  = "cleaning"
)

const (
	RoleWaiter  = "waiter"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

const (
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
	ReservationStatusNoShow    = "no_show"
)

type User struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Username   string `gorm:"type:varchar(80);uniqueIndex;not null"`
	Email      string `gorm:"type:varchar(120);uniqueIndex;not null"`
	Password   string `gorm:"not null"`
	Firstname  string `gorm:"type:varchar(50);not null"`
	Lastname   string `gorm:"type:varchar(50);not null"`
	Role       string `gorm:"type:varchar(20);not null;default:'waiter';index"`
	LocationID *int64 `gorm:"index"`
	IsActive   bool   `gorm:"not null;default:true"`
	LastLogin  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Location *Location `gorm:"foreignKey:LocationID"`
}

type Location struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	DisplayName string  `gorm:"type:varchar(100);not null"`
	Description *string `gorm:"type:text"`
	Address     *string `gorm:"type:text"`
	IsActive    bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tables []Table `gorm:"foreignKey:LocationID"`
}

type Table struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	TableNumber string `gorm:"type:varchar(10);not null;index:idx_table_number_location,unique,composite:table_number"`
	LocationID  int64  `gorm:"not null;index:idx_table_number_location,unique,composite:location_id"`
	Capacity    int32  `gorm:"not null;default:4"`
	Status      string `gorm:"type:varchar(20);not null;default:'available';index"`
	XPosition   int32  `gorm:"not null;default:0"`
	YPosition   int32  `gorm:"not null;default:0"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Location *Location `gorm:"foreignKey:LocationID"`
	Orders   []Order   `gorm:"foreignKey:TableID"`
}

type MenuCategory struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"type:varchar(100);not null;index"`
	Description *string `gorm:"type:text"`
	SortOrder   int32   `gorm:"not null;default:0"`
	// PrinterDestination routes this category's items at print time.
	// Empty means no destination; the dispatcher falls back to the
	// configured default.
	PrinterDestination string `gorm:"type:varchar(50);index"`
	IsActive           bool   `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	MenuItems []MenuItem `gorm:"foreignKey:CategoryID"`
}

type MenuItem struct {
	ID                  int64   `gorm:"primaryKey;autoIncrement"`
	Name                string  `gorm:"type:varchar(100);not null;index"`
	Description         *string `gorm:"type:text"`
	Price               string  `gorm:"type:decimal(10,2);not null"`
	TakeawayPrice       *string `gorm:"type:decimal(10,2)"`
	CategoryID          int64   `gorm:"not null;index"`
	IsAvailable         bool    `gorm:"not null;default:true"`
	IsAvailableTakeaway bool    `gorm:"not null;default:true"`
	IsTakeawayOnly      bool    `gorm:"not null;default:false"`
	IsActive            bool    `gorm:"not null;default:true"`
	PreparationTime     int32   `gorm:"not null;default:15"`
	SortOrder           int32   `gorm:"not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Category       *MenuCategory   `gorm:"foreignKey:CategoryID"`
	LocationPrices []LocationPrice `gorm:"foreignKey:MenuItemID"`
}

// LocationPrice scopes a menu item's pricing and availability to one
// location and channel. When absent the item's base prices apply.
type LocationPrice struct {
	ID                  int64   `gorm:"primaryKey;autoIncrement"`
	MenuItemID          int64   `gorm:"not null;index:idx_location_price_item,unique,composite:menu_item_id"`
	LocationID          int64   `gorm:"not null;index:idx_location_price_item,unique,composite:location_id"`
	DineInPrice         *string `gorm:"type:decimal(10,2)"`
	TakeawayPrice       *string `gorm:"type:decimal(10,2)"`
	IsAvailable         bool    `gorm:"not null;default:true"`
	IsAvailableTakeaway bool    `gorm:"not null;default:true"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID"`
	Location *Location `gorm:"foreignKey:LocationID"`
}

type Order struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	OrderNumber string `gorm:"type:varchar(26);uniqueIndex;not null"`
	TableID     *int64 `gorm:"index"`
	UserID      int64  `gorm:"not null;index"`
	LocationID  *int64 `gorm:"index"`
	OrderType   string `gorm:"type:varchar(20);not null;default:'dine_in';index"`
	Status      string `gorm:"type:varchar(20);not null;default:'pending';index"`

	TotalAmount    string `gorm:"type:decimal(10,2);not null;default:'0.00'"`
	DiscountAmount string `gorm:"type:decimal(10,2);not null;default:'0.00'"`

	Notes        *string `gorm:"type:text"`
	CustomerName *string `gorm:"type:varchar(100)"`

	// Version guards status updates against concurrent writers.
	Version int64 `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Table  *Table      `gorm:"foreignKey:TableID"`
	Waiter *User       `gorm:"foreignKey:UserID"`
	Items  []OrderItem `gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	OrderID    int64 `gorm:"not null;index"`
	MenuItemID int64 `gorm:"not null;index"`
	Quantity   int32 `gorm:"not null;default:1"`
	// UnitPrice is the price snapshot taken at order time; it does not
	// follow later menu price changes.
	UnitPrice           string  `gorm:"type:decimal(10,2);not null"`
	TotalPrice          string  `gorm:"type:decimal(10,2);not null"`
	SpecialInstructions *string `gorm:"type:text"`
	CreatedAt           time.Time

	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID"`
}

// Reservation books a table for a customer at a point in time. Cancelling
// is a status change, never a delete, so the booking history survives.
type Reservation struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	TableID         int64     `gorm:"not null;index"`
	CustomerName    string    `gorm:"type:varchar(100);not null"`
	CustomerPhone   *string   `gorm:"type:varchar(20)"`
	CustomerEmail   *string   `gorm:"type:varchar(120)"`
	PartySize       int32     `gorm:"not null"`
	ReservationDate time.Time `gorm:"not null;index"`
	Status          string    `gorm:"type:varchar(20);not null;default:'confirmed';index"`
	Notes           *string   `gorm:"type:text"`
	CreatedBy       int64     `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Table   *Table `gorm:"foreignKey:TableID"`
	Creator *User  `gorm:"foreignKey:CreatedBy"`
}

type PrinterConfig struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(100);not null"`
	PrinterType string `gorm:"type:varchar(20);not null;index"`
	IPAddress   string `gorm:"type:varchar(45);not null"`
	Port        int32  `gorm:"not null;default:9100"`
	IsActive    bool   `gorm:"not null;default:true"`
	LocationID  *int64 `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Location *Location `gorm:"foreignKey:LocationID"`
}
