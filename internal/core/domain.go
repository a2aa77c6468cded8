package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// API clients expect plain JSON numbers for quantities.
	decimal.MarshalJSONWithoutQuotes = true
}

// Unit is the measurement unit of an item.
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "L"
	UnitMilliliter Unit = "ml"
	UnitPiece      Unit = "pcs"
)

// Units lists every valid unit, in catalogue order.
func Units() []Unit {
	return []Unit{UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece}
}

func (u Unit) Valid() bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece:
		return true
	}
	return false
}

// WeekStatus is the lifecycle state of a week plan.
type WeekStatus string

const (
	StatusDraft     WeekStatus = "Draft"
	StatusPublished WeekStatus = "Published"
	StatusClosed    WeekStatus = "Closed"
)

func (s WeekStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusClosed:
		return true
	}
	return false
}

// Date is a calendar date carried as YYYY-MM-DD on the wire.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var (
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidUnit     = errors.New("invalid unit")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidItemID   = errors.New("invalid item id")
	ErrInvalidVendorID = errors.New("invalid vendor id")
	ErrNegativeRSVP    = errors.New("rsvp must not be negative")
)

type (
	// Vendor is a supplier items can be bought from.
	Vendor struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		ContactInfo *string `json:"contact_info"`
		Address     *string `json:"address"`
	}

	// Item is a purchasable ingredient, as persisted.
	Item struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Unit     Unit   `json:"unit"`
		VendorID *int64 `json:"vendor_id"`
	}

	// ItemDetail is an item joined with its vendor name and on-hand quantity.
	ItemDetail struct {
		Item
		VendorName *string         `json:"vendor_name"`
		OnHand     decimal.Decimal `json:"on_hand"`
	}

	// Inventory tracks the on-hand quantity of a single item.
	Inventory struct {
		ItemID    int64           `json:"item_id"`
		OnHand    decimal.Decimal `json:"on_hand"`
		UpdatedAt time.Time       `json:"updated_at"`
	}

	// WeekPlan is a Monday-start seven-day planning unit.
	WeekPlan struct {
		ID        int64      `json:"id"`
		StartDate Date       `json:"start_date"`
		Status    WeekStatus `json:"status"`
	}

	// WeekDetail is a week plan with its day plans and requirements nested.
	WeekDetail struct {
		WeekPlan
		DayPlans     []DayPlan           `json:"day_plans"`
		Requirements []RequirementDetail `json:"weekly_requirements"`
	}

	// DayPlan is one calendar day within a week plan.
	DayPlan struct {
		ID         int64   `json:"id"`
		WeekPlanID int64   `json:"week_plan_id"`
		Date       Date    `json:"date"`
		Menu       *string `json:"menu"`
		RSVP       int     `json:"rsvp"`
	}

	// WeeklyRequirement is a planned quantity of an item for a given week.
	WeeklyRequirement struct {
		ID            int64            `json:"id"`
		WeekPlanID    int64            `json:"week_plan_id"`
		ItemID        int64            `json:"item_id"`
		RequiredQty   decimal.Decimal  `json:"required_qty"`
		ToBuyOverride *decimal.Decimal `json:"to_buy_override"`
		Notes         *string          `json:"notes"`
	}

	// RequirementDetail is a requirement with its item info nested for clients.
	RequirementDetail struct {
		WeeklyRequirement
		Item *ItemDetail `json:"item,omitempty"`
	}

	// ShoppingListRow is one line of the derived buy list for a week.
	ShoppingListRow struct {
		ItemID      int64           `json:"item_id"`
		ItemName    string          `json:"item_name"`
		Unit        Unit            `json:"unit"`
		VendorName  *string         `json:"vendor_name"`
		OnHand      decimal.Decimal `json:"on_hand"`
		RequiredQty decimal.Decimal `json:"required_qty"`
		ToBuy       decimal.Decimal `json:"to_buy"`
		Notes       *string         `json:"notes"`
	}
)

func (v Vendor) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if !i.Unit.Valid() {
		return ErrInvalidUnit
	}
	if i.VendorID != nil && *i.VendorID <= 0 {
		return ErrInvalidVendorID
	}
	return nil
}

func (p DayPlan) Validate() error {
	if p.Date.IsZero() {
		return ErrInvalidDate
	}
	if p.RSVP < 0 {
		return ErrNegativeRSVP
	}
	return nil
}

func (r WeeklyRequirement) Validate() error {
	if r.ItemID <= 0 {
		return ErrInvalidItemID
	}
	return nil
}
