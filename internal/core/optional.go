package core

import "encoding/json"

// OptString is a patch field that distinguishes "absent" from "set to null"
// in partial-update payloads.
type OptString struct {
	Set   bool
	Value *string
}

func (o *OptString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptString) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// OptInt64 is the int64 counterpart of OptString.
type OptInt64 struct {
	Set   bool
	Value *int64
}

func (o *OptInt64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	o.Value = &n
	return nil
}

func (o OptInt64) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// VendorPatch is a partial vendor update. Nil / unset fields are left
// untouched; contact_info and address may be set to null explicitly.
type VendorPatch struct {
	Name        *string   `json:"name"`
	ContactInfo OptString `json:"contact_info"`
	Address     OptString `json:"address"`
}

func (p VendorPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// Empty reports whether the patch touches no field.
func (p VendorPatch) Empty() bool {
	return p.Name == nil && !p.ContactInfo.Set && !p.Address.Set
}

// ItemPatch is a partial item update; vendor_id may be set to null to detach
// the item from its vendor.
type ItemPatch struct {
	Name     *string  `json:"name"`
	Unit     *Unit    `json:"unit"`
	VendorID OptInt64 `json:"vendor_id"`
}

func (p ItemPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return ErrEmptyName
	}
	if p.Unit != nil && !p.Unit.Valid() {
		return ErrInvalidUnit
	}
	if p.VendorID.Set && p.VendorID.Value != nil && *p.VendorID.Value <= 0 {
		return ErrInvalidVendorID
	}
	return nil
}

// Empty reports whether the patch touches no field.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Unit == nil && !p.VendorID.Set
}
