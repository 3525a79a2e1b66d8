package models

// EarlyAdopterSlots is a single-row counter that bounds how many merchants can
// claim the early-adopter privilege. Claims happen through a conditional
// UPDATE (claimed < capacity) so concurrent approvals cannot overrun the pool.
type EarlyAdopterSlots struct {
	ID       int `gorm:"primaryKey"`
	Capacity int `gorm:"column:capacity;not null"`
	Claimed  int `gorm:"column:claimed;not null;default:0"`
}

// TableName keeps the singular-row table from being pluralized oddly by GORM.
func (EarlyAdopterSlots) TableName() string {
	return "early_adopter_slots"
}
