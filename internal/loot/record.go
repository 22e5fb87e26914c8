package loot

import "github.com/james-harris851b/Loot-Table-FHE/internal/codec"

// Record is the canonical loot item used by the catalog and the CLI.
// The drop rate is carried in its encoded form; Tier is computed from the
// plain value at write time and stored alongside for display.
type Record struct {
	Key       string
	Name      string
	Category  Category
	DropRate  codec.Token
	Tier      Tier
	Owner     string
	CreatedAt int64 // unix seconds, set once at creation
}

// Category of a loot item. The set is fixed by the catalog schema.
type Category string

const (
	CategoryWeapon     Category = "weapon"
	CategoryArmor      Category = "armor"
	CategoryConsumable Category = "consumable"
	CategoryMaterial   Category = "material"
	CategoryAccessory  Category = "accessory"

	// CategoryAll is a filter sentinel, never stored on a record.
	CategoryAll Category = "all"
)

// Categories lists the storable categories in display order.
func Categories() []Category {
	return []Category{
		CategoryWeapon,
		CategoryArmor,
		CategoryConsumable,
		CategoryMaterial,
		CategoryAccessory,
	}
}

// ValidCategory reports whether c may be stored on a record.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryWeapon, CategoryArmor, CategoryConsumable, CategoryMaterial, CategoryAccessory:
		return true
	}
	return false
}
