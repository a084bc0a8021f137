package model

// Size dimensions share a shape but live in separate lookup tables so products
// and line items can reference each one independently.

type CupSize struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Size string `json:"size" gorm:"type:varchar(20);not null;uniqueIndex"`
}

type ClothingSize struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Size string `json:"size" gorm:"type:varchar(20);not null;uniqueIndex"`
}

type BeltSize struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Size string `json:"size" gorm:"type:varchar(20);not null;uniqueIndex"`
}

type UnderbustSize struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Size string `json:"size" gorm:"type:varchar(20);not null;uniqueIndex"`
}

// Size is the common projection used when a dimension is addressed by kind.
type Size struct {
	ID   uint   `json:"id"`
	Size string `json:"size"`
}

type SizeKind string

const (
	SizeKindCup       SizeKind = "cup"
	SizeKindClothing  SizeKind = "clothing"
	SizeKindBelt      SizeKind = "belt"
	SizeKindUnderbust SizeKind = "underbust"
)

// Table returns the lookup table backing the kind, or "" for unknown kinds.
func (k SizeKind) Table() string {
	switch k {
	case SizeKindCup:
		return "cup_sizes"
	case SizeKindClothing:
		return "clothing_sizes"
	case SizeKindBelt:
		return "belt_sizes"
	case SizeKindUnderbust:
		return "underbust_sizes"
	default:
		return ""
	}
}

// JoinTable returns the product many-to-many table for the kind.
func (k SizeKind) JoinTable() string {
	if t := k.Table(); t != "" {
		return "product_" + t
	}
	return ""
}

// SizeList groups every dimension for the public sizes endpoint
type SizeList struct {
	CupSizes       []Size `json:"cupSizes"`
	ClothingSizes  []Size `json:"clothingSizes"`
	BeltSizes      []Size `json:"beltSizes"`
	UnderbustSizes []Size `json:"underbustSizes"`
}
