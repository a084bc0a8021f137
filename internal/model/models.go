package model

// All lists every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&SubCategory{},
		&CupSize{},
		&ClothingSize{},
		&BeltSize{},
		&UnderbustSize{},
		&Product{},
		&ProductImage{},
		&ProductConfiguration{},
		&ProductInfo{},
		&Cart{},
		&CartProduct{},
		&Wishlist{},
		&WishlistProduct{},
		&Order{},
		&OrderItem{},
	}
}
