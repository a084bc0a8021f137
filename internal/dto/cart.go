package dto

// CartItemRequest is the body of add-to-cart and cart line updates
type CartItemRequest struct {
	Quantity        int   `json:"quantity" validate:"min=1,max=99"`
	ConfigurationID *uint `json:"configurationId" validate:"omitempty,gt=0"`
	BeltSizeID      *uint `json:"beltSizeId" validate:"omitempty,gt=0"`
	ClothingSizeID  *uint `json:"clothingSizeId" validate:"omitempty,gt=0"`
	CupSizeID       *uint `json:"cupSizeId" validate:"omitempty,gt=0"`
}
