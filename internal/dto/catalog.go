package dto

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type SubCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	CategoryID  *uint  `json:"categoryId" validate:"omitempty,gt=0"`
}

type SizeRequest struct {
	Size string `json:"size" validate:"required,max=20"`
}
