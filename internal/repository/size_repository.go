package repository

import (
	"context"
	"fmt"

	"shop-service/internal/model"

	"gorm.io/gorm"
)

type SizeRepository interface {
	ListAll(ctx context.Context) (*model.SizeList, error)
	List(ctx context.Context, kind model.SizeKind) ([]model.Size, error)
	Exists(ctx context.Context, kind model.SizeKind, id uint) (bool, error)
	Create(ctx context.Context, kind model.SizeKind, size string) (*model.Size, error)
	Delete(ctx context.Context, kind model.SizeKind, id uint) (bool, error)
}

// cart line column referencing each size kind; underbust is not selectable in carts
var cartSizeColumns = map[model.SizeKind]string{
	model.SizeKindCup:      "cup_size_id",
	model.SizeKindClothing: "clothing_size_id",
	model.SizeKindBelt:     "belt_size_id",
}

type GormSizeRepository struct {
	db *gorm.DB
}

func NewSizeRepository(db *gorm.DB) *GormSizeRepository {
	return &GormSizeRepository{db: db}
}

func (r *GormSizeRepository) ListAll(ctx context.Context) (*model.SizeList, error) {
	var out model.SizeList
	targets := []struct {
		kind model.SizeKind
		dst  *[]model.Size
	}{
		{model.SizeKindCup, &out.CupSizes},
		{model.SizeKindClothing, &out.ClothingSizes},
		{model.SizeKindBelt, &out.BeltSizes},
		{model.SizeKindUnderbust, &out.UnderbustSizes},
	}
	for _, t := range targets {
		sizes, err := r.List(ctx, t.kind)
		if err != nil {
			return nil, err
		}
		*t.dst = sizes
	}
	return &out, nil
}

func (r *GormSizeRepository) List(ctx context.Context, kind model.SizeKind) ([]model.Size, error) {
	table := kind.Table()
	if table == "" {
		return nil, fmt.Errorf("unknown size kind %q", kind)
	}
	sizes := []model.Size{}
	err := r.db.WithContext(ctx).Table(table).Select("id", "size").Order("id").Scan(&sizes).Error
	return sizes, err
}

func (r *GormSizeRepository) Exists(ctx context.Context, kind model.SizeKind, id uint) (bool, error) {
	table := kind.Table()
	if table == "" {
		return false, fmt.Errorf("unknown size kind %q", kind)
	}
	return exists(r.db.WithContext(ctx).Table(table).Where("id = ?", id))
}

func (r *GormSizeRepository) Create(ctx context.Context, kind model.SizeKind, size string) (*model.Size, error) {
	db := r.db.WithContext(ctx)
	var (
		id  uint
		err error
	)
	switch kind {
	case model.SizeKindCup:
		row := model.CupSize{Size: size}
		err = db.Create(&row).Error
		id = row.ID
	case model.SizeKindClothing:
		row := model.ClothingSize{Size: size}
		err = db.Create(&row).Error
		id = row.ID
	case model.SizeKindBelt:
		row := model.BeltSize{Size: size}
		err = db.Create(&row).Error
		id = row.ID
	case model.SizeKindUnderbust:
		row := model.UnderbustSize{Size: size}
		err = db.Create(&row).Error
		id = row.ID
	default:
		return nil, fmt.Errorf("unknown size kind %q", kind)
	}
	if err != nil {
		return nil, translate(err)
	}
	return &model.Size{ID: id, Size: size}, nil
}

// Delete removes the size from products and cart lines before dropping it
func (r *GormSizeRepository) Delete(ctx context.Context, kind model.SizeKind, id uint) (bool, error) {
	table := kind.Table()
	if table == "" {
		return false, fmt.Errorf("unknown size kind %q", kind)
	}
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		column := string(kind) + "_size_id"
		if err := tx.Exec("DELETE FROM "+kind.JoinTable()+" WHERE "+column+" = ?", id).Error; err != nil {
			return err
		}
		if cartColumn, ok := cartSizeColumns[kind]; ok {
			if err := tx.Where(cartColumn+" = ?", id).Delete(&model.CartProduct{}).Error; err != nil {
				return err
			}
		}
		res := tx.Exec("DELETE FROM "+table+" WHERE id = ?", id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}
