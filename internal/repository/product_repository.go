package repository

import (
	"context"
	"strings"

	"shop-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Relation names a product many-to-many membership set
type Relation string

const (
	RelationSubCategories  Relation = "sub_categories"
	RelationCupSizes       Relation = "cup_sizes"
	RelationClothingSizes  Relation = "clothing_sizes"
	RelationBeltSizes      Relation = "belt_sizes"
	RelationUnderbustSizes Relation = "underbust_sizes"
)

type relationTables struct {
	lookup string
	join   string
	column string
}

var relations = map[Relation]relationTables{
	RelationSubCategories:  {"sub_categories", "product_sub_categories", "sub_category_id"},
	RelationCupSizes:       {"cup_sizes", "product_cup_sizes", "cup_size_id"},
	RelationClothingSizes:  {"clothing_sizes", "product_clothing_sizes", "clothing_size_id"},
	RelationBeltSizes:      {"belt_sizes", "product_belt_sizes", "belt_size_id"},
	RelationUnderbustSizes: {"underbust_sizes", "product_underbust_sizes", "underbust_size_id"},
}

// Memberships maps a relation to the full id list it should contain
type Memberships map[Relation][]uint

// ProductFilter is the resolved listing query. Limit 0 means no limit.
type ProductFilter struct {
	Name           string
	SKU            string
	CategoryID     uint
	SubCategoryIDs []uint
	SortColumn     string
	Desc           bool
	Offset         int
	Limit          int
}

type ProductRepository interface {
	List(ctx context.Context, f ProductFilter) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindDetail(ctx context.Context, id uint) (*model.Product, error)
	FindWithConfigurations(ctx context.Context, id uint) (*model.Product, error)
	FindWithImages(ctx context.Context, id uint) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Product, error)
	SKUExists(ctx context.Context, sku string, excludeID uint) (bool, error)
	Create(ctx context.Context, p *model.Product, m Memberships) error
	Update(ctx context.Context, p *model.Product, m Memberships) error
	Delete(ctx context.Context, id uint) (bool, error)

	ListConfigurations(ctx context.Context, productID uint) ([]model.ProductConfiguration, error)
	FindConfiguration(ctx context.Context, id uint) (*model.ProductConfiguration, error)
	ConfigurationSKUExists(ctx context.Context, sku string, excludeID uint) (bool, error)
	CreateConfiguration(ctx context.Context, c *model.ProductConfiguration) error
	UpdateConfiguration(ctx context.Context, c *model.ProductConfiguration) error
	DeleteConfiguration(ctx context.Context, id uint) (bool, error)

	AddInfo(ctx context.Context, info *model.ProductInfo) error
	DeleteInfo(ctx context.Context, productID, infoID uint) (bool, error)

	AddImages(ctx context.Context, productID uint, filenames []string) error
	ReplaceImage(ctx context.Context, imageID uint, filename string) error
	DeleteImage(ctx context.Context, imageID uint) error
	DeleteImages(ctx context.Context, productID uint) error
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern builds a LIKE pattern matching s literally as a substring
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *GormProductRepository) filtered(ctx context.Context, f ProductFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if f.Name != "" {
		q = q.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(f.Name))
	}
	if f.SKU != "" {
		q = q.Where(`LOWER(sku) LIKE LOWER(?) ESCAPE '\'`, containsPattern(f.SKU))
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if len(f.SubCategoryIDs) > 0 {
		sub := r.db.Table("product_sub_categories").Select("product_id").Where("sub_category_id IN ?", f.SubCategoryIDs)
		q = q.Where("id IN (?)", sub)
	}
	return q
}

// List returns the page of products matching f and the total match count
func (r *GormProductRepository) List(ctx context.Context, f ProductFilter) ([]model.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column := f.SortColumn
	if column == "" {
		column = "id"
	}
	q := r.filtered(ctx, f).
		Preload("Category").
		Preload("SubCategories", orderByID).
		Preload("Images", orderByID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: f.Desc})
	if column != "id" {
		q = q.Order("id")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		if f.Limit <= 0 {
			// OFFSET needs a LIMIT on some dialects
			q = q.Limit(int(total))
		}
		q = q.Offset(f.Offset)
	}

	products := []model.Product{}
	if err := q.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	return first[model.Product](r.db.WithContext(ctx).Where("id = ?", id))
}

// FindDetail loads the product with every association
func (r *GormProductRepository) FindDetail(ctx context.Context, id uint) (*model.Product, error) {
	return first[model.Product](r.db.WithContext(ctx).
		Preload("Category").
		Preload("SubCategories", orderByID).
		Preload("CupSizes", orderByID).
		Preload("ClothingSizes", orderByID).
		Preload("BeltSizes", orderByID).
		Preload("UnderbustSizes", orderByID).
		Preload("Images", orderByID).
		Preload("Configurations", orderByID).
		Preload("Info", orderByID).
		Where("id = ?", id))
}

func (r *GormProductRepository) FindWithConfigurations(ctx context.Context, id uint) (*model.Product, error) {
	return first[model.Product](r.db.WithContext(ctx).Preload("Configurations", orderByID).Where("id = ?", id))
}

func (r *GormProductRepository) FindWithImages(ctx context.Context, id uint) (*model.Product, error) {
	return first[model.Product](r.db.WithContext(ctx).Preload("Images", orderByID).Where("id = ?", id))
}

func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Product, error) {
	products := []model.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Images", orderByID).
		Preload("Configurations", orderByID).
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error
	return products, err
}

func (r *GormProductRepository) SKUExists(ctx context.Context, sku string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("sku = ?", sku)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return exists(q)
}

// Create inserts the product, its info blocks and its membership sets
func (r *GormProductRepository) Create(ctx context.Context, p *model.Product, m Memberships) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		info := p.Info
		p.Info = nil
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return translate(err)
		}
		for i := range info {
			info[i].ProductID = p.ID
		}
		if len(info) > 0 {
			if err := tx.Create(&info).Error; err != nil {
				return err
			}
		}
		p.Info = info
		return setMemberships(ctx, tx, p.ID, m)
	})
}

// Update saves scalar fields and replaces the given membership sets
func (r *GormProductRepository) Update(ctx context.Context, p *model.Product, m Memberships) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(p).Error; err != nil {
			return translate(err)
		}
		return setMemberships(ctx, tx, p.ID, m)
	})
}

func setMemberships(ctx context.Context, tx *gorm.DB, productID uint, m Memberships) error {
	for rel, ids := range m {
		t, ok := relations[rel]
		if !ok {
			continue
		}
		ids = uniqueIDs(ids)
		if err := checkIDs(ctx, tx, t.lookup, ids); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM "+t.join+" WHERE product_id = ?", productID).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			continue
		}
		rows := make([]map[string]interface{}, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, map[string]interface{}{"product_id": productID, t.column: id})
		}
		if err := tx.Table(t.join).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the product with its images, configurations, info blocks,
// membership rows and any cart or wishlist lines referencing it
func (r *GormProductRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&model.CartProduct{},
			&model.WishlistProduct{},
			&model.ProductImage{},
			&model.ProductConfiguration{},
			&model.ProductInfo{},
		}
		for _, d := range dependents {
			if err := tx.Where("product_id = ?", id).Delete(d).Error; err != nil {
				return err
			}
		}
		for _, t := range relations {
			if err := tx.Exec("DELETE FROM "+t.join+" WHERE product_id = ?", id).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.Product{})
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

func (r *GormProductRepository) ListConfigurations(ctx context.Context, productID uint) ([]model.ProductConfiguration, error) {
	configs := []model.ProductConfiguration{}
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&configs).Error
	return configs, err
}

func (r *GormProductRepository) FindConfiguration(ctx context.Context, id uint) (*model.ProductConfiguration, error) {
	return first[model.ProductConfiguration](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormProductRepository) ConfigurationSKUExists(ctx context.Context, sku string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.ProductConfiguration{}).Where("sku = ?", sku)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return exists(q)
}

func (r *GormProductRepository) CreateConfiguration(ctx context.Context, c *model.ProductConfiguration) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *GormProductRepository) UpdateConfiguration(ctx context.Context, c *model.ProductConfiguration) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

// DeleteConfiguration also drops cart lines that selected it
func (r *GormProductRepository) DeleteConfiguration(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_configuration_id = ?", id).Delete(&model.CartProduct{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.ProductConfiguration{})
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

func (r *GormProductRepository) AddInfo(ctx context.Context, info *model.ProductInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

func (r *GormProductRepository) DeleteInfo(ctx context.Context, productID, infoID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND product_id = ?", infoID, productID).Delete(&model.ProductInfo{})
	return res.RowsAffected > 0, res.Error
}

func (r *GormProductRepository) AddImages(ctx context.Context, productID uint, filenames []string) error {
	if len(filenames) == 0 {
		return nil
	}
	images := make([]model.ProductImage, 0, len(filenames))
	for _, name := range filenames {
		images = append(images, model.ProductImage{ProductID: productID, Filename: name})
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *GormProductRepository) ReplaceImage(ctx context.Context, imageID uint, filename string) error {
	return r.db.WithContext(ctx).Model(&model.ProductImage{}).Where("id = ?", imageID).Update("filename", filename).Error
}

func (r *GormProductRepository) DeleteImage(ctx context.Context, imageID uint) error {
	return r.db.WithContext(ctx).Where("id = ?", imageID).Delete(&model.ProductImage{}).Error
}

func (r *GormProductRepository) DeleteImages(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error
}
