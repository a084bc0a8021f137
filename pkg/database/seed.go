package database

import (
	"context"
	"fmt"

	"shop-service/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var seedCategories = []string{"Комплекты", "Бюстгальтеры", "Трусики", "Аксессуары"}

// subcategories keyed by the position of their category in seedCategories
var seedSubCategories = []struct {
	name     string
	category int
}{
	{"BESTSELLERS", 0},
	{"БАЗОВЫЕ КОМПЛЕКТЫ", 0},
	{"КРУЖЕВНОЕ БЕЛЬЕ", 0},
	{"ЧЕРНОЕ БЕЛЬЕ", 0},
	{"ТЕЛЕСНОЕ БЕЛЬЕ", 0},
	{"НЕЖНОЕ БЕЛЬЕ", 0},
	{"КРАСНОЕ БЕЛЬЕ", 0},
	{"БЕЛЬЕ ДЛЯ СВИДАНИЙ", 0},
	{"КЛАССИЧЕСКАЯ ЧАШКА", 1},
	{"УКОРОЧЕННАЯ ЧАШКА", 1},
	{"БАЛКОНЕТ", 1},
	{"КОРСЕТ", 1},
	{"СТРИНГИ", 2},
	{"СТРИНГИ НА РЕГУЛЯТОРАХ", 2},
	{"БРАЗИЛЬЯНО", 2},
	{"БРАЗИЛЬЯНО НА РЕГУЛЯТОРАХ", 2},
	{"ВЫСОКИЕ", 2},
	{"КРУЖЕВНЫЕ", 2},
	{"ПОЯСА", 3},
}

var seedLetterSizes = []string{"XS", "S", "M", "L"}

func seedCupSizes() []string {
	var out []string
	for _, band := range []string{"70", "75", "80", "85"} {
		for _, cup := range []string{"A", "B", "C", "D"} {
			out = append(out, band+cup)
		}
	}
	return out
}

func seedUnderbustSizes() []string {
	var out []string
	for band := 60; band <= 85; band += 5 {
		out = append(out, fmt.Sprintf("%d", band))
	}
	return out
}

// Seed fills the lookup tables. Each table is only seeded while it is empty,
// so running it repeatedly is safe.
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, err := seedCategoryRows(tx)
		if err != nil {
			return err
		}
		if err := seedSubCategoryRows(tx, categories); err != nil {
			return err
		}

		cups := make([]model.CupSize, 0, 16)
		for _, s := range seedCupSizes() {
			cups = append(cups, model.CupSize{Size: s})
		}
		if err := seedIfEmpty(tx, &model.CupSize{}, &cups); err != nil {
			return err
		}

		clothing := make([]model.ClothingSize, 0, len(seedLetterSizes))
		belts := make([]model.BeltSize, 0, len(seedLetterSizes))
		for _, s := range seedLetterSizes {
			clothing = append(clothing, model.ClothingSize{Size: s})
			belts = append(belts, model.BeltSize{Size: s})
		}
		if err := seedIfEmpty(tx, &model.ClothingSize{}, &clothing); err != nil {
			return err
		}
		if err := seedIfEmpty(tx, &model.BeltSize{}, &belts); err != nil {
			return err
		}

		var underbust []model.UnderbustSize
		for _, s := range seedUnderbustSizes() {
			underbust = append(underbust, model.UnderbustSize{Size: s})
		}
		if err := seedIfEmpty(tx, &model.UnderbustSize{}, &underbust); err != nil {
			return err
		}

		log.Info("Seed data ensured")
		return nil
	})
}

func seedCategoryRows(tx *gorm.DB) ([]model.Category, error) {
	var existing []model.Category
	if err := tx.Order("id").Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	// inserted one by one so the first category gets id 1
	rows := make([]model.Category, len(seedCategories))
	for i, name := range seedCategories {
		rows[i] = model.Category{Name: name}
		if err := tx.Create(&rows[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to seed category %q: %w", name, err)
		}
	}
	return rows, nil
}

func seedSubCategoryRows(tx *gorm.DB, categories []model.Category) error {
	var count int64
	if err := tx.Model(&model.SubCategory{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count sub categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	rows := make([]model.SubCategory, 0, len(seedSubCategories))
	for _, sc := range seedSubCategories {
		row := model.SubCategory{Name: sc.name}
		if sc.category < len(categories) {
			id := categories[sc.category].ID
			row.CategoryID = &id
		}
		rows = append(rows, row)
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed sub categories: %w", err)
	}
	return nil
}

func seedIfEmpty(tx *gorm.DB, table interface{}, rows interface{}) error {
	var count int64
	if err := tx.Model(table).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count %T: %w", table, err)
	}
	if count > 0 {
		return nil
	}
	if err := tx.Create(rows).Error; err != nil {
		return fmt.Errorf("failed to seed %T: %w", table, err)
	}
	return nil
}
