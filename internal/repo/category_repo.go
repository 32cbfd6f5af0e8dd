package repo

import (
	"context"

	"deliciousbites/internal/models"
)

// Categories меню по категориям в порядке первого появления (по id)
func (r *MenuRepo) Categories(ctx context.Context) ([]models.Category, error) {
	items, err := r.AllItems(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(items), nil
}

func GroupByCategory(items []models.MenuItem) []models.Category {
	var categories []models.Category
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(categories)
			index[item.Category] = i
			categories = append(categories, models.Category{Name: item.Category})
		}
		categories[i].Items = append(categories[i].Items, item)
	}
	return categories
}
