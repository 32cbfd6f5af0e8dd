package repo

import (
	"encoding/json"
	"fmt"

	"deliciousbites/internal/models"
)

// позиции заказа лежат в колонке items как json

func encodeItems(items []models.CartEntry) (string, error) {
	if items == nil {
		items = []models.CartEntry{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode order items: %w", err)
	}
	return string(data), nil
}

func decodeItems(raw string) ([]models.CartEntry, error) {
	items := []models.CartEntry{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return items, nil
}
