package usecase

import (
	"context"

	"github.com/tinttrack/inventory-service/internal/inventory"
	"github.com/tinttrack/inventory-service/internal/model"
	"github.com/tinttrack/inventory-service/pkg/search"
	"go.uber.org/zap"
)

const itemsIndex = "inventory_items"

// itemsIndexMapping flattens field bag values into dedicated text fields
// for relevance plus a catch-all.
const itemsIndexMapping = `{
	"mappings": {
		"properties": {
			"category_id": { "type": "keyword" },
			"title": { "type": "text" },
			"brand": { "type": "text" },
			"product_line": { "type": "text" },
			"shade": { "type": "text" },
			"notes": { "type": "text" },
			"all_fields": { "type": "text" },
			"is_archived": { "type": "boolean" }
		}
	}
}`

// EnsureSearchIndex creates the item index at startup. A nil client means
// search is disabled and this is a no-op.
func EnsureSearchIndex(ctx context.Context, es *search.Client) error {
	if es == nil {
		return nil
	}
	return es.EnsureIndex(ctx, itemsIndex, itemsIndexMapping)
}

type itemDocument struct {
	CategoryID  string `json:"category_id,omitempty"`
	Title       string `json:"title"`
	Brand       string `json:"brand,omitempty"`
	ProductLine string `json:"product_line,omitempty"`
	Shade       string `json:"shade,omitempty"`
	Notes       string `json:"notes,omitempty"`
	AllFields   string `json:"all_fields"`
	IsArchived  bool   `json:"is_archived"`
}

func (uc *inventoryUseCase) syncToElastic(ctx context.Context, item *model.InventoryItem) {
	if uc.es == nil {
		return
	}

	all := ""
	for _, v := range item.Fields {
		if v == "" {
			continue
		}
		if all != "" {
			all += " "
		}
		all += v
	}

	doc := itemDocument{
		Title:       item.Title(),
		Brand:       item.Fields[model.FieldBrand],
		ProductLine: item.Fields[model.FieldProductLine],
		Shade:       item.Fields[model.FieldShade],
		Notes:       item.Fields[model.FieldNotes],
		AllFields:   all,
		IsArchived:  item.IsArchived,
	}
	if item.CategoryID != nil {
		doc.CategoryID = *item.CategoryID
	}

	if err := uc.es.Index(ctx, itemsIndex, item.ID, doc); err != nil {
		uc.logger.Warn("failed to sync item to elasticsearch",
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
	}
}

func (uc *inventoryUseCase) SearchItems(ctx context.Context, query string, limit int) ([]model.InventoryItem, error) {
	if uc.es == nil {
		return nil, inventory.ErrSearchUnavailable
	}
	if limit <= 0 {
		limit = 20
	}

	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"title^3", "brand^2", "shade^2", "product_line", "notes", "all_fields"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"is_archived": false},
				},
			},
		},
	}

	ids, err := uc.es.Search(ctx, itemsIndex, body)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.InventoryItem{}, nil
	}

	items, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Restore relevance order; the IN query returns rows in table order.
	byID := make(map[string]model.InventoryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	ordered := make([]model.InventoryItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			ordered = append(ordered, it)
		}
	}
	return ordered, nil
}
