package admin

import (
	"context"

	"flowershop-bot/internal/logging"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/search"
)

// The search index trails the store best-effort: a failed index write is
// logged and the catalog change stands.

func indexProducts(ctx context.Context, svc *search.Service, products []models.Product) {
	if svc == nil {
		return
	}
	for _, p := range products {
		if err := svc.IndexProduct(ctx, p); err != nil {
			logging.FromContext(ctx).Error("product index failed", "product", p.ID, "error", err)
		}
	}
}

func removeProducts(ctx context.Context, svc *search.Service, ids []uint) {
	if svc == nil {
		return
	}
	for _, id := range ids {
		if err := svc.RemoveProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("product deindex failed", "product", id, "error", err)
		}
	}
}
