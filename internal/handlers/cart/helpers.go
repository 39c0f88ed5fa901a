// Package cart implements the cart and order handlers: adding products,
// showing and clearing the cart, the checkout flow and the manager's
// accept/reject decisions.
package cart

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"flowershop-bot/internal/events"
	"flowershop-bot/internal/logging"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/session"
)

// UserCartCity resolves the single city the user's cart belongs to. Returns
// nil when the cart is empty. Any cart row works as the source: the
// one-city invariant makes them equivalent.
func UserCartCity(db *gorm.DB, userID int64) (*models.City, error) {
	var city models.City
	err := db.Table("cart_items").
		Select("cities.id AS id, cities.name AS name").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Joins("JOIN cities ON cities.id = products.city_id").
		Where("cart_items.user_id = ?", userID).
		Limit(1).
		Scan(&city).Error
	if err != nil {
		return nil, fmt.Errorf("cart city: %w", err)
	}
	if city.ID == 0 {
		return nil, nil
	}
	return &city, nil
}

// cartLines loads the user's cart joined with product and city data, in the
// shape the checkout snapshot uses.
func cartLines(db *gorm.DB, userID int64) ([]session.OrderLine, error) {
	var lines []session.OrderLine
	err := db.Table("cart_items").
		Select("cart_items.product_id AS product_id, cart_items.quantity AS quantity, " +
			"products.name AS name, products.price AS price, cities.name AS city").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Joins("JOIN cities ON cities.id = products.city_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.added_at DESC").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("cart lines: %w", err)
	}
	return lines, nil
}

func publish(ctx context.Context, p *events.Producer, topic string, userID int64, event map[string]any) {
	if err := p.PublishEvent(ctx, topic, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "topic", topic, "error", err)
	}
}
