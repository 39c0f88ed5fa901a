// Package transport wires conversation handlers into the dispatcher and
// hosts the webhook bridge to the chat relay.
package transport

import (
	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/dispatcher"
	"flowershop-bot/internal/handlers"
	"flowershop-bot/internal/handlers/admin"
	"flowershop-bot/internal/handlers/cart"
	"flowershop-bot/internal/session"
)

type Deps struct {
	StartHandler    *handlers.StartHandler
	CatalogHandler  *handlers.CatalogHandler
	SearchHandler   *handlers.SearchHandler
	FeedbackHandler *handlers.FeedbackHandler
	CartHandler     *cart.CartHandler
	OrderHandler    *cart.OrderHandler
	DecisionHandler *cart.DecisionHandler
	PanelHandler    *admin.PanelHandler
	CityHandler     *admin.CityHandler
	ProductHandler  *admin.ProductHandler
	TermsHandler    *admin.TermsHandler
}

// Register binds every command, callback verb and waypoint to its handler.
func Register(d *dispatcher.Dispatcher, deps *Deps) {
	d.Command("start", deps.StartHandler.Start)
	d.Command("admin", deps.PanelHandler.Panel)

	d.Callback(chat.VerbTermsAccept, deps.StartHandler.AcceptTerms)
	d.Callback(chat.VerbTermsDecline, deps.StartHandler.DeclineTerms)
	d.Callback(chat.VerbBackToMain, deps.StartHandler.BackToMain)

	d.Callback(chat.VerbMainOrder, deps.CatalogHandler.MainOrder)
	d.Callback(chat.VerbCityConflict, deps.CatalogHandler.CityConflict)
	d.Callback(chat.VerbCity, deps.CatalogHandler.SelectCity)

	d.Callback(chat.VerbMainSearch, deps.SearchHandler.Start)
	d.Text(session.WaypointSearch, deps.SearchHandler.Query)

	d.Callback(chat.VerbMainFeedback, deps.FeedbackHandler.Start)
	d.Text(session.WaypointFeedback, deps.FeedbackHandler.Receive)

	d.Callback(chat.VerbMainCart, deps.CartHandler.Show)
	d.Callback(chat.VerbCartClear, deps.CartHandler.Clear)
	d.Callback(chat.VerbAddToCart, deps.CartHandler.Add)
	d.Text(session.WaypointCartQuantity, deps.CartHandler.Quantity)

	d.Callback(chat.VerbCartCheckout, deps.OrderHandler.Checkout)
	d.Callback(chat.VerbBuy, deps.OrderHandler.BuyNow)
	d.Text(session.WaypointCheckoutPhone, deps.OrderHandler.Phone)
	d.Text(session.WaypointCheckoutArea, deps.OrderHandler.Area)
	d.Text(session.WaypointCheckoutComment, deps.OrderHandler.Comment)

	d.Callback(chat.VerbOrderAccept, deps.DecisionHandler.Accept)
	d.Callback(chat.VerbOrderReject, deps.DecisionHandler.Reject)
	d.Text(session.WaypointAcceptMessage, deps.DecisionHandler.AcceptText)
	d.Text(session.WaypointRejectReason, deps.DecisionHandler.RejectText)

	d.Callback(chat.VerbAdminAddCity, deps.CityHandler.AddStart)
	d.Text(session.WaypointCityName, deps.CityHandler.AddName)
	d.CallbackIn(chat.VerbCopyFrom, session.WaypointCityCopy, deps.CityHandler.CopyFrom)
	d.CallbackIn(chat.VerbNoCopy, session.WaypointCityCopy, deps.CityHandler.NoCopy)
	d.Callback(chat.VerbAdminEditCity, deps.CityHandler.EditStart)
	d.Callback(chat.VerbEditCity, deps.CityHandler.EditChoose)
	d.Text(session.WaypointCityRename, deps.CityHandler.EditName)
	d.Callback(chat.VerbAdminDeleteCity, deps.CityHandler.DeleteStart)
	d.Callback(chat.VerbDeleteCity, deps.CityHandler.Delete)

	d.Callback(chat.VerbAdminAddProduct, deps.ProductHandler.AddStart)
	d.CallbackIn(chat.VerbCitySelect, session.WaypointProductCities, deps.ProductHandler.ToggleCity)
	d.CallbackIn(chat.VerbCitiesConfirmed, session.WaypointProductCities, deps.ProductHandler.ConfirmCities)
	d.Photo(session.WaypointProductPhoto, deps.ProductHandler.Photo)
	d.Text(session.WaypointProductName, deps.ProductHandler.Name)
	d.Text(session.WaypointProductDescription, deps.ProductHandler.Description)
	d.Text(session.WaypointProductPrice, deps.ProductHandler.Price)

	d.Callback(chat.VerbAdminEditProduct, deps.ProductHandler.EditStart)
	d.Callback(chat.VerbEditProduct, deps.ProductHandler.EditChoose)
	d.CallbackIn(chat.VerbField, session.WaypointProductField, deps.ProductHandler.EditField)
	d.Text(session.WaypointProductValue, deps.ProductHandler.EditValue)

	d.Callback(chat.VerbAdminDeleteProduct, deps.ProductHandler.DeleteStart)
	d.Callback(chat.VerbDeleteProduct, deps.ProductHandler.DeleteChoose)
	d.CallbackIn(chat.VerbDelCitySelect, session.WaypointProductDelete, deps.ProductHandler.ToggleDeleteCity)
	d.CallbackIn(chat.VerbConfirmDeletion, session.WaypointProductDelete, deps.ProductHandler.ConfirmDeletion)
	d.CallbackIn(chat.VerbDeleteAllCities, session.WaypointProductDelete, deps.ProductHandler.DeleteAll)

	d.Callback(chat.VerbAdminCreateTerms, deps.TermsHandler.Start)
	d.Text(session.WaypointTermsContent, deps.TermsHandler.Receive)
}
