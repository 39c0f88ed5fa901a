package session

// Customer flow states.

// QuantityPrompt waits for the 1..10 quantity after an add-to-cart press.
type QuantityPrompt struct {
	ProductID   uint
	ProductName string
}

func (QuantityPrompt) Waypoint() Waypoint { return WaypointCartQuantity }

// OrderLine is one snapshotted cart line. The snapshot is taken when
// checkout starts and is what gets finalized, even if the cart table
// changes underneath.
type OrderLine struct {
	ProductID uint
	Quantity  int
	Name      string
	Price     float64
	City      string
}

// OrderDraft is the cart snapshot (or single buy-now product) riding
// through the checkout steps.
type OrderDraft struct {
	Lines  []OrderLine
	Direct bool
}

func (d OrderDraft) Total() float64 {
	var total float64
	for _, l := range d.Lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

func (d OrderDraft) Units() int {
	var n int
	for _, l := range d.Lines {
		n += l.Quantity
	}
	return n
}

type CheckoutPhone struct {
	Draft OrderDraft
}

func (CheckoutPhone) Waypoint() Waypoint { return WaypointCheckoutPhone }

type CheckoutArea struct {
	Draft OrderDraft
	Phone string
}

func (CheckoutArea) Waypoint() Waypoint { return WaypointCheckoutArea }

type CheckoutComment struct {
	Draft OrderDraft
	Phone string
	Area  string
}

func (CheckoutComment) Waypoint() Waypoint { return WaypointCheckoutComment }

type FeedbackPrompt struct{}

func (FeedbackPrompt) Waypoint() Waypoint { return WaypointFeedback }

type SearchPrompt struct{}

func (SearchPrompt) Waypoint() Waypoint { return WaypointSearch }

// Manager decision states.

type AcceptMessage struct {
	OrderID     uint
	CustomerID  int64
	ProductName string
}

func (AcceptMessage) Waypoint() Waypoint { return WaypointAcceptMessage }

type RejectReason struct {
	OrderID     uint
	CustomerID  int64
	ProductName string
}

func (RejectReason) Waypoint() Waypoint { return WaypointRejectReason }

// Admin catalog states.

type CityName struct{}

func (CityName) Waypoint() Waypoint { return WaypointCityName }

type CityCopy struct {
	NewCityID uint
	Name      string
}

func (CityCopy) Waypoint() Waypoint { return WaypointCityCopy }

type CityRename struct {
	CityID uint
}

func (CityRename) Waypoint() Waypoint { return WaypointCityRename }

// ProductCities tracks the multi-select city set for a new product.
type ProductCities struct {
	Selected map[uint]bool
}

func (ProductCities) Waypoint() Waypoint { return WaypointProductCities }

type ProductPhoto struct {
	CityIDs []uint
}

func (ProductPhoto) Waypoint() Waypoint { return WaypointProductPhoto }

type ProductName struct {
	CityIDs []uint
	PhotoID string
}

func (ProductName) Waypoint() Waypoint { return WaypointProductName }

type ProductDescription struct {
	CityIDs []uint
	PhotoID string
	Name    string
}

func (ProductDescription) Waypoint() Waypoint { return WaypointProductDescription }

type ProductPrice struct {
	CityIDs     []uint
	PhotoID     string
	Name        string
	Description string
}

func (ProductPrice) Waypoint() Waypoint { return WaypointProductPrice }

type ProductField struct {
	ProductName string
}

func (ProductField) Waypoint() Waypoint { return WaypointProductField }

type ProductValue struct {
	ProductName string
	Field       string
}

func (ProductValue) Waypoint() Waypoint { return WaypointProductValue }

// ProductDelete tracks the per-city subset a product is being removed from.
type ProductDelete struct {
	ProductName string
	Selected    map[uint]bool
}

func (ProductDelete) Waypoint() Waypoint { return WaypointProductDelete }

type TermsContent struct{}

func (TermsContent) Waypoint() Waypoint { return WaypointTermsContent }
