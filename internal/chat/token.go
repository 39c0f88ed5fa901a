package chat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Verb is the closed set of callback actions. Tokens on the wire are
// `verb` or `verb:arg`; arguments are numeric ids (or one of the product
// field names for VerbField), so free-form text never rides in a token.
type Verb string

const (
	VerbMainOrder    Verb = "main_order"
	VerbMainCart     Verb = "main_cart"
	VerbMainFeedback Verb = "main_feedback"
	VerbMainSearch   Verb = "main_search"
	VerbBackToMain   Verb = "back_to_main"

	VerbTermsAccept  Verb = "terms_accept"
	VerbTermsDecline Verb = "terms_decline"

	VerbCity         Verb = "city"
	VerbCityConflict Verb = "cart_city_conflict"
	VerbAddToCart    Verb = "add_to_cart"
	VerbBuy          Verb = "buy"
	VerbCartCheckout Verb = "cart_checkout"
	VerbCartClear    Verb = "cart_clear"

	VerbOrderAccept Verb = "order_accept"
	VerbOrderReject Verb = "order_reject"

	VerbAdminAddCity       Verb = "adm_add_city"
	VerbAdminEditCity      Verb = "adm_edit_city"
	VerbAdminDeleteCity    Verb = "adm_delete_city"
	VerbAdminAddProduct    Verb = "adm_add_product"
	VerbAdminEditProduct   Verb = "adm_edit_product"
	VerbAdminDeleteProduct Verb = "adm_delete_product"
	VerbAdminCreateTerms   Verb = "adm_create_terms"

	VerbEditCity        Verb = "edit_city"
	VerbDeleteCity      Verb = "delete_city"
	VerbCopyFrom        Verb = "copy_from"
	VerbNoCopy          Verb = "no_copy_products"
	VerbCitySelect      Verb = "city_select"
	VerbCitiesConfirmed Verb = "cities_confirmed"
	VerbEditProduct     Verb = "edit_product"
	VerbDeleteProduct   Verb = "del_product"
	VerbField           Verb = "field"
	VerbDelCitySelect   Verb = "del_city_select"
	VerbConfirmDeletion Verb = "confirm_deletion"
	VerbDeleteAllCities Verb = "delete_all_cities"
)

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
)

var ErrBadToken = errors.New("bad callback token")

type argKind int

const (
	argNone argKind = iota
	argID
	argField
)

var tokenArgs = map[Verb]argKind{
	VerbMainOrder:    argNone,
	VerbMainCart:     argNone,
	VerbMainFeedback: argNone,
	VerbMainSearch:   argNone,
	VerbBackToMain:   argNone,

	VerbTermsAccept:  argNone,
	VerbTermsDecline: argNone,

	VerbCity:         argID,
	VerbCityConflict: argNone,
	VerbAddToCart:    argID,
	VerbBuy:          argID,
	VerbCartCheckout: argNone,
	VerbCartClear:    argNone,

	VerbOrderAccept: argID,
	VerbOrderReject: argID,

	VerbAdminAddCity:       argNone,
	VerbAdminEditCity:      argNone,
	VerbAdminDeleteCity:    argNone,
	VerbAdminAddProduct:    argNone,
	VerbAdminEditProduct:   argNone,
	VerbAdminDeleteProduct: argNone,
	VerbAdminCreateTerms:   argNone,

	VerbEditCity:        argID,
	VerbDeleteCity:      argID,
	VerbCopyFrom:        argID,
	VerbNoCopy:          argNone,
	VerbCitySelect:      argID,
	VerbCitiesConfirmed: argNone,
	VerbEditProduct:     argID,
	VerbDeleteProduct:   argID,
	VerbField:           argField,
	VerbDelCitySelect:   argID,
	VerbConfirmDeletion: argNone,
	VerbDeleteAllCities: argNone,
}

// Token is a parsed callback payload.
type Token struct {
	Verb  Verb
	ID    int64
	Field string
}

// ParseToken validates the verb against the closed set and the argument
// against the verb's declared shape. Anything else is ErrBadToken.
func ParseToken(s string) (Token, error) {
	verb, arg, hasArg := strings.Cut(s, ":")
	kind, ok := tokenArgs[Verb(verb)]
	if !ok {
		return Token{}, fmt.Errorf("%w: unknown verb %q", ErrBadToken, verb)
	}

	t := Token{Verb: Verb(verb)}
	switch kind {
	case argNone:
		if hasArg {
			return Token{}, fmt.Errorf("%w: %s takes no argument", ErrBadToken, verb)
		}
	case argID:
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return Token{}, fmt.Errorf("%w: %s needs a numeric id", ErrBadToken, verb)
		}
		t.ID = id
	case argField:
		if arg != FieldName && arg != FieldDescription && arg != FieldPrice {
			return Token{}, fmt.Errorf("%w: unknown field %q", ErrBadToken, arg)
		}
		t.Field = arg
	}
	return t, nil
}

func (t Token) String() string {
	switch tokenArgs[t.Verb] {
	case argID:
		return fmt.Sprintf("%s:%d", t.Verb, t.ID)
	case argField:
		return string(t.Verb) + ":" + t.Field
	default:
		return string(t.Verb)
	}
}

// IDToken builds the wire form of an id-carrying token.
func IDToken(v Verb, id int64) string {
	return Token{Verb: v, ID: id}.String()
}

// FieldToken builds the wire form of a product field choice.
func FieldToken(field string) string {
	return Token{Verb: VerbField, Field: field}.String()
}
