// Package locale holds the localization catalog for the ordering dialog:
// per-language template strings, option lists, and free-text language
// detection. The catalog is immutable at runtime.
package locale

// Language identifies a supported dialog language.
type Language string

const (
	// LangUz is Uzbek, the catalog's default (fallback) language.
	LangUz Language = "uz"
	// LangRu is Russian.
	LangRu Language = "ru"
	// LangEn is English.
	LangEn Language = "en"
)

// Default is the language used when a (language, key) pair is absent.
const Default = LangUz

// Supported lists all catalog languages in a stable order.
var Supported = []Language{LangUz, LangRu, LangEn}

// Key identifies a catalog template.
type Key string

const (
	KeyWelcome         Key = "welcome"
	KeyAskPerson       Key = "ask_person"
	KeyAskPhone        Key = "ask_phone"
	KeyAskName         Key = "ask_name"
	KeyAskQuantity     Key = "ask_quantity"
	KeyAskCommentYesNo Key = "ask_comment_question"
	KeyAskComment      Key = "ask_comment"
	KeyAskArea         Key = "ask_area"
	KeyAskDistrict     Key = "ask_district"
	KeyAskAddress      Key = "ask_address"
	KeyAskLocation     Key = "ask_location"
	KeyAskDelivery     Key = "ask_delivery"
	KeyAskPayment      Key = "ask_payment"
	KeyThanks          Key = "thanks"
	KeyOrderButton     Key = "order_button"
	KeyContinue        Key = "continue"
	KeyBack            Key = "back"
	KeyHome            Key = "home"
	KeyPlus            Key = "plus"
	KeyMinus           Key = "minus"
	KeyYes             Key = "yes"
	KeyNo              Key = "no"
	KeyCard            Key = "card"
	KeyCash            Key = "cash"
	KeyCity            Key = "city"
	KeyProvince        Key = "province"
	KeyPriceLine       Key = "price_line"
	KeyShareContact    Key = "share_contact"
	KeySendLocation    Key = "send_location"
	KeyRestart         Key = "restart"
)

// Option list keys.
const (
	OptPersonTypes Key = "person_buttons"
	OptDistricts   Key = "district_options"
	OptLanguages   Key = "language_buttons"
)
