package locale

import "strings"

// texts maps (language, key) to a template string. Templates may contain
// named placeholders like {unit} substituted via Render.
var texts = map[Language]map[Key]string{
	LangUz: {
		KeyWelcome:         "Xush kelibsiz! Iltimos, tilni tanlang:",
		KeyAskPerson:       "Iltimos, shaxs turini tanlang:",
		KeyAskPhone:        "Kontaktni ulashing (telefon):",
		KeyAskName:         "Ismingizni kiriting:",
		KeyAskQuantity:     "Nechta suv olmoqchisiz? (Eng kam 2 ta)",
		KeyAskCommentYesNo: "Buyurtmaga izoh qo'shasizmi?",
		KeyAskComment:      "Iltimos, izohni kiriting:",
		KeyAskArea:         "Yetkazib berish hududini tanlang:",
		KeyAskDistrict:     "Tumanni tanlang:",
		KeyAskAddress:      "Manzilni yozib yuboring (ko'cha, uy):",
		KeyAskLocation:     "Manzilingizni yuboring:",
		KeyAskDelivery:     "Qachon yetkazib berish kerak? (sana tanlang)",
		KeyAskPayment:      "To'lov turini tanlang:",
		KeyThanks:          "Rahmat! Buyurtmangiz qabul qilindi ✅",
		KeyOrderButton:     "📦 Buyurtma berish",
		KeyContinue:        "➡️ Davom etish",
		KeyBack:            "⬅️ Orqaga",
		KeyHome:            "🏠 Bosh sahifa",
		KeyPlus:            "➕",
		KeyMinus:           "➖",
		KeyYes:             "✅ Ha",
		KeyNo:              "❌ Yo'q",
		KeyCard:            "💳 Kartada",
		KeyCash:            "💵 Naqd",
		KeyCity:            "🏙 Shahar",
		KeyProvince:        "🏞 Viloyat",
		KeyPriceLine:       "Narx: {unit} {currency} / dona — Jami: {total} {currency}",
		KeyShareContact:    "📞 Kontaktni ulashish",
		KeySendLocation:    "📍 Lokatsiyani yuborish",
		KeyRestart:         "🏠 Boshlash uchun quyidagi tugmani bosing",
	},
	LangRu: {
		KeyWelcome:         "Добро пожаловать! Пожалуйста, выберите язык:",
		KeyAskPerson:       "Выберите тип клиента:",
		KeyAskPhone:        "Поделитесь контактом (номер телефона):",
		KeyAskName:         "Введите ваше имя:",
		KeyAskQuantity:     "Сколько бутылок воды хотите заказать? (Минимум 2)",
		KeyAskCommentYesNo: "Добавите ли вы комментарий к заказу?",
		KeyAskComment:      "Пожалуйста, введите комментарий:",
		KeyAskArea:         "Выберите зону доставки:",
		KeyAskDistrict:     "Выберите район:",
		KeyAskAddress:      "Напишите адрес (улица, дом):",
		KeyAskLocation:     "Отправьте вашу локацию:",
		KeyAskDelivery:     "Когда доставить заказ? (выберите дату)",
		KeyAskPayment:      "Выберите способ оплаты:",
		KeyThanks:          "Спасибо! Ваш заказ принят ✅",
		KeyOrderButton:     "📦 Сделать заказ",
		KeyContinue:        "➡️ Продолжить",
		KeyBack:            "⬅️ Назад",
		KeyHome:            "🏠 Главная",
		KeyPlus:            "➕",
		KeyMinus:           "➖",
		KeyYes:             "✅ Да",
		KeyNo:              "❌ Нет",
		KeyCard:            "💳 Карта",
		KeyCash:            "💵 Наличными",
		KeyCity:            "🏙 Город",
		KeyProvince:        "🏞 Область",
		KeyPriceLine:       "Цена: {unit} {currency} / шт — Итого: {total} {currency}",
		KeyShareContact:    "📞 Поделиться контактом",
		KeySendLocation:    "📍 Отправить локацию",
		KeyRestart:         "🏠 Нажмите кнопку ниже, чтобы начать",
	},
	LangEn: {
		KeyWelcome:         "Welcome! Please select your language:",
		KeyAskPerson:       "Please select your customer type:",
		KeyAskPhone:        "Please share your contact (phone):",
		KeyAskName:         "Enter your name:",
		KeyAskQuantity:     "How many bottles of water do you want? (Minimum 2)",
		KeyAskCommentYesNo: "Would you like to add a comment to the order?",
		KeyAskComment:      "Please enter the comment:",
		KeyAskArea:         "Choose your delivery area:",
		KeyAskDistrict:     "Choose your district:",
		KeyAskAddress:      "Type your address (street, building):",
		KeyAskLocation:     "Please share your location:",
		KeyAskDelivery:     "When should we deliver? (choose a date)",
		KeyAskPayment:      "Choose your payment method:",
		KeyThanks:          "Thank you! Your order has been received ✅",
		KeyOrderButton:     "📦 Place Order",
		KeyContinue:        "➡️ Continue",
		KeyBack:            "⬅️ Back",
		KeyHome:            "🏠 Home",
		KeyPlus:            "➕",
		KeyMinus:           "➖",
		KeyYes:             "✅ Yes",
		KeyNo:              "❌ No",
		KeyCard:            "💳 Card",
		KeyCash:            "💵 Cash",
		KeyCity:            "🏙 City",
		KeyProvince:        "🏞 Province",
		KeyPriceLine:       "Price: {unit} {currency} / pc — Total: {total} {currency}",
		KeyShareContact:    "📞 Share Contact",
		KeySendLocation:    "📍 Send Location",
		KeyRestart:         "🏠 Press the button below to start over",
	},
}

// options maps (language, key) to an option list. A language missing a list
// falls back to the default-language list, so every language presents the same
// number of choices. The district list deliberately exists only for the
// default language.
var options = map[Language]map[Key][]string{
	LangUz: {
		OptPersonTypes: {"👤 Jismoniy shaxs", "🏢 Yuridik shaxs"},
		OptDistricts:   {"Chilonzor", "Yunusobod", "Mirzo Ulug'bek", "Sergeli", "Olmazor"},
		OptLanguages:   {"🇺🇿 Uzbek", "🇷🇺 Russian", "🇬🇧 English"},
	},
	LangRu: {
		OptPersonTypes: {"👤 Физическое лицо", "🏢 Юридическое лицо"},
		OptLanguages:   {"🇺🇿 Uzbek", "🇷🇺 Russian", "🇬🇧 English"},
	},
	LangEn: {
		OptPersonTypes: {"👤 Individual", "🏢 Company"},
		OptLanguages:   {"🇺🇿 Uzbek", "🇷🇺 Russian", "🇬🇧 English"},
	},
}

// Text resolves a template: exact (language, key), then (default, key), then
// the raw key itself. It never returns an empty string and never panics.
func Text(lang Language, key Key) string {
	if m, ok := texts[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := texts[Default][key]; ok {
		return s
	}
	return string(key)
}

// Vars holds named placeholder values for Render. The set of placeholders is
// closed; values are computed by the caller.
type Vars map[string]string

// Render resolves a template and substitutes {name} placeholders.
func Render(lang Language, key Key, vars Vars) string {
	s := Text(lang, key)
	if len(vars) == 0 {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// Options resolves an option list with the same fallback rule as Text: a
// language-specific list if present, otherwise the default-language list,
// otherwise nil.
func Options(lang Language, key Key) []string {
	if m, ok := options[lang]; ok {
		if list, ok := m[key]; ok {
			return list
		}
	}
	return options[Default][key]
}

// IsHome reports whether text matches the home/restart label in any language.
func IsHome(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	for _, lang := range Supported {
		if texts[lang][KeyHome] == t {
			return true
		}
	}
	return false
}

// IsBack reports whether text matches the back label for the given language.
func IsBack(lang Language, text string) bool {
	return strings.TrimSpace(text) == Text(lang, KeyBack)
}
