// Package locale holds the user-facing texts of the bot.
package locale

import (
	"churn-bot/domain"
	"fmt"

	"golang.org/x/text/language"
)

type Texts struct {
	Greeting        string
	Hint            string
	Cancelled       string
	NothingToCancel string
	NotANumber      string
	Empty           string
	NotAllowed      string
	Failure         string
	Busy            string
	// Churn and Stay take the displayed confidence in percent.
	Churn string
	Stay  string
	// Prompts overrides the schema prompts, keyed by field name.
	Prompts map[string]string
}

var supported = []language.Tag{language.English, language.Uzbek}

var catalogs = []Texts{english, uzbek}

var matcher = language.NewMatcher(supported)

// Catalog renders replies in one language.
type Catalog struct {
	Tag   language.Tag
	texts Texts
}

// New picks the closest supported language, English by default.
func New(lang string) Catalog {
	_, index := language.MatchStrings(matcher, lang)
	return Catalog{Tag: supported[index], texts: catalogs[index]}
}

func (c Catalog) Texts() Texts {
	return c.texts
}

// Prompt numbers the question from 1 like the chat shows it.
func (c Catalog) Prompt(step int, field domain.Field) string {
	prompt, ok := c.texts.Prompts[field.Name]
	if !ok {
		prompt = field.Prompt
	}
	return fmt.Sprintf("%d. %s", step+1, prompt)
}

func (c Catalog) Invalid(reason domain.ValidationReason) string {
	switch reason {
	case domain.ReasonEmpty:
		return c.texts.Empty
	case domain.ReasonNotAllowed:
		return c.texts.NotAllowed
	default:
		return c.texts.NotANumber
	}
}

func (c Catalog) Result(p domain.Prediction) string {
	format := c.texts.Churn
	if p.Label == domain.WillStay {
		format = c.texts.Stay
	}
	return fmt.Sprintf(format, p.Confidence()*100)
}

var english = Texts{
	Greeting:        "Hello! Send /predict to estimate whether a customer is about to leave.",
	Hint:            "Send /predict to start a new prediction.",
	Cancelled:       "Cancelled.",
	NothingToCancel: "There is nothing to cancel.",
	NotANumber:      "❌ Please enter a number.",
	Empty:           "❌ The answer cannot be empty.",
	NotAllowed:      "❌ Please pick one of the suggested answers.",
	Failure:         "⚠️ The prediction could not be computed. Please try again later.",
	Busy:            "⏳ Still working on your previous message.",
	Churn:           "⚠️ The customer is likely to leave. Probability: %.1f%%",
	Stay:            "✅ The customer is likely to stay. Probability: %.1f%%",
}

var uzbek = Texts{
	Greeting:        "Salom! /predict buyrug‘i orqali mijoz holatini bashorat qilamiz.",
	Hint:            "Yangi bashorat uchun /predict yuboring.",
	Cancelled:       "Bekor qilindi.",
	NothingToCancel: "Bekor qilinadigan so‘rov yo‘q.",
	NotANumber:      "❌ Iltimos, son kiriting.",
	Empty:           "❌ Javob bo‘sh bo‘lmasligi kerak.",
	NotAllowed:      "❌ Iltimos, variantlardan birini tanlang.",
	Failure:         "⚠️ Bashorat qilib bo‘lmadi. Keyinroq qayta urinib ko‘ring.",
	Busy:            "⏳ Oldingi xabaringiz hali ishlanmoqda.",
	Churn:           "⚠️ Mijoz ketishi mumkin. Ehtimol: %.1f%%",
	Stay:            "✅ Mijoz ketmaydi. Ehtimol: %.1f%%",
	Prompts: map[string]string{
		domain.FieldTenure:          "Mijozning kompaniyada qolgan oy soni (tenure)?",
		domain.FieldContract:        "Shartnoma turi (Contract)?",
		domain.FieldInternetService: "InternetService turi?",
		domain.FieldMonthlyCharges:  "Oylik to‘lov (MonthlyCharges)?",
		domain.FieldGender:          "Jinsi (gender)?",
		domain.FieldPartner:         "Uylanganmi/yashaydigan jufti bormi? (Partner)",
		domain.FieldDependents:      "Bog‘liqlari (farzand, qarindosh) bormi? (Dependents)",
		domain.FieldOnlineSecurity:  "Online xavfsizlik xizmati (OnlineSecurity) bormi?",
		domain.FieldTechSupport:     "Texnik yordam xizmati (TechSupport) bormi?",
		domain.FieldStreamingTV:     "Streaming TV xizmati bormi? (StreamingTV)",
		domain.FieldPaymentMethod:   "To‘lov usuli (PaymentMethod)?",
	},
}
