package locale

import (
	"churn-bot/domain"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNew_MatchesLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  language.Tag
	}{
		{"en", language.English},
		{"en-GB", language.English},
		{"uz", language.Uzbek},
		{"uz-Latn-UZ", language.Uzbek},
		{"fr", language.English},
		{"", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			req := require.New(t)
			catalog := New(tt.input)
			base, _ := catalog.Tag.Base()
			wantBase, _ := tt.want.Base()
			req.Equal(wantBase, base)
		})
	}
}

func TestCatalog_Prompt(t *testing.T) {
	req := require.New(t)
	schema := domain.ChurnSchema(false)
	contract, _ := schema.Lookup(domain.FieldContract)

	req.Equal("2. "+contract.Prompt, New("en").Prompt(1, contract))
	req.Equal("2. Shartnoma turi (Contract)?", New("uz").Prompt(1, contract))
}

func TestCatalog_Prompts_CoverSchema(t *testing.T) {
	req := require.New(t)
	for _, field := range domain.ChurnSchema(false).Fields() {
		req.Contains(uzbek.Prompts, field.Name)
	}
}

func TestCatalog_Invalid(t *testing.T) {
	req := require.New(t)
	catalog := New("en")

	req.Equal(english.NotANumber, catalog.Invalid(domain.ReasonNotANumber))
	req.Equal(english.Empty, catalog.Invalid(domain.ReasonEmpty))
	req.Equal(english.NotAllowed, catalog.Invalid(domain.ReasonNotAllowed))
}

func TestCatalog_Result(t *testing.T) {
	req := require.New(t)
	catalog := New("en")

	churn := catalog.Result(domain.Prediction{Label: domain.WillChurn, Probability: 0.9123})
	stay := catalog.Result(domain.Prediction{Label: domain.WillStay, Probability: 0.1})

	req.Equal("⚠️ The customer is likely to leave. Probability: 91.2%", churn)
	req.Equal("✅ The customer is likely to stay. Probability: 90.0%", stay)
}
