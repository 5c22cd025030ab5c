package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type productForm struct {
	Name     string   `json:"name"     validate:"required,min=3,max=100"`
	SKU      string   `json:"sku"      validate:"required,regex=^[A-Z0-9-]{5,20}$"`
	Currency string   `json:"currency" validate:"required,in=USD,EUR,COP"`
	Amount   float64  `json:"amount"   validate:"required,gt=0"`
	Website  *string  `json:"website"  validate:"nullable,url"`
	Category *uint    `json:"category_id" validate:"nullable,gt=0"`
	Tags     []string `json:"tags"`
}

func validForm() productForm {
	return productForm{
		Name:     "Gaming Laptop",
		SKU:      "LAPTOP-001",
		Currency: "USD",
		Amount:   99.99,
	}
}

func TestStructValid(t *testing.T) {
	form := validForm()
	errs := Struct(&form)
	assert.Empty(t, errs)
}

func TestRequired(t *testing.T) {
	form := validForm()
	form.Name = "   "
	errs := Struct(&form)
	assert.Contains(t, errs, "name")
}

func TestMinLength(t *testing.T) {
	form := validForm()
	form.Name = "ab"
	errs := Struct(&form)
	assert.Contains(t, errs, "name")
}

func TestRegex(t *testing.T) {
	cases := []struct {
		sku  string
		want bool
	}{
		{"LAPTOP-001", true},
		{"ABC12", true},
		{"lowercase-01", false},
		{"AB", false},             // too short
		{"SKU WITH SPACE", false}, // space not allowed
	}
	for _, tc := range cases {
		form := validForm()
		form.SKU = tc.sku
		errs := Struct(&form)
		if tc.want {
			assert.NotContains(t, errs, "sku", "sku %q should be valid", tc.sku)
		} else {
			assert.Contains(t, errs, "sku", "sku %q should be invalid", tc.sku)
		}
	}
}

func TestInRule(t *testing.T) {
	form := validForm()
	form.Currency = "XXX"
	errs := Struct(&form)
	assert.Contains(t, errs, "currency")

	form.Currency = "EUR"
	errs = Struct(&form)
	assert.NotContains(t, errs, "currency")
}

func TestGtRule(t *testing.T) {
	form := validForm()
	form.Amount = 0
	errs := Struct(&form)
	assert.Contains(t, errs, "amount")
}

func TestNullableSkipsEmpty(t *testing.T) {
	form := validForm()
	errs := Struct(&form)
	assert.NotContains(t, errs, "website")
	assert.NotContains(t, errs, "category_id")
}

func TestNullableValidatesWhenSet(t *testing.T) {
	form := validForm()
	bad := "not a url"
	form.Website = &bad
	errs := Struct(&form)
	assert.Contains(t, errs, "website")

	good := "https://example.com/product"
	form.Website = &good
	errs = Struct(&form)
	assert.NotContains(t, errs, "website")
}

func TestNullablePointerNumber(t *testing.T) {
	form := validForm()
	zero := uint(0)
	form.Category = &zero
	errs := Struct(&form)
	assert.Contains(t, errs, "category_id")
}

func TestEmailRule(t *testing.T) {
	type login struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := Struct(&login{Email: "nope"})
	assert.Contains(t, errs, "email")

	errs = Struct(&login{Email: "dev@example.com"})
	assert.Empty(t, errs)
}

func TestBetweenRule(t *testing.T) {
	type form struct {
		Qty int `json:"qty" validate:"between=1,10"`
	}
	assert.Contains(t, Struct(&form{Qty: 11}), "qty")
	assert.Empty(t, Struct(&form{Qty: 5}))
}

func TestSplitRulesKeepsParams(t *testing.T) {
	rules := splitRules("required,in=USD,EUR,COP,max=100")
	assert.Equal(t, []string{"required", "in=USD,EUR,COP", "max=100"}, rules)

	rules = splitRules("required,regex=^[A-Z0-9-]{5,20}$")
	assert.Equal(t, []string{"required", "regex=^[A-Z0-9-]{5,20}$"}, rules)
}
