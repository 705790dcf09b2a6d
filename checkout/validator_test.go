package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		Name:    "Asha",
		Mobile:  "9876543210",
		Address: "12 MG Road, Bengaluru",
		Pincode: "560001",
		Email:   "asha@example.com",
	}
}

func TestValidateAcceptsCompleteForm(t *testing.T) {
	customer, verr := Validate(validForm())
	require.Nil(t, verr)
	assert.Equal(t, "Asha", customer.Name)
	assert.Equal(t, "9876543210", customer.Mobile)
	assert.Equal(t, "560001", customer.Pincode)
}

func TestValidateEmailIsOptional(t *testing.T) {
	form := validForm()
	form.Email = ""

	customer, verr := Validate(form)
	require.Nil(t, verr)
	assert.Empty(t, customer.Email)
}

func TestValidateFieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		field  string
	}{
		{"empty name", func(f *Form) { f.Name = "" }, "name"},
		{"whitespace name", func(f *Form) { f.Name = "   " }, "name"},
		{"short mobile", func(f *Form) { f.Mobile = "12345" }, "mobile"},
		{"long mobile", func(f *Form) { f.Mobile = "98765432101" }, "mobile"},
		{"short address", func(f *Form) { f.Address = "nearby" }, "address"},
		{"padded short address", func(f *Form) { f.Address = "  nearby   " }, "address"},
		{"short pincode", func(f *Form) { f.Pincode = "5600" }, "pincode"},
		{"alpha pincode", func(f *Form) { f.Pincode = "ABC123" }, "pincode"},
		{"bad email", func(f *Form) { f.Email = "not-an-email" }, "email"},
		{"email missing domain dot", func(f *Form) { f.Email = "a@b" }, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			_, verr := Validate(form)
			require.NotNil(t, verr)
			assert.Contains(t, verr.FieldNames(), tt.field)
		})
	}
}

func TestValidateAddressLengthCountsCharacters(t *testing.T) {
	// Five Devanagari characters span more than ten bytes but are still a
	// short address.
	form := validForm()
	form.Address = "घर १२"

	_, verr := Validate(form)
	require.NotNil(t, verr)
	assert.Contains(t, verr.FieldNames(), "address")

	// A full address in the same script passes.
	form.Address = "१२ कमल मार्ग, पुणे"
	_, verr = Validate(form)
	assert.Nil(t, verr)
}

func TestValidateMobileIgnoresFormatting(t *testing.T) {
	form := validForm()
	form.Mobile = "98765-43210"

	customer, verr := Validate(form)
	require.Nil(t, verr)
	assert.Equal(t, "9876543210", customer.Mobile)
}

func TestValidateCollectsEveryFailedField(t *testing.T) {
	form := Form{Mobile: "12", Address: "x", Pincode: "99"}

	_, verr := Validate(form)
	require.NotNil(t, verr)
	assert.Equal(t, []string{"name", "mobile", "address", "pincode"}, verr.FieldNames())
}

func TestValidateHeadlineIsFirstRuleFailure(t *testing.T) {
	// Rules run in a stable order, so with several bad fields the headline
	// is deterministic.
	form := validForm()
	form.Mobile = "12345"
	form.Pincode = "00"

	_, verr := Validate(form)
	require.NotNil(t, verr)
	assert.Equal(t, "Mobile number must be exactly 10 digits", verr.Error())
}

func TestValidateTrimsFields(t *testing.T) {
	form := validForm()
	form.Name = "  Asha  "
	form.Address = "  12 MG Road, Bengaluru  "
	form.Email = "  asha@example.com  "

	customer, verr := Validate(form)
	require.Nil(t, verr)
	assert.Equal(t, "Asha", customer.Name)
	assert.Equal(t, "12 MG Road, Bengaluru", customer.Address)
	assert.Equal(t, "asha@example.com", customer.Email)
}
