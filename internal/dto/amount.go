package dto

import (
	"bytes"
	"encoding/json"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/validation"
)

// Amount — денежная сумма на входе: JSON-число (25.5) или строка ("25.50").
// Храним исходный текст и разбираем его точно, без float64.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) Cents() (int64, error) {
	return validation.ParseCents(string(a))
}
