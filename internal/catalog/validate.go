package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ProductPayload is a create/update request body. Pointer fields distinguish
// absent from zero; Price stays untyped so a non-numeric JSON value reaches
// the validation gate instead of failing the decode.
type ProductPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       any     `json:"price"`
	Category    *string `json:"category"`
	InStock     *bool   `json:"inStock"`
}

type productRules struct {
	Name  string  `validate:"required"`
	Price float64 `validate:"gt=0"`
}

var ruleSet = validator.New()

// ValidateProduct is the validation gate: it fails when name is absent or
// empty, price is absent, price is not a JSON number, or price <= 0.
// Description, category and inStock are not checked here.
func ValidateProduct(p ProductPayload) error {
	if p.Price == nil {
		return errors.New("price is required")
	}
	price, ok := p.Price.(float64)
	if !ok {
		return errors.New("price must be a number")
	}

	var name string
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
	}

	in := productRules{Name: name, Price: price}
	if err := ruleSet.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			fe := ve[0]
			return fmt.Errorf("%s %s", strings.ToLower(fe.Field()), ruleMessage(fe))
		}
		return err
	}

	return nil
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}
