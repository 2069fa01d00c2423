package poolmanager

import (
	"regexp"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/poolhouse/poolhouse/internal/poolsrv/db/models"
)

var validPoolKinds = []string{
	string(models.PoolKindSquares),
	string(models.PoolKindStrips),
	string(models.PoolKindPickem),
}

// poolKindValidator checks if the given kind is a valid pool kind.
func poolKindValidator(fl validator.FieldLevel) bool {
	return slices.Contains(validPoolKinds, fl.Field().String())
}

const identifierRegex = `^[A-Za-z0-9][A-Za-z0-9_-]*$`
const identifierMaxLength = 64

// identifierValidator checks if the given value follows the shared
// identifier convention for pool, resource and claimant IDs.
func identifierValidator(fl validator.FieldLevel) bool {
	str := fl.Field().String()
	if len(str) > identifierMaxLength {
		return false
	}
	re := regexp.MustCompile(identifierRegex)
	return re.MatchString(str)
}

var v *validator.Validate

// V returns the validator singleton with the custom validators registered.
func V() *validator.Validate {
	return v
}

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("poolKind", poolKindValidator)
	v.RegisterValidation("identifier", identifierValidator)
}
