package pincode

import (
	"github.com/gofiber/fiber/v2"

	"github.com/udyam-mitra/udyam_mitra/internal/response"
	"github.com/udyam-mitra/udyam_mitra/internal/validation"
)

// Handler resolves a pincode path parameter to its region.
func Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("pincode")
		if err := validation.Validate(validation.KindPincode, code, true); err != nil {
			return response.ValidationFailed(c, map[string]string{"pincode": err.Error()})
		}
		region, ok := Lookup(code)
		if !ok {
			return response.NotFound(c, "No location found for this PIN code")
		}
		return response.OK(c, "Location resolved", region)
	}
}
