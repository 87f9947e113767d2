package audit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/udyam-mitra/udyam_mitra/internal/response"
)

// QueryHandler serves the operator audit query endpoint. This path is for
// inspection tooling and is not part of the registration workflow.
func QueryHandler(recorder *Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := Filter{
			Action:     c.Query("action"),
			Resource:   c.Query("resource"),
			ResourceID: c.Query("resourceId"),
		}
		if v := c.Query("from"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return response.ValidationFailed(c, map[string]string{"from": "Must be an RFC 3339 timestamp"})
			}
			filter.From = t
		}
		if v := c.Query("to"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return response.ValidationFailed(c, map[string]string{"to": "Must be an RFC 3339 timestamp"})
			}
			filter.To = t
		}
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return response.ValidationFailed(c, map[string]string{"limit": "Must be an integer"})
			}
			filter.Limit = n
		}
		if v := c.Query("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return response.ValidationFailed(c, map[string]string{"offset": "Must be an integer"})
			}
			filter.Offset = n
		}

		records, err := recorder.Query(c.UserContext(), filter)
		if err != nil {
			return response.Internal(c)
		}
		if records == nil {
			records = []Record{}
		}
		return response.OK(c, "Audit records retrieved", records)
	}
}
