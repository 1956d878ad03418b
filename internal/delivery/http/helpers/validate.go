package helpers

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateRequest runs v.Validate() and, on failure, writes a 422 JSON error
// and returns false. Callers should return immediately when it returns false.
func ValidateRequest(w http.ResponseWriter, v validation.Validatable) bool {
	if err := v.Validate(); err != nil {
		WriteJSONError(w, http.StatusUnprocessableEntity, ErrCodeUnprocessableEntity, err.Error())
		return false
	}
	return true
}
