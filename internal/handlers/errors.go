package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError is one failed validation rule
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// validationDetails flattens binding errors into field/rule pairs
func validationDetails(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Rule: "json"}}
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field: jsonFieldName(fe),
			Rule:  fe.Tag(),
		})
	}
	return details
}

// jsonFieldName lowers the leading letter of the struct field, keeping any
// slice index (Topics[1] -> topics[1]).
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func invalidInput(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid input",
		"details": validationDetails(err),
	})
}

// jobFailed is the top-level fatal path of a job endpoint
func jobFailed(c *gin.Context, label string, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   label,
		"message": err.Error(),
	})
}
