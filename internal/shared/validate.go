package shared

import "github.com/go-playground/validator/v10"

// Validate is the process-wide validator for request DTOs.
var Validate = validator.New(validator.WithRequiredStructEnabled())
