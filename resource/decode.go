package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	// `validator` checks the struct tags of the request DTOs.
	"github.com/go-playground/validator/v10"

	"github.com/user/may15-go/apperror"
)

// maxBodyBytes caps request bodies at 100kb.
const maxBodyBytes = 100 << 10

// validate is safe for concurrent use and caches struct metadata, so one instance serves
// every request.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Decode reads a JSON request body into a new T and validates it.
// An empty body decodes to the zero value: no field is required.
// Unknown fields are ignored, like the schema-driven store the API was designed around.
func Decode[T any](w http.ResponseWriter, r *http.Request) (*T, error) {
	req := new(T)

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperror.NewBadRequestError("invalid request payload", err)
	}

	if err := Validate(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate runs the `validate` tags of v and converts failures into a ValidationError
// naming every offending field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.NewValidationError("invalid request payload", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return apperror.NewValidationError(strings.Join(msgs, "; "), err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "mongodb":
		return fmt.Sprintf("%s must be a 24 character hex object id", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}
