package validators

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
)

// MultipartForm wraps a parsed multipart request with typed field accessors.
type MultipartForm struct {
	form *multipart.Form
}

// ParseMultipart parses the request body up to maxMB megabytes in memory.
func ParseMultipart(r *http.Request, maxMB int) (*MultipartForm, error) {
	if maxMB <= 0 {
		maxMB = 20
	}
	if err := r.ParseMultipartForm(int64(maxMB) << 20); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	return &MultipartForm{form: r.MultipartForm}, nil
}

// Value returns the trimmed first value for key, or "" when absent.
func (f *MultipartForm) Value(key string) string {
	values, ok := f.form.Value[key]
	if !ok || len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// Has reports whether the field was present in the form at all.
func (f *MultipartForm) Has(key string) bool {
	_, ok := f.form.Value[key]
	return ok
}

// OptionalValue returns nil when the field was not submitted.
func (f *MultipartForm) OptionalValue(key string) *string {
	if !f.Has(key) {
		return nil
	}
	v := f.Value(key)
	return &v
}

// Bool parses a boolean field; absent or blank fields return defaultVal.
func (f *MultipartForm) Bool(key string, defaultVal bool) (bool, error) {
	raw := f.Value(key)
	if raw == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "field must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return parsed, nil
}

// OptionalBool returns nil when the field was not submitted.
func (f *MultipartForm) OptionalBool(key string) (*bool, error) {
	if !f.Has(key) {
		return nil, nil
	}
	parsed, err := f.Bool(key, false)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Int parses an integer field; absent or blank fields return defaultVal.
func (f *MultipartForm) Int(key string, defaultVal int) (int, error) {
	raw := f.Value(key)
	if raw == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "field must be numeric").WithDetails(map[string]any{"field": key})
	}
	return parsed, nil
}

// OptionalInt returns nil when the field was not submitted.
func (f *MultipartForm) OptionalInt(key string) (*int, error) {
	if !f.Has(key) {
		return nil, nil
	}
	parsed, err := f.Int(key, 0)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Decimal parses a decimal field; absent or blank fields return nil.
func (f *MultipartForm) Decimal(key string) (*decimal.Decimal, error) {
	raw := f.Value(key)
	if raw == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "field must be a decimal number").WithDetails(map[string]any{"field": key})
	}
	return &parsed, nil
}

// Files returns the uploaded file headers for key.
func (f *MultipartForm) Files(key string) []*multipart.FileHeader {
	return f.form.File[key]
}

// FileFields returns every file field in the form, keyed by field name.
func (f *MultipartForm) FileFields() map[string][]*multipart.FileHeader {
	return f.form.File
}
