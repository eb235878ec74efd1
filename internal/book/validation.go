package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Input is the request body accepted by create and update. Pointers tell an
// absent field apart from a zero value. Integer bounds match the INTEGER
// columns in db/schema.sql.
type Input struct {
	ISBN      *string `json:"isbn" validate:"required,min=1"`
	AmazonURL *string `json:"amazon_url" validate:"required,url"`
	Author    *string `json:"author" validate:"required,min=1"`
	Language  *string `json:"language" validate:"required,min=1"`
	Pages     *int    `json:"pages" validate:"required,gt=0,lte=2147483647"`
	Publisher *string `json:"publisher" validate:"required,min=1"`
	Title     *string `json:"title" validate:"required,min=1"`
	Year      *int    `json:"year" validate:"required,gte=-2147483648,lte=2147483647"`
}

// Book builds the stored record from a validated input.
func (in Input) Book(isbn string) Book {
	return Book{
		ISBN:      isbn,
		AmazonURL: *in.AmazonURL,
		Author:    *in.Author,
		Language:  *in.Language,
		Pages:     *in.Pages,
		Publisher: *in.Publisher,
		Title:     *in.Title,
		Year:      *in.Year,
	}
}

// ValidationError lists every constraint a request body violated.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// DecodeInput reads a book body and checks it against the book schema.
// requireISBN is false for updates, where the key comes from the path and a
// body isbn is ignored.
func DecodeInput(r io.Reader, requireISBN bool) (Input, error) {
	notAnObject := &ValidationError{Violations: []string{"request body must be a JSON object"}}

	dec := json.NewDecoder(r)
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if isMaxBytes(err) {
			return Input{}, err
		}
		return Input{}, notAnObject
	}
	if raw == nil {
		return Input{}, notAnObject
	}
	// Anything after the object, other than whitespace, is rejected.
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		if isMaxBytes(err) {
			return Input{}, err
		}
		return Input{}, notAnObject
	}

	d := fieldDecoder{raw: raw, mistyped: map[string]bool{}}
	var in Input
	if requireISBN {
		in.ISBN = d.stringField("isbn")
	}
	in.AmazonURL = d.stringField("amazon_url")
	in.Author = d.stringField("author")
	in.Language = d.stringField("language")
	in.Pages = d.intField("pages")
	in.Publisher = d.stringField("publisher")
	in.Title = d.stringField("title")
	in.Year = d.intField("year")

	skip := make(map[string]bool, len(d.mistyped)+1)
	for name := range d.mistyped {
		skip[name] = true
	}
	if !requireISBN {
		skip["isbn"] = true
	}

	violations := append(d.violations, validateInput(in, skip)...)
	if len(violations) > 0 {
		return Input{}, &ValidationError{Violations: violations}
	}
	return in, nil
}

func isMaxBytes(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// validateInput reports constraint failures, leaving out fields in skip.
func validateInput(in Input, skip map[string]bool) []string {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	var out []string
	for _, fe := range fieldErrs {
		field := fe.Field()
		if skip[field] {
			continue
		}
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", field))
		case "min":
			out = append(out, fmt.Sprintf("%s must not be empty", field))
		case "url":
			out = append(out, fmt.Sprintf("%s must be a valid URL", field))
		case "gt":
			out = append(out, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "gte":
			out = append(out, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "lte":
			out = append(out, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			out = append(out, fmt.Sprintf("%s is invalid", field))
		}
	}
	return out
}

type fieldDecoder struct {
	raw        map[string]json.RawMessage
	mistyped   map[string]bool
	violations []string
}

// value returns nil for an absent or null field.
func (d *fieldDecoder) value(name string) any {
	msg, ok := d.raw[name]
	if !ok {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

func (d *fieldDecoder) fail(name, msg string) {
	d.mistyped[name] = true
	d.violations = append(d.violations, fmt.Sprintf("%s %s", name, msg))
}

func (d *fieldDecoder) stringField(name string) *string {
	v := d.value(name)
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		d.fail(name, "must be a string")
		return nil
	}
	return &s
}

func (d *fieldDecoder) intField(name string) *int {
	v := d.value(name)
	if v == nil {
		return nil
	}
	num, ok := v.(json.Number)
	if !ok {
		d.fail(name, "must be an integer")
		return nil
	}
	n, err := num.Int64()
	if err != nil {
		d.fail(name, "must be an integer")
		return nil
	}
	i := int(n)
	return &i
}
