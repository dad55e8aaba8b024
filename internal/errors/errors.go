// Package errors provides the categorized error type used across the
// converter. Every category is fatal to a build; the category tells the
// caller which stage failed and the context fields tell it where.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Category classifies an Error by the stage that produced it.
type Category string

const (
	CategoryInput      Category = "input"
	CategoryStructure  Category = "structure"
	CategoryIdentifier Category = "identifier"
	CategoryRender     Category = "render"
	CategoryWrite      Category = "write"
	CategoryConfig     Category = "config"
)

// Sentinels for errors.Is checks. They match any Error of the same category.
var (
	ErrInput             = &Error{Category: CategoryInput, Message: "input error"}
	ErrStructure         = &Error{Category: CategoryStructure, Message: "structural error"}
	ErrMissingIdentifier = &Error{Category: CategoryIdentifier, Message: "missing identifier"}
	ErrRender            = &Error{Category: CategoryRender, Message: "render error"}
	ErrWrite             = &Error{Category: CategoryWrite, Message: "write error"}
	ErrConfig            = &Error{Category: CategoryConfig, Message: "config error"}
)

// ContextFields carries structured diagnostic context.
type ContextFields map[string]any

// Error is a categorized error with an optional cause and context.
type Error struct {
	Category Category
	Message  string
	Cause    error
	Context  ContextFields
}

// New creates an Error without a cause.
func New(category Category, message string) *Error {
	return &Error{Category: category, Message: message}
}

// Wrap creates an Error wrapping cause.
func Wrap(cause error, category Category, message string) *Error {
	return &Error{Category: category, Message: message, Cause: cause}
}

// WithContext adds a context field and returns the error for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Category))
	sb.WriteString(": ")
	sb.WriteString(e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%s=%v", k, e.Context[k])
		}
		sb.WriteString("]")
	}

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an Error of the same category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Category == e.Category
}

// Input reports an unreadable, unparsable or unfetchable source document.
func Input(source string, cause error) *Error {
	return Wrap(cause, CategoryInput, "cannot load outline").
		WithContext("source", source)
}

// EmptyBody reports a document whose body has no outline elements.
func EmptyBody() *Error {
	return New(CategoryStructure, "no outline elements in the body")
}

// MissingIdentifier reports a node with neither a name nor usable text.
func MissingIdentifier(text string) *Error {
	return New(CategoryIdentifier, "node has neither name nor usable text").
		WithContext("text", text)
}

// Render reports a template execution failure for the page at path.
func Render(path string, cause error) *Error {
	return Wrap(cause, CategoryRender, "cannot render page").
		WithContext("path", path)
}

// Write reports a failure to persist the page at path.
func Write(path string, cause error) *Error {
	return Wrap(cause, CategoryWrite, "cannot write page").
		WithContext("path", path)
}

// Collision reports a second write to a path under the error policy.
func Collision(path string) *Error {
	return New(CategoryWrite, "destination already written in this run").
		WithContext("path", path)
}

// Config reports an invalid configuration value.
func Config(field, reason string) *Error {
	return New(CategoryConfig, "invalid configuration").
		WithContext("field", field).
		WithContext("reason", reason)
}

// IsCategory reports whether err is, or wraps, an Error of category.
func IsCategory(err error, category Category) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Category == category {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
