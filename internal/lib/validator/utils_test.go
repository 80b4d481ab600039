package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,max=72"`
	Genre    []string `json:"genre" validate:"required,min=1,unique" errorMsg:"Provide at least one distinct genre"`
	PageSize int      `validate:"lte=100"`
}

func TestValidateStruct(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		errs := ValidateStruct(v, signupForm{Email: "a@x.com", Password: "p1", Genre: []string{"drama"}})
		assert.Nil(t, errs)
	})

	t.Run("invalid", func(t *testing.T) {
		errs := ValidateStruct(v, signupForm{Email: "nope", Genre: []string{"drama", "drama"}, PageSize: 101})
		assert.Equal(t, map[string]string{
			"email":     "Value must be a valid email address",
			"password":  "This field is required",
			"genre":     "Provide at least one distinct genre",
			"page_size": "Value should be less than or equal to 100",
		}, errs)
	})
}

func TestCamelToSnake(t *testing.T) {
	assert.Equal(t, "directed_by", camelToSnake("DirectedBy"))
	assert.Equal(t, "title", camelToSnake("Title"))
}
