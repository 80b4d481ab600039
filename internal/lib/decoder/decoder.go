package decoder

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
)

// URLDecoder fills structs tagged with `schema:"..."` from query values.
// Fields missing from the query keep whatever value dst already holds,
// so callers set defaults before decoding.
type URLDecoder struct {
	dec *schema.Decoder
}

func New() *URLDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	dec.ZeroEmpty(false)
	return &URLDecoder{dec: dec}
}

func (d *URLDecoder) Decode(dst any, src url.Values) error {
	if err := d.dec.Decode(dst, src); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			for field, fieldErr := range multi {
				var conv schema.ConversionError
				if errors.As(fieldErr, &conv) {
					return fmt.Errorf("query parameter %q has an invalid value", field)
				}
				return fmt.Errorf("query parameter %q: %w", field, fieldErr)
			}
		}
		return err
	}
	return nil
}
