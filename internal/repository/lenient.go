package repository

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"rakitin/internal/models"
)

var (
	quantityType = reflect.TypeOf(models.Quantity(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// decodeDocument decodes a document body into out. Bodies written by other
// clients may hold numbers or booleans where a record expects text; those are
// retried with weak typing instead of being dropped.
func decodeDocument(data json.RawMessage, out any) error {
	strictErr := json.Unmarshal(data, out)
	if strictErr == nil {
		return nil
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return strictErr
	}
	target := reflect.ValueOf(out).Elem()
	target.Set(reflect.Zero(target.Type()))

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(quantityHook, timeHook),
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(fields); err != nil {
		return fmt.Errorf("%w (lenient: %v)", strictErr, err)
	}
	return nil
}

// quantityHook applies the models.Quantity coercion to any input shape.
func quantityHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != quantityType {
		return data, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return models.Quantity(0), nil
	}
	var q models.Quantity
	_ = q.UnmarshalJSON(raw)
	return q, nil
}

// timeHook parses RFC 3339 text; anything else leaves the zero time so the
// store timestamp is used.
func timeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	s, ok := data.(string)
	if !ok || from.Kind() != reflect.String {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}
