/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/mitchellh/mapstructure"
)

// User is the typed form of a "user" record.
type User struct {

	// Unique identifier of the user.
	ID string `json:"id,omitempty"`

	// Login email.
	// Required: true
	Email string `json:"email,omitempty"`

	// Display name.
	Name string `json:"name,omitempty"`

	// Role, "member" unless set.
	Role string `json:"role,omitempty"`

	// Checks owned by the user. Only set when the association is populated.
	Checks []Check `json:"checks,omitempty"`

	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"createdAt,omitempty"`

	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"updatedAt,omitempty"`
}

// Check is the typed form of a "check" record: one monitored URL.
type Check struct {

	// Unique identifier of the check.
	ID string `json:"id,omitempty"`

	// Monitored URL.
	// Required: true
	URL string `json:"url,omitempty"`

	// Human readable label.
	Name string `json:"name,omitempty"`

	// Probe interval in seconds, 60 unless set.
	Interval int `json:"interval,omitempty"`

	// Whether the check is probed. Nil leaves the model default (true).
	Active *bool `json:"active,omitempty"`

	// Id of the owning user. A populated owner decodes to its id.
	Owner string `json:"owner,omitempty"`

	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"createdAt,omitempty"`

	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"updatedAt,omitempty"`
}

var dateTimeType = reflect.TypeOf(strfmt.DateTime{})

// Timestamp formats t the way records store createdAt and updatedAt.
func Timestamp(t time.Time) string {
	return strfmt.DateTime(t.UTC()).String()
}

// Decode converts a record into its typed form.
func Decode[T any](r Record) (*T, error) {
	out := new(T)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToDateTimeHook,
			referenceToIDHook,
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(r)); err != nil {
		return nil, fmt.Errorf("failed to decode %T: %w", *out, err)
	}
	return out, nil
}

// DecodeAll converts records into their typed form.
func DecodeAll[T any](records []Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, r := range records {
		v, err := Decode[T](r)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// Encode converts a typed entity into fields. Empty attributes are omitted so
// model defaults still apply on create.
func Encode(v any) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}
	return fields, nil
}

func stringToDateTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != dateTimeType || from.Kind() != reflect.String {
		return data, nil
	}
	dt, err := strfmt.ParseDateTime(reflect.ValueOf(data).String())
	if err != nil {
		return nil, err
	}
	return dt, nil
}

// referenceToIDHook lets a populated to-one association decode into its id.
func referenceToIDHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || from.Kind() != reflect.Map {
		return data, nil
	}
	rv := reflect.ValueOf(data)
	if rv.Type().Key().Kind() != reflect.String {
		return data, nil
	}
	id := rv.MapIndex(reflect.ValueOf("id").Convert(rv.Type().Key()))
	if !id.IsValid() {
		return "", nil
	}
	return id.Interface(), nil
}
