package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Validate checks the configuration for invalid or missing values.
func (c *Config) Validate() error {
	if errs := c.validate(); len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c *Config) validate() []string {
	var errs []string

	if c.Budget.MonthlyLimit < 0 {
		errs = append(errs, "budget.monthlyLimit must be non-negative")
	}

	ar := c.AutoReply
	if ar.IntervalMinutes < 0 {
		errs = append(errs, "autoReply.intervalMinutes must be non-negative")
	}
	switch ar.Mode {
	case "", "fixed", "ai":
	default:
		errs = append(errs, fmt.Sprintf("autoReply.mode %q must be \"fixed\" or \"ai\"", ar.Mode))
	}
	if ar.Mode == "fixed" && ar.FixedMessage == "" {
		errs = append(errs, "autoReply.fixedMessage is required in fixed mode")
	}
	if ar.Mode == "ai" && c.OpenAI.APIKey == "" {
		errs = append(errs, "openai.apiKey is required in ai mode")
	}

	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		errs = append(errs, "openai.temperature must be between 0 and 2")
	}

	return errs
}

// CheckUnknownFields walks the raw config map and returns paths of any keys
// that do not correspond to known Config struct fields.
func CheckUnknownFields(raw map[string]any) []string {
	result := checkUnknownFields(raw, reflect.TypeOf(Config{}), "")
	sort.Strings(result)
	return result
}

func checkUnknownFields(data map[string]any, t reflect.Type, prefix string) []string {
	t = derefType(t)
	if t.Kind() != reflect.Struct {
		return nil
	}

	known := jsonFieldMap(t)
	var unknown []string
	for key, val := range data {
		ft, ok := known[key]
		if !ok {
			unknown = append(unknown, joinPath(prefix, key))
			continue
		}
		if nested, ok := val.(map[string]any); ok {
			unknown = append(unknown, checkUnknownFields(nested, ft, joinPath(prefix, key))...)
		}
	}
	return unknown
}

func jsonFieldMap(t reflect.Type) map[string]reflect.Type {
	m := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name != "" {
			m[name] = f.Type
		}
	}
	return m
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
