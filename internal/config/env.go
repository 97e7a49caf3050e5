package config

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// envAliases maps short variables to setting paths.
var envAliases = map[string]string{
	"GHOSTLINE_PROVIDER":  "backend.provider",
	"GHOSTLINE_MODEL":     "backend.model",
	"GHOSTLINE_LOG_LEVEL": "log.level",
	"GHOSTLINE_DELAY":     "completion.delay",
}

// ApplyEnv overrides settings from environ entries ("KEY=value").
// GHOSTLINE_<SECTION>_<KEY> sets <section>.<key>, for example
// GHOSTLINE_BACKEND_MAX_TOKENS=512. Variables that name no setting are ignored.
func ApplyEnv(cfg *Config, environ []string) error {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		path, ok := envAliases[name]
		if !ok {
			path = envToPath(name)
		}
		if err := Set(cfg, path, value); err != nil {
			var unknown *unknownSettingError
			if errors.As(err, &unknown) {
				continue
			}
			return fmt.Errorf("environment %s: %w", name, err)
		}
	}
	return nil
}

// envToPath converts GHOSTLINE_BACKEND_MAX_TOKENS to backend.max_tokens.
func envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, EnvPrefix))
	section, key, ok := strings.Cut(name, "_")
	if !ok {
		return name
	}
	return section + "." + key
}

type unknownSettingError struct {
	path string
}

func (e *unknownSettingError) Error() string {
	return fmt.Sprintf("unknown setting %q", e.path)
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// Set assigns a setting by its dotted TOML path, parsing value for the
// field's type.
func Set(cfg *Config, path, value string) error {
	field, ok := lookup(reflect.ValueOf(cfg).Elem(), strings.Split(path, "."))
	if !ok {
		return &unknownSettingError{path: path}
	}
	if field.Addr().Type().Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value))
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		field.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", value)
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("setting %q has unsupported type %s", path, field.Type())
	}
	return nil
}

func lookup(v reflect.Value, parts []string) (reflect.Value, bool) {
	for _, part := range parts {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, false
		}
		found := false
		t := v.Type()
		for i := range t.NumField() {
			tag, _, _ := strings.Cut(t.Field(i).Tag.Get("toml"), ",")
			if tag == part {
				v = v.Field(i)
				found = true
				break
			}
		}
		if !found {
			return reflect.Value{}, false
		}
	}
	return v, v.Kind() != reflect.Struct
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
