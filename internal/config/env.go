package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// lookupEnv is swapped out in tests.
var lookupEnv = os.LookupEnv

// applyEnvOverrides walks cfg and replaces every field tagged `env:"NAME"`
// with $NAME when that variable is set. Nested sections are visited too.
func applyEnvOverrides(cfg any) error {
	v := reflect.Indirect(reflect.ValueOf(cfg))
	if v.Kind() != reflect.Struct {
		return nil
	}
	return overrideSection(v)
}

func overrideSection(section reflect.Value) error {
	t := section.Type()
	for i := 0; i < t.NumField(); i++ {
		sf, fv := t.Field(i), section.Field(i)

		if fv.Kind() == reflect.Struct && fv.Type() != durationType {
			if err := overrideSection(fv); err != nil {
				return err
			}
			continue
		}

		name, tagged := sf.Tag.Lookup("env")
		if !tagged || name == "" {
			continue
		}
		raw, set := lookupEnv(name)
		if !set {
			continue
		}
		if err := assign(fv, raw); err != nil {
			return fmt.Errorf("env %s -> %s: %w", name, sf.Name, err)
		}
	}
	return nil
}

// assign parses raw into fv according to the field's kind.
func assign(fv reflect.Value, raw string) error {
	if !fv.CanSet() {
		return fmt.Errorf("unexported field")
	}

	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("bad duration %q: %w", raw, err)
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch k := fv.Kind(); {
	case k == reflect.String:
		fv.SetString(raw)
	case k == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("bad bool %q: %w", raw, err)
		}
		fv.SetBool(b)
	case k >= reflect.Int && k <= reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("bad integer %q: %w", raw, err)
		}
		fv.SetInt(n)
	default:
		return fmt.Errorf("kind %s is not supported", k)
	}
	return nil
}
