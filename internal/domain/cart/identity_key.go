package cart

import (
	"fmt"
	"sort"
	"strings"
)

const noOptionsSuffix = "no-options"

// Options maps option name to chosen value (e.g. color, storage).
// Keys are compared case-sensitively; insertion order is irrelevant.
type Options map[string]string

// IdentityKey derives the composite key of a product and its chosen options.
// Options are sorted by name so any permutation yields the same key; an empty
// or nil option set collapses to "<productRef>-no-options".
func IdentityKey(productRef string, options Options) string {
	if len(options) == 0 {
		return productRef + "-" + noOptionsSuffix
	}

	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + options[name]
	}
	return productRef + "-" + strings.Join(parts, "|")
}

// OptionsFrom coerces loosely typed option values to their string form.
// A nil value becomes the empty string.
func OptionsFrom(raw map[string]any) Options {
	if len(raw) == 0 {
		return nil
	}
	opts := make(Options, len(raw))
	for name, value := range raw {
		if value == nil {
			opts[name] = ""
			continue
		}
		opts[name] = fmt.Sprint(value)
	}
	return opts
}

// Clone returns an independent copy; nil stays nil
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	c := make(Options, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// ColorID returns the color option forwarded to the remote update call, if any
func (o Options) ColorID() *string {
	for _, name := range []string{"colorId", "color_id", "color"} {
		if v, ok := o[name]; ok && v != "" {
			return &v
		}
	}
	return nil
}
