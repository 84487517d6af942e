package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// OptionType tags the kind of value an option carries, matching the wire enum.
type OptionType int

const (
	OptionSubCommand      OptionType = 1
	OptionSubCommandGroup OptionType = 2
	OptionString          OptionType = 3
	OptionInteger         OptionType = 4
	OptionBoolean         OptionType = 5
	OptionUser            OptionType = 6
	OptionChannel         OptionType = 7
	OptionRole            OptionType = 8
	OptionMentionable     OptionType = 9
	OptionNumber          OptionType = 10
	OptionAttachment      OptionType = 11
)

var optionTypeNames = map[OptionType]string{
	OptionSubCommand:      "subcommand",
	OptionSubCommandGroup: "subcommand_group",
	OptionString:          "string",
	OptionInteger:         "integer",
	OptionBoolean:         "boolean",
	OptionUser:            "user",
	OptionChannel:         "channel",
	OptionRole:            "role",
	OptionMentionable:     "mentionable",
	OptionNumber:          "number",
	OptionAttachment:      "attachment",
}

func (t OptionType) String() string {
	if name, ok := optionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("option_type(%d)", int(t))
}

// SchemaError reports a malformed command or option declaration. It is
// always returned at construction time and never retried.
type SchemaError struct {
	Path string // dotted option path within the tree, e.g. "task.assign"
	Msg  string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "schema: " + e.Msg
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Msg)
}

// Choice is one selectable value for an option. Value is a string, integer,
// number or boolean.
type Choice struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Equal reports structural equality over all fields. Integer widths are
// normalized first so a round-tripped choice still compares equal.
func (c Choice) Equal(other Choice) bool {
	return c.Name == other.Name && normalizeValue(c.Value) == normalizeValue(other.Value)
}

// UnmarshalJSON decodes the value into string, int64, float64 or bool rather
// than letting every number collapse into float64.
func (c *Choice) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Name = raw.Name
	c.Value = nil
	if len(raw.Value) == 0 || bytes.Equal(raw.Value, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Value))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			c.Value = i
			return nil
		}
		f, err := n.Float64()
		if err != nil {
			return err
		}
		c.Value = f
		return nil
	}
	c.Value = v
	return nil
}

// normalizeValue folds numeric values into a single representation for
// comparison. Whole-valued floats collapse into int64, since generic JSON
// decoding turns every number into float64 and an integer choice must still
// compare equal to its decoded counterpart.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return normalizeFloat(float64(n))
	case float64:
		return normalizeFloat(n)
	default:
		return v
	}
}

// maxExactFloat is the largest integer a float64 represents exactly (2^53).
const maxExactFloat = 1 << 53

func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && f >= -maxExactFloat && f <= maxExactFloat {
		return int64(f)
	}
	return f
}

// Option is one named, typed parameter of a command. Subcommands and
// subcommand groups nest further options; value-typed options may carry a
// fixed set of choices.
type Option struct {
	Type        OptionType `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Required    bool       `json:"required,omitempty"`
	Options     []Option   `json:"options,omitempty"`
	Choices     []Choice   `json:"choices,omitempty"`
}

// NewOption validates an option tree and returns it. The type tag is
// mandatory, and a subcommand group must carry at least one child option.
func NewOption(o Option) (Option, error) {
	if err := o.Validate(); err != nil {
		return Option{}, err
	}
	return o, nil
}

// Validate checks the option and, for subcommands and subcommand groups,
// every nested option at unbounded depth.
func (o Option) Validate() error {
	return o.validate(o.Name)
}

func (o Option) validate(path string) error {
	if o.Type == 0 {
		return &SchemaError{Path: path, Msg: "option type is required"}
	}
	if o.Type == OptionSubCommand || o.Type == OptionSubCommandGroup {
		if o.Type == OptionSubCommandGroup && len(o.Options) == 0 {
			return &SchemaError{Path: path, Msg: "subcommand group requires at least one option"}
		}
		for _, child := range o.Options {
			if err := child.validate(path + "." + child.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Equal reports deep structural equality, including nested options and
// choices compared element-wise in order. Order matters: the registry
// preserves it and it is user-visible.
func (o Option) Equal(other Option) bool {
	if o.Type != other.Type ||
		o.Name != other.Name ||
		o.Description != other.Description ||
		o.Required != other.Required {
		return false
	}
	if len(o.Options) != len(other.Options) || len(o.Choices) != len(other.Choices) {
		return false
	}
	for i := range o.Options {
		if !o.Options[i].Equal(other.Options[i]) {
			return false
		}
	}
	for i := range o.Choices {
		if !o.Choices[i].Equal(other.Choices[i]) {
			return false
		}
	}
	return true
}

// UnmarshalJSON decodes and eagerly validates the option, so a payload
// parsed back from the wire carries the same guarantees as one built
// locally.
func (o *Option) UnmarshalJSON(data []byte) error {
	type plain Option
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = Option(p)
	return o.Validate()
}
