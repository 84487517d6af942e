// Package schema models application commands: the option/choice tree, the
// assembled command declaration, permission overrides, and the registration
// payload exchanged with the remote registry. Everything here is a value
// object — validated eagerly at construction, compared by deep structural
// equality, and free of network I/O.
package schema

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// CommandType distinguishes chat-input commands from user and message
// context-menu commands.
type CommandType int

const (
	ChatCommand    CommandType = 1
	UserCommand    CommandType = 2
	MessageCommand CommandType = 3
)

// Declaration bundles everything a registration call supplies for one
// command before it is assembled into a Command. Base, Sub and Group are
// only set when the command is one node of a multi-level tree
// (base command -> subcommand group -> subcommand).
type Declaration struct {
	Kind             CommandType
	Base             string
	Sub              string
	Group            string
	Description      string
	BaseDescription  string
	GroupDescription string

	// GuildIDs scopes the command to specific guilds; empty means global.
	GuildIDs []string
	Options  []Option

	// Connector maps declared parameter names to handler parameter names.
	Connector map[string]string

	// Permissions holds declared per-guild overrides, keyed by guild ID.
	Permissions map[string][]PermissionOverride

	DefaultPermission *bool
	HasSubcommands    bool
}

// Command is the local declaration of one application command. It is
// immutable once assembled; registration and upload are someone else's job.
type Command struct {
	Type  CommandType
	Name  string
	Base  string
	Sub   string
	Group string

	Description      string
	BaseDescription  string
	GroupDescription string

	GuildIDs          []string
	Options           []Option
	Connector         map[string]string
	Permissions       map[string][]PermissionOverride
	DefaultPermission *bool

	// Derived flags, computed once at construction.
	HasDescription bool
	HasOptions     bool
	HasSubcommands bool
	HasPermissions bool
	HasGroup       bool
}

// NewCommand assembles a Command from a declaration. The name and any
// tree-addressing names are normalized to lowercase, every option is
// validated, and the derived flags are computed once.
func NewCommand(name string, decl Declaration) (*Command, error) {
	if name == "" {
		return nil, &SchemaError{Msg: "command name is required"}
	}
	for _, o := range decl.Options {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}

	kind := decl.Kind
	if kind == 0 {
		kind = ChatCommand
	}

	c := &Command{
		Type:              kind,
		Name:              strings.ToLower(name),
		Base:              strings.ToLower(decl.Base),
		Sub:               strings.ToLower(decl.Sub),
		Group:             strings.ToLower(decl.Group),
		Description:       decl.Description,
		BaseDescription:   decl.BaseDescription,
		GroupDescription:  decl.GroupDescription,
		GuildIDs:          decl.GuildIDs,
		Options:           decl.Options,
		Connector:         decl.Connector,
		Permissions:       decl.Permissions,
		DefaultPermission: decl.DefaultPermission,
	}

	// Exactly one description variant ends up on the wire, picked by tree
	// depth, so having any of the three counts as described.
	c.HasDescription = c.Description != "" || c.BaseDescription != "" || c.GroupDescription != ""
	c.HasOptions = len(c.Options) > 0
	c.HasSubcommands = decl.HasSubcommands
	c.HasPermissions = len(c.Permissions) > 0
	c.HasGroup = c.Group != ""

	return c, nil
}

// AppliesTo reports whether the command is registered in the given guild.
// A command without guild scoping is global and applies everywhere.
func (c *Command) AppliesTo(guildID string) bool {
	return len(c.GuildIDs) == 0 || slices.Contains(c.GuildIDs, guildID)
}

// effectiveDescription picks the description variant matching the command's
// position in the tree.
func (c *Command) effectiveDescription() string {
	switch {
	case c.Group != "" && c.GroupDescription != "":
		return c.GroupDescription
	case c.Base != "" && c.BaseDescription != "":
		return c.BaseDescription
	default:
		return c.Description
	}
}

// Payload returns the registration payload uploaded to the remote registry.
func (c *Command) Payload() *RegisteredCommand {
	return &RegisteredCommand{
		Name:              c.Name,
		Description:       c.effectiveDescription(),
		Options:           c.Options,
		DefaultPermission: c.DefaultPermission == nil || *c.DefaultPermission,
	}
}

// Equal reports deep structural equality over all declared fields. Two
// commands of different kinds are never equal, and option order matters.
func (c *Command) Equal(other *Command) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Type != other.Type ||
		c.Name != other.Name ||
		c.Base != other.Base ||
		c.Sub != other.Sub ||
		c.Group != other.Group ||
		c.Description != other.Description ||
		c.BaseDescription != other.BaseDescription ||
		c.GroupDescription != other.GroupDescription {
		return false
	}
	if !slices.Equal(c.GuildIDs, other.GuildIDs) {
		return false
	}
	if !equalOptions(c.Options, other.Options) {
		return false
	}
	if !maps.Equal(c.Connector, other.Connector) {
		return false
	}
	if !equalPermissionMaps(c.Permissions, other.Permissions) {
		return false
	}
	return equalBoolPtr(c.DefaultPermission, other.DefaultPermission)
}

// RegisteredCommand is a command as stored by the remote registry, carrying
// the identity the platform assigned to it. The local declaration never has
// these identity fields until synced, so Equal ignores them.
type RegisteredCommand struct {
	ID            string `json:"id,omitempty"`
	ApplicationID string `json:"application_id,omitempty"`
	Version       string `json:"version,omitempty"`

	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Options           []Option `json:"options,omitempty"`
	DefaultPermission bool     `json:"default_permission"`
}

// ParseRegisteredCommand decodes a registration payload. Options are
// validated during decoding, so a malformed remote definition surfaces as a
// SchemaError here instead of corrupting later diffs.
func ParseRegisteredCommand(data []byte) (*RegisteredCommand, error) {
	var c RegisteredCommand
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UnmarshalJSON defaults default_permission to true when the field is
// absent, matching the platform's default.
func (c *RegisteredCommand) UnmarshalJSON(data []byte) error {
	type plain RegisteredCommand
	p := struct {
		plain
		DefaultPermission *bool `json:"default_permission"`
	}{}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = RegisteredCommand(p.plain)
	c.DefaultPermission = p.DefaultPermission == nil || *p.DefaultPermission
	return nil
}

// Equal compares name, description, options and default permission. This is
// the diffing mechanism: when the local payload equals the remote
// definition, re-registration is skipped.
func (c *RegisteredCommand) Equal(other *RegisteredCommand) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Name == other.Name &&
		c.Description == other.Description &&
		c.DefaultPermission == other.DefaultPermission &&
		equalOptions(c.Options, other.Options)
}

// Menu describes a context-menu command: a name and a kind, nothing more.
type Menu struct {
	Name string      `json:"name"`
	Type CommandType `json:"type"`
}

// Equal reports structural equality.
func (m Menu) Equal(other Menu) bool {
	return m == other
}

func equalOptions(a, b []Option) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalBoolPtr(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
