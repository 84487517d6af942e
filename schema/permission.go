package schema

// PermissionKind says whether an override targets a role or a user.
type PermissionKind int

const (
	PermissionRole PermissionKind = 1
	PermissionUser PermissionKind = 2
)

// PermissionOverride allows or denies one role or user for a command.
type PermissionOverride struct {
	ID    string         `json:"id"`
	Kind  PermissionKind `json:"type"`
	Allow bool           `json:"permission"`
}

// Equal reports structural equality over id, kind and state.
func (p PermissionOverride) Equal(other PermissionOverride) bool {
	return p == other
}

// GuildPermissionSet is the full permission configuration for one command
// within one guild.
type GuildPermissionSet struct {
	CommandID   string               `json:"id"`
	GuildID     string               `json:"guild_id"`
	Permissions []PermissionOverride `json:"permissions"`
}

// Equal reports structural equality over all three fields, overrides
// compared element-wise in order.
func (g GuildPermissionSet) Equal(other GuildPermissionSet) bool {
	if g.CommandID != other.CommandID || g.GuildID != other.GuildID {
		return false
	}
	if len(g.Permissions) != len(other.Permissions) {
		return false
	}
	for i := range g.Permissions {
		if g.Permissions[i] != other.Permissions[i] {
			return false
		}
	}
	return true
}

func equalPermissionMaps(a, b map[string][]PermissionOverride) bool {
	if len(a) != len(b) {
		return false
	}
	for guildID, overrides := range a {
		others, ok := b[guildID]
		if !ok || len(others) != len(overrides) {
			return false
		}
		for i := range overrides {
			if overrides[i] != others[i] {
				return false
			}
		}
	}
	return true
}
