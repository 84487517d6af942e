package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/keshon/slashkit/rest"
	"github.com/keshon/slashkit/schema"
)

// Write calls against the command registry are paced to stay well under
// the platform's rate limit.
const syncInterval = 25 * time.Millisecond

// Syncer reconciles locally declared commands with the remote registry for
// one guild at a time. Structural equality against the remote definition
// decides whether a command needs re-registration.
type Syncer struct {
	api     rest.CommandClient
	reg     *Registry
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewSyncer returns a Syncer over the given command API and registry.
func NewSyncer(api rest.CommandClient, reg *Registry, log zerolog.Logger) *Syncer {
	return &Syncer{
		api:     api,
		reg:     reg,
		limiter: rate.NewLimiter(rate.Every(syncInterval), 1),
		log:     log,
	}
}

// Sync brings the remote registry for a guild in line with the local one:
// obsolete commands are deleted, new or changed ones are uploaded, and
// unchanged ones are skipped. Declared permission overrides for the guild
// are pushed after each upload. Individual command failures are logged and
// skipped so one bad definition does not block the rest.
func (s *Syncer) Sync(ctx context.Context, appID, guildID string) error {
	remote, err := s.api.Commands(ctx, appID, guildID)
	if err != nil {
		return fmt.Errorf("fetch registered commands: %w", err)
	}
	remoteByName := make(map[string]*schema.RegisteredCommand, len(remote))
	for _, rc := range remote {
		remoteByName[rc.Name] = rc
	}

	local := make(map[string]*schema.Command)
	for _, c := range s.reg.All() {
		if c.AppliesTo(guildID) {
			local[c.Name] = c
		}
	}

	// Delete what the local registry no longer declares.
	for name, rc := range remoteByName {
		if _, ok := local[name]; ok {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := s.api.DeleteCommand(ctx, appID, guildID, rc.ID); err != nil {
			s.log.Error().Err(err).Str("guild_id", guildID).Str("command", name).Msg("failed to delete obsolete command")
			continue
		}
		s.log.Info().Str("guild_id", guildID).Str("command", name).Msg("deleted obsolete command")
	}

	// Upload new and changed commands; skip the ones already registered
	// with an equal definition.
	for _, c := range s.reg.All() {
		if _, ok := local[c.Name]; !ok {
			continue
		}
		payload := c.Payload()
		if rc, ok := remoteByName[c.Name]; ok && payload.Equal(rc) {
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		created, err := s.api.CreateCommand(ctx, appID, guildID, payload)
		if err != nil {
			s.log.Error().Err(err).Str("guild_id", guildID).Str("command", c.Name).Msg("failed to register command")
			continue
		}
		s.log.Info().Str("guild_id", guildID).Str("command", c.Name).Msg("registered command")

		if overrides, ok := c.Permissions[guildID]; ok && created != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
			if err := s.api.EditCommandPermissions(ctx, appID, guildID, created.ID, overrides); err != nil {
				s.log.Error().Err(err).Str("guild_id", guildID).Str("command", c.Name).Msg("failed to push command permissions")
			}
		}
	}

	return nil
}
