package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/spf13/pflag"

	"github.com/riskibarqy/hockey-roster/internal/app"
	"github.com/riskibarqy/hockey-roster/internal/config"
	"github.com/riskibarqy/hockey-roster/internal/domain/event"
	"github.com/riskibarqy/hockey-roster/internal/domain/player"
	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
	"github.com/riskibarqy/hockey-roster/internal/domain/team"
	"github.com/riskibarqy/hockey-roster/internal/observability"
	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
	"github.com/riskibarqy/hockey-roster/internal/usecase"
)

var errUsage = errors.New("usage")

type command struct {
	client *app.Client
	cfg    config.Config
	logger *logging.Logger
	out    io.Writer
}

func (c *command) execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	group, rest := args[0], args[1:]
	if group == "sync" {
		return c.sync(ctx, rest)
	}
	if len(rest) == 0 {
		return errUsage
	}

	action, flags := rest[0], rest[1:]
	switch group {
	case "teams":
		return c.teams(ctx, action, flags)
	case "players":
		return c.players(ctx, action, flags)
	case "events":
		return c.events(ctx, action, flags)
	case "auth":
		return c.auth(ctx, action, flags)
	default:
		return errUsage
	}
}

func (c *command) teams(ctx context.Context, action string, args []string) error {
	fs := pflag.NewFlagSet("teams "+action, pflag.ContinueOnError)
	id := fs.String("id", "", "team id")
	name := fs.String("name", "", "team name")
	division := fs.String("division", "", "division")
	coach := fs.String("coach", "", "head coach")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch action {
	case "list":
		return c.print(c.client.Teams.List(ctx))
	case "get":
		item, found, err := c.client.Teams.GetByID(ctx, shared.ID(*id))
		return c.printFound(item, found, err, "team", *id)
	case "create":
		res, err := c.client.Teams.Create(ctx, team.Team{Name: *name, Division: *division, Coach: *coach})
		if err != nil {
			return err
		}
		return c.print(res)
	case "update":
		patch := team.Patch{
			Name:     changedString(fs, "name", name),
			Division: changedString(fs, "division", division),
			Coach:    changedString(fs, "coach", coach),
		}
		updated, err := c.client.Teams.Update(ctx, shared.ID(*id), patch)
		if err != nil {
			return err
		}
		return c.print(updated)
	case "delete":
		if err := c.client.Teams.Delete(ctx, shared.ID(*id)); err != nil {
			return err
		}
		return c.print(map[string]string{"deleted": *id})
	default:
		return errUsage
	}
}

func (c *command) players(ctx context.Context, action string, args []string) error {
	fs := pflag.NewFlagSet("players "+action, pflag.ContinueOnError)
	id := fs.String("id", "", "player id")
	name := fs.String("name", "", "player name")
	teamRef := fs.String("team", "", "team id or team name")
	position := fs.String("position", "", "goalkeeper, defender, midfielder or forward")
	jersey := fs.Int("jersey", 0, "jersey number (0-99)")
	goals := fs.Int("goals", 0, "goals scored")
	assists := fs.Int("assists", 0, "assists")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch action {
	case "list":
		return c.print(c.client.Players.List(ctx))
	case "by-team":
		return c.print(c.client.Players.ListByTeam(ctx, shared.ID(*teamRef)))
	case "get":
		item, found, err := c.client.Players.GetByID(ctx, shared.ID(*id))
		return c.printFound(item, found, err, "player", *id)
	case "create":
		res, err := c.client.Players.Create(ctx, player.Player{
			Name:         *name,
			TeamID:       shared.ID(*teamRef),
			Position:     player.Position(*position),
			JerseyNumber: *jersey,
			Stats:        player.Stats{Goals: *goals, Assists: *assists},
		})
		if err != nil {
			return err
		}
		return c.print(res)
	case "update":
		patch := player.Patch{
			Name:         changedString(fs, "name", name),
			JerseyNumber: changedInt(fs, "jersey", jersey),
		}
		if fs.Changed("team") {
			teamID := shared.ID(*teamRef)
			patch.TeamID = &teamID
		}
		if fs.Changed("position") {
			pos := player.Position(*position)
			patch.Position = &pos
		}
		if fs.Changed("goals") || fs.Changed("assists") {
			patch.Stats = &player.Stats{Goals: *goals, Assists: *assists}
		}
		updated, err := c.client.Players.Update(ctx, shared.ID(*id), patch)
		if err != nil {
			return err
		}
		return c.print(updated)
	case "delete":
		if err := c.client.Players.Delete(ctx, shared.ID(*id)); err != nil {
			return err
		}
		return c.print(map[string]string{"deleted": *id})
	default:
		return errUsage
	}
}

func (c *command) events(ctx context.Context, action string, args []string) error {
	fs := pflag.NewFlagSet("events "+action, pflag.ContinueOnError)
	id := fs.String("id", "", "event id")
	title := fs.String("title", "", "event title")
	description := fs.String("description", "", "description")
	location := fs.String("location", "", "venue")
	date := fs.String("date", "", "date, YYYY-MM-DD or RFC 3339")
	at := fs.String("time", "", "start time, e.g. 14:00")
	kind := fs.String("type", string(event.TypeMatch), "match, training or tournament")
	teams := fs.StringSlice("teams", nil, "participating team names")
	deadline := fs.String("deadline", "", "registration deadline")
	user := fs.String("user", "", "user id to register (default: signed-in user)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch action {
	case "list":
		return c.print(c.client.Events.List(ctx))
	case "upcoming":
		return c.print(c.client.Events.ListUpcoming(ctx))
	case "get":
		item, found, err := c.client.Events.GetByID(ctx, shared.ID(*id))
		return c.printFound(item, found, err, "event", *id)
	case "create":
		res, err := c.client.Events.Create(ctx, event.Event{
			Title:                *title,
			Description:          *description,
			Location:             *location,
			Date:                 *date,
			Time:                 *at,
			Teams:                *teams,
			Type:                 event.Type(*kind),
			RegistrationDeadline: *deadline,
		})
		if err != nil {
			return err
		}
		return c.print(res)
	case "update":
		patch := event.Patch{
			Title:                changedString(fs, "title", title),
			Description:          changedString(fs, "description", description),
			Location:             changedString(fs, "location", location),
			Date:                 changedString(fs, "date", date),
			Time:                 changedString(fs, "time", at),
			RegistrationDeadline: changedString(fs, "deadline", deadline),
		}
		if fs.Changed("teams") {
			patch.Teams = teams
		}
		if fs.Changed("type") {
			t := event.Type(*kind)
			patch.Type = &t
		}
		updated, err := c.client.Events.Update(ctx, shared.ID(*id), patch)
		if err != nil {
			return err
		}
		return c.print(updated)
	case "delete":
		if err := c.client.Events.Delete(ctx, shared.ID(*id)); err != nil {
			return err
		}
		return c.print(map[string]string{"deleted": *id})
	case "register":
		userID := strings.TrimSpace(*user)
		if userID == "" {
			current, err := c.client.Session.CurrentUser(ctx)
			if err != nil {
				return err
			}
			userID = current.ID
		}
		if err := c.client.Events.Register(ctx, shared.ID(*id), userID); err != nil {
			return err
		}
		return c.print(event.Registration{EventID: shared.ID(*id), UserID: userID})
	default:
		return errUsage
	}
}

func (c *command) auth(ctx context.Context, action string, args []string) error {
	fs := pflag.NewFlagSet("auth "+action, pflag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	displayName := fs.String("name", "", "display name for signup")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch action {
	case "signup":
		tokens, err := c.client.Session.SignUp(ctx, *email, *password, *displayName)
		if err != nil {
			return err
		}
		return c.print(tokens.User)
	case "signin":
		tokens, err := c.client.Session.SignIn(ctx, *email, *password)
		if err != nil {
			return err
		}
		return c.print(tokens.User)
	case "signout":
		if err := c.client.Session.SignOut(ctx); err != nil {
			return err
		}
		return c.print(map[string]bool{"signed_out": true})
	case "whoami":
		user, err := c.client.Session.CurrentUser(ctx)
		if err != nil {
			return err
		}
		return c.print(user)
	case "reset":
		if err := c.client.Session.ResetPassword(ctx, *email); err != nil {
			return err
		}
		return c.print(map[string]string{"reset_sent_to": strings.TrimSpace(*email)})
	default:
		return errUsage
	}
}

func (c *command) sync(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("sync", pflag.ContinueOnError)
	watch := fs.Bool("watch", false, "keep refreshing until interrupted")
	interval := fs.Duration("interval", c.cfg.SyncInterval, "refresh interval with --watch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*watch {
		report, err := c.client.Sync.Prefetch(ctx)
		if err != nil {
			return err
		}
		return c.print(report)
	}

	stopProfiling, err := observability.InitPyroscope(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			c.logger.Warn("stop profiling failed", "error", err)
		}
	}()

	c.logger.Info("sync watcher started", "interval", interval.String())
	return c.client.Sync.Watch(ctx, *interval, func(report usecase.SyncReport) {
		if err := c.print(report); err != nil {
			c.logger.Warn("print sync report failed", "error", err)
		}
	})
}

func (c *command) print(v any) error {
	enc := sonic.ConfigDefault.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *command) printFound(v any, found bool, err error, kind, id string) error {
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s %q: %w", kind, id, usecase.ErrNotFound)
	}
	return c.print(v)
}

func changedString(fs *pflag.FlagSet, name string, value *string) *string {
	if !fs.Changed(name) {
		return nil
	}
	v := *value
	return &v
}

func changedInt(fs *pflag.FlagSet, name string, value *int) *int {
	if !fs.Changed(name) {
		return nil
	}
	v := *value
	return &v
}
