package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"arena-sync/feature/tournament/settings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var yesConfirm bool

// teamsCmd is the parent command for team registration.
var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Manage the teams mirrored into guilds",
}

var teamsListCmd = &cobra.Command{
	Use:   "list [guild]",
	Short: "List registered teams of one guild, or of every guild",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		defer l.Sync()

		store, _, err := openStore(ctx, cfg, l)
		if err != nil {
			return err
		}

		var guilds []settings.GuildSettings
		if len(args) == 1 {
			g, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			guilds = append(guilds, g)
		} else if guilds, err = store.List(ctx); err != nil {
			return err
		}

		for _, g := range guilds {
			teams := "(none)"
			if len(g.Teams) > 0 {
				teams = strings.Join(g.Teams, ", ")
			}
			fmt.Printf("%s\tauto_sync=%t\tchannel=%s\tteams=%s\n", g.GuildID, g.AutoSync, g.NotificationChannel, teams)
		}
		return nil
	},
}

var teamsAddCmd = &cobra.Command{
	Use:   "add <guild> <team>",
	Short: "Register a team for a guild",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		defer l.Sync()

		slug, err := settings.NormalizeTeam(args[1])
		if err != nil {
			return err
		}
		store, _, err := openStore(ctx, cfg, l)
		if err != nil {
			return err
		}
		added, err := store.AddTeam(ctx, args[0], slug)
		if err != nil {
			return err
		}
		if !added {
			l.Info("Team already registered", zap.String("guild_id", args[0]), zap.String("team", slug))
			return nil
		}
		fmt.Printf("Team `%s` saved.\n", slug)
		return nil
	},
}

var teamsRemoveCmd = &cobra.Command{
	Use:   "remove <guild> <team>",
	Short: "Unregister a team and delete its events from the guild",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		defer l.Sync()

		if !confirmRemoval(args[0], args[1]) {
			fmt.Println("Aborted.")
			return nil
		}

		st, err := buildStack(ctx, cfg, l, false)
		if err != nil {
			return err
		}
		report, err := st.service.RemoveTeam(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if report.Warning != "" {
			l.Warn("Team events were not cleaned up", zap.String("reason", report.Warning))
		}
		fmt.Println(report.Message())
		return nil
	},
}

// confirmRemoval asks before deleting a team's scheduled events.
func confirmRemoval(guildID, team string) bool {
	if yesConfirm {
		return true
	}

	fmt.Printf("Remove team %s from guild %s and delete its scheduled events? Type 'yes' to confirm: ", team, guildID)
	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

func init() {
	teamsRemoveCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Skip the confirmation prompt")
	teamsCmd.AddCommand(teamsListCmd, teamsAddCmd, teamsRemoveCmd)
	RootCmd.AddCommand(teamsCmd)
}
