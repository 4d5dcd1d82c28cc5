package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/triviagame/internal/api/response"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerGamesCmd())
	cmd.AddCommand(newPlayerGameCmd())

	return cmd
}

func playerPath(playerID string) string {
	return "/api/v1/players/" + url.PathEscape(playerID)
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player_id>",
		Short: "Show a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Player

			if err := client.Get(playerPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games <player_id>",
		Short: "List the games a player has joined",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PlayerGames

			if err := client.Get(playerPath(args[0])+"/games", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerGameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "game <player_id> <game_id>",
		Short: "Show a game the player belongs to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Get(playerPath(args[0])+"/games/"+url.PathEscape(args[1]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
