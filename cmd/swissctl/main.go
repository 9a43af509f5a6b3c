package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"swiss-tournament/internal/constants"
	tournamentv1 "swiss-tournament/internal/rpc/tournamentv1"
	"text/tabwriter"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	app := &cli.App{
		Name:  "swissctl",
		Usage: "drive a running swiss tournament server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "base URL of the tournament server",
				Value:   "http://localhost:8080",
				EnvVars: []string{"SWISS_ADDR"},
			},
		},
		Commands: []*cli.Command{
			registerCommand(),
			reportCommand(),
			standingsCommand(),
			pairingsCommand(),
			countCommand(),
			roundCommand(),
			checkCommand(),
			resetCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal().Err(err).Str("code", connect.CodeOf(err).String()).Msg("command failed")
	}
}

func newClient(c *cli.Context) *tournamentv1.TournamentServiceClient {
	httpClient := &http.Client{Timeout: constants.RequestTimeout}
	return tournamentv1.NewTournamentServiceClient(httpClient, c.String("addr"))
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:      "register",
		Usage:     "register one player per argument",
		ArgsUsage: "NAME...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one name is required", 2)
			}
			client := newClient(c)
			for _, name := range c.Args().Slice() {
				_, err := client.RegisterPlayer(c.Context, connect.NewRequest(&tournamentv1.RegisterPlayerRequest{Name: name}))
				if err != nil {
					return fmt.Errorf("register %q: %w", name, err)
				}
				fmt.Fprintf(c.App.Writer, "registered %s\n", name)
			}
			return nil
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "record that WINNER beat LOSER",
		ArgsUsage: "WINNER_ID LOSER_ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("expected WINNER_ID LOSER_ID", 2)
			}
			winner, err := strconv.ParseInt(c.Args().Get(0), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid winner id: %w", err)
			}
			loser, err := strconv.ParseInt(c.Args().Get(1), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid loser id: %w", err)
			}

			_, err = newClient(c).ReportMatch(c.Context, connect.NewRequest(&tournamentv1.ReportMatchRequest{
				WinnerId: winner,
				LoserId:  loser,
			}))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "recorded %d beat %d\n", winner, loser)
			return nil
		},
	}
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print the current ranking",
		Action: func(c *cli.Context) error {
			resp, err := newClient(c).PlayerStandings(c.Context, connect.NewRequest(&tournamentv1.PlayerStandingsRequest{}))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tID\tNAME\tWINS\tMATCHES")
			for i, s := range resp.Msg.Standings {
				fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%d\n", i+1, s.PlayerId, s.Name, s.Wins, s.Matches)
			}
			return w.Flush()
		},
	}
}

func pairingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "pairings",
		Usage: "issue the next round's pairings, or show the open round's",
		Action: func(c *cli.Context) error {
			resp, err := newClient(c).SwissPairings(c.Context, connect.NewRequest(&tournamentv1.SwissPairingsRequest{}))
			if err != nil {
				return err
			}
			printPairings(c, resp.Msg.Pairings, nil)
			return nil
		},
	}
}

func countCommand() *cli.Command {
	return &cli.Command{
		Name:  "count",
		Usage: "print the number of registered players",
		Action: func(c *cli.Context) error {
			resp, err := newClient(c).CountPlayers(c.Context, connect.NewRequest(&tournamentv1.CountPlayersRequest{}))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, resp.Msg.Count)
			return nil
		},
	}
}

func roundCommand() *cli.Command {
	return &cli.Command{
		Name:  "round",
		Usage: "show the latest round and which results are in",
		Action: func(c *cli.Context) error {
			resp, err := newClient(c).CurrentRound(c.Context, connect.NewRequest(&tournamentv1.CurrentRoundRequest{}))
			if err != nil {
				return err
			}
			round := resp.Msg.Round
			if round == nil {
				fmt.Fprintln(c.App.Writer, "no round has been paired yet")
				return nil
			}
			fmt.Fprintf(c.App.Writer, "round %d (%s)\n", round.Number, round.Status)
			printPairings(c, round.Pairings, round.Reported)
			return nil
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "reconcile player records with the match history",
		Action: func(c *cli.Context) error {
			if _, err := newClient(c).CheckIntegrity(c.Context, connect.NewRequest(&tournamentv1.CheckIntegrityRequest{})); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "records are consistent")
			return nil
		},
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "clear tournament data",
		Subcommands: []*cli.Command{
			{
				Name:  "matches",
				Usage: "delete every result and zero all records",
				Action: func(c *cli.Context) error {
					if _, err := newClient(c).DeleteMatches(c.Context, connect.NewRequest(&tournamentv1.DeleteMatchesRequest{})); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "matches cleared")
					return nil
				},
			},
			{
				Name:  "players",
				Usage: "delete every player and their results",
				Action: func(c *cli.Context) error {
					if _, err := newClient(c).DeletePlayers(c.Context, connect.NewRequest(&tournamentv1.DeletePlayersRequest{})); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "players cleared")
					return nil
				},
			},
		},
	}
}

func printPairings(c *cli.Context, pairings []*tournamentv1.Pairing, reported []bool) {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tPLAYER A\tPLAYER B\tREPORTED")
	for i, p := range pairings {
		done := "-"
		if i < len(reported) {
			done = strconv.FormatBool(reported[i])
		}
		fmt.Fprintf(w, "%d\t%s (%d)\t%s (%d)\t%s\n", i+1, p.PlayerAName, p.PlayerAId, p.PlayerBName, p.PlayerBId, done)
	}
	_ = w.Flush()
}
