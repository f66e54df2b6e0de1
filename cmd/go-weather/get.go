package main

import (
	"encoding/json"
	"go-weather/internal/application/session"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var jsonOutput bool

var getCmd = &cobra.Command{
	Use:   "get <city>",
	Short: "Search the current weather and forecast of a city",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(func(s *session.Session) session.State {
			return s.FetchWeather(cmd.Context(), strings.Join(args, " "))
		})
	},
}

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the weather of the last searched city",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSession(func(s *session.Session) session.State {
			return s.Start(cmd.Context())
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{getCmd, lastCmd} {
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the state as JSON")
	}
}

func runSession(search func(*session.Session) session.State) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	s := session.New(app.weather)
	defer s.Close()

	state := search(s)

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(state); err != nil {
			return err
		}
	} else if err := printState(os.Stdout, state); err != nil {
		return err
	}

	if state.Status == session.StatusError {
		return errSearchFailed
	}
	return nil
}
