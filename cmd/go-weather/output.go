package main

import (
	"fmt"
	"go-weather/internal/application/session"
	"go-weather/pkg/msg"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	offlineColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// printState renders a session state as a summary followed by the forecast table
func printState(w io.Writer, state session.State) error {
	switch state.Status {
	case session.StatusError:
		_, err := errorColor.Fprintln(w, state.Message)
		return err
	case session.StatusLoading:
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	}

	weather := state.Weather
	if state.IsOffline {
		if _, err := offlineColor.Fprintln(w, msg.GetMessage("session.offline", weather.CityName)); err != nil {
			return err
		}
	}
	if _, err := titleColor.Fprintln(w, weather.CityName); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  %s, humidity %d%%, wind %s m/s\n",
		formatTemperature(weather.TemperatureC), weather.Description,
		weather.HumidityPercent, strconv.FormatFloat(weather.WindSpeedMps, 'f', 1, 64)); err != nil {
		return err
	}

	if len(state.Forecast) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Time", "Temp", "Conditions", "Wind (m/s)"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	rows := make([][]string, 0, len(state.Forecast))
	for _, entry := range state.Forecast {
		rows = append(rows, []string{
			time.Unix(entry.Timestamp, 0).Format("Mon 02 Jan 15:04"),
			formatTemperature(entry.TemperatureC),
			entry.Description,
			strconv.FormatFloat(entry.WindSpeedMps, 'f', 1, 64),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func formatTemperature(celsius float64) string {
	return strconv.FormatFloat(celsius, 'f', 1, 64) + "°"
}
