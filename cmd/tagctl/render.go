package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tagrender/internal/tag"
)

func (a *App) scheduleCmd() *cobra.Command {
	var (
		size       sizeFlags
		name, date string
		eventsFile string
		events     []string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Render a room schedule",
		Long: `Render the schedule view: room name and date in the header and one
ruled row per event, in the order given.

Events come from a JSON file (an array of {"start","end","desc"} objects)
and/or repeated --event flags of the form "start,end,description".`,
		Example: `  tagctl schedule --name "Raum 1.04" --date 14.10.2026 \
    --event "09:00,10:00,Standup" --event "13:00,14:30,Planung" -o room.jpg
  tagctl schedule --name Aula --date heute --events events.json > aula.jpg`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := tag.ScheduleRequest{
				Name:   name,
				Date:   date,
				Width:  size.width,
				Height: size.height,
				Events: []tag.Event{},
			}
			if eventsFile != "" {
				fromFile, err := readEventsFile(eventsFile)
				if err != nil {
					return err
				}
				req.Events = append(req.Events, fromFile...)
			}
			for _, s := range events {
				ev, err := parseEvent(s)
				if err != nil {
					return err
				}
				req.Events = append(req.Events, ev)
			}

			deps, err := a.setup(cmd.Context())
			if err != nil {
				return err
			}
			t, err := deps.Renderer.RenderSchedule(req)
			if err != nil {
				return err
			}
			return a.writeTag(t, size.output)
		},
	}

	size.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Room name shown top left")
	cmd.Flags().StringVar(&date, "date", "", "Date text shown top right")
	cmd.Flags().StringVar(&eventsFile, "events", "", "JSON file with the event list")
	cmd.Flags().StringArrayVar(&events, "event", nil, `Event as "start,end,description" (repeatable)`)

	return cmd
}

func (a *App) emergencyCmd() *cobra.Command {
	var size sizeFlags

	cmd := &cobra.Command{
		Use:   "emergency",
		Short: "Render the evacuation notice",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := a.setup(cmd.Context())
			if err != nil {
				return err
			}
			t, err := deps.Renderer.RenderEmergency(size.width, size.height)
			if err != nil {
				return err
			}
			return a.writeTag(t, size.output)
		},
	}

	size.register(cmd)
	return cmd
}

func (a *App) configureCmd() *cobra.Command {
	var (
		size sizeFlags
		url  string
	)

	cmd := &cobra.Command{
		Use:     "configure",
		Short:   "Render the not-configured prompt with a QR code",
		Example: `  tagctl configure --url https://rooms.example.org/setup/tag-17 -o setup.jpg`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if url == "" {
				return fmt.Errorf("--url is required")
			}
			deps, err := a.setup(cmd.Context())
			if err != nil {
				return err
			}
			t, err := deps.Renderer.RenderNotConfigured(size.width, size.height, url)
			if err != nil {
				return err
			}
			return a.writeTag(t, size.output)
		},
	}

	size.register(cmd)
	cmd.Flags().StringVar(&url, "url", "", "Setup link encoded in the QR code")
	return cmd
}

// parseEvent reads "start,end,description". The description may itself
// contain commas.
func parseEvent(s string) (tag.Event, error) {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) != 3 {
		return tag.Event{}, fmt.Errorf("invalid event %q: want start,end,description", s)
	}
	return tag.Event{
		Start: strings.TrimSpace(parts[0]),
		End:   strings.TrimSpace(parts[1]),
		Desc:  strings.TrimSpace(parts[2]),
	}, nil
}

func readEventsFile(path string) ([]tag.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	var events []tag.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse events %s: %w", path, err)
	}
	return events, nil
}
