package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/config"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/output"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify board configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func stringAccessor(field func(*config.Config) *string) configAccessor {
	return configAccessor{
		get:      func(c *config.Config) any { return *field(c) },
		set:      func(c *config.Config, v string) error { *field(c) = v; return nil },
		writable: true,
	}
}

func readOnly(get func(*config.Config) any) configAccessor {
	return configAccessor{get: get}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version":           readOnly(func(c *config.Config) any { return c.Version }),
		"board.name":        stringAccessor(func(c *config.Config) *string { return &c.Board.Name }),
		"board.description": stringAccessor(func(c *config.Config) *string { return &c.Board.Description }),
		"tasks_dir":         readOnly(func(c *config.Config) any { return c.TasksDir }),
		"store.backend":     readOnly(func(c *config.Config) any { return c.Store.Backend }),
		"store.path":        readOnly(func(c *config.Config) any { return c.Store.Path }),
		"store.url":         readOnly(func(c *config.Config) any { return c.Store.URL }),
		"timeline.scale": {
			get: func(c *config.Config) any { return c.Timeline.Scale },
			set: func(c *config.Config, v string) error {
				s, err := timeline.ParseScale(v)
				if err != nil {
					return err
				}
				c.Timeline.Scale = s.String()
				return nil
			},
			writable: true,
		},
		"timeline.day_width":   readOnly(func(c *config.Config) any { return c.Timeline.DayWidth }),
		"timeline.week_width":  readOnly(func(c *config.Config) any { return c.Timeline.WeekWidth }),
		"timeline.month_width": readOnly(func(c *config.Config) any { return c.Timeline.MonthWidth }),
		"timeline.window_start": {
			get:      func(c *config.Config) any { return c.Timeline.WindowStart },
			set:      windowSetter("window_start", func(c *config.Config) *string { return &c.Timeline.WindowStart }),
			writable: true,
		},
		"timeline.window_end": {
			get:      func(c *config.Config) any { return c.Timeline.WindowEnd },
			set:      windowSetter("window_end", func(c *config.Config) *string { return &c.Timeline.WindowEnd }),
			writable: true,
		},
		"timeline.default_duration": {
			get: func(c *config.Config) any { return c.Timeline.DefaultDuration },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid timeline.default_duration %q: must be an integer", v)
				}
				c.Timeline.DefaultDuration = n
				return nil // validation handles range check
			},
			writable: true,
		},
		"lanes.slot_height":  readOnly(func(c *config.Config) any { return c.Lanes.SlotHeight }),
		"lanes.base_padding": readOnly(func(c *config.Config) any { return c.Lanes.BasePadding }),
		"lanes.min_height":   readOnly(func(c *config.Config) any { return c.Lanes.MinHeight }),
		"kaiten.base_url":    stringAccessor(func(c *config.Config) *string { return &c.Kaiten.BaseURL }),
		"kaiten.board_id":    stringAccessor(func(c *config.Config) *string { return &c.Kaiten.BoardID }),
		"server.addr":        stringAccessor(func(c *config.Config) *string { return &c.Server.Addr }),
	}
}

// windowSetter accepts a YYYY-MM-DD date, or "" for the rolling default.
func windowSetter(field string, target func(*config.Config) *string) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		if v != "" {
			if _, err := date.Parse(v); err != nil {
				return task.ValidateDate(field, v, err)
			}
		}
		*target(c) = v
		return nil
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"board.name",
		"board.description",
		"tasks_dir",
		"store.backend",
		"store.path",
		"store.url",
		"timeline.scale",
		"timeline.day_width",
		"timeline.week_width",
		"timeline.month_width",
		"timeline.window_start",
		"timeline.window_end",
		"timeline.default_duration",
		"lanes.slot_height",
		"lanes.base_padding",
		"lanes.min_height",
		"kaiten.base_url",
		"kaiten.board_id",
		"server.addr",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-27s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownKey(key)
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownKey(key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	return writeResult(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)},
		"Set %s = %v", key, formatConfigValue(acc.get(cfg)))
}

func unknownKey(key string) error {
	return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
		WithDetails(map[string]any{"key": key, "allowed": strings.Join(allConfigKeys(), ", ")})
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
