package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no mioplan board found (run 'mioplan init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the board configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Board    BoardConfig    `yaml:"board"`
	TasksDir string         `yaml:"tasks_dir"`
	Store    StoreConfig    `yaml:"store"`
	Timeline TimelineConfig `yaml:"timeline"`
	Lanes    LanesConfig    `yaml:"lanes"`
	Kaiten   KaitenConfig   `yaml:"kaiten,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// StoreConfig selects where tasks are read from and written to.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"` // sqlite file, relative to the board dir
	URL     string `yaml:"url,omitempty"`  // base URL of a remote mioplan server
}

// TimelineConfig holds the time axis settings.
type TimelineConfig struct {
	Scale           string `yaml:"scale"`
	DayWidth        int    `yaml:"day_width"`
	WeekWidth       int    `yaml:"week_width"`
	MonthWidth      int    `yaml:"month_width"`
	WindowStart     string `yaml:"window_start,omitempty"`
	WindowEnd       string `yaml:"window_end,omitempty"`
	DefaultDuration int    `yaml:"default_duration"`
}

// LanesConfig sizes lanes from their slot count.
type LanesConfig struct {
	SlotHeight  int `yaml:"slot_height"`
	BasePadding int `yaml:"base_padding"`
	MinHeight   int `yaml:"min_height"`
}

// KaitenConfig points at the Kaiten board synced into this one. The API key
// comes from the environment, never from this file.
type KaitenConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	BoardID string `yaml:"board_id,omitempty"`
	Limit   int    `yaml:"limit,omitempty"`
}

// ServerConfig configures "mioplan serve".
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// TasksPath returns the absolute path to the tasks directory.
func (c *Config) TasksPath() string {
	return filepath.Join(c.dir, c.TasksDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// StorePath returns the absolute path of the sqlite database.
func (c *Config) StorePath() string {
	p := c.Store.Path
	if p == "" {
		p = DefaultOverlayFile
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:  CurrentVersion,
		Board:    BoardConfig{Name: name},
		TasksDir: DefaultTasksDir,
		Store:    StoreConfig{Backend: store.BackendFiles},
		Timeline: TimelineConfig{
			Scale:           DefaultScale,
			DayWidth:        DefaultDayWidth,
			WeekWidth:       DefaultWeekWidth,
			MonthWidth:      DefaultMonthWidth,
			DefaultDuration: DefaultDuration,
		},
		Lanes:  defaultLanes(),
		Kaiten: KaitenConfig{BaseURL: DefaultKaitenBaseURL, Limit: DefaultKaitenLimit},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

func defaultLanes() LanesConfig {
	return LanesConfig{
		SlotHeight:  DefaultSlotHeight,
		BasePadding: DefaultBasePadding,
		MinHeight:   DefaultMinHeight,
	}
}

// Scale returns the configured time scale.
func (c *Config) Scale() timeline.Scale {
	s, err := timeline.ParseScale(c.Timeline.Scale)
	if err != nil {
		return timeline.Week
	}
	return s
}

// Units returns the nominal grid unit widths.
func (c *Config) Units() timeline.Units {
	return timeline.Units{
		Day:   float64(c.Timeline.DayWidth),
		Week:  float64(c.Timeline.WeekWidth),
		Month: float64(c.Timeline.MonthWidth),
	}
}

// Window returns the visible window. Unset bounds default to one month
// before and twelve months after today.
func (c *Config) Window(today date.Date) date.Range {
	w := date.Range{
		Start: date.FromTime(today.AddDate(0, -defaultWindowMonthsBefore, 0)),
		End:   date.FromTime(today.AddDate(0, defaultWindowMonthsAfter, 0)),
	}
	if d, err := date.Parse(c.Timeline.WindowStart); err == nil {
		w.Start = d
	}
	if d, err := date.Parse(c.Timeline.WindowEnd); err == nil {
		w.End = d
	}
	return w
}

// Context returns the layout context the board opens with.
func (c *Config) Context(today date.Date) timeline.Context {
	return timeline.Context{Scale: c.Scale(), Window: c.Window(today), Units: c.Units()}
}

// Metrics returns the lane sizing.
func (c *Config) Metrics() lane.Metrics {
	return lane.Metrics{
		SlotHeight:  c.Lanes.SlotHeight,
		BasePadding: c.Lanes.BasePadding,
		MinHeight:   c.Lanes.MinHeight,
	}
}

// KaitenLimit returns the configured card limit or the default.
func (c *Config) KaitenLimit() int {
	if c.Kaiten.Limit <= 0 {
		return DefaultKaitenLimit
	}
	return c.Kaiten.Limit
}

// ServerAddr returns the configured listen address or the default.
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateTimeline(); err != nil {
		return err
	}
	return c.validateLanes()
}

func (c *Config) validateStore() error {
	if !slices.Contains(Backends, c.Store.Backend) {
		return fmt.Errorf("%w: unknown store.backend %q (expected one of %v)", ErrInvalid, c.Store.Backend, Backends)
	}
	if c.Store.Backend == store.BackendHTTP && c.Store.URL == "" {
		return fmt.Errorf("%w: store.url is required for the http backend", ErrInvalid)
	}
	return nil
}

func (c *Config) validateTimeline() error {
	if _, err := timeline.ParseScale(c.Timeline.Scale); err != nil {
		return fmt.Errorf("%w: timeline.scale: %w", ErrInvalid, err)
	}
	widths := map[string]int{
		"timeline.day_width":   c.Timeline.DayWidth,
		"timeline.week_width":  c.Timeline.WeekWidth,
		"timeline.month_width": c.Timeline.MonthWidth,
	}
	for key, w := range widths {
		if w < 1 {
			return fmt.Errorf("%w: %s must be >= 1", ErrInvalid, key)
		}
	}
	var start, end *date.Date
	for key, raw := range map[string]string{
		"timeline.window_start": c.Timeline.WindowStart,
		"timeline.window_end":   c.Timeline.WindowEnd,
	} {
		if raw == "" {
			continue
		}
		d, err := date.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
		}
		if key == "timeline.window_start" {
			start = &d
		} else {
			end = &d
		}
	}
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: timeline.window_end %s is before window_start %s", ErrInvalid, end, start)
	}
	if c.Timeline.DefaultDuration < 1 {
		return fmt.Errorf("%w: timeline.default_duration must be >= 1", ErrInvalid)
	}
	return nil
}

func (c *Config) validateLanes() error {
	if c.Lanes.SlotHeight < 1 {
		return fmt.Errorf("%w: lanes.slot_height must be >= 1", ErrInvalid)
	}
	if c.Lanes.BasePadding < 0 {
		return fmt.Errorf("%w: lanes.base_padding must be >= 0", ErrInvalid)
	}
	if c.Lanes.MinHeight < 1 {
		return fmt.Errorf("%w: lanes.min_height must be >= 1", ErrInvalid)
	}
	return nil
}

// Init creates a new board in the given directory with default settings.
// It creates the board directory, tasks subdirectory, and config file.
func Init(dir, name string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(cfg.TasksPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating tasks directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given board directory, and
// loads the board's .env file into the environment when present.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadEnv reads <dir>/.env into the process environment. Variables already
// set are kept. A missing file is not an error.
func (c *Config) LoadEnv() error {
	path := filepath.Join(c.dir, EnvFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// KaitenToken returns the Kaiten API key from the environment.
func KaitenToken() string {
	return os.Getenv(EnvKaitenToken)
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no mioplan board found (run 'mioplan init' to create one)")
		}
		dir = parent
	}
}
