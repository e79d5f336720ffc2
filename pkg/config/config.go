// Package config loads the uploader configuration from YAML.
//
// A missing config file is not an error: Load returns Default() in that case,
// so the binary works with no setup beyond a completed login.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that points at a config file.
const EnvConfigPath = "DOUYIN_UPLOADER_CONFIG"

// Config represents the full uploader configuration.
type Config struct {
	// Portal holds the creator portal endpoints
	Portal PortalConfig `yaml:"portal" json:"portal"`

	// Paths holds on-disk locations for session state and logs
	Paths PathsConfig `yaml:"paths" json:"paths"`

	// Browser holds browser process settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Timings holds every wait the workflows perform
	Timings Timings `yaml:"timings" json:"timings"`
}

// PortalConfig describes the creator portal.
type PortalConfig struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`
	UploadURL string `yaml:"upload_url" json:"upload_url"`

	// CreatorOrigin and SiteOrigin receive permission grants in headed mode
	CreatorOrigin string `yaml:"creator_origin" json:"creator_origin"`
	SiteOrigin    string `yaml:"site_origin" json:"site_origin"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	CookiesFile string `yaml:"cookies_file" json:"cookies_file"`
	ProfileDir  string `yaml:"profile_dir" json:"profile_dir"`
	LogDir      string `yaml:"log_dir" json:"log_dir"`
}

// BrowserConfig holds browser launch settings.
type BrowserConfig struct {
	WindowWidth  int `yaml:"window_width" json:"window_width"`
	WindowHeight int `yaml:"window_height" json:"window_height"`

	// SlowMo slows down headed runs so a human can follow along
	SlowMo time.Duration `yaml:"slow_mo" json:"slow_mo"`

	// SkipInstall disables the playwright driver install step on acquire
	SkipInstall bool `yaml:"skip_install" json:"skip_install"`
}

// Timings are best-effort synchronization points. The portal exposes no
// explicit completion signals, so none of these are correctness guarantees.
type Timings struct {
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
	PollInterval      time.Duration `yaml:"poll_interval" json:"poll_interval"`
	LoginTimeout      time.Duration `yaml:"login_timeout" json:"login_timeout"`
	SettleDelay       time.Duration `yaml:"settle_delay" json:"settle_delay"`
	MetadataSettle    time.Duration `yaml:"metadata_settle" json:"metadata_settle"`
	UploadFloor       time.Duration `yaml:"upload_floor" json:"upload_floor"`

	// UploadPerKiB scales the post-upload wait by file size; the larger of
	// UploadFloor and KiB*UploadPerKiB is used
	UploadPerKiB     time.Duration `yaml:"upload_per_kib" json:"upload_per_kib"`
	FileInputWait    time.Duration `yaml:"file_input_wait" json:"file_input_wait"`
	TitleInputWait   time.Duration `yaml:"title_input_wait" json:"title_input_wait"`
	CodeEntryTimeout time.Duration `yaml:"code_entry_timeout" json:"code_entry_timeout"`
}

// UploadWait returns how long to wait after handing a file of size bytes to
// the upload control.
func (t Timings) UploadWait(size int64) time.Duration {
	scaled := time.Duration(size/1024) * t.UploadPerKiB
	if scaled > t.UploadFloor {
		return scaled
	}
	return t.UploadFloor
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	root := filepath.Join(home, ".douyin-uploader")

	return &Config{
		Portal: PortalConfig{
			BaseURL:       "https://creator.douyin.com",
			UploadURL:     "https://creator.douyin.com/creator-micro/content/upload",
			CreatorOrigin: "https://creator.douyin.com",
			SiteOrigin:    "https://www.douyin.com",
		},
		Paths: PathsConfig{
			CookiesFile: filepath.Join(root, "douyin-cookies.json"),
			ProfileDir:  filepath.Join(root, "chrome-user-data"),
			LogDir:      filepath.Join(root, "logs"),
		},
		Browser: BrowserConfig{
			WindowWidth:  1400,
			WindowHeight: 900,
			SlowMo:       50 * time.Millisecond,
		},
		Timings: DefaultTimings(),
	}
}

// DefaultTimings returns the stock wait durations.
func DefaultTimings() Timings {
	return Timings{
		NavigationTimeout: 30 * time.Second,
		PollInterval:      5 * time.Second,
		LoginTimeout:      180 * time.Second,
		SettleDelay:       3 * time.Second,
		MetadataSettle:    2 * time.Second,
		UploadFloor:       15 * time.Second,
		UploadPerKiB:      time.Millisecond,
		FileInputWait:     10 * time.Second,
		TitleInputWait:    5 * time.Second,
		CodeEntryTimeout:  5 * time.Minute,
	}
}

// WithDefaults returns t with every zero field replaced by its value from
// DefaultTimings. A zero Timings therefore behaves like DefaultTimings.
func (t Timings) WithDefaults() Timings {
	d := DefaultTimings()
	fill := func(v *time.Duration, def time.Duration) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&t.NavigationTimeout, d.NavigationTimeout)
	fill(&t.PollInterval, d.PollInterval)
	fill(&t.LoginTimeout, d.LoginTimeout)
	fill(&t.SettleDelay, d.SettleDelay)
	fill(&t.MetadataSettle, d.MetadataSettle)
	fill(&t.UploadFloor, d.UploadFloor)
	fill(&t.UploadPerKiB, d.UploadPerKiB)
	fill(&t.FileInputWait, d.FileInputWait)
	fill(&t.TitleInputWait, d.TitleInputWait)
	fill(&t.CodeEntryTimeout, d.CodeEntryTimeout)
	return t
}

// Load reads the YAML file at path over the defaults. An empty path falls
// back to $DOUYIN_UPLOADER_CONFIG; a missing file yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Portal.BaseURL == "" {
		return fmt.Errorf("portal.base_url is required")
	}
	if c.Portal.UploadURL == "" {
		return fmt.Errorf("portal.upload_url is required")
	}
	if c.Paths.CookiesFile == "" {
		return fmt.Errorf("paths.cookies_file is required")
	}
	if c.Paths.ProfileDir == "" {
		return fmt.Errorf("paths.profile_dir is required")
	}

	if c.Browser.WindowWidth < 100 || c.Browser.WindowWidth > 5000 {
		return fmt.Errorf("browser.window_width must be between 100 and 5000 pixels")
	}
	if c.Browser.WindowHeight < 100 || c.Browser.WindowHeight > 5000 {
		return fmt.Errorf("browser.window_height must be between 100 and 5000 pixels")
	}

	t := c.Timings
	if t.PollInterval <= 0 {
		return fmt.Errorf("timings.poll_interval must be positive")
	}
	if t.LoginTimeout <= 0 {
		return fmt.Errorf("timings.login_timeout must be positive")
	}
	if t.NavigationTimeout <= 0 {
		return fmt.Errorf("timings.navigation_timeout must be positive")
	}
	for name, d := range map[string]time.Duration{
		"settle_delay":       t.SettleDelay,
		"metadata_settle":    t.MetadataSettle,
		"upload_floor":       t.UploadFloor,
		"upload_per_kib":     t.UploadPerKiB,
		"file_input_wait":    t.FileInputWait,
		"title_input_wait":   t.TitleInputWait,
		"code_entry_timeout": t.CodeEntryTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("timings.%s cannot be negative", name)
		}
	}

	return nil
}
