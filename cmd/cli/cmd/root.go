package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/discolinks/discolinks"
	"github.com/discolinks/discolinks/internal/constants"
	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
	"github.com/discolinks/discolinks/pkg/core/naming"
	"github.com/discolinks/discolinks/pkg/core/playback"
	"github.com/discolinks/discolinks/pkg/core/selector"
	"github.com/discolinks/discolinks/pkg/processor"
)

// Define configuration keys
const (
	CfgKeyBaseURL     = "api.base_url"
	CfgKeyPlaybackURL = "api.playback_url"
	CfgKeyUserAgent   = "api.user_agent"
	CfgKeyTimeout     = "api.timeout"
	CfgKeyMaxAttempts = "retry.max_attempts"
	CfgKeyBaseDelay   = "retry.base_delay"
	CfgKeyOutputDir   = "output.dir"
	CfgKeyDownloader  = "output.downloader"
	CfgKeyLogLevel    = "log.level"
	CfgKeyLogJSON     = "log.json"
	CfgKeyStrict      = "strict"
	CfgKeyRealm       = "realm"
)

// NewClientFunc allows overriding the API client creation for testing.
var NewClientFunc = func(config discolinks.Config) (processor.API, error) {
	client, err := discolinks.NewClient(config)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// AppFs is the filesystem exports are written to. Tests swap in afero.NewMemMapFs().
var AppFs afero.Fs = afero.NewOsFs()

var (
	// Used for flags.
	cfgFile string
	season  int
	episode int
	isAsset bool

	// Set up in PersistentPreRunE from the log.* keys.
	logger = logrus.New()

	// RootCmd represents the base command; called with a show id it exports the links.
	// Exported for use in tests
	RootCmd = &cobra.Command{
		Use:   "discolinks <showId>",
		Short: "Export playback links of a show's episodes to a spreadsheet.",
		Long: `discolinks looks up a show on the discovery API, resolves the playback link of
every selected episode and writes name, description, file name, link and a
download command to <Show_name>.xlsx.

Examples:
  discolinks 8613                    all episodes
  discolinks 8613 -s 2               season 2
  discolinks 8613 -s 2 -e 5          one episode
  discolinks 123456 --isasset -r tlcde`,
		Args:              showIDArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogger,
		RunE:              runLinks,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It exits with a status matching the error class.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(coreErrors.ExitCode(err))
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	RootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", coreErrors.ErrUsage, err)
	})

	pf := RootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.discolinks/config.yaml or ./config.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.StringP("realm", "r", constants.DefaultRealm, "realm, one of: "+strings.Join(constants.Realms, ", "))
	pf.IntVarP(&season, "season", "s", 0, "season number, 0 for all seasons")
	pf.IntVarP(&episode, "episode", "e", 0, "episode number, 0 for all episodes (requires --season)")
	pf.BoolVar(&isAsset, "isasset", false, "treat the id as an asset id and resolve its show first")

	RootCmd.Flags().String("output-dir", ".", "directory the spreadsheet is written to")
	RootCmd.Flags().Bool("strict", false, "exit with status 8 when any episode or listing page was skipped")

	lo.Must0(viper.BindPFlag(CfgKeyLogLevel, pf.Lookup("log-level")))
	lo.Must0(viper.BindPFlag(CfgKeyRealm, pf.Lookup("realm")))
	lo.Must0(viper.BindPFlag(CfgKeyOutputDir, RootCmd.Flags().Lookup("output-dir")))
	lo.Must0(viper.BindPFlag(CfgKeyStrict, RootCmd.Flags().Lookup("strict")))
}

func setDefaults() {
	viper.SetDefault(CfgKeyBaseURL, constants.DefaultBaseURL)
	viper.SetDefault(CfgKeyPlaybackURL, constants.DefaultPlaybackURL)
	viper.SetDefault(CfgKeyUserAgent, constants.DefaultUserAgent)
	viper.SetDefault(CfgKeyTimeout, constants.DefaultTimeout)
	viper.SetDefault(CfgKeyMaxAttempts, constants.DefaultMaxAttempts)
	viper.SetDefault(CfgKeyBaseDelay, constants.DefaultBaseDelay)
	viper.SetDefault(CfgKeyOutputDir, ".")
	viper.SetDefault(CfgKeyDownloader, naming.DefaultDownloader)
	viper.SetDefault(CfgKeyLogLevel, "info")
	viper.SetDefault(CfgKeyLogJSON, false)
	viper.SetDefault(CfgKeyStrict, false)
	viper.SetDefault(CfgKeyRealm, constants.DefaultRealm)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".discolinks"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("DISCOLINKS") // e.g. DISCOLINKS_API_TIMEOUT=10s
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error reading config file (%s): %v\n", viper.ConfigFileUsed(), err)
		}
	}
}

// setupLogger applies the log.* settings; log lines go to the command's stderr.
func setupLogger(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(viper.GetString(CfgKeyLogLevel))
	if err != nil {
		return fmt.Errorf("%w: %v", coreErrors.ErrUsage, err)
	}
	logger.SetLevel(level)
	logger.SetOutput(cmd.ErrOrStderr())
	if viper.GetBool(CfgKeyLogJSON) {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return nil
}

// showIDArgs requires exactly one id, numeric unless --isasset is given.
func showIDArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: accepts 1 show id, received %d", coreErrors.ErrUsage, len(args))
	}
	if isAsset {
		return nil
	}
	if _, err := strconv.ParseUint(args[0], 10, 64); err != nil {
		return fmt.Errorf("%w: show id must be numeric, got %q", coreErrors.ErrUsage, args[0])
	}
	return nil
}

func clientConfig() discolinks.Config {
	return discolinks.Config{
		BaseURL:     viper.GetString(CfgKeyBaseURL),
		PlaybackURL: viper.GetString(CfgKeyPlaybackURL),
		UserAgent:   viper.GetString(CfgKeyUserAgent),
		Timeout:     durationSetting(CfgKeyTimeout, constants.DefaultTimeout),
		Logger:      logger,
	}
}

func newRequest(args []string) processor.Request {
	return processor.Request{
		ID:       args[0],
		IsAsset:  isAsset,
		Realm:    viper.GetString(CfgKeyRealm),
		Criteria: selector.Criteria{Season: season, Episode: episode},
	}
}

// newProcessor validates req and builds the pipeline. No client is created for an invalid request.
func newProcessor(req processor.Request, newSink processor.SinkFactory) (*processor.Processor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	client, err := NewClientFunc(clientConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return processor.NewProcessor(client, newSink, processor.Options{
		Retry: playback.Options{
			MaxAttempts: viper.GetInt(CfgKeyMaxAttempts),
			BaseDelay:   durationSetting(CfgKeyBaseDelay, constants.DefaultBaseDelay),
		},
		Downloader: viper.GetString(CfgKeyDownloader),
		Strict:     viper.GetBool(CfgKeyStrict),
	}, logger), nil
}

// durationSetting reads a duration key. Bare numbers are seconds, strings use
// time.ParseDuration syntax ("10s", "1m30s").
func durationSetting(key string, fallback time.Duration) time.Duration {
	switch v := viper.Get(key).(type) {
	case time.Duration:
		if v > 0 {
			return v
		}
	case int:
		if v > 0 {
			return time.Duration(v) * time.Second
		}
	case int64:
		if v > 0 {
			return time.Duration(v) * time.Second
		}
	case float64:
		if v > 0 {
			return time.Duration(v * float64(time.Second))
		}
	case string:
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
