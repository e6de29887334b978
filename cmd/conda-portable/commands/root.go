// Package commands implements the CLI commands for conda-portable.
package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.trai.ch/portable/internal/app"
	"go.trai.ch/portable/internal/build"
	"go.trai.ch/portable/internal/core/domain"
	"go.trai.ch/portable/internal/core/ports"
)

// EnvPrefix is the prefix of environment variables that stand in for flags,
// e.g. CONDA_PORTABLE_FROM_PLATFORM for --from_platform.
const EnvPrefix = "CONDA_PORTABLE"

const (
	flagEnv          = "env"
	flagFromPlatform = "from_platform"
	flagPlatform     = "platform"
	flagLockTool     = "lock-tool"
	flagProfiles     = "profiles"
	flagLogJSON      = "log-json"
)

// CLI represents the command line interface for conda-portable.
type CLI struct {
	app     Application
	logger  ports.Logger
	config  *viper.Viper
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
}

// jsonSwitcher is implemented by loggers that can emit JSON.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app and logger.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:   "conda-portable --env <environment.yml>",
		Short: "Make a conda environment file portable across platforms",
		Long: "conda-portable removes platform-specific packages from a conda environment file,\n" +
			"writes environment.portable.yml next to it and verifies the result with conda-lock.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.Flags()
	flags.StringP(flagEnv, "e", "", "Path to the conda environment file (required)")
	flags.StringP(flagFromPlatform, "p", domain.PlatformWindows.String(),
		"Platform the environment was exported on ("+platformChoices()+")")
	flags.StringSlice(flagPlatform, domain.DefaultLockPlatforms(), "conda-lock target platform (repeatable)")
	flags.String(flagLockTool, domain.DefaultLockTool, "Lock tool executable")
	flags.String(flagProfiles, "", "Platform profile file overriding the bundled common_packages.yaml")
	flags.Bool(flagLogJSON, false, "Emit log lines as JSON")

	config := viper.New()
	config.SetEnvPrefix(EnvPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	config.AutomaticEnv()
	// Binding only fails for a nil flag set.
	_ = config.BindPFlags(flags)

	c := &CLI{
		app:     a,
		logger:  log,
		config:  config,
		rootCmd: rootCmd,
	}

	rootCmd.RunE = c.runE
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) runE(cmd *cobra.Command, _ []string) error {
	if s, ok := c.logger.(jsonSwitcher); ok {
		s.SetJSON(c.config.GetBool(flagLogJSON))
	}

	envPath := c.config.GetString(flagEnv)
	if envPath == "" {
		return domain.ErrEnvFileRequired
	}

	platform, err := domain.ParsePlatform(c.config.GetString(flagFromPlatform))
	if err != nil {
		return err
	}

	return c.app.Run(cmd.Context(), app.RunOptions{
		EnvPath:      envPath,
		FromPlatform: platform,
		Platforms:    c.config.GetStringSlice(flagPlatform),
		LockTool:     c.config.GetString(flagLockTool),
		ProfilesPath: c.config.GetString(flagProfiles),
	})
}

func platformChoices() string {
	names := make([]string, 0, len(domain.Platforms()))
	for _, p := range domain.Platforms() {
		names = append(names, p.String())
	}
	return strings.Join(names, ", ")
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
