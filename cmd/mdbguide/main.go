package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/madkins23/go-mongo-guide/mdb"
)

var (
	// Version is injected at build time with -ldflags.
	Version = "dev"
	// BuildDate is injected at build time with -ldflags.
	BuildDate = ""
)

const (
	appName  = "mdbguide"
	appShort = "mdbguide walks through connecting, CRUD, indexes and aggregation with MongoDB"
	appLong  = `
		mdbguide runs the examples of the MongoDB guide against a live database.

		The connection target is read from MONGO_URI or MONGO_HOST, MONGO_PORT,
		MONGO_USERNAME, MONGO_PASSWORD, MONGO_AUTH_SOURCE and MONGO_DATABASE,
		flags override the environment. Start a local database with:

		  docker compose -f deploy/docker-compose.yml up -d
	`
)

var logLevels = []string{"trace", "debug", "info", "warn", "error", "off"}

// rootFlags holds the persistent flags shared across the command tree.
type rootFlags struct {
	logLevel   string
	uri        string
	host       string
	port       int
	username   string
	password   string
	authSource string
	database   string
}

// addFlags registers the persistent CLI flags on cmd.
func (f *rootFlags) addFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.logLevel, "log-level", "v", "info",
		"set the logging level (possible values: "+strings.Join(logLevels, ", ")+")")
	flags.StringVar(&f.uri, "uri", "", "connection string, overrides host and port")
	flags.StringVar(&f.host, "host", "", "database host")
	flags.IntVar(&f.port, "port", 0, "database port")
	flags.StringVarP(&f.username, "username", "u", "", "user name")
	flags.StringVarP(&f.password, "password", "p", "", "password")
	flags.StringVar(&f.authSource, "auth-source", "", "database holding the user credentials")
	flags.StringVarP(&f.database, "database", "d", "", "database to use")
}

// target merges the flags over the environment.
func (f *rootFlags) target() (*mdb.Target, error) {
	target, err := mdb.TargetFromEnv()
	if err != nil {
		return nil, err
	}
	if f.uri != "" {
		target.URI = f.uri
	}
	if f.host != "" {
		target.Host = f.host
	}
	if f.port != 0 {
		target.Port = f.port
	}
	if f.username != "" {
		target.Username = f.username
	}
	if f.password != "" {
		target.Password = f.password
	}
	if f.authSource != "" {
		target.AuthSource = f.authSource
	}
	if f.database != "" {
		target.Database = f.database
	}
	return target, target.Validate()
}

func main() {
	cmd := rootCmd()
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

// rootCmd constructs the root Cobra command with shared configuration.
func rootCmd() *cobra.Command {
	flag := &rootFlags{}
	guide := &guide{flags: flag}

	cmd := &cobra.Command{
		Use:   appName,
		Short: heredoc.Doc(appShort),
		Long:  heredoc.Doc(appLong),

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			guide.logger = hclog.New(&hclog.LoggerOptions{
				Name:   appName,
				Output: cmd.ErrOrStderr(),
				Level:  hclog.LevelFromString(flag.logLevel),
			})
		},
	}

	flag.addFlags(cmd)
	cmd.AddCommand(
		guide.pingCmd(),
		guide.seedCmd(),
		guide.listCmd(),
		guide.findCmd(),
		guide.updateCmd(),
		guide.deleteCmd(),
		guide.indexesCmd(),
		guide.aggregateCmd(),
		guide.reportCmd(),
		versionCmd(),
	)

	return cmd
}

// versionCmd constructs the Cobra command that prints version information.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the " + appName + " version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString(Version, BuildDate, runtime.Version()))
		},
	}
}

// versionString formats the version metadata for display.
func versionString(version, buildDate, runtimeVersion string) string {
	outputString := version
	if buildDate != "" {
		outputString += " (" + buildDate + ")"
	}

	return outputString + ", Go Version: " + runtimeVersion
}
