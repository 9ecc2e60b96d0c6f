package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/dearme/internal/cli"
	"github.com/julianstephens/dearme/internal/constants"
	"github.com/julianstephens/dearme/internal/errors"
	"github.com/julianstephens/dearme/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite file path, PostgreSQL connection string without a password, or 'keyring'." default:"${config}" env:"DEARME_CONFIG"`
	Verbose bool   `short:"v" help:"Also write logs to stderr."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize dearme storage."`
	Migrate  cli.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive calendar." default:"1"`
	Debug    cli.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Settings cli.SettingsCmd `cmd:"" help:"Manage application settings."`
	Keyring  cli.KeyringCmd  `cmd:"" help:"Manage the database connection string in the OS keyring."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`

	Register cli.RegisterCmd `cmd:"" help:"Create an account."`
	Login    cli.LoginCmd    `cmd:"" help:"Start a session."`
	Logout   cli.LogoutCmd   `cmd:"" help:"End the session."`
	Whoami   cli.WhoamiCmd   `cmd:"" help:"Show the logged-in account."`

	Habit      cli.HabitCmd      `cmd:"" help:"Manage habit series."`
	Calendar   cli.CalendarCmd   `cmd:"" help:"Show a month with habit dots."`
	Journal    cli.JournalCmd    `cmd:"" help:"Free journaling."`
	Gratitude  cli.GratitudeCmd  `cmd:"" help:"Gratitude list."`
	Reflection cli.ReflectionCmd `cmd:"" help:"Daily reflections."`
	Abcde      cli.ABCDECmd      `cmd:"" name:"abcde" help:"ABCDE exercises."`
	Goal       cli.GoalCmd       `cmd:"" help:"Today's goals."`
	Video      cli.VideoCmd      `cmd:"" help:"Meditation video library."`
	Daemon     cli.DaemonCmd     `cmd:"" help:"Deliver habit reminders."`
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Journaling companion with habit reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
		},
	)

	command := ctx.Command()
	if strings.HasPrefix(command, "keyring") {
		initLogger("")
		errors.Fatal(ctx.Run(&cli.Context{In: os.Stdin, Out: os.Stdout}))
		return
	}

	store, err := cli.OpenStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	initLogger(cli.ConfigDir(store))

	// Init creates the database; everything else needs it loaded.
	if command != "init" {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(cli.NewContext(store)); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func initLogger(configDir string) {
	if configDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return
		}
		configDir = filepath.Join(dir, constants.AppName)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Verbose, ConfigDir: configDir}); err != nil {
		fmt.Fprintln(os.Stderr, errors.Formatf("failed to initialize logger: %v", err))
	}
}
