package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/Joona374/BracketChallenge2.0/internal/app"
	"github.com/Joona374/BracketChallenge2.0/internal/config"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

var migrationDirs = []string{"./db/migrations", "/app/db/migrations"}

// command runs one subcommand against an open migrator.
type command struct {
	usage string
	run   func(m *migrate.Migrate, args []string, logger *logging.Logger) error
}

var commands = map[string]command{
	"up": {usage: "up", run: func(m *migrate.Migrate, _ []string, logger *logging.Logger) error {
		if err := ignoreNoChange(m.Up(), logger); err != nil {
			return err
		}
		logger.Info("migrations applied")
		return nil
	}},
	"down": {usage: "down [steps]", run: func(m *migrate.Migrate, args []string, logger *logging.Logger) error {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || n <= 0 {
				return fmt.Errorf("down steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		if err := ignoreNoChange(m.Steps(-steps), logger); err != nil {
			return err
		}
		logger.Info("migrations rolled back", "steps", steps)
		return nil
	}},
	"version": {usage: "version", run: func(m *migrate.Migrate, _ []string, _ *logging.Logger) error {
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return nil
		case err != nil:
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
		return nil
	}},
	"force": {usage: "force <version>", run: func(m *migrate.Migrate, args []string, logger *logging.Logger) error {
		version, err := versionArg(args)
		if err != nil {
			return err
		}
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
		logger.Info("forced migration version", "version", version)
		return nil
	}},
	"goto": {usage: "goto <version>", run: func(m *migrate.Migrate, args []string, logger *logging.Logger) error {
		version, err := versionArg(args)
		if err != nil {
			return err
		}
		if err := ignoreNoChange(m.Migrate(uint(version)), logger); err != nil {
			return err
		}
		logger.Info("migrated to version", "version", version)
		return nil
	}},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	name := strings.ToLower(strings.TrimSpace(os.Args[1]))
	if name == "migrate" {
		name = "goto"
	}
	cmd, ok := commands[name]
	if !ok {
		usage()
		os.Exit(2)
	}

	envErr := godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat).Named("migration")
	defer func() { _ = logger.Sync() }()
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("load .env failed", "error", envErr)
	}

	if err := run(cfg, cmd, os.Args[2:], logger); err != nil {
		logger.Error("migration failed", "command", name, "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, cmd command, args []string, logger *logging.Logger) error {
	if strings.TrimSpace(cfg.DBURL) == "" {
		return errors.New("DB_URL is required")
	}
	dir, err := migrationsDir()
	if err != nil {
		return err
	}

	source := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(source, app.DatabaseURL(cfg))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Warn("close migrator failed", "error", err)
		}
	}()

	logger.Info("running migration command", "source", source)
	return cmd.run(m, args, logger)
}

func ignoreNoChange(err error, logger *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func versionArg(args []string) (uint64, error) {
	if len(args) == 0 {
		return 0, errors.New("a version argument is required")
	}
	version, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", args[0], err)
	}
	return version, nil
}

// migrationsDir prefers MIGRATIONS_DIR, then the repo and container layouts.
func migrationsDir() (string, error) {
	candidates := migrationDirs
	if dir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")); dir != "" {
		candidates = append([]string{dir}, migrationDirs...)
	}
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found in %s", strings.Join(candidates, ", "))
}

func usage() {
	bin := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <command> [args]\n", bin)
	for _, name := range []string{"up", "down", "version", "force", "goto"} {
		fmt.Fprintf(os.Stderr, "  %s %s\n", bin, commands[name].usage)
	}
	fmt.Fprintf(os.Stderr, "example: %s goto 1743465600\n", bin)
}
