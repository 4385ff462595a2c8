package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/chrissnell/sieveanalysis/pkg/config"
	"github.com/chrissnell/sieveanalysis/pkg/migrate"
	_ "modernc.org/sqlite" // SQLite driver
)

func main() {
	var (
		dbDSN          = flag.String("dsn", "", "SQLite database path")
		migrationDir   = flag.String("dir", "", "Migration directory (default: built-in configuration schema)")
		migrationTable = flag.String("table", "schema_migrations", "Migration table name")
		command        = flag.String("command", "up", "Migration command: up, down, to, version, status")
		targetVersion  = flag.String("target", "", "Target version for down/to commands")
		helpFlag       = flag.Bool("help", false, "Show help")
	)

	flag.Parse()

	if *helpFlag {
		showHelp()
		return
	}

	if *dbDSN == "" {
		fmt.Fprintf(os.Stderr, "Error: -dsn flag is required\n")
		showHelp()
		os.Exit(1)
	}

	db, err := sql.Open("sqlite", *dbDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	var fsys fs.FS = config.Migrations
	dir := config.MigrationsDir
	if *migrationDir != "" {
		fsys, dir = os.DirFS(*migrationDir), "."
	}

	schema, err := migrate.LoadSchema(fsys, dir)
	if err != nil {
		log.Fatalf("Failed to load migrations: %v", err)
	}
	migrator := migrate.New(db, schema, *migrationTable)
	ctx := context.Background()

	switch *command {
	case "up":
		err = migrator.Up(ctx)
	case "down", "to":
		var target int
		target, err = parseTarget(*targetVersion, *command)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if *command == "down" {
			err = migrator.Down(ctx, target)
		} else {
			err = migrator.To(ctx, target)
		}
	case "version":
		version, err := migrator.Version(ctx)
		if err != nil {
			log.Fatalf("Failed to get current version: %v", err)
		}
		fmt.Printf("Current version: %d\n", version)
		return
	case "status":
		err = showStatus(ctx, migrator)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", *command)
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Migration command failed: %v", err)
	}

	fmt.Println("Migration completed successfully")
}

func parseTarget(s, command string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("-target flag is required for %s command", command)
	}
	target, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid target version: %v", err)
	}
	return target, nil
}

func showStatus(ctx context.Context, migrator *migrate.Migrator) error {
	st, err := migrator.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("Current version: %d\n", st.Current)
	fmt.Printf("Latest version: %d\n", st.Latest)
	fmt.Printf("Pending migrations: %d\n", len(st.Pending))

	if len(st.Pending) > 0 {
		fmt.Println("\nPending migrations:")
		for _, migration := range st.Pending {
			fmt.Printf("  %d: %s\n", migration.Version, migration.Name)
		}
	}

	return nil
}

func showHelp() {
	fmt.Println("Configuration Database Migration Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  migrate [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -dsn string        SQLite database path (required)")
	fmt.Println("  -dir string        Migration directory (default: built-in schema)")
	fmt.Println("  -table string      Migration table name (default: schema_migrations)")
	fmt.Println("  -command string    Migration command (default: up)")
	fmt.Println("  -target string     Target version for down/to commands")
	fmt.Println("  -help              Show this help message")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up                 Apply all pending migrations")
	fmt.Println("  down               Roll back to target version")
	fmt.Println("  to                 Migrate to specific version (up or down)")
	fmt.Println("  version            Show current migration version")
	fmt.Println("  status             Show migration status")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  migrate -dsn config.db -command up")
	fmt.Println("  migrate -dsn config.db -command down -target 0")
	fmt.Println("  migrate -dsn config.db -command status")
}
