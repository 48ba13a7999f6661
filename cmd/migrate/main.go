// Command migrate applies the schema in db/migrations to the configured database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"invoicer/internal/config"
)

const usage = "Usage: migrate [-source URL] [up|down|steps N|version|force V]"

func main() {
	source := flag.String("source", "file://db/migrations", "migration source URL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println(usage)
		os.Exit(1)
	}

	m, err := migrate.New(*source, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migration up failed: %v", err)
		}
		log.Println("migrations applied successfully")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migration down failed: %v", err)
		}
		log.Println("migrations reverted successfully")

	case "steps":
		n := intArg(args, "steps")
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migration steps failed: %v", err)
		}
		log.Printf("applied %d migration steps", n)

	case "force":
		v := intArg(args, "force")
		if err := m.Force(v); err != nil {
			log.Fatalf("migration force failed: %v", err)
		}
		log.Printf("forced version %d", v)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("failed to get version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n", args[0])
		fmt.Println(usage)
		os.Exit(1)
	}
}

func intArg(args []string, cmd string) int {
	if len(args) < 2 {
		log.Fatalf("%s requires a number argument", cmd)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatalf("invalid %s argument: %v", cmd, err)
	}
	return n
}
