// ABOUTME: Entry point for the daydash dashboard server
// ABOUTME: Routes to serve or init based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/harperreed/daydash/db"
	"github.com/harperreed/daydash/gcal"
	"github.com/harperreed/daydash/web"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/daydash/daydash.db)")
	port := flag.Int("port", 8080, "HTTP port for the dashboard API")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("daydash version %s\n", version)
		os.Exit(0)
	}

	// .env is optional; real env vars win
	_ = godotenv.Load()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	switch args[0] {
	case "init":
		finalDBPath := getDatabasePath(*dbPath)
		database, err := db.OpenDatabase(finalDBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()
		log.Printf("Database initialized at %s", finalDBPath)

	case "serve":
		finalDBPath := getDatabasePath(*dbPath)
		database, err := db.OpenDatabase(finalDBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()
		log.Printf("Dashboard database: %s", finalDBPath)

		cfg := gcal.NewOAuthConfig()
		// Credentials are never logged, only whether they are set
		log.Printf("Google Calendar configured: %v", gcal.Configured(cfg))

		// Callback state must name a user with existing dashboard data,
		// otherwise a forged redirect could persist tokens under any id
		mgr := gcal.NewManager(cfg, db.NewTokenStore(database), func(userID string) bool {
			exists, err := db.UserExists(database, userID)
			if err != nil {
				log.Printf("callback state check failed: %v", err)
				return false
			}
			return exists
		})
		server := web.NewServer(database, mgr, os.Getenv("FEEDBACK_WEBHOOK_URL"))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sig
			log.Println("Shutting down, flushing pending journal writes")
			server.FlushAutosaves()
			os.Exit(0)
		}()

		if err := server.Start(*port); err != nil {
			log.Fatalf("Server failed: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(xdg.DataHome, "daydash", "daydash.db")
}

func printUsage() {
	fmt.Printf(`daydash v%s - Personal productivity dashboard

USAGE:
  daydash [global flags] <command>

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/daydash/daydash.db)
  --port <n>             HTTP port (default: 8080)

COMMANDS:
  serve                  Start the dashboard API server
  init                   Initialize the database and exit

ENVIRONMENT:
  GOOGLE_CLIENT_ID       OAuth client id for Google Calendar
  GOOGLE_CLIENT_SECRET   OAuth client secret
  GOOGLE_REDIRECT_URI    OAuth callback URL
  FEEDBACK_WEBHOOK_URL   Optional webhook receiving user feedback

A .env file in the working directory is loaded if present.
`, version)
}
