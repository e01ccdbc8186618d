package main

import (
	"fmt"
	"os"

	"msci/internal/cli"
	"msci/pkg/logger"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const usage = `Usage: msci <command> [arguments]

Commands:
  check [--json] [--version=TC] <script|dir>...   compile and analyze scripts
  tokens <script|->                               dump line tokens and hashes as JSON
  catalog:import <file> | --sheet=<id>            store a command catalog in the database
  catalog:export <file.txt|file.xlsx>             write the configured catalog to a file
  serve                                           run the HTTP compile service
  version                                         print the version`

func main() {
	godotenv.Load()
	logger.Setup(os.Getenv("APP_ENV"), os.Stderr)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "check":
		cli.HandleCheck(os.Args[2:])
	case "tokens":
		cli.HandleTokens(os.Args[2:])
	case "catalog:import":
		cli.HandleCatalogImport(os.Args[2:])
	case "catalog:export":
		cli.HandleCatalogExport(os.Args[2:])
	case "serve":
		cli.HandleServe()
	case "version", "--version", "-v":
		cli.HandleVersion()
	case "help", "--help", "-h":
		fmt.Println(usage)
	default:
		fmt.Printf("Unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(1)
	}
}
