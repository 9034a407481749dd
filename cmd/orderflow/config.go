package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	endpoint string
	dsn      string
	pageSize int
	logLevel string
	env      string
}

func NewConfig() Config {
	var (
		endpoint string
		dsn      string
		pageSize int
		logLevel string
		env      string
	)

	// A missing .env file is fine: the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: .env file wasn't loaded due to %s\n", err)
	}

	flag.StringVar(&endpoint, "a", "localhost:8000", "address and port to run server")
	flag.StringVar(&dsn, "d", "", "data source name for database connection")
	flag.IntVar(&pageSize, "p", 3, "default number of items on a list page")
	flag.Parse()

	if address := os.Getenv("RUN_ADDRESS"); address != "" {
		endpoint = address
	}

	if d := os.Getenv("DATABASE_URI"); d != "" {
		dsn = d
	}

	if p := os.Getenv("PAGE_SIZE"); p != "" {
		size, err := strconv.Atoi(p)
		if err != nil || size <= 0 {
			log.Printf("WARNING: PAGE_SIZE %q is not a positive number, using %d\n", p, pageSize)
		} else {
			pageSize = size
		}
	}

	if l := os.Getenv("LOG_LEVEL"); l != "" {
		logLevel = l
	} else {
		logLevel = "error"
	}

	if e := os.Getenv("ENV"); e != "" {
		env = e
	} else {
		env = "production"
	}

	return Config{
		endpoint,
		dsn,
		pageSize,
		logLevel,
		env,
	}
}
