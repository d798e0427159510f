package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/pricepanel-backend/pkg/config"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	"github.com/angelmondragon/pricepanel-backend/pkg/security"
)

// adminpass prints the Argon2id hash to put in PRICEPANEL_ADMIN_PASSWORD_HASH.
// The password is read from the first line of stdin unless -password is set.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "adminpass"})

	_ = godotenv.Load()

	password := flag.String("password", "", "password to hash (defaults to stdin)")
	flag.Parse()

	cfg, err := config.LoadPassword()
	if err != nil {
		logg.Error(ctx, "failed to load password config", err)
		os.Exit(1)
	}

	secret := *password
	if secret == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "no password on stdin")
			os.Exit(2)
		}
		secret = strings.TrimRight(line, "\r\n")
	}

	hash, err := security.HashPassword(secret, cfg)
	if err != nil {
		logg.Error(ctx, "failed to hash password", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
