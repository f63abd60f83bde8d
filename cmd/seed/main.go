package main

import (
	"flag"
	"fmt"
	"group-chat/auth"
	"group-chat/domain"
	"group-chat/internal"
	"group-chat/repositories"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Registers users in the read model of a stopped server and prints a session token for each,
// standing in for the authentication service during local development.
func main() {
	names := flag.String("users", "alice,bob,carol,dave", "Comma separated display names")
	flag.Parse()

	config, err := internal.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	users := repositories.NewUserRepository(db)
	tokens := auth.NewTokens(config.JWTSecret)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "User ID", "Token"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, name := range strings.Split(*names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		user := domain.User{
			ID:     uuid.NewString(),
			Name:   name,
			Avatar: fmt.Sprintf("https://api.dicebear.com/9.x/initials/svg?seed=%s", name),
		}
		if err = users.SaveUser(user); err != nil {
			color.Red.Printf("✗ %s: %v\n", name, err)
			continue
		}
		token, err := tokens.Issue(user.ID, config.TokenTTL)
		if err != nil {
			color.Red.Printf("✗ %s: %v\n", name, err)
			continue
		}
		table.Append([]string{name, user.ID, token})
	}

	color.Cyan.Println("Seeded users (send the token as the chat-token cookie or a Bearer header)")
	table.Render()
}
