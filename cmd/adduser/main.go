// Command adduser creates an account of any role from the command line.
// Usage: go run ./cmd/adduser -email t@example.com -username teacher -role teacher
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sahilchouksey/practice-tracker/config"
	"github.com/sahilchouksey/practice-tracker/database"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/auth"
)

func main() {
	email := flag.String("email", "", "account email (required)")
	username := flag.String("username", "", "login name (required)")
	fullName := flag.String("name", "", "full name")
	role := flag.String("role", string(model.RoleStudent), "student, teacher or staff")
	password := flag.String("password", "", "password; read from stdin when empty")
	flag.Parse()

	if *email == "" || *username == "" {
		flag.Usage()
		os.Exit(2)
	}

	r, err := model.ParseRole(*role)
	if err != nil {
		log.Fatalf("Invalid role %q", *role)
	}

	if *password == "" {
		fmt.Print("Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			log.Fatalf("Failed to read password: %v", err)
		}
		*password = strings.TrimSpace(line)
	}

	if err := config.LoadENV(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	store, err := database.StartGORM(env)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	db := store.GetDB()
	access := services.NewAccessService(db, auth.NewBcryptHasher(env.BCRYPT_COST), services.NewAuditService(db))

	user, err := access.Provision(context.Background(), services.RegisterInput{
		Email:    *email,
		Password: *password,
		Username: *username,
		FullName: *fullName,
		Role:     r,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created %s %s (id %d)\n", user.Role, user.Email, user.ID)
}
