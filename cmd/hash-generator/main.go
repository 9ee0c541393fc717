// Command hash-generator prints bcrypt hashes for seeding users directly in
// the database, and checks a password against an existing hash.
//
//	hash-generator -cost 10 password1 password2
//	hash-generator -check '$2a$10$...' password
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/myday-api/internal/domain"
	"github.com/phrazzld/myday-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	check := flag.String("check", "", "hash to verify the password against instead of hashing")
	flag.Parse()

	if err := run(os.Stdout, *cost, *check, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out io.Writer, cost int, check string, passwords []string) error {
	if len(passwords) == 0 {
		return errors.New("at least one password is required")
	}

	if check != "" {
		err := auth.NewBcryptVerifier().Compare(check, passwords[0])
		switch {
		case err == nil:
			_, _ = fmt.Fprintln(out, "match")
			return nil
		case errors.Is(err, auth.ErrInvalidCredentials):
			_, _ = fmt.Fprintln(out, "mismatch")
			return nil
		default:
			return err
		}
	}

	for _, password := range passwords {
		if err := domain.ValidatePassword(password); err != nil {
			return fmt.Errorf("rejected password %q: %w", password, err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		_, _ = fmt.Fprintf(out, "%s\n", hash)
	}
	return nil
}
