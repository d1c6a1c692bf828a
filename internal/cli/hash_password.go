package cli

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/librarian/internal/auth"
)

// HashPasswordCommand produces the bcrypt hash deployments put into
// AUTH_PASSWORD_HASH when enabling the password gate.
type HashPasswordCommand struct {
	Password string
	Cost     int
}

func NewHashPasswordCommand() *HashPasswordCommand {
	return &HashPasswordCommand{}
}

func (cmd *HashPasswordCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)

	fs.StringVar(&cmd.Password, "password", "", "Password to hash (required, min 12 characters)")
	fs.IntVar(&cmd.Cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s hash-password -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate a bcrypt hash for the AUTH_PASSWORD_HASH setting.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Password == "" {
		return fmt.Errorf("required flag -password not provided")
	}

	return nil
}

func (cmd *HashPasswordCommand) Run() error {
	hash, err := auth.HashPassword(cmd.Password, cmd.Cost)
	if err != nil {
		return err
	}

	fmt.Println(hash)
	fmt.Fprintln(os.Stderr, "\nSet this as AUTH_PASSWORD_HASH and set AUTH_MODE=password.")
	return nil
}
