package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dokon-erp/dokon/internal/auth"
)

// UserCreator stores a new operator account.
type UserCreator interface {
	CreateUser(ctx context.Context, input auth.CreateUserInput) (*auth.User, error)
}

// RunSeedUsers executes "seed-users -name N -telegram T -password P".
func RunSeedUsers(ctx context.Context, users UserCreator, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("seed-users", flag.ContinueOnError)
	fs.SetOutput(out)
	var input auth.CreateUserInput
	fs.StringVar(&input.Name, "name", "", "display name")
	fs.StringVar(&input.Telegram, "telegram", "", "telegram handle used to log in")
	fs.StringVar(&input.Password, "password", "", "plain text password, at least 8 characters")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	user, err := users.CreateUser(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created user %d (@%s)\n", user.ID, user.Telegram)
	return nil
}
