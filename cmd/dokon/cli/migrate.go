// Package cli implements the administrative subcommands of the dokon binary.
package cli

import (
	"errors"
	"fmt"
	"io"
)

// Migrator is the subset of db.Migrator the migrate command drives.
type Migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, ok bool, err error)
}

// ErrUsage reports an unknown subcommand or bad flags.
var ErrUsage = errors.New("usage error")

// RunMigrate executes "migrate up|down|version".
func RunMigrate(m Migrator, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: migrate up|down|version", ErrUsage)
	}
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations applied")
	case "down":
		if err := m.Down(); err != nil {
			return err
		}
		fmt.Fprintln(out, "rolled back one migration")
	case "version":
		version, dirty, ok, err := m.Version()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "no migrations applied")
			return nil
		}
		suffix := ""
		if dirty {
			suffix = " (dirty)"
		}
		fmt.Fprintf(out, "version %d%s\n", version, suffix)
	default:
		return fmt.Errorf("%w: unknown migrate command %q", ErrUsage, args[0])
	}
	return nil
}
