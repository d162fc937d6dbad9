package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"niseko/shared/password"

	"github.com/spf13/cobra"
)

var errNoPassword = errors.New("no password given")

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash for a staff password",
		Long: `Prints a bcrypt hash suitable for seeding the first admin row in the users table.
Without an argument the password is read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHashPassword(cmd.InOrStdin(), cmd.OutOrStdout(), args)
		},
	}
}

func runHashPassword(stdin io.Reader, out io.Writer, args []string) error {
	var plain string

	if len(args) == 1 {
		plain = args[0]
	} else {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read password: %w", err)
		}

		plain = strings.TrimRight(line, "\r\n")
	}

	if plain == "" {
		return errNoPassword
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = fmt.Fprintln(out, hashed)

	return err //nolint:wrapcheck
}
