package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/exposurelab/exposurescan/internal/breach"
)

// NewPasswordCmd creates the password command.
func NewPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Check whether a password appears in known breach corpora",
		Long: `Password checks a password against known breach corpora using
k-anonymity: only the first five characters of the password's SHA-1
hash are sent upstream, and the match is made locally. The password
itself never leaves this machine.

The password is read from standard input so it never appears in shell
history or the process list.

Examples:
  # Interactive check
  exposurescan password

  # Piped check
  printf '%s' 'correct horse battery staple' | exposurescan password

  # JSON output
  exposurescan password --json < password.txt`,
		Args: cobra.NoArgs,
		RunE: runPasswordCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output the result in JSON format")

	return cmd
}

// runPasswordCmd executes the password command.
func runPasswordCmd(cmd *cobra.Command, _ []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stderr, "Password: ")

	client := breach.NewRangeClient()
	return checkPassword(context.Background(), client, cmd.InOrStdin(), cmd.OutOrStdout(), jsonOutput)
}

// passwordCheckResult is the JSON shape of one password check.
type passwordCheckResult struct {
	// Compromised reports whether the password appears in known breaches.
	Compromised bool `json:"compromised"`

	// Count is how many times the password appears in breach corpora.
	Count int `json:"count"`
}

// checkPassword reads one password from r and reports how many times it
// appears in known breach corpora.
func checkPassword(ctx context.Context, client *breach.RangeClient, r io.Reader, w io.Writer, jsonOutput bool) error {
	password, err := readPasswordLine(r)
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("no password provided on standard input")
	}

	count, err := client.CompromisedCount(ctx, password)
	if err != nil {
		return fmt.Errorf("password check failed: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(w).Encode(passwordCheckResult{
			Compromised: count > 0,
			Count:       count,
		})
	}

	if count > 0 {
		fmt.Fprintf(w, "COMPROMISED: this password appears %d times in known breach corpora.\n", count)
		fmt.Fprintln(w, "Do not use it anywhere. If it is in use, change it now.")
	} else {
		fmt.Fprintln(w, "Not found in known breach corpora.")
		fmt.Fprintln(w, "Absence from breach corpora does not make a password strong.")
	}

	return nil
}

// readPasswordLine reads the first line from r. The trailing newline is
// stripped; interior spaces are preserved, since passwords may contain
// them.
func readPasswordLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
