package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"calorie-tracker/domain"
	"calorie-tracker/internal/utils"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotConfirmed       = errors.New("refusing to clear without --yes")
	ErrPassphraseNotSet   = errors.New("ADMIN_PASSPHRASE_HASH is not configured")
	ErrPassphraseMismatch = errors.New("admin passphrase does not match")
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every shared food",
	Long: `Delete every record in the shared food store.

Requires --yes, the confirmation phrase typed back verbatim and the admin
passphrase (checked against ADMIN_PASSPHRASE_HASH).`,
	RunE: runClear,
}

var hashPassphraseCmd = &cobra.Command{
	Use:   "hash-passphrase",
	Short: "Print a bcrypt hash for ADMIN_PASSPHRASE_HASH",
	Long:  `Reads a passphrase from stdin and prints its bcrypt hash for config.yaml.`,
	Args:  cobra.NoArgs,
	RunE:  runHashPassphrase,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm the irreversible clear")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return ErrNotConfirmed
	}

	svc, closeFn, err := openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	confirm, err := confirmClear(cmd.InOrStdin(), cmd.ErrOrStderr(), utils.GetConfig("ADMIN_PASSPHRASE_HASH"))
	if err != nil {
		return err
	}

	deleted, err := svc.Clear(cmd.Context(), confirm)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d shared foods\n", deleted)
	return nil
}

// confirmClear prompts for the confirmation phrase and the admin passphrase.
// The passphrase is verified here; the phrase is checked by the store.
func confirmClear(in io.Reader, prompt io.Writer, hash string) (domain.ClearConfirmation, error) {
	if hash == "" {
		return domain.ClearConfirmation{}, ErrPassphraseNotSet
	}
	reader := bufio.NewReader(in)

	fmt.Fprintf(prompt, "Type %q to continue: ", domain.ClearConfirmationPhrase)
	phrase, err := readLine(reader)
	if err != nil {
		return domain.ClearConfirmation{}, err
	}

	fmt.Fprint(prompt, "Admin passphrase: ")
	passphrase, err := readLine(reader)
	if err != nil {
		return domain.ClearConfirmation{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase)); err != nil {
		return domain.ClearConfirmation{}, ErrPassphraseMismatch
	}

	return domain.ClearConfirmation{Confirmed: true, Phrase: phrase}, nil
}

func runHashPassphrase(cmd *cobra.Command, args []string) error {
	fmt.Fprint(cmd.ErrOrStderr(), "Passphrase: ")
	passphrase, err := readLine(bufio.NewReader(cmd.InOrStdin()))
	if err != nil {
		return err
	}
	if passphrase == "" {
		return errors.New("passphrase must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(hash))
	return nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
