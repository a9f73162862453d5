package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const defaultSecretBytes = 64

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Secret helpers",
	}
	cmd.AddCommand(newSecretGenerateCmd(rand.Reader))
	return cmd
}

func newSecretGenerateCmd(random io.Reader) *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random hex secret suitable for JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if size < 32 {
				return fmt.Errorf("--bytes must be at least 32, got %d", size)
			}
			buf := make([]byte, size)
			if _, err := io.ReadFull(random, buf); err != nil {
				return fmt.Errorf("read random bytes: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(buf))
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "bytes", defaultSecretBytes, "number of random bytes")
	return cmd
}
