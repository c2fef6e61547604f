package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/modules/mint"
	"github.com/spf13/cobra"
)

type allowlistCmdOptions struct {
	File    string
	Address string
}

func NewAllowlistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allowlist",
		Short: "Build allowlist merkle roots and proofs",
	}
	cmd.AddCommand(
		newAllowlistRootCommand(),
		newAllowlistProofCommand(),
	)
	return cmd
}

func newAllowlistRootCommand() *cobra.Command {
	opts := &allowlistCmdOptions{}

	cmd := &cobra.Command{
		Use:     "root",
		Short:   "Print the merkle root of an allowlist file",
		Example: `mintgate allowlist root --file ./allowlist.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			document, err := os.ReadFile(opts.File)
			if err != nil {
				return errors.Wrapf(err, "can't read allowlist file %q", opts.File)
			}
			root, err := mint.AllowlistRoot(document)
			if err != nil {
				return errors.WithStack(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.File, "file", "", `Allowlist JSON file of the form {"pre": ["0x..."]}`)
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newAllowlistProofCommand() *cobra.Command {
	opts := &allowlistCmdOptions{}

	cmd := &cobra.Command{
		Use:     "proof",
		Short:   "Print the merkle proof of an allowlisted address, one hash per line",
		Example: `mintgate allowlist proof --file ./allowlist.json --address 0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			document, err := os.ReadFile(opts.File)
			if err != nil {
				return errors.Wrapf(err, "can't read allowlist file %q", opts.File)
			}
			proof, err := mint.AllowlistProof(document, opts.Address)
			if err != nil {
				return errors.WithStack(err)
			}
			for _, h := range proof {
				fmt.Fprintln(cmd.OutOrStdout(), h)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.File, "file", "", `Allowlist JSON file of the form {"pre": ["0x..."]}`)
	flags.StringVar(&opts.Address, "address", "", "Address to prove membership for")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}
