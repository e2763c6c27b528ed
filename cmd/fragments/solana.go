package main

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/code-payments/fragments/pkg/fragments/config"
	"github.com/code-payments/fragments/pkg/fragments/program"
	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/confirm"
	"github.com/code-payments/fragments/pkg/solana/pubsub"
)

var airdropLamports uint64

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Print the balance of an address in lamports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := solana.ParseAddress(args[0])
		if err != nil {
			return err
		}

		balance, err := newProgramClient(cmd.Context()).GetBalance(cmd.Context(), address)
		if err != nil {
			return err
		}

		fmt.Fprintf(
			cmd.OutOrStdout(),
			"%s lamports (%s SOL)\n",
			strconv.FormatUint(balance, 10),
			humanize.CommafWithDigits(float64(balance)/float64(solana.LamportsPerSol), 9),
		)
		return nil
	},
}

var airdropCmd = &cobra.Command{
	Use:   "airdrop <address>",
	Short: "Request an airdrop and wait for its confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := solana.ParseAddress(args[0])
		if err != nil {
			return err
		}

		sig, err := newProgramClient(cmd.Context()).Airdrop(cmd.Context(), address, airdropLamports)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), sig.String())
		return nil
	},
}

var keypairCmd = &cobra.Command{
	Use:   "keypair",
	Short: "Generate a keypair, printing its address and private key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := program.GenerateKeypair()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "address:     %s\n", base58.Encode(key.Public().(ed25519.PublicKey)))
		fmt.Fprintf(cmd.OutOrStdout(), "private key: %s\n", base58.Encode(key))
		return nil
	},
}

func init() {
	airdropCmd.Flags().Uint64Var(&airdropLamports, "lamports", program.DefaultAirdropAmount, "lamports to request")
}

// newProgramClient builds a client against the configured cluster. Program
// ids are optional here since only balance and airdrop calls are made.
func newProgramClient(ctx context.Context) *program.Client {
	if ctx == nil {
		ctx = context.Background()
	}

	conf := config.WithEnvConfigs()()
	rpc := solana.New(conf.SolanaRpcUrl.Get(ctx))

	return program.NewClient(
		&program.Config{
			ConfirmTimeout:   conf.ConfirmTimeout.Get(ctx),
			SlotPollInterval: conf.SlotPollInterval.Get(ctx),
		},
		rpc,
		confirm.NewConfirmer(rpc, pubsub.New(conf.SolanaWsUrl.Get(ctx))),
	)
}
