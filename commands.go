package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zer0-os/zdao-sdk-go/helpers"
	"github.com/zer0-os/zdao-sdk-go/ipfs"
	"github.com/zer0-os/zdao-sdk-go/response"
	"github.com/zer0-os/zdao-sdk-go/zdao"
	"go.vocdoni.io/dvote/log"
)

// runSDK creates an SDK from the configuration, calls fn and prints its outcome.
func runSDK(cmd *cobra.Command, fn func(ctx context.Context, sdk *zdao.SDK) (any, error)) error {
	cfg, err := sdkConfig()
	if err != nil {
		return err
	}
	sdk, err := zdao.New(cfg)
	if err != nil {
		return err
	}
	defer sdk.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), v.GetDuration("timeout"))
	defer cancel()
	data, err := fn(ctx, sdk)
	return write(cmd, data, err)
}

func write(cmd *cobra.Command, data any, err error) error {
	resp := &response.Response{}
	if err != nil {
		log.Debugw("command failed", "command", cmd.Name(), "error", err)
		resp.SetErr(err)
	} else {
		resp.Set(data)
	}
	if werr := resp.Write(cmd.OutOrStdout(), v.GetString("output")); werr != nil {
		return werr
	}
	if !resp.Ok {
		return errReported
	}
	return nil
}

var daosCmd = &cobra.Command{
	Use:   "daos",
	Short: "List every zDAO of the network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSDK(cmd, func(ctx context.Context, sdk *zdao.SDK) (any, error) {
			return sdk.ListZDAOs(ctx)
		})
	},
}

var daoCmd = &cobra.Command{
	Use:   "dao zNA",
	Short: "Show the zDAO linked to a zNA",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		byID, err := cmd.Flags().GetBool("id")
		if err != nil {
			return err
		}
		all, err := cmd.Flags().GetBool("all")
		if err != nil {
			return err
		}
		return runSDK(cmd, func(ctx context.Context, sdk *zdao.SDK) (any, error) {
			switch {
			case byID:
				id, err := helpers.ParseDAOID(args[0])
				if err != nil {
					return nil, err
				}
				return sdk.GetZDAOByID(ctx, id)
			case all:
				return sdk.ListZDAOsByZNA(ctx, args[0])
			}
			return sdk.GetZDAOByZNA(ctx, args[0])
		})
	},
}

var linksCmd = &cobra.Command{
	Use:   "links zNA",
	Short: "Show the active registry links of a zNA",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSDK(cmd, func(ctx context.Context, sdk *zdao.SDK) (any, error) {
			return sdk.ZNALinks(ctx, args[0])
		})
	},
}

var assetsCmd = &cobra.Command{
	Use:   "assets zNA",
	Short: "List the coins and collectibles of a zDAO",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSDK(cmd, func(ctx context.Context, sdk *zdao.SDK) (any, error) {
			dao, err := sdk.GetZDAOByZNA(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return sdk.ListAssets(ctx, dao)
		})
	},
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions zNA",
	Short: "List the token transfers of a zDAO",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSDK(cmd, func(ctx context.Context, sdk *zdao.SDK) (any, error) {
			dao, err := sdk.GetZDAOByZNA(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return sdk.ListTransactions(ctx, dao)
		})
	},
}

var proposalsCmd = &cobra.Command{
	Use:   "proposals zNA",
	Short: "List the proposals of a zDAO, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		first, skip, err := pageFlags(cmd)
		if err != nil {
			return err
		}
		return runSDK(cmd, func(ctx context.Context, sdk *zdao.SDK) (any, error) {
			dao, err := sdk.GetZDAOByZNA(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return sdk.ListProposals(ctx, dao, first, skip)
		})
	},
}

var proposalCmd = &cobra.Command{
	Use:   "proposal zNA proposalID",
	Short: "Show a proposal of a zDAO",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSDK(cmd, func(ctx context.Context, sdk *zdao.SDK) (any, error) {
			dao, err := sdk.GetZDAOByZNA(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return sdk.GetProposal(ctx, dao, args[1])
		})
	},
}

var votesCmd = &cobra.Command{
	Use:   "votes proposalID",
	Short: "List the votes cast on a proposal, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		first, skip, err := pageFlags(cmd)
		if err != nil {
			return err
		}
		return runSDK(cmd, func(ctx context.Context, sdk *zdao.SDK) (any, error) {
			return sdk.ListVotes(ctx, args[0], first, skip)
		})
	},
}

var metadataCmd = &cobra.Command{
	Use:   "metadata zNA proposalID",
	Short: "Show the token transfer a proposal executes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSDK(cmd, func(ctx context.Context, sdk *zdao.SDK) (any, error) {
			dao, err := sdk.GetZDAOByZNA(ctx, args[0])
			if err != nil {
				return nil, err
			}
			p, err := sdk.GetProposal(ctx, dao, args[1])
			if err != nil {
				return nil, err
			}
			return sdk.GetTransferMetadata(ctx, p)
		})
	},
}

var cidCmd = &cobra.Command{
	Use:   "cid path",
	Short: "Print the raw CIDv1 of a local file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		c, err := ipfs.CIDForBytes(data)
		if err != nil {
			return write(cmd, nil, err)
		}
		return write(cmd, c.String(), nil)
	},
}

func pageFlags(cmd *cobra.Command) (first, skip int, err error) {
	if first, err = cmd.Flags().GetInt("first"); err != nil {
		return 0, 0, err
	}
	if skip, err = cmd.Flags().GetInt("skip"); err != nil {
		return 0, 0, err
	}
	if first < 1 || skip < 0 {
		return 0, 0, fmt.Errorf("invalid page: first %d, skip %d", first, skip)
	}
	return first, skip, nil
}

func init() {
	daoCmd.Flags().Bool("id", false, "treat the argument as a registry zDAO id")
	daoCmd.Flags().Bool("all", false, "list every zDAO linked to the zNA")
	for _, c := range []*cobra.Command{proposalsCmd, votesCmd} {
		c.Flags().Int("first", 20, "page size")
		c.Flags().Int("skip", 0, "entries to skip")
	}

	rootCmd.AddCommand(daosCmd)
	rootCmd.AddCommand(daoCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(transactionsCmd)
	rootCmd.AddCommand(proposalsCmd)
	rootCmd.AddCommand(proposalCmd)
	rootCmd.AddCommand(votesCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(cidCmd)
}
