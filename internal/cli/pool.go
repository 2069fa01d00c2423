package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	createName         string
	createKind         string
	createCommissioner string
	createDisplayName  string
	createStrips       int
)

func newCreatePoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool",
		Short: "Create a new pool",
		Long: `Create a new pool of the given kind. Squares pools are provisioned
with a 10x10 grid, strip pools with the requested number of strips.

Example:
  poolctl create-pool --name "Big Game" --kind squares --commissioner u-1 --display-name "Pat"
  poolctl create-pool --name "Week 1 Strips" --kind strips --strips 50 --commissioner u-1 --display-name "Pat"`,
		RunE: runCreatePool,
	}

	cmd.Flags().StringVar(&createName, "name", "", "Pool name")
	cmd.Flags().StringVar(&createKind, "kind", "", "Pool kind: squares, strips or pickem")
	cmd.Flags().StringVar(&createCommissioner, "commissioner", "", "Commissioner identity")
	cmd.Flags().StringVar(&createDisplayName, "display-name", "", "Commissioner display name")
	cmd.Flags().IntVar(&createStrips, "strips", 0, "Strip count for strip pools")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("kind")
	cmd.MarkFlagRequired("commissioner")
	cmd.MarkFlagRequired("display-name")
	return cmd
}

func runCreatePool(cmd *cobra.Command, args []string) error {
	body := map[string]any{
		"name":             createName,
		"kind":             createKind,
		"commissionerId":   createCommissioner,
		"commissionerName": createDisplayName,
	}
	if createStrips > 0 {
		body["stripCount"] = createStrips
	}

	var pool map[string]any
	if err := newHTTPClient().do(http.MethodPost, "/pools", body, &pool); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(pool)
	} else {
		fmt.Printf("Created pool %v\n", pool["poolId"])
		fmt.Printf("Join code: %v\n", pool["joinCode"])
	}
	return nil
}

var statusValue string

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status POOL_ID",
		Short: "Set a pool's status",
		Long: `Set a pool's lifecycle status. Only open pools admit claims.

Example:
  poolctl status pool-abc --set locked`,
		Args: cobra.ExactArgs(1),
		RunE: runStatus,
	}
	cmd.Flags().StringVar(&statusValue, "set", "", "New status: open, locked or closed")
	cmd.MarkFlagRequired("set")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	body := map[string]string{"status": statusValue}
	var out map[string]string
	if err := newHTTPClient().do(http.MethodPost, "/pools/"+args[0]+"/status", body, &out); err != nil {
		return err
	}
	if jsonOutput {
		printJSON(out)
	} else {
		fmt.Printf("Pool %s is now %s\n", args[0], out["status"])
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]string
			if err := newHTTPClient().do(http.MethodGet, "/version", nil, &out); err != nil {
				return err
			}
			if jsonOutput {
				printJSON(out)
			} else {
				fmt.Println(out["serverVersion"])
			}
			return nil
		},
	}
}
