package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	claimClaimant    string
	claimDisplayName string
)

func newClaimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim POOL_ID RESOURCE_ID",
		Short: "Claim a strip or square",
		Long: `Claim a strip or square in a pool. The claim succeeds only if the
resource is still unowned and the pool is open; if someone got there
first, the current owner is reported.

Example:
  poolctl claim pool-abc strip-7 --claimant u-42 --display-name "Sam"`,
		Args: cobra.ExactArgs(2),
		RunE: runClaim,
	}
	cmd.Flags().StringVar(&claimClaimant, "claimant", "", "Claimant identity")
	cmd.Flags().StringVar(&claimDisplayName, "display-name", "", "Claimant display name")
	cmd.MarkFlagRequired("claimant")
	cmd.MarkFlagRequired("display-name")
	return cmd
}

func runClaim(cmd *cobra.Command, args []string) error {
	body := map[string]string{
		"claimantId":  claimClaimant,
		"displayName": claimDisplayName,
	}

	var out map[string]any
	path := fmt.Sprintf("/pools/%s/resources/%s/claim", args[0], args[1])
	if err := newHTTPClient().do(http.MethodPost, path, body, &out); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(out)
		return nil
	}
	fmt.Printf("Claimed %s in pool %s\n", args[1], args[0])
	return nil
}
