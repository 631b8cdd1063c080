package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	rpcURL     string
	rpcTimeout time.Duration
)

// rpcCmd represents the rpc command group
var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "RPC client commands",
	Long:  `Call the JSON-RPC API of a running ticketd node and print the result.`,
}

// rpcResponse is the envelope every JSON-RPC method answers with.
type rpcResponse struct {
	Result json.RawMessage `json:"result"`
}

type rpcStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// callMethod posts one request to url and returns the result object.
func callMethod(ctx context.Context, url, method string, params interface{}) (json.RawMessage, error) {
	request := map[string]interface{}{"method": method}
	if params != nil {
		request["params"] = []interface{}{params}
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameters: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var envelope rpcResponse
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Result == nil {
		return nil, fmt.Errorf("unexpected response (HTTP %d): %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	var status rpcStatus
	if err := json.Unmarshal(envelope.Result, &status); err != nil {
		return nil, err
	}
	if status.Status == "error" {
		return envelope.Result, fmt.Errorf("RPC error [%d] %s: %s", status.ErrorCode, status.Error, status.ErrorMessage)
	}
	return envelope.Result, nil
}

// executeMethod calls method on the configured node and pretty prints the result.
func executeMethod(cmd *cobra.Command, method string, params interface{}) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rpcTimeout)
	defer cancel()

	result, err := callMethod(ctx, rpcURL, method, params)
	if result != nil {
		var pretty bytes.Buffer
		if json.Indent(&pretty, result, "", "  ") == nil {
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(result))
		}
	}
	return err
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "ping", nil)
	},
}

var serverInfoCmd = &cobra.Command{
	Use:   "server_info",
	Short: "Get server information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "server_info", nil)
	},
}

var accountInfoCmd = &cobra.Command{
	Use:   "account_info <account> [mint]",
	Short: "Get account information, and a token balance when a mint is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]interface{}{"account": args[0]}
		if len(args) > 1 {
			params["mint"] = args[1]
		}
		return executeMethod(cmd, "account_info", params)
	},
}

var communityInfoCmd = &cobra.Command{
	Use:   "community_info <community>",
	Short: "Get a community",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "community_info", map[string]interface{}{"community": args[0]})
	},
}

var eventInfoCmd = &cobra.Command{
	Use:   "event_info <event>",
	Short: "Get an event with its escrow and credential collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "event_info", map[string]interface{}{"event": args[0]})
	},
}

var attendeeInfoCmd = &cobra.Command{
	Use:   "attendee_info <event> <account>",
	Short: "Get an attendee record and its credential",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "attendee_info", map[string]interface{}{"event": args[0], "account": args[1]})
	},
}

var credentialInfoCmd = &cobra.Command{
	Use:   "credential_info <event> <sequence>",
	Short: "Get a credential by its sequence number",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid sequence %q", args[1])
		}
		return executeMethod(cmd, "credential_info", map[string]interface{}{"event": args[0], "sequence": seq})
	},
}

var escrowInfoCmd = &cobra.Command{
	Use:   "escrow_info <event>",
	Short: "Get the escrow of an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "escrow_info", map[string]interface{}{"event": args[0]})
	},
}

var mintInfoCmd = &cobra.Command{
	Use:   "mint_info <mint>",
	Short: "Get a token mint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "mint_info", map[string]interface{}{"mint": args[0]})
	},
}

var txCmd = &cobra.Command{
	Use:   "tx <hash>",
	Short: "Look up an applied transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "tx", map[string]interface{}{"transaction": args[0]})
	},
}

var accountTxCmd = &cobra.Command{
	Use:   "account_tx <account> [limit]",
	Short: "List the transactions an account signed, newest first",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]interface{}{"account": args[0]}
		if len(args) > 1 {
			limit, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid limit %q", args[1])
			}
			params["limit"] = limit
		}
		return executeMethod(cmd, "account_tx", params)
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <tx_json>",
	Short: "Submit a signed transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !json.Valid([]byte(args[0])) {
			return fmt.Errorf("tx_json is not valid JSON")
		}
		return executeMethod(cmd, "submit", map[string]interface{}{"tx_json": json.RawMessage(args[0])})
	},
}

var jsonCmd = &cobra.Command{
	Use:   "json <method> [params]",
	Short: "Call any method with a raw JSON params object",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var params interface{}
		if len(args) > 1 {
			if !json.Valid([]byte(args[1])) {
				return fmt.Errorf("params are not valid JSON")
			}
			params = json.RawMessage(args[1])
		}
		return executeMethod(cmd, args[0], params)
	},
}

func init() {
	rootCmd.AddCommand(rpcCmd)
	rpcCmd.PersistentFlags().StringVar(&rpcURL, "url", "http://127.0.0.1:5005/", "JSON-RPC endpoint of the node")
	rpcCmd.PersistentFlags().DurationVar(&rpcTimeout, "timeout", 30*time.Second, "request timeout")

	rpcCmd.AddCommand(
		// Server commands
		pingCmd,
		serverInfoCmd,

		// Ledger entries
		accountInfoCmd,
		communityInfoCmd,
		eventInfoCmd,
		attendeeInfoCmd,
		credentialInfoCmd,
		escrowInfoCmd,
		mintInfoCmd,

		// Transactions
		txCmd,
		accountTxCmd,
		submitCmd,

		// Generic JSON command
		jsonCmd,
	)
}
