// ABOUTME: CLI command to run one full assistant turn
// ABOUTME: Routes, loads memory, calls the chosen model and records the exchange
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/triprouter/internal/agent"
)

var (
	askSession  sessionFlags
	askImageURL string
	askTripID   string
)

// NewAskCmd creates ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Ask the travel assistant",
		Long: `Run one assistant turn end to end, the same way the HTTP
runtime does: route, add memory context, call the chosen model
and record the exchange.

Without OPENAI_API_KEY the answer is a routing summary.

Examples:
  triprouter ask "Sugira um roteiro de 3 dias em Lisboa"
  triprouter ask --image-url https://example.com/ticket.jpg "o que diz este bilhete?"
  triprouter ask --actor alice --session rome --trip-id t-42 "qual é o meu hotel?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}
	askSession.register(cmd)
	cmd.Flags().StringVar(&askImageURL, "image-url", "", "Attach an image by URL")
	cmd.Flags().StringVar(&askTripID, "trip-id", "", "Trip id")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.Agent.Invoke(cmd.Context(), agent.Request{
		Prompt:    joinArgs(args),
		HasImage:  askImageURL != "",
		ImageURL:  askImageURL,
		ActorID:   askSession.actor,
		SessionID: askSession.session,
		TripID:    askTripID,
	})
	if err != nil {
		return err
	}

	if wantJSON() {
		return printJSON(cmd.OutOrStdout(), resp)
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Response)
	if !quiet {
		r := resp.Metadata.Routing
		fmt.Fprintf(cmd.OutOrStdout(), "\n[%s → %s, %dms]\n", r.Complexity, r.ModelID, r.RoutingLatencyMs)
	}
	return nil
}
