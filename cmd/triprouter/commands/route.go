// ABOUTME: CLI command to route a single message
// ABOUTME: Prints the complexity, chosen model and flags without calling the model
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/triprouter/internal/models"
)

var (
	routeImage        bool
	routeTripStatus   string
	routeDestinations []string
	routeStart        string
	routeEnd          string
)

// NewRouteCmd creates route command
func NewRouteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route [text]",
		Short: "Classify a message and show the routing decision",
		Long: `Classify a message and show which model it would be sent to.

Greetings and thanks are matched locally; everything else goes
to the router model. Without OPENAI_API_KEY the classifier falls
back to INFORMATIVE.

Examples:
  triprouter route "oi"
  triprouter route "Crie um roteiro de 5 dias em Roma" --trip-status PLANNING --destinations Roma
  triprouter route --image "o que diz esse documento?"
  triprouter route --format json "Qual o horário do meu voo?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRoute,
	}

	cmd.Flags().BoolVar(&routeImage, "image", false, "Treat the message as carrying an attachment")
	cmd.Flags().StringVar(&routeTripStatus, "trip-status", "", "Trip status (e.g. PLANNING)")
	cmd.Flags().StringSliceVar(&routeDestinations, "destinations", []string{}, "Trip destinations (comma-separated)")
	cmd.Flags().StringVar(&routeStart, "start", "", "Trip start date")
	cmd.Flags().StringVar(&routeEnd, "end", "", "Trip end date")

	return cmd
}

// tripFromFlags returns nil when no trip flag was given
func tripFromFlags(status string, destinations []string, start, end string) *models.TripContext {
	if status == "" && len(destinations) == 0 && start == "" && end == "" {
		return nil
	}
	return &models.TripContext{
		Status:       status,
		Destinations: destinations,
		StartDate:    start,
		EndDate:      end,
	}
}

func runRoute(cmd *cobra.Command, args []string) error {
	text := joinArgs(args)

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	trip := tripFromFlags(routeTripStatus, routeDestinations, routeStart, routeEnd)
	decision := a.Router.Route(cmd.Context(), text, routeImage, trip)

	if wantJSON() {
		return printJSON(cmd.OutOrStdout(), decision)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Complexity:\t%s\n", decision.Complexity)
	fmt.Fprintf(w, "Source:\t%s\n", decision.Source)
	fmt.Fprintf(w, "Model:\t%s\n", decision.ModelID)
	fmt.Fprintf(w, "Use tools:\t%t\n", decision.UseTools)
	fmt.Fprintf(w, "Use memory:\t%t\n", decision.UseMemory)
	fmt.Fprintf(w, "Cost (in/out per 1M):\t$%.3f / $%.3f\n", decision.CostInputPer1M, decision.CostOutputPer1M)
	fmt.Fprintf(w, "Routing time:\t%dms\n", decision.RoutingLatencyMs)
	return w.Flush()
}
