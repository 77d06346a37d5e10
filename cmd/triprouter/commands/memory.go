// ABOUTME: CLI commands for session memory: context, record, history, summarize
// ABOUTME: All of them address one (actor, session) pair chosen by flags
package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/triprouter/internal/agent"
	"github.com/harper/triprouter/internal/memory"
	"github.com/harper/triprouter/internal/models"
)

// sessionFlags holds the identity flags shared by memory commands
type sessionFlags struct {
	actor   string
	session string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.actor, "actor", agent.DefaultActorID, "Actor (user) id")
	cmd.Flags().StringVar(&f.session, "session", agent.DefaultSessionID, "Session id")
}

func (f *sessionFlags) key() models.SessionKey {
	return models.SessionKey{ActorID: f.actor, SessionID: f.session}
}

var (
	contextSession   sessionFlags
	contextNoSummary bool

	recordSession sessionFlags

	historySession sessionFlags
	historyLimit   int

	summarizeSession sessionFlags
)

// NewContextCmd creates context command
func NewContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context [query]",
		Short: "Show the memory block that would be added to a prompt",
		Long: `Render the session summary and recent turns exactly as the
assistant would see them. Prints nothing when memory is empty or
not configured.

Examples:
  triprouter context --actor alice --session rome "qual é o meu hotel?"
  triprouter context --no-summary`,
		RunE: runContext,
	}
	contextSession.register(cmd)
	cmd.Flags().BoolVar(&contextNoSummary, "no-summary", false, "Leave out the session summary")
	return cmd
}

func runContext(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	key := contextSession.key()
	block := a.Memory.BuildPromptContext(cmd.Context(), key, joinArgs(args), !contextNoSummary)

	if wantJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"actor_id":          key.ActorID,
			"session_id":        key.SessionID,
			"memory_configured": a.Memory.IsConfigured(),
			"context":           block,
		})
	}

	if block == "" {
		if !quiet {
			if a.Memory.IsConfigured() {
				fmt.Fprintln(cmd.OutOrStdout(), "No context for this session")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Memory not configured (set MEMORY_ID)")
			}
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), block)
	return nil
}

// NewRecordCmd creates record command
func NewRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <user-message> <agent-response>",
		Short: "Append a user/assistant exchange to session memory",
		Long: `Append a user message and the assistant's reply to session memory.

Examples:
  triprouter record --actor alice --session rome "Meu voo é o AZ 123" "Anotado!"`,
		Args: cobra.ExactArgs(2),
		RunE: runRecord,
	}
	recordSession.register(cmd)
	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Memory.IsConfigured() {
		return fmt.Errorf("memory not configured (set MEMORY_ID)")
	}

	key := recordSession.key()
	if err := key.Validate(); err != nil {
		return err
	}
	store := a.Memory.Store()
	if err := store.AppendTurns(cmd.Context(), key, models.InteractionMessages(args[0], args[1])); err != nil {
		return fmt.Errorf("recording interaction: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded 2 turns for %s/%s\n", key.ActorID, key.SessionID)
	}
	return nil
}

// NewHistoryCmd creates history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recent messages of a session",
		Long: `List the most recent stored messages of a session, oldest first.

Examples:
  triprouter history --actor alice --session rome
  triprouter history --limit 20 --format json`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	historySession.register(cmd)
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum messages to show")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(historyLimit, "limit"); err != nil {
		return err
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	turns, err := a.Memory.RecentTurns(cmd.Context(), historySession.key(), historyLimit)
	if err != nil {
		if errors.Is(err, memory.ErrNotConfigured) {
			return fmt.Errorf("memory not configured (set MEMORY_ID)")
		}
		return fmt.Errorf("loading history: %w", err)
	}

	if wantJSON() {
		if turns == nil {
			turns = []models.ConversationTurn{}
		}
		return printJSON(cmd.OutOrStdout(), turns)
	}

	if len(turns) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No messages found")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "WHEN\tROLE\tMESSAGE\n")
	fmt.Fprintf(w, "----\t----\t-------\n")
	for _, turn := range turns {
		when := "-"
		if turn.Timestamp != nil {
			when = formatTime(*turn.Timestamp)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", when, turn.Role, truncate(memory.UnwrapContent(turn.Content), 70))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d message(s)\n", len(turns))
	}
	return nil
}

// NewSummarizeCmd creates summarize command
func NewSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a session and store the summary",
		Long: `Ask the chat model for a short summary of the session's recent
messages and store it. Later context blocks start with this summary.

Requires OPENAI_API_KEY and MEMORY_ID.

Examples:
  triprouter summarize --actor alice --session rome`,
		Args: cobra.NoArgs,
		RunE: runSummarize,
	}
	summarizeSession.register(cmd)
	return cmd
}

func runSummarize(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Summarizer == nil {
		return fmt.Errorf("summaries need both MEMORY_ID and OPENAI_API_KEY")
	}

	summary, err := a.Summarizer.Summarize(cmd.Context(), summarizeSession.key())
	if err != nil {
		if errors.Is(err, memory.ErrNothingToSummarize) {
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to summarize")
			}
			return nil
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}
