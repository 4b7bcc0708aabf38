package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenticum/agenticum/internal/cli"
	"github.com/agenticum/agenticum/internal/presentation/tui"
	"github.com/agenticum/agenticum/pkg/domain"
)

const demoIntent = "Launch campaign for a sustainable sneaker brand targeting Gen Z"

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [intent]",
	Short: "Run a campaign end to end in the terminal",
	Long: `Starts a campaign for the given intent, pauses at the plan for
approval, then executes both phases and renders the generated assets.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		intent := demoIntent
		if len(args) > 0 {
			intent = strings.Join(args, " ")
		}
		autoApprove, _ := cmd.Flags().GetBool("yes")

		app, err := cli.NewApp(cmd.Context(), cfg)
		if err != nil {
			fmt.Printf("Error initializing agenticum: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		tui.PrintBanner()
		fmt.Printf("Intent: %s\n\n", intent)

		ctx := cmd.Context()
		sessionID, err := app.Engine.Start(ctx, intent)
		if err != nil {
			fmt.Printf("Error starting campaign: %v\n", err)
			os.Exit(1)
		}

		session, err := app.Engine.GetSession(ctx, sessionID)
		if err != nil {
			fmt.Printf("Error loading session: %v\n", err)
			os.Exit(1)
		}
		printPlan(session)

		if !autoApprove && !confirm("Approve this plan?") {
			fmt.Println("Plan rejected. Session remains paused; approve it later via the API.")
			fmt.Printf("Session ID: %s\n", sessionID)
			return
		}

		fmt.Println("\nExecuting...")
		approval := domain.Approval{Approved: true, Notes: "approved from the terminal"}
		if err := app.Engine.Resume(ctx, sessionID, approval); err != nil {
			fmt.Printf("Error executing campaign: %v\n", err)
			os.Exit(1)
		}

		session, err = app.Engine.GetSession(ctx, sessionID)
		if err != nil {
			fmt.Printf("Error loading session: %v\n", err)
			os.Exit(1)
		}
		printResults(session)
	},
}

func printPlan(session *domain.Session) {
	fmt.Println("Proposed plan:")
	if plan := session.ExecutionPlan; plan != nil {
		if plan.Summary != "" {
			fmt.Printf("  %s\n", plan.Summary)
		}
		fmt.Printf("  Phase 1 (parallel):   %s\n", strings.Join(plan.ParallelPhase1, ", "))
		fmt.Printf("  Phase 2 (sequential): %s\n", strings.Join(plan.SequentialPhase2, ", "))
	}
	fmt.Println()
}

func printResults(session *domain.Session) {
	fmt.Printf("\nSession %s: %s\n\n", session.ID, tui.StatusDot(string(session.Status)))
	for _, id := range sortedNodeIDs(session) {
		node := session.Nodes[id]
		fmt.Printf("  %-6s %s\n", id, tui.StatusDot(string(node.Status)))
	}

	render := tui.NewRenderer()
	for _, asset := range session.Assets {
		fmt.Printf("\n=== %s (%s) ===\n", asset.Title, asset.GeneratedBy)
		out, err := render(asset.Content)
		if err != nil {
			fmt.Println(asset.Content)
			continue
		}
		fmt.Print(out)
	}

	if session.FinalResult != "" {
		fmt.Printf("\n%s\n", session.FinalResult)
	}
}

func sortedNodeIDs(session *domain.Session) []string {
	ids := make([]string, 0, len(session.Nodes))
	for id := range session.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	text, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(text))
	return answer == "y" || answer == "yes"
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("yes", "y", false, "Approve the plan without prompting")
}
