package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/splitledger/splitledger/internal/domain"
	"github.com/splitledger/splitledger/internal/trip"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "splitledger-cli",
		Short: "SplitLedger CLI tool",
		Long:  `A command line interface for splitting shared trip costs and interacting with the SplitLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the SplitLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Trip evaluation runs locally: it splits a YAML trip file into
	// balanced transactions and prints per-account statements without
	// talking to the server.
	var places int32
	tripCmd := &cobra.Command{
		Use:   "trip <file>",
		Short: "Split the expenses of a trip file across its participants",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			evaluateTrip(args[0], places)
		},
	}
	tripCmd.Flags().Int32Var(&places, "places", 0, "Decimal places kept when splitting amounts")
	rootCmd.AddCommand(tripCmd)

	balancesCmd := &cobra.Command{
		Use:   "balances",
		Short: "Show the balance of every account",
		Run: func(cmd *cobra.Command, args []string) {
			showBalances()
		},
	}
	rootCmd.AddCommand(balancesCmd)

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// ulidGenerator mints transaction IDs for locally evaluated trips.
type ulidGenerator struct{}

func (ulidGenerator) Generate() string {
	return ulid.Make().String()
}

func evaluateTrip(path string, places int32) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	t, err := trip.Load(f)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	plan, err := trip.Evaluate(t, ulidGenerator{}, domain.NewQuantizer(places))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	renderPlan(os.Stdout, plan)
}

func renderPlan(w io.Writer, plan *trip.Plan) {
	fmt.Fprintf(w, "%d expenses split across %d accounts\n", len(plan.Transactions), len(plan.Accounts))

	for i := range plan.Statements {
		st := &plan.Statements[i]

		fmt.Fprintf(w, "\n%s\n", st.Account.Name)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, line := range st.Lines {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", line.Description, line.Amount.String(), line.Balance.String())
		}
		fmt.Fprintf(tw, "  balance\t\t%s\n", st.Balance.String())
		tw.Flush()
	}
}

type accountBalance struct {
	ID      string
	Name    string
	Balance decimal.Decimal
}

func showBalances() {
	client := &http.Client{Timeout: timeout}
	balances, err := fetchBalances(client)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	renderBalances(os.Stdout, balances)
}

func fetchBalances(client *http.Client) ([]accountBalance, error) {
	resp, err := client.Get(baseURL + "/api/v1/accounts?limit=100")
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("listing accounts returned status %d: %s", resp.StatusCode, string(body))
	}

	var list struct {
		Accounts []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"accounts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse account list: %w", err)
	}

	balances := make([]accountBalance, 0, len(list.Accounts))
	for _, account := range list.Accounts {
		balance, err := fetchBalance(client, account.ID)
		if err != nil {
			return nil, err
		}
		balances = append(balances, accountBalance{ID: account.ID, Name: account.Name, Balance: balance})
	}
	return balances, nil
}

func fetchBalance(client *http.Client, accountID string) (decimal.Decimal, error) {
	resp, err := client.Get(baseURL + "/api/v1/accounts/" + accountID + "/balance")
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch balance for %s: %w", accountID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return decimal.Zero, fmt.Errorf("balance for %s returned status %d: %s", accountID, resp.StatusCode, string(body))
	}

	var payload struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse balance for %s: %w", accountID, err)
	}
	return payload.Balance, nil
}

func renderBalances(w io.Writer, balances []accountBalance) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ACCOUNT\tNAME\tBALANCE\n")
	for _, b := range balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.ID, b.Name, b.Balance.String())
	}
	tw.Flush()
}

type consistencyReport struct {
	Status                   string          `json:"status"`
	Consistent               bool            `json:"consistent"`
	GrandTotal               decimal.Decimal `json:"grand_total"`
	UnbalancedTransactionIDs []string        `json:"unbalanced_transaction_ids"`
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}
	report, err := fetchConsistency(client)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	renderConsistency(os.Stdout, report)

	if !report.Consistent {
		os.Exit(1)
	}
}

func fetchConsistency(client *http.Client) (*consistencyReport, error) {
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Broken books come back as 409 with the same report body.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusConflict {
		return nil, fmt.Errorf("consistency check returned status %d: %s", resp.StatusCode, string(body))
	}

	var report consistencyReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &report, nil
}

func renderConsistency(w io.Writer, report *consistencyReport) {
	if report.Consistent {
		fmt.Fprintf(w, "Consistency check PASSED\n")
	} else {
		fmt.Fprintf(w, "Consistency check FAILED\n")
	}
	fmt.Fprintf(w, "Status: %s\n", report.Status)
	fmt.Fprintf(w, "Grand total: %s\n", report.GrandTotal.String())
	for _, id := range report.UnbalancedTransactionIDs {
		fmt.Fprintf(w, "Unbalanced transaction: %s\n", id)
	}
}
