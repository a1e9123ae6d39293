package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

var (
	featuresApplicant domain.Applicant
	featuresInput     string
	featuresNames     []string
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Derive model features for an applicant",
	Long: `Compute the engineered features the EMI models consume from an
applicant's monthly figures and print them as JSON.

Figures come from flags, or from a JSON document with --input (use "-" for
stdin). Flags given alongside --input override the document. Pass --names
to also print the values ordered as a model's feature list.`,
	Example: `  emiprdict features --salary 50000 --credit-score 720 --rent 12000
  emiprdict features --input applicant.json --names credit_score,expense_ratio`,
	Args: cobra.NoArgs,
	RunE: runFeatures,
}

func init() {
	f := featuresCmd.Flags()
	a := &featuresApplicant
	f.Float64Var(&a.MonthlySalary, "salary", 0, "Monthly salary")
	f.Float64Var(&a.CreditScore, "credit-score", 0, "Credit score (300-900)")
	f.Float64Var(&a.BankBalance, "bank-balance", 0, "Bank balance")
	f.Float64Var(&a.YearsOfEmployment, "years-employed", 0, "Years of employment")
	f.Float64Var(&a.RequestedAmount, "requested-amount", 0, "Requested loan amount")
	f.Float64Var(&a.RequestedTenure, "requested-tenure", 0, "Requested tenure in months")
	f.Float64Var(&a.MonthlyRent, "rent", 0, "Monthly rent")
	f.Float64Var(&a.SchoolFees, "school-fees", 0, "Monthly school fees")
	f.Float64Var(&a.CollegeFees, "college-fees", 0, "Monthly college fees")
	f.Float64Var(&a.TravelExpenses, "travel", 0, "Monthly travel expenses")
	f.Float64Var(&a.Groceries, "groceries", 0, "Monthly groceries and utilities")
	f.Float64Var(&a.OtherExpenses, "other-expenses", 0, "Other monthly expenses")
	f.Float64Var(&a.CurrentEMI, "current-emi", 0, "Current EMI amount")
	f.Float64Var(&a.FamilySize, "family-size", 0, "Family size")
	f.Float64Var(&a.Dependents, "dependents", 0, "Number of dependents")
	f.StringVarP(&featuresInput, "input", "i", "", "Read the applicant from a JSON file (- for stdin)")
	f.StringSliceVar(&featuresNames, "names", nil, "Feature order for the output vector")
	rootCmd.AddCommand(featuresCmd)
}

// featuresOutput is the JSON printed by the features command.
type featuresOutput struct {
	Features domain.Features `json:"features"`
	Vector   []float64       `json:"vector,omitempty"`
}

func runFeatures(cmd *cobra.Command, _ []string) error {
	applicant, err := readApplicant(cmd)
	if err != nil {
		return err
	}
	if err := applicant.Validate(); err != nil {
		return err
	}

	out := featuresOutput{Features: applicant.Features()}
	if len(featuresNames) > 0 {
		out.Vector, err = out.Features.Vector(featuresNames)
		if err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// readApplicant merges the --input document with explicitly set flags.
func readApplicant(cmd *cobra.Command) (domain.Applicant, error) {
	if featuresInput == "" {
		return featuresApplicant, nil
	}

	var r io.Reader = cmd.InOrStdin()
	if featuresInput != "-" {
		f, err := os.Open(featuresInput)
		if err != nil {
			return domain.Applicant{}, fmt.Errorf("open applicant: %w", err)
		}
		defer f.Close()
		r = f
	}

	var applicant domain.Applicant
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&applicant); err != nil {
		return domain.Applicant{}, fmt.Errorf("%w: decode applicant: %v", domain.ErrInvalidInput, err)
	}

	flags := cmd.Flags()
	override := func(name string, dst *float64, v float64) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	a := featuresApplicant
	override("salary", &applicant.MonthlySalary, a.MonthlySalary)
	override("credit-score", &applicant.CreditScore, a.CreditScore)
	override("bank-balance", &applicant.BankBalance, a.BankBalance)
	override("years-employed", &applicant.YearsOfEmployment, a.YearsOfEmployment)
	override("requested-amount", &applicant.RequestedAmount, a.RequestedAmount)
	override("requested-tenure", &applicant.RequestedTenure, a.RequestedTenure)
	override("rent", &applicant.MonthlyRent, a.MonthlyRent)
	override("school-fees", &applicant.SchoolFees, a.SchoolFees)
	override("college-fees", &applicant.CollegeFees, a.CollegeFees)
	override("travel", &applicant.TravelExpenses, a.TravelExpenses)
	override("groceries", &applicant.Groceries, a.Groceries)
	override("other-expenses", &applicant.OtherExpenses, a.OtherExpenses)
	override("current-emi", &applicant.CurrentEMI, a.CurrentEMI)
	override("family-size", &applicant.FamilySize, a.FamilySize)
	override("dependents", &applicant.Dependents, a.Dependents)
	return applicant, nil
}
