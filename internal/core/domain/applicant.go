package domain

import (
	"fmt"
	"sort"
)

// Applicant holds the raw monthly financial figures entered for one loan applicant.
type Applicant struct {
	MonthlySalary     float64 `json:"monthly_salary"`
	CreditScore       float64 `json:"credit_score"`
	BankBalance       float64 `json:"bank_balance"`
	YearsOfEmployment float64 `json:"years_of_employment"`
	RequestedAmount   float64 `json:"requested_amount"`
	RequestedTenure   float64 `json:"requested_tenure"`

	MonthlyRent    float64 `json:"monthly_rent"`
	SchoolFees     float64 `json:"school_fees"`
	CollegeFees    float64 `json:"college_fees"`
	TravelExpenses float64 `json:"travel_expenses"`
	Groceries      float64 `json:"groceries_utilities"`
	OtherExpenses  float64 `json:"other_monthly_expenses"`
	CurrentEMI     float64 `json:"current_emi_amount"`

	FamilySize float64 `json:"family_size"`
	Dependents float64 `json:"dependents"`
}

// TotalExpenses sums every monthly outgoing, including the current EMI.
func (a Applicant) TotalExpenses() float64 {
	return a.MonthlyRent + a.SchoolFees + a.CollegeFees +
		a.TravelExpenses + a.Groceries + a.OtherExpenses + a.CurrentEMI
}

// Validate rejects inputs outside the ranges the input forms allow.
func (a Applicant) Validate() error {
	switch {
	case a.MonthlySalary <= 0:
		return fmt.Errorf("%w: monthly salary must be positive", ErrInvalidInput)
	case a.CreditScore != 0 && (a.CreditScore < 300 || a.CreditScore > 900):
		return fmt.Errorf("%w: credit score must be between 300 and 900", ErrInvalidInput)
	case a.RequestedTenure < 0:
		return fmt.Errorf("%w: requested tenure must not be negative", ErrInvalidInput)
	case a.FamilySize < 0 || a.Dependents < 0:
		return fmt.Errorf("%w: family size and dependents must not be negative", ErrInvalidInput)
	}
	for _, v := range []float64{a.BankBalance, a.YearsOfEmployment, a.RequestedAmount,
		a.MonthlyRent, a.SchoolFees, a.CollegeFees, a.TravelExpenses,
		a.Groceries, a.OtherExpenses, a.CurrentEMI} {
		if v < 0 {
			return fmt.Errorf("%w: amounts must not be negative", ErrInvalidInput)
		}
	}
	return nil
}

// Feature names produced by Features.
const (
	FeatureMonthlySalary      = "monthly_salary"
	FeatureTotalExpenses      = "total_expenses"
	FeatureMonthlySavings     = "monthly_savings"
	FeatureExpenseRatio       = "expense_ratio"
	FeatureEMISalaryRatio     = "emi_salary_ratio"
	FeatureBalanceSalaryRatio = "balance_salary_ratio"
	FeatureCreditScore        = "credit_score"
	FeatureRequestedAmount    = "requested_amount"
	FeatureRequestedTenure    = "requested_tenure"
	FeatureBankBalance        = "bank_balance"
	FeatureYearsOfEmployment  = "years_of_employment"
	FeatureDependentsRatio    = "dependents_ratio"
)

// Features maps feature name to value.
type Features map[string]float64

// Features derives the fixed ratio feature set used by both models.
func (a Applicant) Features() Features {
	expenses := a.TotalExpenses()
	return Features{
		FeatureMonthlySalary:      a.MonthlySalary,
		FeatureTotalExpenses:      expenses,
		FeatureMonthlySavings:     a.MonthlySalary - expenses,
		FeatureExpenseRatio:       SafeDiv(expenses, a.MonthlySalary),
		FeatureEMISalaryRatio:     SafeDiv(a.CurrentEMI, a.MonthlySalary),
		FeatureBalanceSalaryRatio: SafeDiv(a.BankBalance, a.MonthlySalary),
		FeatureCreditScore:        a.CreditScore,
		FeatureRequestedAmount:    a.RequestedAmount,
		FeatureRequestedTenure:    a.RequestedTenure,
		FeatureBankBalance:        a.BankBalance,
		FeatureYearsOfEmployment:  a.YearsOfEmployment,
		FeatureDependentsRatio:    SafeDiv(a.Dependents, a.FamilySize),
	}
}

// Vector orders feature values by a model's feature list.
// Every name must be a known feature.
func (f Features) Vector(names []string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, ok := f[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown feature %q", ErrInvalidInput, name)
		}
		out[i] = v
	}
	return out, nil
}

// Names returns the feature names sorted alphabetically.
func (f Features) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SafeDiv divides a by b, returning 0 when b is 0.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
