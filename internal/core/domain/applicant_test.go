package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleApplicant() Applicant {
	return Applicant{
		MonthlySalary:     50000,
		CreditScore:       720,
		BankBalance:       150000,
		YearsOfEmployment: 4.5,
		RequestedAmount:   300000,
		RequestedTenure:   24,
		MonthlyRent:       12000,
		SchoolFees:        3000,
		CollegeFees:       0,
		TravelExpenses:    2000,
		Groceries:         6000,
		OtherExpenses:     1000,
		CurrentEMI:        6000,
		FamilySize:        4,
		Dependents:        2,
	}
}

func TestApplicant_TotalExpenses(t *testing.T) {
	assert.Equal(t, 30000.0, sampleApplicant().TotalExpenses())
}

func TestApplicant_Features(t *testing.T) {
	f := sampleApplicant().Features()

	assert.Len(t, f, 12)
	assert.Equal(t, 50000.0, f[FeatureMonthlySalary])
	assert.Equal(t, 30000.0, f[FeatureTotalExpenses])
	assert.Equal(t, 20000.0, f[FeatureMonthlySavings])
	assert.InDelta(t, 0.6, f[FeatureExpenseRatio], 1e-9)
	assert.InDelta(t, 0.12, f[FeatureEMISalaryRatio], 1e-9)
	assert.InDelta(t, 3.0, f[FeatureBalanceSalaryRatio], 1e-9)
	assert.InDelta(t, 0.5, f[FeatureDependentsRatio], 1e-9)
	assert.Equal(t, 720.0, f[FeatureCreditScore])
	assert.Equal(t, 4.5, f[FeatureYearsOfEmployment])
}

func TestApplicant_Features_ZeroDenominators(t *testing.T) {
	a := Applicant{Dependents: 3}

	f := a.Features()

	assert.Zero(t, f[FeatureExpenseRatio])
	assert.Zero(t, f[FeatureEMISalaryRatio])
	assert.Zero(t, f[FeatureBalanceSalaryRatio])
	assert.Zero(t, f[FeatureDependentsRatio])
}

func TestApplicant_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Applicant)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Applicant) {}},
		{name: "zero salary", mutate: func(a *Applicant) { a.MonthlySalary = 0 }, wantErr: true},
		{name: "credit score too low", mutate: func(a *Applicant) { a.CreditScore = 250 }, wantErr: true},
		{name: "credit score too high", mutate: func(a *Applicant) { a.CreditScore = 901 }, wantErr: true},
		{name: "unset credit score", mutate: func(a *Applicant) { a.CreditScore = 0 }},
		{name: "negative rent", mutate: func(a *Applicant) { a.MonthlyRent = -1 }, wantErr: true},
		{name: "negative dependents", mutate: func(a *Applicant) { a.Dependents = -1 }, wantErr: true},
		{name: "negative tenure", mutate: func(a *Applicant) { a.RequestedTenure = -6 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := sampleApplicant()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFeatures_Vector(t *testing.T) {
	f := sampleApplicant().Features()

	vec, err := f.Vector([]string{FeatureCreditScore, FeatureMonthlySavings, FeatureExpenseRatio})

	require.NoError(t, err)
	assert.Equal(t, 720.0, vec[0])
	assert.Equal(t, 20000.0, vec[1])
	assert.InDelta(t, 0.6, vec[2], 1e-9)
}

func TestFeatures_Vector_UnknownFeature(t *testing.T) {
	f := sampleApplicant().Features()

	_, err := f.Vector([]string{FeatureCreditScore, "loan_purpose"})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "loan_purpose")
}

func TestFeatures_Names_Sorted(t *testing.T) {
	names := sampleApplicant().Features().Names()

	require.Len(t, names, 12)
	assert.Equal(t, FeatureBalanceSalaryRatio, names[0])
	assert.Equal(t, FeatureYearsOfEmployment, names[len(names)-1])
}

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 2.5, SafeDiv(5, 2))
	assert.Zero(t, SafeDiv(5, 0))
	assert.Zero(t, SafeDiv(0, 0))
}
