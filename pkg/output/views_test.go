package output

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewResultViews(t *testing.T) {
	views := NewResultViews(sampleResults(t))
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}

	loja := views[0]
	if loja.Comparison == nil || loja.Estimate == nil {
		t.Fatalf("expected comparison and estimate, got %+v", loja)
	}
	if loja.Comparison.Best != "SimplesNacional" {
		t.Errorf("Best = %s", loja.Comparison.Best)
	}
	if loja.Comparison.Savings != 1205 || loja.Comparison.AnnualSavings != 14460 {
		t.Errorf("Savings = %v / %v", loja.Comparison.Savings, loja.Comparison.AnnualSavings)
	}
	wantRanking := []string{"SimplesNacional", "LucroReal", "LucroPresumido"}
	if strings.Join(loja.Comparison.Ranking, ",") != strings.Join(wantRanking, ",") {
		t.Errorf("Ranking = %v, expected %v", loja.Comparison.Ranking, wantRanking)
	}

	mei := loja.Comparison.Results[0]
	if mei.Eligible || mei.MonthlyTax != nil || mei.EffectiveRate != nil {
		t.Errorf("ineligible MEI should carry no liability, got %+v", mei)
	}
	simples := loja.Comparison.Results[1]
	if simples.MonthlyTax == nil || *simples.MonthlyTax != 400 || *simples.EffectiveRate != 0.04 {
		t.Errorf("unexpected Simples view %+v", simples)
	}

	if loja.Estimate.CurrentTax != 800 || loja.Estimate.EstimatedSavings != 200 || loja.Estimate.AnnualSavings != 2400 {
		t.Errorf("unexpected estimate view %+v", loja.Estimate)
	}

	if !views[1].NotApplicable || views[1].Comparison != nil {
		t.Errorf("expected not-applicable view, got %+v", views[1])
	}
}

func TestJSONString(t *testing.T) {
	s, err := JSONString(sampleResults(t))
	if err != nil {
		t.Fatalf("JSONString() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded))
	}
	if strings.Contains(s, "Inf") || strings.Contains(s, "NaN") {
		t.Errorf("output must not contain sentinel values:\n%s", s)
	}
	if _, ok := decoded[1]["comparison"]; ok {
		t.Errorf("not-applicable result should omit comparison")
	}
}

func TestJSONFormat(t *testing.T) {
	results := sampleResults(t)
	var formatErr error
	output := captureStdout(t, func() {
		formatErr = JSONFormat(results)
	})
	if formatErr != nil {
		t.Fatalf("JSONFormat() error = %v", formatErr)
	}
	expected, _ := JSONString(results)
	if output != expected {
		t.Errorf("JSONFormat output differs from JSONString")
	}
}
