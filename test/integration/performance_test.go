package integration

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/tax-regime-simulator/internal/config"
	"github.com/iwvelando/tax-regime-simulator/internal/regime"
	"github.com/iwvelando/tax-regime-simulator/internal/simulation"
	"github.com/iwvelando/tax-regime-simulator/pkg/forminput"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	logger := zap.NewNop()

	start := time.Now()
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	start = time.Now()
	results, err := simulation.Run(logger, *conf)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	runTime := time.Since(start)

	t.Logf("Performance metrics:")
	t.Logf("  Config loading: %v", loadTime)
	t.Logf("  Simulations:    %v (%d results)", runTime, len(results))

	if runTime > time.Second {
		t.Errorf("simulations took too long: %v", runTime)
	}
}

// TestDataConsistency runs the fixture repeatedly and expects identical output.
func TestDataConsistency(t *testing.T) {
	first := runFixture(t)
	for i := 0; i < 5; i++ {
		again := runFixture(t)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d results, expected %d", i, len(again), len(first))
		}
		for j := range first {
			if first[j].Name != again[j].Name || first[j].NotApplicable != again[j].NotApplicable {
				t.Fatalf("run %d: result %d differs", i, j)
			}
			if first[j].Ranked == nil {
				continue
			}
			if first[j].Ranked.Best.Regime != again[j].Ranked.Best.Regime ||
				!first[j].Ranked.Savings.Equal(again[j].Ranked.Savings) {
				t.Fatalf("run %d: ranking of %s differs", i, first[j].Name)
			}
		}
	}
}

// TestConcurrentEvaluation exercises the engine from many goroutines.
func TestConcurrentEvaluation(t *testing.T) {
	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				raw := forminput.RawProfile{
					MonthlyRevenue: fmt.Sprintf("%d", (w*perWorker+i)*12345),
					Sector:         []string{"comercio", "servicos", "industria"}[i%3],
					EmployeeCount:  fmt.Sprintf("%d", i%25),
				}
				ranked, err := regime.EvaluateAllRegimes(raw.Profile())
				if err != nil {
					errs <- err
					return
				}
				if ranked.Savings.IsNegative() {
					errs <- fmt.Errorf("negative savings for %+v", raw)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func BenchmarkEvaluateAllRegimes(b *testing.B) {
	profile := forminput.RawProfile{MonthlyRevenue: "R$ 48.500,00", Sector: "servicos", EmployeeCount: "6"}.Profile()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := regime.EvaluateAllRegimes(profile); err != nil {
			b.Fatal(err)
		}
	}
}
