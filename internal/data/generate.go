package data

import (
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var checkingStatus = []string{"A11", "A12", "A13", "A14"}
var creditHistory = []string{"A30", "A31", "A32", "A33", "A34"}
var purposes = []string{"A40", "A41", "A42", "A43", "A44", "A45", "A46", "A48", "A49", "A410"}
var savings = []string{"A61", "A62", "A63", "A64", "A65"}
var employment = []string{"A71", "A72", "A73", "A74", "A75"}
var housing = []string{"A151", "A152", "A153"}

// CreditHeader is the column layout written by GenerateSyntheticCredit.
var CreditHeader = []string{
	"checking_status", "duration", "credit_history", "purpose", "credit_amount",
	"savings", "employment", "installment_rate", "age", "housing", "existing_credits", "class",
}

// GenerateSyntheticCredit writes n German-credit style records to outPath.
// The class column is 1 for good and 2 for bad risk. seed 0 uses the clock.
func GenerateSyntheticCredit(n int, outPath string, seed int64) error {
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(CreditHeader); err != nil {
		return err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		if err := w.Write(creditRecord(rng)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func creditRecord(rng *rand.Rand) []string {
	checking := rng.Intn(len(checkingStatus))
	history := rng.Intn(len(creditHistory))
	duration := 4 + rng.Intn(69)
	amount := 250 + rng.Float64()*15000
	saving := rng.Intn(len(savings))
	employ := rng.Intn(len(employment))
	rate := 1 + rng.Intn(4)
	age := 19 + rng.Intn(57)
	house := rng.Intn(len(housing))
	credits := 1 + rng.Intn(4)

	score := 0.1
	if checking == 0 {
		score += 0.3
	}
	if checking == 3 {
		score -= 0.1
	}
	if history <= 1 {
		score += 0.2
	}
	if duration > 36 {
		score += 0.2
	}
	if amount > 10000 {
		score += 0.15
	}
	if saving == 0 {
		score += 0.1
	}
	if employ <= 1 {
		score += 0.1
	}
	if age < 25 {
		score += 0.1
	}
	class := 1
	if rng.Float64() < score {
		class = 2
	}

	return []string{
		checkingStatus[checking],
		strconv.Itoa(duration),
		creditHistory[history],
		purposes[rng.Intn(len(purposes))],
		strconv.FormatFloat(amount, 'f', 0, 64),
		savings[saving],
		employment[employ],
		strconv.Itoa(rate),
		strconv.Itoa(age),
		housing[house],
		strconv.Itoa(credits),
		strconv.Itoa(class),
	}
}
