package experiment

import (
	"fmt"
	"io"
	"strings"

	"github.com/born-ml/digitbench/internal/trainer"
)

// FormatResult renders one report line:
//
//	<name>. Coefficients count <c>. Multiplications count <m>. Maximum accuracy <pct> on epoch <e>.
//
// followed by " Mean accuracy <pct> Median accuracy <pct>." when the result
// carries a summary. Percentages have two decimals.
func FormatResult(name string, r *trainer.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s. Coefficients count %d. Multiplications count %d. Maximum accuracy %s on epoch %d.",
		name, r.CoefficientCount, r.MultiplyCount, percent(r.MaxAccuracy), r.MaxAccuracyEpoch)
	if r.Summary != nil {
		fmt.Fprintf(&b, " Mean accuracy %s Median accuracy %s.", percent(r.Summary.Mean), percent(r.Summary.Median))
	}
	return b.String()
}

// PrintResult writes FormatResult followed by a newline.
func PrintResult(w io.Writer, name string, r *trainer.Result) error {
	_, err := fmt.Fprintln(w, FormatResult(name, r))
	return err
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f", v*100)
}
