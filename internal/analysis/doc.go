// Package analysis summarizes logged flight data.
//
// [Summarize] reduces one log column to its range, mean and final value, and [Spectrum]
// and [DominantPeriod] look for oscillations such as the phugoid in a trimmed run:
//
//	l, _ := output.ReadLog("cruise.csv")
//	r, _ := analysis.Column(l, "Altitude ASL (ft)")
//	fmt.Println(r.Period)
package analysis
