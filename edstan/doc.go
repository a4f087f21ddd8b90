// Package edstan prepares item-response data for Bayesian estimation with
// Stan and reassembles the resulting posterior samples into item-level and
// person-level summaries.
//
// The package normalizes arbitrary item and person identifiers to the dense
// 1-based indices a Stan model expects, converts wide (person × item)
// response tables to long triples, checks per-item response integrity,
// assembles the canonical data block, invokes a compiled CmdStan model, and
// regroups the flat posterior output by item, rating-scale step and ability
// distribution.
//
//	ds, _ := edstan.DataFromWide(matrix)
//	model, _ := edstan.Default().Model("rasch", edstan.NewCmdStan("./stan/bin"))
//	fit, _ := model.Fit(ctx, ds)
//	items, _ := fit.ItemSummary()
//	items.Render(os.Stdout)
package edstan
