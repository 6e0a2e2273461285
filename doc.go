// Package heac implements inverse materials design for cermets: given
// target windows for hardness and fracture toughness, it searches the
// composition and process space for candidates whose predicted
// properties land inside both windows.
//
// The search is a constrained stochastic loop. Each trial proposes a
// composition, validates it against the constraint space, predicts its
// properties through surrogate models, scores the predictions against
// the targets, and offers the result to a Pareto archive. The archive's
// non-dominated survivors are ranked into recommendations when the
// trial or time budget runs out.
//
// Key Components:
//
//   - Materials: composition and process parameter types, canonical
//     signatures, and the constraint space that bounds the search.
//
//   - Features: the elemental-statistics extractor that turns a
//     composition into the feature map the models consume.
//
//   - Models: the predictor contract, the proxy ensemble for
//     DFT-derived quantities, and the empirical property surrogates.
//
//   - Evaluation: the per-candidate pipeline with signature-keyed
//     result caching (in-memory or SQLite).
//
//   - Pareto: target-range scoring, dominance, and the non-dominated
//     archive.
//
//   - Sampler: log-uniform exploration and population-based
//     recombination strategies.
//
//   - Design: the concurrent run loop, YAML run configs, batch
//     execution, and recommendation ranking.
//
//   - Datasets: Parquet input of measured reference cermets and
//     Parquet export of archived candidates.
//
// A minimal run:
//
//	cfg := design.RunConfig{
//		Targets: pareto.Targets{
//			HV:  materials.Bounds{Lo: 1500, Hi: 1800},
//			KIC: materials.Bounds{Lo: 10, Hi: 14},
//		},
//		Budget: 1000,
//	}
//	d, err := design.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report, err := d.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, rec := range report.Recommendations {
//		fmt.Println(rec.Rank, rec.Entry.Signature)
//	}
package heac
