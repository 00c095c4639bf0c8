// Package tracker provides the core of a personal portfolio tracking
// application. It is designed to be local-first: all state lives in a
// handful of JSON files owned by the user, and every operation works on
// plain in-memory data.
//
// The core functionalities include:
//   - Ingestion: turning spreadsheets, delimited text files and OCR'd
//     screenshots into a normalized list of holdings, tolerant of
//     inconsistent column naming, locale-formatted numbers and noisy
//     recognition output.
//   - Classification: remembering the asset type, region, target
//     allocation and currency a user assigns to each instrument, and
//     re-applying those decisions to freshly imported data.
//   - Allocation: computing per-holding and per-category allocation
//     percentages against two denominators (invested-only and
//     invested-plus-cash), with all values normalized to EUR.
//   - Reconciliation: merging a newly imported snapshot into the existing
//     portfolio without clobbering manually curated classifications.
//   - Reference rates: a user-editable exchange rate table with a one-shot
//     refresh from the Frankfurter reference-rate service.
//
// This package serves as the foundational logic for the `pat` command-line
// tool; anything presentation-related is a caller concern.
package tracker
