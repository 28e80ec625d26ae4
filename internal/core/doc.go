// Package core provides the data logic for the OTT usage dashboard.
//
// This package contains all dataset logic independent of any UI or
// transport layer. It is used by the web server, the CLI, and tests.
//
// # Render Cycle
//
// Every request runs the same linear pass over an immutable [Table]:
//
//  1. [ClassifyTable] decides which columns are identifiers and which are
//     services, trying [WideStrategy] then [LongStrategy].
//  2. [Melt] reshapes the table into long-form [Observation] records.
//  3. [DeriveOptions] lists the sex, age and service choices, with age
//     groups ordered by [AgeSortKey].
//  4. [Filter] selects the records for each chart.
//  5. [BuildDashboard] assembles the sections and their notices.
//
// [Service] wraps the cycle around a cached [Source].
//
// # Missing Values
//
// Cells that are not usable numbers never fail a reshape. [ParsePercent]
// returns pgtype.Float8 with Valid=false, which serializes to JSON null.
//
// # Error Handling
//
// Failures are sorted into classes, tested with errors.Is:
//
//   - [ErrDataUnavailable]: the source could not be read. Fatal.
//   - [ErrSchemaMismatch]: expected columns are missing. Fatal; the error
//     names the columns.
//   - [ErrEmptySelection]: a filter matched nothing. The section shows a notice.
//
// [MapError] turns any of them into a [UserMessage] with a support code:
//
//   - DATA001-DATA003: dataset read errors
//   - SCH001-SCH002: schema errors
//   - SEL001-SEL002: selection errors
//   - REQ001-REQ002, RATE001, AUTH001: request errors
package core
