// Package extract turns heterogeneous source files into normalized document
// records. A classifier routes each file by extension to one of three
// processors (document, email, archive) or to the generic loader; every
// processor walks an ordered ladder of strategies from richest to crudest,
// so a file that defeats enhanced extraction still yields a usable record.
//
// Total failure never surfaces as an error from Process: the terminal rung
// produces a record whose content describes the failure and whose metadata
// carries processing_method "error". Only an unreachable path or an unknown
// extension is reported to the caller.
package extract
