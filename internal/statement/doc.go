// Package statement turns an uploaded bank-statement workbook into a list of
// normalized transactions.
//
// The first worksheet is read, its header row is matched against known
// Spanish column names (Fecha, Descripción, Cargos, Abonos) and every
// remaining row is normalized independently. Problems with a single row are
// reported as warnings and never abort the batch; structural problems with the
// workbook are returned as a *ParseError.
//
// Parsing is a pure function of the input bytes: nothing is persisted and no
// state is shared between calls, so a Parser may be used concurrently.
package statement
