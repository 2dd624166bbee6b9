package sqlitec

import "github.com/nsqlite/nsqlitec/internal/util/syncutil"

var statementIDs syncutil.Counter

// nextStatementID hands out process-wide statement ids. They only correlate
// trace records and errors and carry no other meaning.
var nextStatementID = statementIDs.Next
