package sqlite

import (
	"database/sql/driver"
	"strings"

	msqlite "modernc.org/sqlite"
)

// foldFunc is the SQL name of a lower() that folds every Unicode letter.
// The built-in LOWER only folds ASCII.
const foldFunc = "unicode_lower"

func init() {
	if err := msqlite.RegisterDeterministicScalarFunction(foldFunc, 1, unicodeLower); err != nil {
		panic(err)
	}
}

func unicodeLower(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
