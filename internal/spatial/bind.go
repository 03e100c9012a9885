package spatial

import "strconv"

// UseDefault is the field value that asks for the column DEFAULT
const UseDefault = "__USE_DEFAULT__"

// BindValue renders one column value for an INSERT or UPDATE statement.
// placeholder is the $n index the value would take. Constructor calls are
// inlined as typed by the user, bare WKT is bound inside ST_GeomFromText, and
// NULL / DEFAULT are written literally. args holds the values to bind.
func BindValue(value *string, placeholder int) (fragment string, args []interface{}) {
	if value == nil {
		return "NULL", nil
	}

	v := *value
	param := "$" + strconv.Itoa(placeholder)
	switch {
	case v == UseDefault:
		return "DEFAULT", nil
	case IsRawSQLFunction(v):
		return v, nil
	case IsRawWKT(v):
		return "ST_GeomFromText(" + param + ")", []interface{}{v}
	default:
		return param, []interface{}{v}
	}
}
