/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: values.go
Description: Field type inference for the tabjson converter. Maps raw cell text
plus its column name and the conversion options to a JSON value: null, boolean,
integer, float, or string. Pure and total; anything unparseable stays a string.
*/

package conversion

import (
	"math"
	"strconv"
	"strings"

	"github.com/kleascm/tabjson/pkg/interfaces"
)

// ConvertFieldValue resolves one raw field to its JSON value. Resolution
// depends only on the field text, its column name, and the options, never on
// sibling fields or prior rows.
//
// Order: the NoTypeConversion switch wins over everything; a StringFields
// membership wins over smart inference; smart inference maps empty text to
// null, case-insensitive true/false to booleans, applies the leading-zero
// rule, then tries integer and float parses before falling back to the
// verbatim string.
func ConvertFieldValue(field, headerName string, opts interfaces.Options) interface{} {
	if opts.NoTypeConversion {
		return stringOrNull(field)
	}
	if opts.StringField(headerName) {
		return stringOrNull(field)
	}

	if field == "" {
		return nil
	}
	if strings.EqualFold(field, "true") {
		return true
	}
	if strings.EqualFold(field, "false") {
		return false
	}

	// Leading zeros mark identifiers (zipcodes, phone numbers) that would
	// lose significant digits through a numeric round-trip.
	if hasLeadingZero(field) {
		return field
	}

	if n, err := strconv.ParseInt(field, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return field
		}
		return f
	}

	return field
}

// hasLeadingZero reports whether field starts with a zero that is not the
// whole value and not a decimal "0." prefix.
func hasLeadingZero(field string) bool {
	return strings.HasPrefix(field, "0") && len(field) > 1 && !strings.HasPrefix(field, "0.")
}

func stringOrNull(field string) interface{} {
	if field == "" {
		return nil
	}
	return field
}
