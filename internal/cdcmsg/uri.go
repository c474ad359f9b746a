package cdcmsg

import "strings"

// MakeURI builds the "flv://<resource>/<db>[/<table>]" identifier carried
// on every envelope. table is empty when the event has no associated
// table (a database-scoped Query operation).
func MakeURI(resourceName, db, table string) string {
	uri := "flv://" + resourceName + "/" + db
	if table != "" {
		uri += "/" + table
	}
	return uri
}

// ParseURI splits a MakeURI-shaped string back into its db and table
// parts. table is empty for a database-scoped URI.
func ParseURI(uri string) (resourceName, db, table string, ok bool) {
	rest := strings.TrimPrefix(uri, "flv://")
	if rest == uri {
		return "", "", "", false
	}
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 {
		return "", "", "", false
	}
	resourceName = parts[0]
	db = parts[1]
	if len(parts) == 3 {
		table = parts[2]
	}
	return resourceName, db, table, true
}
