package mysql

import (
	"fmt"
	"regexp"
	"strings"

	"hotelverse/internal/domain"
)

// Field names are spliced into JSON paths, so only plain identifiers are allowed.
var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// compileFind builds a parameterized SELECT for the documents of collection matching f.
func compileFind(collection string, f domain.Filter) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString(findDocumentsPrefix)
	args := []any{collection}

	for _, c := range f {
		if !fieldName.MatchString(c.Field) {
			return "", nil, fmt.Errorf("mysql: invalid filter field %q", c.Field)
		}
		path := "'$." + c.Field + "'"
		switch c.Op {
		case domain.OpEq:
			if _, isString := c.Value.(string); isString {
				sb.WriteString(" AND JSON_UNQUOTE(JSON_EXTRACT(body, " + path + ")) = ?")
			} else {
				sb.WriteString(" AND JSON_EXTRACT(body, " + path + ") = ?")
			}
		case domain.OpGte:
			sb.WriteString(" AND JSON_EXTRACT(body, " + path + ") >= ?")
		default:
			return "", nil, fmt.Errorf("mysql: unsupported filter op %q on %s", c.Op, c.Field)
		}
		args = append(args, c.Value)
	}
	sb.WriteString(" ORDER BY seq")
	return sb.String(), args, nil
}
