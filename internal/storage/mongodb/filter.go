package mongodb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"hotelverse/internal/domain"
)

// toBSON translates a domain filter into a query document.
func toBSON(f domain.Filter) (bson.D, error) {
	q := bson.D{}
	for _, c := range f {
		switch c.Op {
		case domain.OpEq:
			q = append(q, bson.E{Key: c.Field, Value: c.Value})
		case domain.OpGte:
			q = append(q, bson.E{Key: c.Field, Value: bson.D{{Key: "$gte", Value: c.Value}}})
		default:
			return nil, fmt.Errorf("mongodb: unsupported filter op %q on %s", c.Op, c.Field)
		}
	}
	return q, nil
}
