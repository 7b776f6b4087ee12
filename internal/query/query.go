// Package query translates request query strings into MongoDB queries and
// executes them with a paginated envelope: filtering with gt/gte/lt/lte/in
// operators, field selection, multi-key sorting, pagination and reference
// population. Everything here is request-local by construction; nothing is
// shared between concurrent invocations.
package query

import (
	"context"
	"strconv"
	"strings"

	"hobbyhub/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultLimit = 20
	DefaultSort  = "name"
)

// reserved keys never become filters
var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

var operators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

type Page struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

type Pagination struct {
	Next *Page `json:"next,omitempty"`
	Prev *Page `json:"prev,omitempty"`
}

// Params is a parsed, request-local query description.
type Params struct {
	Filter     bson.M
	Projection bson.D
	Sort       bson.D
	Page       int64
	Limit      int64
}

// Populate describes a reference expansion: the document field holding the
// foreign key, the collection it points into, and the projected sub-fields.
type Populate struct {
	Path   string
	Coll   *mongo.Collection
	Select []string
}

// Result is the paginated list envelope. Count is the total number of
// matching documents ignoring pagination; Data holds the current page only.
type Result struct {
	Count      int64
	Pagination Pagination
	Data       []bson.M
}

// Parse builds Params from the raw query-string map (fiber's c.Queries()).
// Comparison operators arrive as bracketed keys, e.g. averageCost[gte]=10.
func Parse(queries map[string]string) (*Params, error) {
	p := &Params{
		Filter: bson.M{},
		Page:   1,
		Limit:  DefaultLimit,
	}

	for key, value := range queries {
		if reserved[key] {
			continue
		}
		field, op, err := splitOperator(key)
		if err != nil {
			return nil, err
		}
		if op == "" {
			p.Filter[field] = coerce(value)
			continue
		}
		if op == "$in" {
			parts := strings.Split(value, ",")
			list := make([]interface{}, 0, len(parts))
			for _, part := range parts {
				list = append(list, coerce(part))
			}
			mergeOperator(p.Filter, field, op, list)
			continue
		}
		mergeOperator(p.Filter, field, op, coerce(value))
	}

	if sel := queries["select"]; sel != "" {
		for _, field := range strings.Split(sel, ",") {
			p.Projection = append(p.Projection, bson.E{Key: strings.TrimSpace(field), Value: 1})
		}
	}

	p.Sort = parseSort(queries["sort"])

	var err error
	if p.Page, err = parsePositive(queries["page"], 1); err != nil {
		return nil, apperror.New("Invalid page parameter", fiber.StatusBadRequest)
	}
	if p.Limit, err = parsePositive(queries["limit"], DefaultLimit); err != nil {
		return nil, apperror.New("Invalid limit parameter", fiber.StatusBadRequest)
	}

	return p, nil
}

// splitOperator decomposes "field[op]" keys. A bare key has no operator.
func splitOperator(key string) (field, op string, err error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, "", nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", apperror.Newf(fiber.StatusBadRequest, "Malformed query parameter: %s", key)
	}
	name := key[open+1 : len(key)-1]
	mongoOp, ok := operators[name]
	if !ok {
		return "", "", apperror.Newf(fiber.StatusBadRequest, "Invalid query operator: %s", name)
	}
	return key[:open], mongoOp, nil
}

// mergeOperator allows ranges like cost[gte]=5&cost[lte]=20 on one field.
func mergeOperator(filter bson.M, field, op string, value interface{}) {
	if existing, ok := filter[field].(bson.M); ok {
		existing[op] = value
		return
	}
	filter[field] = bson.M{op: value}
}

// coerce maps query-string scalars onto the types Mongo compares with.
func coerce(s string) interface{} {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func parseSort(sort string) bson.D {
	if sort == "" {
		sort = DefaultSort
	}
	var out bson.D
	for _, field := range strings.Split(sort, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		out = append(out, bson.E{Key: field, Value: dir})
	}
	return out
}

func parsePositive(s string, fallback int64) (int64, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, apperror.New("must be a positive integer", fiber.StatusBadRequest)
	}
	return n, nil
}

// Run executes the parsed query against a collection. The total count is
// computed before pagination so Pagination.Next/Prev reflect the full match
// set while Data carries only the requested page.
func Run(ctx context.Context, coll *mongo.Collection, p *Params, populate *Populate) (*Result, error) {
	total, err := coll.CountDocuments(ctx, p.Filter)
	if err != nil {
		return nil, err
	}

	skip := (p.Page - 1) * p.Limit
	opts := options.Find().SetSkip(skip).SetLimit(p.Limit).SetSort(p.Sort)
	if len(p.Projection) > 0 {
		opts.SetProjection(p.Projection)
	}

	cursor, err := coll.Find(ctx, p.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	if populate != nil {
		if err := populateRefs(ctx, docs, populate); err != nil {
			return nil, err
		}
	}

	return &Result{
		Count:      total,
		Pagination: paginate(total, p.Page, p.Limit),
		Data:       docs,
	}, nil
}

func paginate(total, page, limit int64) Pagination {
	var pg Pagination
	if page*limit < total {
		pg.Next = &Page{Page: page + 1, Limit: limit}
	}
	if (page-1)*limit > 0 {
		pg.Prev = &Page{Page: page - 1, Limit: limit}
	}
	return pg
}

// populateRefs replaces foreign-key values with a projection of the
// referenced documents, fetched in a single query.
func populateRefs(ctx context.Context, docs []bson.M, pop *Populate) error {
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, doc := range docs {
		if id, ok := doc[pop.Path].(primitive.ObjectID); ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	projection := bson.D{}
	for _, field := range pop.Select {
		projection = append(projection, bson.E{Key: field, Value: 1})
	}
	opts := options.Find()
	if len(projection) > 0 {
		opts.SetProjection(projection)
	}

	cursor, err := pop.Coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var refs []bson.M
	if err := cursor.All(ctx, &refs); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]bson.M, len(refs))
	for _, ref := range refs {
		if id, ok := ref["_id"].(primitive.ObjectID); ok {
			byID[id] = ref
		}
	}

	for _, doc := range docs {
		if id, ok := doc[pop.Path].(primitive.ObjectID); ok {
			if ref, found := byID[id]; found {
				doc[pop.Path] = ref
			}
		}
	}
	return nil
}
